package source

// Candidate is one redirect target from a multi-location redirect message,
// spec §4.A.
type Candidate struct {
	URI        string
	MinBitrate uint64 // bits/sec, 0 means unknown
	HasBitrate bool
}

// ReorderRedirects implements spec §4.A's redirect reordering: candidates
// with minimum-bitrate <= connectionSpeed first (original order preserved),
// then those without bitrate info, then those over speed — each sublist
// preserving input order. connectionSpeed is in kbit/s per spec §6;
// candidate bitrates are bits/sec, so the comparison converts.
func ReorderRedirects(candidates []Candidate, connectionSpeedKbps uint64) []Candidate {
	speedBps := connectionSpeedKbps * 1000

	var underSpeed, noInfo, overSpeed []Candidate
	for _, c := range candidates {
		switch {
		case !c.HasBitrate:
			noInfo = append(noInfo, c)
		case speedBps == 0 || c.MinBitrate <= speedBps:
			underSpeed = append(underSpeed, c)
		default:
			overSpeed = append(overSpeed, c)
		}
	}

	out := make([]Candidate, 0, len(candidates))
	out = append(out, underSpeed...)
	out = append(out, noInfo...)
	out = append(out, overSpeed...)
	return out
}
