// Package autoplug implements the engine from spec §4.B: given a newly
// appeared pad and its caps, decide whether to expose it, recurse into a
// demuxer-created group, discard it, wait for fixed caps, or declare it
// unknown. Grounded on the teacher's connection dispatch loop
// (internal/rtmp/conn/conn.go), generalized from a fixed RTMP message
// dispatch table to a recursive, policy-hookable decision procedure.
package autoplug

import "github.com/alxayo/go-decodebin/internal/core/element"

// Outcome is the result of analyzing a pad, spec §4.B's five outcomes.
type Outcome int

const (
	OutcomeExpose Outcome = iota
	OutcomeUnknown
	OutcomeDiscarded
	OutcomeNonFixedDelay
	OutcomeRecursed // connect_pad committed a new element; caller should continue downstream
)

func (o Outcome) String() string {
	switch o {
	case OutcomeExpose:
		return "expose"
	case OutcomeUnknown:
		return "unknown"
	case OutcomeDiscarded:
		return "discarded"
	case OutcomeNonFixedDelay:
		return "non-fixed-delay"
	case OutcomeRecursed:
		return "recursed"
	default:
		return "unknown-outcome"
	}
}

// SelectAction is the verdict of the autoplug-select policy hook.
type SelectAction int

const (
	SelectTry SelectAction = iota
	SelectExpose
	SelectSkip
)

// Result carries AnalyzePad's decision plus enough context for the caller
// (lifecycle coordinator) to act on it.
type Result struct {
	Outcome Outcome
	Pad     *element.Pad
}
