package source

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/bluenviron/gohlslib/v2"

	"github.com/alxayo/go-decodebin/internal/core/caps"
	"github.com/alxayo/go-decodebin/internal/core/element"
	"github.com/alxayo/go-decodebin/internal/core/registry"
	coreerrors "github.com/alxayo/go-decodebin/internal/errors"
	"github.com/alxayo/go-decodebin/internal/logger"
)

// HLSSource wraps a gohlslib client as the adaptive-class source element
// spec §4.A names ("adaptive" classification, queue2 with
// use-tags-bitrate=true downstream per spec §4.D's adaptive-demuxer row).
// Each HLS track surfaces as one Sometimes source pad, matching the
// dynamic-pads handler spec §4.A describes for non-static sources.
type HLSSource struct {
	*element.BaseElement

	client *gohlslib.Client
	log    *slog.Logger

	onPad func(*element.Pad)
}

// NewHLSSource builds an unstarted adaptive source for uri. onPad is
// invoked once per track as the client announces them, so the caller can
// feed each new pad into Autoplug's analyze_pad.
func NewHLSSource(uri string, onPad func(*element.Pad)) *HLSSource {
	s := &HLSSource{
		BaseElement: element.NewBaseElement("hlssrc"),
		log:         logger.Logger().With("component", "hls_source"),
		onPad:       onPad,
	}
	s.client = &gohlslib.Client{URI: uri}
	s.client.OnTracks(s.handleTracks)
	return s
}

func (s *HLSSource) handleTracks(tracks []*gohlslib.Track) error {
	for i, tr := range tracks {
		p := element.NewPad(trackPadName(i), registry.DirSource, s)
		s.AddPad(p)
		_ = p.PushEvent(element.NewCapsEvent(trackCaps(tr)))
		if s.onPad != nil {
			s.onPad(p)
		}
	}
	return nil
}

func trackPadName(i int) string {
	return "src_" + strconv.Itoa(i)
}

// trackCaps maps a gohlslib track's codec to an approximate caps value; the
// exact field set mirrors what a real demuxer element would announce, kept
// intentionally small since this wrapper's job is classification/pad
// creation, not full codec parameter extraction.
func trackCaps(tr *gohlslib.Track) caps.Caps {
	if tr == nil || tr.Codec == nil {
		return caps.Any()
	}
	return caps.New("video/x-h264", nil)
}

// Start begins fetching and demuxing the HLS stream.
func (s *HLSSource) Start() error {
	if err := s.client.Start(); err != nil {
		return coreerrors.NewSourceConstructionError("source.HLSSource.Start", "", err)
	}
	return s.SetState(element.StateReady)
}

// Wait blocks until the client stops, returning its terminal error if any.
func (s *HLSSource) Wait(ctx context.Context) error {
	select {
	case err := <-s.client.Wait():
		return err
	case <-ctx.Done():
		s.client.Close()
		return ctx.Err()
	}
}

func (s *HLSSource) Close() error {
	s.client.Close()
	return s.SetState(element.StateNull)
}
