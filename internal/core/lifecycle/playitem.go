package lifecycle

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/alxayo/go-decodebin/internal/core/chain"
	"github.com/alxayo/go-decodebin/internal/core/element"
)

// PlayItem is spec §3's (main URI, subtitle URI, group_id) triple used by
// the gapless variant.
type PlayItem struct {
	URI      string
	SubURI   string
	GroupID  chain.GroupId
	StreamID map[string]string // pad name -> carried StreamType, for re-linking on switch
}

// SwitchMode selects spec §4.E's instantaneous-vs-gapless play-item
// switching behavior.
type SwitchMode int

const (
	SwitchInstantaneous SwitchMode = iota
	SwitchGapless
)

// PlaylistCoordinator layers gapless play-item switching atop a Coordinator.
type PlaylistCoordinator struct {
	*Coordinator

	mu     sync.Mutex
	items  []PlayItem
	input  int // index into items, or -1
	output int

	Mode SwitchMode
}

func NewPlaylistCoordinator(c *Coordinator, mode SwitchMode) *PlaylistCoordinator {
	return &PlaylistCoordinator{Coordinator: c, input: -1, output: -1, Mode: mode}
}

// Enqueue appends a play-item to the list.
func (p *PlaylistCoordinator) Enqueue(item PlayItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, item)
	if p.input == -1 {
		p.input = len(p.items) - 1
	}
}

func (p *PlaylistCoordinator) Input() (PlayItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.input < 0 || p.input >= len(p.items) {
		return PlayItem{}, false
	}
	return p.items[p.input], true
}

func (p *PlaylistCoordinator) Output() (PlayItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.output < 0 || p.output >= len(p.items) {
		return PlayItem{}, false
	}
	return p.items[p.output], true
}

// SwitchInstant implements spec §4.E "Instantaneous mode": flush-start on
// all current input sink pads of the autoplug root, block all its source
// pads, flush-stop, then activate the new play-item.
func (p *PlaylistCoordinator) SwitchInstant(rootSinkPads, rootSourcePads []*element.Pad, newURI string) {
	for _, sp := range rootSinkPads {
		_ = sp.PushEvent(element.Event{Type: element.EventFlushStart})
	}
	for _, sp := range rootSourcePads {
		p.blockPad(sp)
	}
	for _, sp := range rootSinkPads {
		_ = sp.PushEvent(element.Event{Type: element.EventFlushStop})
	}

	p.mu.Lock()
	p.items = append(p.items, PlayItem{URI: newURI})
	p.input = len(p.items) - 1
	p.mu.Unlock()

	for _, sp := range rootSourcePads {
		p.unblockPad(sp)
	}
}

// AboutToFinish activates the next play-item in gapless mode. buildMain and
// buildSub each produce a source pad from the new item's main/subtitle URI;
// they run concurrently via errgroup since the two sub-graphs (e.g. a
// container demux and a subtitle parser) share nothing until the relink
// step, mirroring spec §4.E's "pre-activate the next play-item's elements
// while the current one is still playing." buildSub is skipped when item
// has no SubURI.
func (p *PlaylistCoordinator) AboutToFinish(buildMain func(item PlayItem) (*element.Pad, error), buildSub func(item PlayItem) (*element.Pad, error)) ([]*element.Pad, error) {
	p.mu.Lock()
	nextIdx := p.input + 1
	if nextIdx >= len(p.items) {
		p.mu.Unlock()
		return nil, nil
	}
	item := p.items[nextIdx]
	p.input = nextIdx
	p.mu.Unlock()

	var mainPad, subPad *element.Pad
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		mainPad, err = buildMain(item)
		return err
	})
	if item.SubURI != "" && buildSub != nil {
		g.Go(func() error {
			var err error
			subPad, err = buildSub(item)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	newPads := make([]*element.Pad, 0, 2)
	if mainPad != nil {
		newPads = append(newPads, mainPad)
	}
	if subPad != nil {
		newPads = append(newPads, subPad)
	}
	for _, np := range newPads {
		p.blockPad(np)
	}
	return newPads, nil
}

// SwitchGaplessOnDrain performs spec §4.E's gapless relink: for each new
// pad, find an old pad with a matching stream type, unlink the old one
// from its downstream consumer, link the new pad in its place, then
// unblock it. streamType maps a pad to an application-defined
// stream-type key.
func (p *PlaylistCoordinator) SwitchGaplessOnDrain(oldPads, newPads []*element.Pad, streamType func(*element.Pad) string) {
	oldByType := make(map[string]*element.Pad, len(oldPads))
	for _, op := range oldPads {
		oldByType[streamType(op)] = op
	}

	for _, np := range newPads {
		st := streamType(np)
		op, ok := oldByType[st]
		if !ok {
			continue
		}
		downstream := op.Peer()
		op.Unlink()
		if downstream != nil {
			_ = np.Link(downstream)
		}
		p.unblockPad(np)
		delete(oldByType, st)
	}

	p.mu.Lock()
	p.output = p.input
	p.mu.Unlock()
}
