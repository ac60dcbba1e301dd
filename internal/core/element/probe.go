package element

import "sync"

// BlockProbe is the pad-blocking primitive spec §4.D relies on: a slot
// manager blocks a source pad while it drains buffering or rebalances
// bitrate, then unblocks it once ready; Shutdown permanently releases any
// waiter so teardown never deadlocks on a blocked push. Grounded on the
// teacher's conn.go wait-for-drain condvar pattern, generalized from a
// single shutdown flag to a pausable block/unblock cycle.
type BlockProbe struct {
	mu       sync.Mutex
	cond     *sync.Cond
	blocked  bool
	shutdown bool
}

func NewBlockProbe() *BlockProbe {
	p := &BlockProbe{}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Block engages the probe; subsequent WaitUnlessShutdown calls stall until
// Unblock or Shutdown.
func (p *BlockProbe) Block() {
	p.mu.Lock()
	p.blocked = true
	p.mu.Unlock()
}

// Unblock releases any waiters without shutting the probe down.
func (p *BlockProbe) Unblock() {
	p.mu.Lock()
	p.blocked = false
	p.mu.Unlock()
	p.cond.Broadcast()
}

// Shutdown permanently releases all waiters; subsequent WaitUnlessShutdown
// calls return immediately.
func (p *BlockProbe) Shutdown() {
	p.mu.Lock()
	p.shutdown = true
	p.blocked = false
	p.mu.Unlock()
	p.cond.Broadcast()
}

func (p *BlockProbe) ShuttingDown() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shutdown
}

// WaitUnlessShutdown blocks the calling goroutine while the probe is
// engaged, returning as soon as it's unblocked or shut down.
func (p *BlockProbe) WaitUnlessShutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.blocked && !p.shutdown {
		p.cond.Wait()
	}
}
