package service

import "sync"

// flightToken proves ownership of the single sync slot. Only the holder can
// release it.
type flightToken struct {
	seq uint64
}

// flightGuard allows at most one sync in flight. A second caller is turned
// away instead of queued.
type flightGuard struct {
	mu     sync.Mutex
	holder *flightToken
	seq    uint64
}

func (g *flightGuard) tryAcquire() (*flightToken, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.holder != nil {
		return nil, false
	}
	g.seq++
	g.holder = &flightToken{seq: g.seq}
	return g.holder, true
}

func (g *flightGuard) release(t *flightToken) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.holder == t {
		g.holder = nil
	}
}

func (g *flightGuard) busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.holder != nil
}
