package trading

import "sync"

// keyedGate admits one holder per key.
type keyedGate struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func newKeyedGate() *keyedGate {
	return &keyedGate{held: make(map[string]struct{})}
}

func (g *keyedGate) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.held[key]; ok {
		return false
	}
	g.held[key] = struct{}{}
	return true
}

func (g *keyedGate) release(key string) {
	g.mu.Lock()
	delete(g.held, key)
	g.mu.Unlock()
}
