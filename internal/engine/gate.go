package engine

import (
	"sync"

	"github.com/xzdarcy/rete/internal/registry"
)

// slot is the memoized result of one node for one run. It is installed once
// and settled once; any number of goroutines may wait on it.
type slot struct {
	done    chan struct{}
	outputs registry.Outputs
	err     error
}

func newSlot() *slot {
	return &slot{done: make(chan struct{})}
}

func (s *slot) settle(outputs registry.Outputs, err error) {
	s.outputs = outputs
	s.err = err
	close(s.done)
}

// wait blocks until the slot is settled. Slots always settle because the
// goroutine that installs one runs the component inline.
func (s *slot) wait() (registry.Outputs, error) {
	<-s.done
	return s.outputs, s.err
}

func (s *slot) isSettled() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// gate is the per-run single-flight table. The mutex is held only while a
// slot is looked up or installed, never while a component runs.
type gate struct {
	mu    sync.Mutex
	slots map[string]*slot
}

func newGate() *gate {
	return &gate{slots: make(map[string]*slot)}
}

// claim returns the slot of node id. The first caller installs a fresh,
// pending slot and gets claimed == true; it is then responsible for settling
// it. Every other caller gets the same slot.
func (g *gate) claim(id string) (s *slot, claimed bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.slots[id]; ok {
		return s, false
	}
	s = newSlot()
	g.slots[id] = s
	return s, true
}

// peek reports whether node id already has a slot.
func (g *gate) peek(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.slots[id]
	return ok
}

// snapshot returns a copy of the slot table.
func (g *gate) snapshot() map[string]*slot {
	g.mu.Lock()
	defer g.mu.Unlock()
	cp := make(map[string]*slot, len(g.slots))
	for id, s := range g.slots {
		cp[id] = s
	}
	return cp
}
