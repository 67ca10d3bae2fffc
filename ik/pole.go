package ik

import (
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// PoleHandle refers to a pole position held in a PoleRegistry. A handle outlives its pole: once the pole is
// removed the handle is stale and lookups through it fail. The zero handle is always stale.
type PoleHandle struct {
	slot       int
	generation uint64
}

type poleSlot struct {
	point      r3.Vector
	generation uint64
	live       bool
}

// PoleRegistry is a host-owned table of pole positions, in the chain-root frame. Slots are reused after
// removal with a bumped generation so old handles never alias new poles. It is safe for concurrent use.
type PoleRegistry struct {
	mu    sync.RWMutex
	slots []poleSlot
	free  []int
}

// NewPoleRegistry returns an empty registry.
func NewPoleRegistry() *PoleRegistry {
	return &PoleRegistry{}
}

// Add stores a pole and returns its handle.
func (r *PoleRegistry) Add(point r3.Vector) PoleHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	var slot int
	if n := len(r.free); n > 0 {
		slot = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		slot = len(r.slots)
		r.slots = append(r.slots, poleSlot{})
	}
	s := &r.slots[slot]
	s.generation++
	s.point = point
	s.live = true
	return PoleHandle{slot: slot, generation: s.generation}
}

// Set moves a live pole.
func (r *PoleRegistry) Set(h PoleHandle, point r3.Vector) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slotLocked(h)
	if !ok {
		return errors.Wrapf(ErrStalePole, "slot %d generation %d", h.slot, h.generation)
	}
	s.point = point
	return nil
}

// Remove deletes a pole, returning false if the handle was already stale.
func (r *PoleRegistry) Remove(h PoleHandle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slotLocked(h)
	if !ok {
		return false
	}
	s.live = false
	s.generation++
	r.free = append(r.free, h.slot)
	return true
}

// Lookup returns the position of a live pole.
func (r *PoleRegistry) Lookup(h PoleHandle) (r3.Vector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.slotLocked(h)
	if !ok {
		return r3.Vector{}, false
	}
	return s.point, true
}

// Len returns the number of live poles.
func (r *PoleRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots) - len(r.free)
}

func (r *PoleRegistry) slotLocked(h PoleHandle) (*poleSlot, bool) {
	if h.slot < 0 || h.slot >= len(r.slots) {
		return nil, false
	}
	s := &r.slots[h.slot]
	if !s.live || s.generation != h.generation {
		return nil, false
	}
	return s, true
}

// PoleTarget asks the Jacobian solver to swing the joint at serial index JointIndex, usually an elbow,
// towards the pole held at Handle.
type PoleTarget struct {
	Registry   *PoleRegistry
	Handle     PoleHandle
	JointIndex int
}

// resolve returns the pole position, or false when there is no usable pole this call.
func (p *PoleTarget) resolve() (r3.Vector, bool) {
	if p == nil || p.Registry == nil {
		return r3.Vector{}, false
	}
	return p.Registry.Lookup(p.Handle)
}
