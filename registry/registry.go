// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package registry tracks the lifetime of backend objects.
//
// Every object is registered together with the function that destroys it.
// Objects can then be released one at a time by identity (hot reload) or
// all at once (shutdown):
//
//	reg := registry.New()
//	reg.Register(pipeline, "pipeline", func() { backend.DestroyPipeline(pipeline) })
//	...
//	reg.UnregisterAndDestroy(pipeline) // reload
//	reg.FlushAll()                     // shutdown
//
// The registry is the only owner allowed to destroy a registered object.
// Other holders keep the handle purely for use.
package registry

import (
	"errors"
	"reflect"
	"sort"
	"sync"
)

// Standard tiers. FlushAll destroys higher tiers first.
//
//   - TierDefault: pipelines and other independent objects
//   - TierEarly: objects that must go before the default tier, such as
//     command lists recorded against registered pipelines
const (
	TierDefault = 0
	TierEarly   = 100
)

// Errors.
var (
	// ErrNilHandle is returned when registering a nil handle.
	ErrNilHandle = errors.New("registry: nil handle")

	// ErrNilDestructor is returned when registering without a destructor.
	ErrNilDestructor = errors.New("registry: nil destructor")

	// ErrAlreadyRegistered is returned when the handle is already tracked.
	ErrAlreadyRegistered = errors.New("registry: handle already registered")

	// ErrUncomparable is returned for handles that cannot be used as
	// identity keys (slices, maps, funcs).
	ErrUncomparable = errors.New("registry: handle is not comparable")
)

// Entry describes one tracked object.
type Entry struct {
	// Handle is the tracked object. Compared by identity.
	Handle any

	// Kind is a short description for diagnostics, e.g. "pipeline".
	Kind string

	// Tier orders destruction in FlushAll (higher first).
	Tier int
}

type record struct {
	Entry
	seq     uint64
	destroy func()
}

// Registry maps handles to their destructors.
// The zero value is ready to use. A Registry is safe for concurrent use.
// Destructors always run without the registry lock held, so they may call
// back into the registry.
type Registry struct {
	mu      sync.Mutex
	entries map[any]*record
	seq     uint64
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[any]*record)}
}

// Register tracks handle at TierDefault.
func (r *Registry) Register(handle any, kind string, destroy func()) error {
	return r.RegisterTier(TierDefault, handle, kind, destroy)
}

// RegisterTier tracks handle with an explicit destruction tier.
func (r *Registry) RegisterTier(tier int, handle any, kind string, destroy func()) error {
	if handle == nil {
		return ErrNilHandle
	}
	if destroy == nil {
		return ErrNilDestructor
	}
	if !reflect.TypeOf(handle).Comparable() {
		return ErrUncomparable
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[any]*record)
	}
	if _, ok := r.entries[handle]; ok {
		return ErrAlreadyRegistered
	}
	r.seq++
	r.entries[handle] = &record{
		Entry:   Entry{Handle: handle, Kind: kind, Tier: tier},
		seq:     r.seq,
		destroy: destroy,
	}
	return nil
}

// UnregisterAndDestroy destroys handle and stops tracking it. It returns
// false, doing nothing, when handle is not tracked.
func (r *Registry) UnregisterAndDestroy(handle any) bool {
	if handle == nil || !reflect.TypeOf(handle).Comparable() {
		return false
	}

	r.mu.Lock()
	rec, ok := r.entries[handle]
	if ok {
		delete(r.entries, handle)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	rec.destroy()
	return true
}

// FlushAll destroys every tracked object and empties the registry. Higher
// tiers go first; within a tier the most recently registered object goes
// first. It returns the number of objects destroyed. Calling FlushAll on an
// empty registry does nothing.
func (r *Registry) FlushAll() int {
	r.mu.Lock()
	recs := r.sorted()
	r.entries = make(map[any]*record)
	r.mu.Unlock()

	for _, rec := range recs {
		rec.destroy()
	}
	return len(recs)
}

// Len returns the number of tracked objects.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// Contains reports whether handle is tracked.
func (r *Registry) Contains(handle any) bool {
	if handle == nil || !reflect.TypeOf(handle).Comparable() {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.entries[handle]
	return ok
}

// Entries returns a snapshot of tracked objects in destruction order.
func (r *Registry) Entries() []Entry {
	r.mu.Lock()
	recs := r.sorted()
	r.mu.Unlock()

	out := make([]Entry, len(recs))
	for i, rec := range recs {
		out[i] = rec.Entry
	}
	return out
}

// sorted returns records in destruction order. Caller holds r.mu.
func (r *Registry) sorted() []*record {
	recs := make([]*record, 0, len(r.entries))
	for _, rec := range r.entries {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Tier != recs[j].Tier {
			return recs[i].Tier > recs[j].Tier
		}
		return recs[i].seq > recs[j].seq
	})
	return recs
}
