// File: registry.go
//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd
// +build linux darwin dragonfly freebsd netbsd openbsd

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Keyed descriptor registry: parallel key and descriptor sequences with
// swap-removal. Keyed operations are deliberately O(n) linear scans;
// poll(2) itself is O(n) per call, so a secondary index would buy
// nothing until the set grows to hundreds of entries.

package popol

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Registry is a keyed collection of descriptors to wait on. It is owned
// by a single goroutine: only a Waker's Wake method may be used from
// other goroutines while that owner is blocked in Wait.
type Registry[K comparable] struct {
	keys []K
	list []Descriptor
	pfds []unix.PollFd // scratch for Wait, reused across calls
	busy bool          // a Ready batch from Wait is still open
}

// NewRegistry returns an empty registry.
func NewRegistry[K comparable]() *Registry[K] {
	return &Registry[K]{}
}

// WithCapacity returns an empty registry with room for n sources.
func WithCapacity[K comparable](n int) *Registry[K] {
	return &Registry[K]{
		keys: make([]K, 0, n),
		list: make([]Descriptor, 0, n),
	}
}

// Register adds src under key with the given interest set. Keys are
// unique: registering an existing key fails with ErrKeyExists.
func (r *Registry[K]) Register(key K, src Source, events Events) error {
	return r.insert(key, Descriptor{fd: int(src.Fd()), events: events})
}

// Unregister removes the source registered under key, if any. The last
// entry is swapped into the vacated slot, so positions observed before
// the call are void afterward. If the entry is the reader half of a
// Waker pair, the registry closes it.
func (r *Registry[K]) Unregister(key K) {
	r.ensureMutable()
	ix := r.position(key)
	if ix < 0 {
		return
	}
	if r.list[ix].waker {
		_ = unix.Close(r.list[ix].fd)
	}
	last := len(r.list) - 1
	r.keys[ix] = r.keys[last]
	r.list[ix] = r.list[last]
	r.keys = r.keys[:last]
	r.list = r.list[:last]
}

// SetInterest replaces the interest set of the source registered under
// key and reports whether the key was found.
func (r *Registry[K]) SetInterest(key K, events Events) bool {
	r.ensureMutable()
	ix := r.position(key)
	if ix < 0 {
		return false
	}
	r.list[ix].events = events
	return true
}

// Get returns the descriptor registered under key, or nil. The pointer
// is valid only until the next mutation of the registry.
func (r *Registry[K]) Get(key K) *Descriptor {
	ix := r.position(key)
	if ix < 0 {
		return nil
	}
	return &r.list[ix]
}

// Len returns the number of registered sources, wakers included.
func (r *Registry[K]) Len() int { return len(r.list) }

// Close releases the reader halves of any wakers still registered. The
// registry never owns caller sources, so those are left untouched.
func (r *Registry[K]) Close() error {
	r.ensureMutable()
	var first error
	for i := range r.list {
		if !r.list[i].waker {
			continue
		}
		if err := unix.Close(r.list[i].fd); err != nil && first == nil {
			first = fmt.Errorf("close waker reader: %w", err)
		}
	}
	r.keys = nil
	r.list = nil
	return first
}

// position finds the key by linear scan, -1 if absent.
func (r *Registry[K]) position(key K) int {
	for i := range r.keys {
		if r.keys[i] == key {
			return i
		}
	}
	return -1
}

func (r *Registry[K]) insert(key K, d Descriptor) error {
	r.ensureMutable()
	if r.position(key) >= 0 {
		return fmt.Errorf("register %v: %w", key, ErrKeyExists)
	}
	r.keys = append(r.keys, key)
	r.list = append(r.list, d)
	return nil
}

// ensureMutable panics when the registry is mutated while events from a
// prior Wait call are still being iterated. Consume or Close the Ready
// batch first.
func (r *Registry[K]) ensureMutable() {
	if r.busy {
		panic("popol: registry mutated while a Ready batch is open")
	}
}
