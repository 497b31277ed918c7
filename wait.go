// File: wait.go
//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd
// +build linux darwin dragonfly freebsd netbsd openbsd

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Blocking wait over the registry: one poll(2) call, readiness copied
// back into the descriptors, waker entries drained, ready entries
// exposed as a lazy single-pass event sequence.

package popol

import (
	"fmt"
	"iter"
	"math"
	"time"

	"golang.org/x/sys/unix"
)

// Wait blocks until at least one registered source is ready, the
// timeout elapses, or the kernel reports an error. A zero or negative
// timeout polls and returns immediately. A timeout is not an error: it
// yields an empty Ready batch.
//
// Waker entries that fired are drained here, before Wait returns, so a
// single wake is observed exactly once; they are still delivered to the
// caller as ordinary readable events.
func (r *Registry[K]) Wait(timeout time.Duration) (*Ready[K], error) {
	r.ensureMutable()

	if cap(r.pfds) < len(r.list) {
		r.pfds = make([]unix.PollFd, len(r.list))
	}
	pfds := r.pfds[:len(r.list)]
	for i := range r.list {
		d := &r.list[i]
		d.revents = 0
		pfds[i] = unix.PollFd{Fd: int32(d.fd), Events: int16(d.events)}
	}

	var n int
	ms := pollTimeout(timeout)
	start := time.Now()
	for {
		var err error
		n, err = unix.Poll(pfds, ms)
		if err == unix.EINTR {
			// The Go runtime interrupts slow syscalls routinely;
			// keep waiting for whatever time remains.
			if ms > 0 {
				elapsed := time.Since(start)
				if elapsed >= timeout {
					n = 0
					break
				}
				ms = pollTimeout(timeout - elapsed)
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("poll: %w", err)
		}
		break
	}
	if n == 0 {
		return &Ready[K]{}, nil
	}

	pos := make([]int, 0, n)
	for i := range pfds {
		if pfds[i].Revents == 0 {
			continue
		}
		d := &r.list[i]
		d.revents = Events(pfds[i].Revents)
		if d.waker {
			// A waker reader is registered read-only. Anything else
			// means the registry bookkeeping is corrupt.
			if d.revents&Read == 0 || d.revents&(Write|pollErr|pollNval) != 0 {
				panic(fmt.Sprintf("popol: waker readiness 0x%x is not read-only", d.revents))
			}
			if err := drain(d.fd); err != nil {
				return nil, fmt.Errorf("drain waker: %w", err)
			}
		}
		pos = append(pos, i)
	}

	r.busy = true
	return &Ready[K]{reg: r, pos: pos}, nil
}

// pollTimeout converts a duration to poll(2) milliseconds, rounding
// positive sub-millisecond values up and saturating on overflow.
func pollTimeout(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	ms := d.Milliseconds()
	if ms == 0 {
		return 1
	}
	if ms > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(ms)
}

// Ready is the outcome of one Wait call: a single-pass view over the
// sources that reported readiness, in registration order. While a
// non-empty batch is open the registry rejects mutation; iterating the
// events to completion, or calling Close, releases it.
type Ready[K comparable] struct {
	reg *Registry[K]
	pos []int
}

// IsEmpty reports whether the wait timed out with no readiness.
func (rd *Ready[K]) IsEmpty() bool { return len(rd.pos) == 0 }

// Events returns the (key, event) sequence. The batch closes when the
// sequence is fully consumed or the caller breaks out; afterward the
// sequence is spent and yields nothing.
func (rd *Ready[K]) Events() iter.Seq2[K, Event] {
	return func(yield func(K, Event) bool) {
		reg := rd.reg
		if reg == nil {
			return
		}
		defer rd.Close()
		for _, ix := range rd.pos {
			if !yield(reg.keys[ix], newEvent(&reg.list[ix])) {
				return
			}
		}
	}
}

// Close releases the batch without consuming it. Safe to call twice.
func (rd *Ready[K]) Close() {
	if rd.reg != nil {
		rd.reg.busy = false
		rd.reg = nil
		rd.pos = nil
	}
}
