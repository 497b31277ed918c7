// File: descriptor.go
//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd
// +build linux darwin dragonfly freebsd netbsd openbsd

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-source registry record: file descriptor, requested interest and
// the readiness observed by the most recent Wait call.

package popol

// Source is any endpoint exposing a pollable file descriptor, such as
// *os.File. The registry never takes ownership of the descriptor;
// closing it remains the caller's job and must happen only after the
// source is unregistered.
type Source interface {
	Fd() uintptr
}

// RawFd adapts a bare file descriptor to the Source interface.
type RawFd uintptr

// Fd returns the descriptor itself.
func (fd RawFd) Fd() uintptr { return uintptr(fd) }

// Descriptor is the registry's record for one registered source.
type Descriptor struct {
	fd      int
	events  Events // requested interest
	revents Events // observed readiness, overwritten by each Wait
	waker   bool   // reader half of a Waker pair, owned by the registry
}

// Fd returns the native descriptor this record watches.
func (d *Descriptor) Fd() int { return d.fd }

// Interest returns the currently requested interest set.
func (d *Descriptor) Interest() Events { return d.events }

// Set adds the given flags to the requested interest set.
func (d *Descriptor) Set(events Events) { d.events |= events }

// Unset removes the given flags from the requested interest set.
func (d *Descriptor) Unset(events Events) { d.events &^= events }
