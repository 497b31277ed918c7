// File: event.go
//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd
// +build linux darwin dragonfly freebsd netbsd openbsd

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Typed view over one descriptor's observed readiness bits.

package popol

import "os"

// Event describes why a registered source fired during a Wait call.
// Hangup and Errored are reported regardless of the requested interest.
type Event struct {
	// Readable means the source can be read without blocking.
	Readable bool
	// Writable means the source can be written without blocking.
	Writable bool
	// Hangup means the peer closed its end of the source.
	Hangup bool
	// Errored means an error or invalid-descriptor condition was reported.
	Errored bool
	// Descriptor is the registry entry that produced this event.
	Descriptor *Descriptor
}

// newEvent translates the descriptor's observed readiness into facets.
func newEvent(d *Descriptor) Event {
	return Event{
		Readable:   d.revents&Read != 0,
		Writable:   d.revents&Write != 0,
		Hangup:     d.revents&pollHup != 0,
		Errored:    d.revents&(pollErr|pollNval) != 0,
		Descriptor: d,
	}
}

// File wraps the event's descriptor in an *os.File so the caller can
// perform the actual I/O. No ownership is transferred: the returned
// file shares the descriptor with its true owner, and using it after
// that owner closed the descriptor is the caller's bug to avoid.
func (e Event) File(name string) *os.File {
	return os.NewFile(uintptr(e.Descriptor.fd), name)
}
