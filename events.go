// File: events.go
//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd
// +build linux darwin dragonfly freebsd netbsd openbsd

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Interest and readiness flags, mirroring the poll(2) event bits.

package popol

import "golang.org/x/sys/unix"

// Events is a bitmask of interest or readiness flags for one source.
type Events int16

const (
	// Read means the source is ready to be read.
	Read Events = pollIn | pollPri
	// Write means the source is ready to be written.
	Write Events = pollOut | pollWrBand
)

// Raw poll(2) bits. Error, hangup and invalid conditions are reported
// by the kernel whether or not they were requested, so they carry no
// exported interest constant.
const (
	pollIn   Events = unix.POLLIN
	pollPri  Events = unix.POLLPRI
	pollOut  Events = unix.POLLOUT
	pollErr  Events = unix.POLLERR
	pollHup  Events = unix.POLLHUP
	pollNval Events = unix.POLLNVAL
)
