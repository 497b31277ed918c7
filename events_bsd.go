// File: events_bsd.go
//go:build darwin || dragonfly || freebsd || netbsd || openbsd
// +build darwin dragonfly freebsd netbsd openbsd

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package popol

import "golang.org/x/sys/unix"

const pollWrBand Events = unix.POLLWRBAND
