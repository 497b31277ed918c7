// File: waker.go
//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd
// +build linux darwin dragonfly freebsd netbsd openbsd

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cross-goroutine wakeup for a blocked Wait, built on a non-blocking
// unix socket pair. The reader half lives in the registry as an
// ordinary read-interest entry; the writer half is held here and
// written to on Wake. Readiness is level-triggered, so a wake issued
// before Wait even starts is still observed.

package popol

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// Waker forces a Wait on its registry to return promptly. Wake is safe
// to call from any goroutine; everything else on the registry belongs
// to its owning goroutine.
type Waker struct {
	writer atomic.Int32
}

// NewWaker creates a socket pair, registers the reader half under key
// with read interest, and returns a Waker holding the writer half.
func NewWaker[K comparable](r *Registry[K], key K) (*Waker, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, fmt.Errorf("socketpair: %w", err)
	}
	reader, writer := fds[0], fds[1]
	for _, fd := range []int{reader, writer} {
		if err := unix.SetNonblock(fd, true); err != nil {
			_ = unix.Close(reader)
			_ = unix.Close(writer)
			return nil, fmt.Errorf("set nonblock: %w", err)
		}
		unix.CloseOnExec(fd)
	}
	if err := r.insert(key, Descriptor{fd: reader, events: Read, waker: true}); err != nil {
		_ = unix.Close(reader)
		_ = unix.Close(writer)
		return nil, err
	}
	w := &Waker{}
	w.writer.Store(int32(writer))
	return w, nil
}

// Wake writes one sentinel byte to the pair. Repeated wakes before the
// next Wait coalesce in the socket buffer; a full buffer therefore
// only means a wake is already pending, so would-block is ignored.
func (w *Waker) Wake() error {
	fd := w.writer.Load()
	if fd < 0 {
		return ErrWakerClosed
	}
	_, err := unix.Write(int(fd), []byte{0x1})
	if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
		return nil
	}
	if err != nil {
		return fmt.Errorf("wake: %w", err)
	}
	return nil
}

// Close releases the writer half. The reader half stays registered and
// is closed by Unregister or Registry.Close.
func (w *Waker) Close() error {
	fd := w.writer.Swap(-1)
	if fd < 0 {
		return nil
	}
	return unix.Close(int(fd))
}

// drain re-arms a waker by discarding exactly one sentinel byte, so one
// wake never surfaces twice. Interrupted reads are retried; would-block
// means another path already drained, and a zero-length read means the
// writer half is gone — neither is a failure.
func drain(fd int) error {
	var buf [1]byte
	for {
		n, err := unix.Read(fd, buf[:])
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN || err == unix.EWOULDBLOCK:
			return nil
		case err != nil:
			return err
		case n == 0:
			return nil
		default:
			return nil
		}
	}
}
