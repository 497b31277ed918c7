// File: reactor/loop_test.go
//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd
// +build linux darwin dragonfly freebsd netbsd openbsd

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package reactor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/ChaosStudyGroup/popol"
	"github.com/ChaosStudyGroup/popol/reactor"
)

func startLoop(t *testing.T) (*reactor.Loop, chan error) {
	t.Helper()
	loop, err := reactor.New()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- loop.Run() }()

	t.Cleanup(func() {
		loop.Stop()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("loop did not stop")
		}
		require.NoError(t, loop.Close())
	})
	return loop, done
}

func TestRunInLoopExecutesTask(t *testing.T) {
	loop, _ := startLoop(t)

	ran := make(chan struct{})
	require.NoError(t, loop.RunInLoop(func() { close(ran) }))

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("queued task never ran")
	}
}

func TestHandleDispatchesReadiness(t *testing.T) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	require.NoError(t, err)
	for _, fd := range fds {
		require.NoError(t, unix.SetNonblock(fd, true))
	}
	t.Cleanup(func() {
		_ = unix.Close(fds[0])
		_ = unix.Close(fds[1])
	})

	loop, _ := startLoop(t)

	got := make(chan byte, 1)
	require.NoError(t, loop.RunInLoop(func() {
		_ = loop.Handle(popol.RawFd(fds[0]), popol.Read, func(ev popol.Event) {
			if !ev.Readable {
				return
			}
			var buf [1]byte
			if n, err := unix.Read(fds[0], buf[:]); err == nil && n == 1 {
				select {
				case got <- buf[0]:
				default:
				}
			}
		})
	}))

	_, err = unix.Write(fds[1], []byte{0x42})
	require.NoError(t, err)

	select {
	case b := <-got:
		require.Equal(t, byte(0x42), b)
	case <-time.After(5 * time.Second):
		t.Fatal("handler never saw the byte")
	}
}

func TestStopTerminatesRun(t *testing.T) {
	loop, err := reactor.New()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- loop.Run() }()

	// Give Run a moment to enter its wait before stopping it.
	time.Sleep(50 * time.Millisecond)
	loop.Stop()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
	require.NoError(t, loop.Close())
}
