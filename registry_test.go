// File: registry_test.go
//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd
// +build linux darwin dragonfly freebsd netbsd openbsd

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package popol_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/ChaosStudyGroup/popol"
)

// pair returns both halves of a non-blocking unix socket pair as raw
// descriptors, closed automatically when the test ends.
func pair(t *testing.T) (r, w int) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	require.NoError(t, err)
	for _, fd := range fds {
		require.NoError(t, unix.SetNonblock(fd, true))
	}
	t.Cleanup(func() {
		_ = unix.Close(fds[0])
		_ = unix.Close(fds[1])
	})
	return fds[0], fds[1]
}

func TestRegisterDuplicateKey(t *testing.T) {
	r0, _ := pair(t)
	r1, _ := pair(t)

	reg := popol.NewRegistry[string]()
	require.NoError(t, reg.Register("a", popol.RawFd(r0), popol.Read))

	err := reg.Register("a", popol.RawFd(r1), popol.Read)
	require.ErrorIs(t, err, popol.ErrKeyExists)
	require.Equal(t, 1, reg.Len())
}

func TestSetInterest(t *testing.T) {
	r0, _ := pair(t)

	reg := popol.NewRegistry[string]()
	require.NoError(t, reg.Register("a", popol.RawFd(r0), popol.Read))

	require.True(t, reg.SetInterest("a", popol.Read|popol.Write))
	require.Equal(t, popol.Read|popol.Write, reg.Get("a").Interest())

	// Replaces, never merges.
	require.True(t, reg.SetInterest("a", popol.Write))
	require.Equal(t, popol.Write, reg.Get("a").Interest())

	require.False(t, reg.SetInterest("missing", popol.Read))
}

func TestGetAndUnregister(t *testing.T) {
	r0, _ := pair(t)
	r1, _ := pair(t)

	reg := popol.WithCapacity[string](2)
	require.NoError(t, reg.Register("a", popol.RawFd(r0), popol.Read))
	require.NoError(t, reg.Register("b", popol.RawFd(r1), popol.Read))

	d := reg.Get("a")
	require.NotNil(t, d)
	require.Equal(t, r0, d.Fd())
	require.Nil(t, reg.Get("missing"))

	reg.Unregister("a")
	require.Equal(t, 1, reg.Len())
	require.Nil(t, reg.Get("a"))
	require.NotNil(t, reg.Get("b"))

	// Absent keys are a no-op.
	reg.Unregister("a")
	require.Equal(t, 1, reg.Len())
}

func TestDescriptorSetUnset(t *testing.T) {
	r0, _ := pair(t)

	reg := popol.NewRegistry[string]()
	require.NoError(t, reg.Register("a", popol.RawFd(r0), popol.Read))

	d := reg.Get("a")
	d.Set(popol.Write)
	require.Equal(t, popol.Read|popol.Write, d.Interest())

	d.Unset(popol.Read)
	require.Equal(t, popol.Write, d.Interest())
}
