// File: errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package popol

import "errors"

var (
	// ErrKeyExists is returned by Register when the key is already in use.
	ErrKeyExists = errors.New("key already registered")
	// ErrWakerClosed is returned by Wake after the waker was closed.
	ErrWakerClosed = errors.New("waker is closed")
)
