// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides a callback-driven event loop on top of the popol registry: readiness dispatches to per-source handlers, and RunInLoop hands closures from any goroutine to the loop goroutine via a waker.
package reactor
