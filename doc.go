// File: doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

/*
Package popol is a minimal, poll(2)-based readiness notification core.

Callers register sources under arbitrary comparable keys, block in Wait
until one or more sources become ready, and receive the fired keys as a
lazy sequence of typed events. A Waker lets another goroutine interrupt
a blocked Wait through the usual self-pipe trick, multiplexed alongside
the real sources.

The package detects readiness only. It owns no endpoints, moves no
payload bytes, and schedules nothing; higher layers such as the reactor
subpackage build their event loops on top of it.

	reg := popol.NewRegistry[string]()
	if err := reg.Register("conn", f, popol.Read); err != nil {
		// ...
	}
	ready, err := reg.Wait(time.Second)
	if err != nil {
		// ...
	}
	for key, ev := range ready.Events() {
		if ev.Readable {
			// read from the source registered under key
		}
	}

A Registry belongs to one goroutine. Waker.Wake is the only operation
intended for concurrent use.
*/
package popol
