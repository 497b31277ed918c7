// File: reactor/loop.go
//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd
// +build linux darwin dragonfly freebsd netbsd openbsd

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Event loop over a popol registry. Sources are keyed by their file
// descriptor; one internal waker breaks the blocking wait whenever a
// cross-goroutine task is queued or the loop is stopped.

package reactor

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"

	"github.com/ChaosStudyGroup/popol"
)

// Handler consumes readiness events for one registered source. It runs
// on the loop goroutine while the event batch is still open, so it must
// not call Handle or Remove directly; queue such changes with RunInLoop
// and they execute right after the batch closes.
type Handler func(ev popol.Event)

// Task is a closure executed on the loop goroutine.
type Task func()

// wakeKey is reserved for the loop's internal waker. Real sources are
// keyed by their descriptor, which is never negative.
const wakeKey = -1

// waitQuantum bounds one blocking wait so a stopped loop without
// traffic still terminates even if the stop wake is lost to a race
// with Close.
const waitQuantum = time.Second

// Loop multiplexes readiness callbacks and queued tasks on a single
// goroutine. Handle and Remove belong to that goroutine; use RunInLoop
// to reach it from anywhere else.
type Loop struct {
	reg      *popol.Registry[int]
	waker    *popol.Waker
	handlers map[int]Handler

	mu      sync.Mutex
	pending *queue.Queue // of Task

	running atomic.Bool
}

// New builds a loop with its internal waker already registered.
func New() (*Loop, error) {
	reg := popol.NewRegistry[int]()
	waker, err := popol.NewWaker(reg, wakeKey)
	if err != nil {
		return nil, err
	}
	return &Loop{
		reg:      reg,
		waker:    waker,
		handlers: make(map[int]Handler),
		pending:  queue.New(),
	}, nil
}

// Handle registers src with the given interest and dispatches its
// readiness to fn.
func (l *Loop) Handle(src popol.Source, events popol.Events, fn Handler) error {
	fd := int(src.Fd())
	if err := l.reg.Register(fd, src, events); err != nil {
		return err
	}
	l.handlers[fd] = fn
	return nil
}

// Remove unregisters src and drops its handler.
func (l *Loop) Remove(src popol.Source) {
	fd := int(src.Fd())
	l.reg.Unregister(fd)
	delete(l.handlers, fd)
}

// RunInLoop queues fn for execution on the loop goroutine and wakes
// the loop. Safe to call from any goroutine.
func (l *Loop) RunInLoop(fn Task) error {
	l.mu.Lock()
	l.pending.Add(fn)
	l.mu.Unlock()
	return l.waker.Wake()
}

// Run blocks dispatching events and tasks until Stop is called or the
// underlying wait fails. A loop that is already running returns
// immediately.
func (l *Loop) Run() error {
	if !l.running.CompareAndSwap(false, true) {
		return nil
	}
	for l.running.Load() {
		ready, err := l.reg.Wait(waitQuantum)
		if err != nil {
			l.running.Store(false)
			return err
		}
		for key, ev := range ready.Events() {
			if key == wakeKey {
				// The wake only exists to break the wait.
				continue
			}
			if fn, ok := l.handlers[key]; ok {
				fn(ev)
			}
		}
		l.drainTasks()
	}
	return nil
}

// Stop makes Run return after the current dispatch pass.
func (l *Loop) Stop() {
	if l.running.CompareAndSwap(true, false) {
		_ = l.waker.Wake()
	}
}

// Close releases the waker pair. The loop must not be running.
func (l *Loop) Close() error {
	err := l.waker.Close()
	if cerr := l.reg.Close(); err == nil {
		err = cerr
	}
	return err
}

// drainTasks runs queued tasks until the queue is observed empty.
// Handlers run outside the Ready batch, so tasks may mutate the
// registry freely.
func (l *Loop) drainTasks() {
	for {
		l.mu.Lock()
		if l.pending.Length() == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.pending.Remove().(Task)
		l.mu.Unlock()
		fn()
	}
}
