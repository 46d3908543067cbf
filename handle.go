// SPDX-License-Identifier: GPL-3.0
// Copyright 2022 Pete Heist

package circuit

import "sync"

// handleState is the state of a ValueHandle.
type handleState int

const (
	pending handleState = iota
	ready
	broken
)

// ValueHandle is a write-once latch carrying the eventual boolean result of
// a Solve call, or a broken outcome if the computation was cancelled. A
// ValueHandle from newValueHandle starts pending and makes exactly one
// transition, to either ready or broken; one from newBrokenHandle starts
// broken and never changes. It may be awaited any number of
// times, by any number of goroutines.
type ValueHandle struct {
	mu    sync.Mutex
	cond  *sync.Cond
	state handleState
	value bool
}

// newValueHandle returns a new, pending ValueHandle.
func newValueHandle() *ValueHandle {
	h := &ValueHandle{}
	h.cond = sync.NewCond(&h.mu)
	return h
}

// newBrokenHandle returns a ValueHandle that's already broken. It's used for
// Solve calls that are rejected outright, so they still return a ValueHandle
// rather than a distinct error type.
func newBrokenHandle() *ValueHandle {
	return &ValueHandle{state: broken}
}

// Await blocks until the ValueHandle leaves the pending state, then returns
// its value, or ErrCancelled if the ValueHandle became broken. Await may be
// called repeatedly; each call re-reads the final state.
func (h *ValueHandle) Await() (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for h.state == pending {
		h.cond.Wait()
	}
	if h.state == broken {
		return false, ErrCancelled
	}
	return h.value, nil
}

// publish sets the ValueHandle to ready(v), waking all Awaiters. publish
// panics if the ValueHandle is already ready, which indicates a Worker
// published twice. If the ValueHandle already lost the pending state to a
// racing break, publish is a silent no-op, since that's a valid terminal
// state for a cancelled computation.
func (h *ValueHandle) publish(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch h.state {
	case pending:
		h.state = ready
		h.value = v
		h.cond.Broadcast()
	case ready:
		panic("circuit: double publish")
	case broken:
		// lost the race to an external break; a valid, benign outcome.
	}
}

// brk sets the ValueHandle to broken, waking all Awaiters. It's idempotent:
// if the ValueHandle already left pending, brk is a no-op.
func (h *ValueHandle) brk() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == pending {
		h.state = broken
		h.cond.Broadcast()
	}
}
