// SPDX-License-Identifier: GPL-3.0
// Copyright 2022 Pete Heist

package circuit

import (
	"context"
	"sync"
)

// Solver accepts Circuit submissions, evaluates them in parallel with
// short-circuit cancellation, and can globally and irreversibly stop all
// outstanding and future work. The zero value is not usable; use NewSolver.
type Solver struct {
	mu        sync.Mutex
	accepting bool
	nextID    uint64
	root      map[uint64]rootWorker // live root Worker handles, by id
}

// rootWorker is one in-flight root Worker owned by the Solver.
type rootWorker struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSolver returns a new Solver, ready to accept Solve calls.
func NewSolver() *Solver {
	return &Solver{accepting: true, root: make(map[uint64]rootWorker)}
}

// Solve submits root for evaluation and returns a ValueHandle for its
// result. If the Solver has been stopped, or root is not a well-formed
// circuit, Solve returns a ValueHandle that's already broken. Otherwise it
// returns a pending ValueHandle that a freshly spawned root Worker will
// eventually publish to, or break if the Solver is later stopped. The
// returned ValueHandle may be awaited any number of times, by any number of
// goroutines.
func (s *Solver) Solve(root Node) *ValueHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.accepting {
		return newBrokenHandle()
	}
	if err := validateCircuit(root); err != nil {
		return newBrokenHandle()
	}
	h := newValueHandle()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	id := s.nextID
	s.nextID++
	s.root[id] = rootWorker{cancel, done}
	go func() {
		defer func() {
			close(done)
			s.mu.Lock()
			delete(s.root, id)
			s.mu.Unlock()
		}()
		runWorker(ctx, root, nil, h)
	}()
	return h
}

// Stop irreversibly stops the Solver: it cancels every outstanding root
// Worker, which cascades cancellation through each Worker's subtree and
// breaks every reachable ValueHandle, then waits for every root Worker to
// terminate before returning. After Stop returns, every Solve call returns a
// handle that is already broken. Stop is idempotent; a second and later call
// returns immediately.
func (s *Solver) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.accepting {
		return
	}
	s.accepting = false
	for _, r := range s.root {
		r.cancel()
	}
	for _, r := range s.root {
		<-r.done
	}
}
