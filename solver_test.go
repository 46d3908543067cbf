// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package circuit

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// slowLeaf returns a Leaf that resolves to value after d, setting *completed
// if it runs to completion, or returns ErrCancelled if cancelled first.
func slowLeaf(value bool, d time.Duration, completed *int32) Node {
	return Func(func(ctx context.Context) (bool, error) {
		select {
		case <-time.After(d):
			atomic.StoreInt32(completed, 1)
			return value, nil
		case <-ctx.Done():
			return false, ErrCancelled
		}
	})
}

// awaitWithin fails the test if h doesn't settle within d.
func awaitWithin(t *testing.T, h *ValueHandle, d time.Duration) (bool, error) {
	t.Helper()
	type result struct {
		v   bool
		err error
	}
	rc := make(chan result, 1)
	go func() {
		v, err := h.Await()
		rc <- result{v, err}
	}()
	select {
	case r := <-rc:
		return r.v, r.err
	case <-time.After(d):
		t.Fatalf("Await() did not return within %v", d)
		return false, nil
	}
}

func TestSolverAndAllTrue(t *testing.T) {
	s := NewSolver()
	defer s.Stop()
	h := s.Solve(And(Const(true), Const(true), Const(true)))
	v, err := awaitWithin(t, h, time.Second)
	if err != nil || !v {
		t.Fatalf("Solve(AND(true,true,true)) = (%v, %v), want (true, nil)", v, err)
	}
}

func TestSolverAndShortCircuitsSlowSiblings(t *testing.T) {
	s := NewSolver()
	defer s.Stop()
	var completedSlow, completedVerySlow int32
	n := And(
		slowLeaf(true, 30*time.Millisecond, &completedSlow),
		Const(false),
		slowLeaf(true, 2*time.Second, &completedVerySlow),
	)
	h := s.Solve(n)
	v, err := awaitWithin(t, h, 200*time.Millisecond)
	if err != nil || v != false {
		t.Fatalf("Solve(AND) = (%v, %v), want (false, nil)", v, err)
	}
	time.Sleep(50 * time.Millisecond)
	if atomic.LoadInt32(&completedSlow) != 0 {
		t.Errorf("slow sibling ran to completion, want cancelled")
	}
	if atomic.LoadInt32(&completedVerySlow) != 0 {
		t.Errorf("very slow sibling ran to completion, want cancelled")
	}
}

func TestSolverIfConditionSelectsBranchCancelsOther(t *testing.T) {
	s := NewSolver()
	defer s.Stop()
	var completedElse int32
	n := If(Const(true), Const(false), slowLeaf(true, 2*time.Second, &completedElse))
	h := s.Solve(n)
	v, err := awaitWithin(t, h, 200*time.Millisecond)
	if err != nil || v != false {
		t.Fatalf("Solve(IF) = (%v, %v), want (false, nil)", v, err)
	}
	time.Sleep(50 * time.Millisecond)
	if atomic.LoadInt32(&completedElse) != 0 {
		t.Errorf("unselected branch ran to completion, want cancelled")
	}
}

func TestSolverIfBranchesAgreeCancelsCondition(t *testing.T) {
	s := NewSolver()
	defer s.Stop()
	var completedCond int32
	n := If(slowLeaf(true, 2*time.Second, &completedCond), Const(true), Const(true))
	h := s.Solve(n)
	v, err := awaitWithin(t, h, 200*time.Millisecond)
	if err != nil || v != true {
		t.Fatalf("Solve(IF) = (%v, %v), want (true, nil)", v, err)
	}
	time.Sleep(50 * time.Millisecond)
	if atomic.LoadInt32(&completedCond) != 0 {
		t.Errorf("condition ran to completion, want cancelled")
	}
}

func TestSolverGTShortCircuitsSlowSibling(t *testing.T) {
	s := NewSolver()
	defer s.Stop()
	var completedSlow int32
	n := GT(2, Const(true), Const(true), Const(true), slowLeaf(true, 2*time.Second, &completedSlow))
	h := s.Solve(n)
	v, err := awaitWithin(t, h, 200*time.Millisecond)
	if err != nil || v != true {
		t.Fatalf("Solve(GT(2)) = (%v, %v), want (true, nil)", v, err)
	}
	time.Sleep(50 * time.Millisecond)
	if atomic.LoadInt32(&completedSlow) != 0 {
		t.Errorf("slow sibling ran to completion, want cancelled")
	}
}

func TestSolverStopCancelsOutstandingAndBreaksFuture(t *testing.T) {
	s := NewSolver()
	var completed int32
	h1 := s.Solve(And(slowLeaf(true, 2*time.Second, &completed), Const(true)))
	s.Stop()
	v, err := awaitWithin(t, h1, time.Second)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("first handle: (%v, %v), want ErrCancelled", v, err)
	}
	h2 := s.Solve(Const(true))
	v, err = awaitWithin(t, h2, 100*time.Millisecond)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("second handle: (%v, %v), want ErrCancelled", v, err)
	}
	// Stop is idempotent.
	s.Stop()
	// Await is repeatable and idempotent on both handles.
	v, err = awaitWithin(t, h1, time.Second)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("first handle, second Await: (%v, %v), want ErrCancelled", v, err)
	}
	v, err = awaitWithin(t, h2, 100*time.Millisecond)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("second handle, second Await: (%v, %v), want ErrCancelled", v, err)
	}
}

func TestSolverSolveAfterStopIsBrokenImmediately(t *testing.T) {
	s := NewSolver()
	s.Stop()
	h := s.Solve(Const(true))
	v, err := awaitWithin(t, h, 50*time.Millisecond)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("Solve after Stop: (%v, %v), want ErrCancelled", v, err)
	}
}

func TestSolverSolveMalformedCircuitIsBrokenImmediately(t *testing.T) {
	s := NewSolver()
	defer s.Stop()
	h := s.Solve(&opNode{kind: NotKind, children: nil})
	v, err := awaitWithin(t, h, 50*time.Millisecond)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("Solve(malformed): (%v, %v), want ErrCancelled", v, err)
	}
}

func TestSolverConcurrentSolves(t *testing.T) {
	s := NewSolver()
	defer s.Stop()
	const n = 16
	handles := make([]*ValueHandle, n)
	for i := 0; i < n; i++ {
		handles[i] = s.Solve(Or(Const(i%2 == 0), Const(false)))
	}
	for i, h := range handles {
		v, err := awaitWithin(t, h, time.Second)
		if err != nil {
			t.Fatalf("handle %d: error %v", i, err)
		}
		if v != (i%2 == 0) {
			t.Errorf("handle %d = %v, want %v", i, v, i%2 == 0)
		}
	}
}
