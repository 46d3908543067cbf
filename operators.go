// SPDX-License-Identifier: GPL-3.0
// Copyright 2022 Pete Heist

package circuit

import "context"

// evalOperator drains ch according to the early-termination rule for kind,
// and returns the decided value. It returns ErrCancelled if ctx is done
// before the value is decided. n is the node's arity and k is its
// Threshold(), used only by GTKind/LTKind.
func evalOperator(ctx context.Context, kind Kind, n, k int, ch *childChannel) (
	bool, error) {
	switch kind {
	case NotKind:
		return evalNot(ctx, ch)
	case AndKind:
		return evalAnd(ctx, ch, n)
	case OrKind:
		return evalOr(ctx, ch, n)
	case IfKind:
		return evalIf(ctx, ch)
	case GTKind:
		return evalGT(ctx, ch, n, k)
	case LTKind:
		return evalLT(ctx, ch, n, k)
	default:
		panic("circuit: evalOperator called with unhandled Kind")
	}
}

// evalNot returns the negation of its one child's value.
func evalNot(ctx context.Context, ch *childChannel) (v bool, err error) {
	var m childMsg
	if m, err = ch.recv(ctx); err != nil {
		return
	}
	v = !m.value
	return
}

// evalAnd returns false as soon as any child is false, else true once all n
// children are true.
func evalAnd(ctx context.Context, ch *childChannel, n int) (bool, error) {
	for i := 0; i < n; i++ {
		m, err := ch.recv(ctx)
		if err != nil {
			return false, err
		}
		if !m.value {
			return false, nil
		}
	}
	return true, nil
}

// evalOr returns true as soon as any child is true, else false once all n
// children are false.
func evalOr(ctx context.Context, ch *childChannel, n int) (bool, error) {
	for i := 0; i < n; i++ {
		m, err := ch.recv(ctx)
		if err != nil {
			return false, err
		}
		if m.value {
			return true, nil
		}
	}
	return false, nil
}

// evalGT returns true as soon as more than k children are true, false as
// soon as that becomes unattainable, and false immediately if k is already
// unattainable given n.
func evalGT(ctx context.Context, ch *childChannel, n, k int) (bool, error) {
	if k >= n {
		return false, nil
	}
	t, r := 0, n
	for i := 0; i < n; i++ {
		m, err := ch.recv(ctx)
		if err != nil {
			return false, err
		}
		r--
		if m.value {
			t++
		}
		if t > k {
			return true, nil
		}
		if t+r <= k {
			return false, nil
		}
	}
	return t > k, nil
}

// evalLT returns false as soon as k or more children are true, true as soon
// as that becomes unavoidable, and true immediately if k already exceeds n.
func evalLT(ctx context.Context, ch *childChannel, n, k int) (bool, error) {
	if k > n {
		return true, nil
	}
	t, r := 0, n
	for i := 0; i < n; i++ {
		m, err := ch.recv(ctx)
		if err != nil {
			return false, err
		}
		r--
		if m.value {
			t++
		}
		if t >= k {
			return false, nil
		}
		if t+r < k {
			return true, nil
		}
	}
	return t < k, nil
}

// evalIf implements the condition/then/else rule described in spec §4.4: if
// the condition arrives first, it waits for the chosen branch, ignoring any
// intervening message from the other branch. If both branches arrive before
// the condition and agree, their common value is returned without waiting
// for the condition. evalIf assumes it's called on a node with exactly
// three children (condition, then, else), validated before any Worker is
// spawned.
func evalIf(ctx context.Context, ch *childChannel) (bool, error) {
	const condIndex, thenIndex, elseIndex = 0, 1, 2
	var have [3]bool
	var val [3]bool
	haveCond := false
	want := -1 // the branch index we're waiting for, once the condition is known
	for {
		m, err := ch.recv(ctx)
		if err != nil {
			return false, err
		}
		have[m.index] = true
		val[m.index] = m.value

		if m.index == condIndex {
			haveCond = true
			want = thenIndex
			if !m.value {
				want = elseIndex
			}
			if have[want] {
				return val[want], nil
			}
			continue
		}
		if haveCond {
			if m.index == want {
				return val[want], nil
			}
			continue // the non-chosen branch arrived; ignore it
		}
		if have[thenIndex] && have[elseIndex] && val[thenIndex] == val[elseIndex] {
			return val[thenIndex], nil
		}
	}
}
