// SPDX-License-Identifier: GPL-3.0
// Copyright 2022 Pete Heist

package circuit

import "context"

// parentBinding is the (channel, index) pair a non-root Worker uses to
// publish its result to its parent.
type parentBinding struct {
	ch    *childChannel
	index int
}

// childHandle tracks one spawned child Worker, so its parent can cancel and
// join it.
type childHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// runWorker evaluates the subtree rooted at n, publishing its result to
// parent.ch at parent.index if parent is non-nil, or to handle if this is
// the root Worker. runWorker owns and joins every Worker it spawns for n's
// children before it returns, on every exit path.
func runWorker(ctx context.Context, n Node, parent *parentBinding,
	handle *ValueHandle) {
	if leaf, ok := n.(Leaf); ok {
		v, err := leaf.Read(ctx)
		if err != nil {
			publishBroken(parent, handle)
			return
		}
		publishValue(parent, handle, v)
		return
	}

	children := n.Children()
	arity := len(children)
	ch := newChildChannel(arity)
	hh := make([]childHandle, arity)
	for i, c := range children {
		cctx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		hh[i] = childHandle{cancel, done}
		go func(i int, c Node, cctx context.Context, done chan struct{}) {
			defer close(done)
			runWorker(cctx, c, &parentBinding{ch, i}, nil)
		}(i, c, cctx, done)
	}

	v, err := evalOperator(ctx, n.Kind(), arity, n.Threshold(), ch)

	// Cancel every still-running child, then join all of them, regardless
	// of outcome: a decided result makes the stragglers unreachable, and a
	// cancelled one must still be fully reaped before this Worker exits.
	for _, c := range hh {
		c.cancel()
	}
	for _, c := range hh {
		<-c.done
	}

	if err != nil {
		publishBroken(parent, handle)
		return
	}
	publishValue(parent, handle, v)
}

// publishValue delivers a decided value to this Worker's parent channel, or
// the root ValueHandle.
func publishValue(parent *parentBinding, handle *ValueHandle, v bool) {
	if handle != nil {
		handle.publish(v)
		return
	}
	parent.ch.send(parent.index, v)
}

// publishBroken records a cancelled outcome on the root ValueHandle. Non-root
// Workers publish nothing on cancellation: their parent observes the absence
// of a message only via its own cancellation, never via a value.
func publishBroken(parent *parentBinding, handle *ValueHandle) {
	if handle != nil {
		handle.brk()
	}
}

// validateCircuit recursively checks that every node's arity matches its
// Kind, returning ErrMalformedCircuit on the first mismatch. It's run once,
// eagerly, over the whole tree before any Worker is spawned (see spec §9's
// open question on IF's arity).
func validateCircuit(n Node) error {
	if _, ok := n.(Leaf); ok {
		return nil
	}
	children := n.Children()
	switch n.Kind() {
	case NotKind:
		if len(children) != 1 {
			return ErrMalformedCircuit
		}
	case IfKind:
		if len(children) != 3 {
			return ErrMalformedCircuit
		}
	case AndKind, OrKind, GTKind, LTKind:
		if len(children) == 0 {
			return ErrMalformedCircuit
		}
	default:
		return ErrMalformedCircuit
	}
	for _, c := range children {
		if err := validateCircuit(c); err != nil {
			return err
		}
	}
	return nil
}
