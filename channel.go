// SPDX-License-Identifier: GPL-3.0
// Copyright 2022 Pete Heist

package circuit

import "context"

// childMsg is a message delivered by a child Worker to its parent's
// childChannel: the child's argument index and its boolean value. childMsgs
// are produced once per completing child and consumed once by the parent.
type childMsg struct {
	index int
	value bool
}

// childChannel is a bounded, multiple-producer, single-consumer FIFO of
// childMsgs. Its capacity equals the arity of the parent node, so sends
// never block: every producer sends at most one message. Arrival order is
// not argument order.
type childChannel struct {
	c chan childMsg
}

// newChildChannel returns a childChannel with capacity n.
func newChildChannel(n int) *childChannel {
	return &childChannel{c: make(chan childMsg, n)}
}

// send delivers a childMsg. It never blocks: the channel's capacity matches
// the number of producers, and a send into a channel whose consumer has
// already moved on (because the parent decided its value) is a silent
// no-op, since the producing Worker observes cancellation at its own next
// suspension point regardless.
func (c *childChannel) send(index int, value bool) {
	select {
	case c.c <- childMsg{index, value}:
	default:
	}
}

// recv blocks until a childMsg is available or ctx is done, in which case it
// returns ErrCancelled.
func (c *childChannel) recv(ctx context.Context) (childMsg, error) {
	select {
	case m := <-c.c:
		return m, nil
	case <-ctx.Done():
		return childMsg{}, ErrCancelled
	}
}
