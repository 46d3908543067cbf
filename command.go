// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package circuit

import (
	"context"

	"cuelang.org/go/cue/load"
)

// Run runs a Command.
func Run(ctx context.Context, cmd Command) error {
	return cmd.run(ctx)
}

// A Command is a circuit command.
type Command interface {
	run(context.Context) error
}

// VetCommand loads and checks the CUE configuration, without solving
// anything.
type VetCommand struct {
}

// run implements Command.
func (*VetCommand) run(context.Context) (err error) {
	_, err = LoadConfig(&load.Config{})
	return
}

// SolveCommand loads the CUE configuration and solves the named circuits
// concurrently, using one Solver for the whole batch so a single Stop (via
// ctx cancellation) tears down every circuit still in flight.
type SolveCommand struct {
	// Names selects which circuits to solve. If empty, every circuit in the
	// configuration is solved.
	Names []string

	// Solved is called with the result of each circuit that finished
	// without being cancelled.
	Solved func(name string, value bool)

	// Cancelled is called for each circuit that was cancelled, whether by
	// ctx or because the Solver was stopped before it finished.
	Cancelled func(name string)
}

// run implements Command.
func (s SolveCommand) run(ctx context.Context) (err error) {
	var c *Config
	if c, err = LoadConfig(&load.Config{}); err != nil {
		return
	}
	names := s.Names
	if len(names) == 0 {
		names = c.Names()
	}
	sv := NewSolver()
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			sv.Stop()
		case <-done:
		}
	}()
	var ec errChans
	for _, name := range names {
		n, ok := c.Circuits[name]
		if !ok {
			continue
		}
		name := name
		ch := ec.make()
		go func() {
			defer close(ch)
			v, e := sv.Solve(n).Await()
			if e != nil {
				if s.Cancelled != nil {
					s.Cancelled(name)
				}
				ch <- e
				return
			}
			if s.Solved != nil {
				s.Solved(name, v)
			}
		}()
	}
	for e := range ec.merge() {
		if err == nil {
			err = e
		}
	}
	return
}
