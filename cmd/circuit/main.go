// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cuelang.org/go/cue/errors"
	"github.com/heistp/circuit"
	"github.com/heistp/circuit/version"
	"github.com/spf13/cobra"
)

// root returns the root cobra command.
func root() (cmd *cobra.Command) {
	cmd = &cobra.Command{
		Use:           "circuit",
		Short:         "Evaluates boolean circuits in parallel with short-circuit cancellation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(vet())
	cmd.AddCommand(solve())
	cmd.Version = version.Version()
	return
}

// vet returns the vet cobra command.
func vet() *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Checks the CUE configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return circuit.Run(context.Background(), &circuit.VetCommand{})
		},
	}
}

// solve returns the solve cobra command.
func solve() (cmd *cobra.Command) {
	ctx, cancel := context.WithCancel(context.Background())
	s := circuit.SolveCommand{
		Solved: func(name string, value bool) {
			fmt.Printf("%s: %t\n", name, value)
		},
		Cancelled: func(name string) {
			fmt.Printf("%s: cancelled\n", name)
		},
	}
	cmd = &cobra.Command{
		Use:   "solve [name] ...",
		Short: "Solves the named circuits, or all circuits if none are named",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			s.Names = args
			sc := make(chan os.Signal, 1)
			signal.Notify(sc, os.Interrupt, syscall.SIGTERM)
			go func() {
				sg := <-sc
				fmt.Fprintf(os.Stderr,
					"%s, stopping (one more to terminate)\n", sg)
				cancel()
				sg = <-sc
				fmt.Fprintf(os.Stderr, "%s, exiting forcibly\n", sg)
				os.Exit(-1)
			}()
			err = circuit.Run(ctx, s)
			return
		},
	}
	return
}

// main executes the circuit command.
func main() {
	if err := root().Execute(); err != nil {
		s := err.Error()
		if ce, ok := err.(errors.Error); ok {
			s = errors.Details(ce, nil)
		}
		fmt.Fprintf(os.Stderr, "%s: %s\n", os.Args[0], s)
		os.Exit(1)
	}
}
