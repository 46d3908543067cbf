// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package circuit

import "errors"

// ErrCancelled is returned by ValueHandle.Await when the computation
// produced no value, either because the Solver was stopped or because Solve
// rejected the circuit as malformed.
var ErrCancelled = errors.New("circuit: cancelled")

// ErrMalformedCircuit is returned by validateCircuit when a circuit's arity
// doesn't match its Kind (NOT with other than one child, IF with other than
// three, or AND/OR/GT/LT with no children), or a Kind is unknown. Solve does
// not return it; it returns an already broken ValueHandle instead.
var ErrMalformedCircuit = errors.New("circuit: malformed circuit")
