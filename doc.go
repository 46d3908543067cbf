// SPDX-License-Identifier: GPL-3.0
// Copyright 2022 Pete Heist

// Package circuit evaluates boolean circuits in parallel with short-circuit
// cancellation. Every operator node evaluates its children concurrently and
// cancels whichever siblings become unreachable the moment its result is
// decided.

package circuit
