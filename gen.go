// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package circuit

import (
	"context"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// GenOption configures RandomCircuit.
type GenOption func(*genOpt)

type genOpt struct {
	maxDepth  int
	maxArity  int
	meanDelay time.Duration
	rate      float64
}

// MaxDepth limits the depth of a generated circuit.
func MaxDepth(d int) GenOption {
	return func(o *genOpt) { o.maxDepth = d }
}

// MaxArity limits the number of children of any AND/OR/GT/LT node.
func MaxArity(n int) GenOption {
	return func(o *genOpt) { o.maxArity = n }
}

// MeanLeafDelay sets the mean simulated leaf read latency. Individual leaf
// delays are drawn from an exponential distribution around this mean, so
// most leaves resolve quickly and a few resolve slowly, exercising
// short-circuit cancellation of the slow ones.
func MeanLeafDelay(d time.Duration) GenOption {
	return func(o *genOpt) { o.meanDelay = d }
}

// RandomCircuit returns a random, well-formed circuit, for use in property
// and stress tests. rng chooses the circuit's shape and leaf values. Leaves
// are built with Func, simulating a blocking read whose latency follows an
// exponential distribution with the given mean, and whose value is chosen
// by a fair coin flip. Each leaf's latency is drawn once, when the circuit
// is generated, from gonum's default random source rather than from rng.
func RandomCircuit(rng *rand.Rand, opts ...GenOption) Node {
	o := genOpt{maxDepth: 4, maxArity: 4, meanDelay: 10 * time.Millisecond, rate: 1.0}
	for _, f := range opts {
		f(&o)
	}
	return randomNode(rng, &o, 0)
}

func randomNode(rng *rand.Rand, o *genOpt, depth int) Node {
	if depth >= o.maxDepth || rng.Intn(3) == 0 {
		return randomLeaf(rng, o)
	}
	switch rng.Intn(6) {
	case 0:
		return Not(randomNode(rng, o, depth+1))
	case 1:
		return And(randomChildren(rng, o, depth)...)
	case 2:
		return Or(randomChildren(rng, o, depth)...)
	case 3:
		return If(randomNode(rng, o, depth+1), randomNode(rng, o, depth+1),
			randomNode(rng, o, depth+1))
	case 4:
		cc := randomChildren(rng, o, depth)
		return GT(rng.Intn(len(cc)+1), cc...)
	default:
		cc := randomChildren(rng, o, depth)
		return LT(rng.Intn(len(cc)+1), cc...)
	}
}

func randomChildren(rng *rand.Rand, o *genOpt, depth int) []Node {
	n := 1 + rng.Intn(o.maxArity)
	cc := make([]Node, n)
	for i := range cc {
		cc[i] = randomNode(rng, o, depth+1)
	}
	return cc
}

func randomLeaf(rng *rand.Rand, o *genOpt) Node {
	value := rng.Intn(2) == 0
	d := distuv.Exponential{Rate: o.rate}
	delay := time.Duration(d.Rand() * float64(o.meanDelay))
	return Func(func(ctx context.Context) (bool, error) {
		select {
		case <-time.After(delay):
			return value, nil
		case <-ctx.Done():
			return false, ErrCancelled
		}
	})
}
