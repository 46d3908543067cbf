// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package circuit

import (
	_ "embed"
	"context"
	"fmt"
	"sort"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

//go:embed config.cue
var configCUE string

// circuitSpec is the decoded shape of a #Circuit value from config.cue.
type circuitSpec struct {
	Kind     string
	Value    bool
	Delay    string
	K        int
	Children []circuitSpec
}

// Config is the circuit configuration, loaded from CUE.
type Config struct {
	// Circuits maps a name to the Node it was decoded into.
	Circuits map[string]Node
}

// Names returns the Config's circuit names, sorted.
func (c *Config) Names() []string {
	nn := make([]string, 0, len(c.Circuits))
	for n := range c.Circuits {
		nn = append(nn, n)
	}
	sort.Strings(nn)
	return nn
}

// LoadConfig loads and validates the CUE configuration using the given CUE
// load.Config, then converts each of its circuits into a Node tree.
func LoadConfig(cuecfg *load.Config) (cfg *Config, err error) {
	ctx := cuecontext.New()
	s := ctx.CompileString(configCUE, cue.Filename("config.cue"))
	if s.Err() != nil {
		err = s.Err()
		return
	}
	inst := load.Instances([]string{}, cuecfg)[0]
	d := ctx.BuildInstance(inst)
	if d.Err() != nil {
		err = d.Err()
		return
	}
	v := d.Unify(s)
	if v.Err() != nil {
		err = v.Err()
		return
	}
	var raw struct {
		Circuits map[string]circuitSpec
	}
	if err = v.Decode(&raw); err != nil {
		return
	}
	cfg = &Config{Circuits: make(map[string]Node, len(raw.Circuits))}
	for name, spec := range raw.Circuits {
		var n Node
		if n, err = spec.toNode(); err != nil {
			err = fmt.Errorf("circuit %q: %w", name, err)
			return
		}
		cfg.Circuits[name] = n
	}
	return
}

// toNode converts a decoded circuitSpec into a Node.
func (s circuitSpec) toNode() (Node, error) {
	if s.Kind == "leaf" {
		if s.Delay == "" {
			return Const(s.Value), nil
		}
		d, err := time.ParseDuration(s.Delay)
		if err != nil {
			return nil, err
		}
		value := s.Value
		return Func(func(ctx context.Context) (bool, error) {
			select {
			case <-time.After(d):
				return value, nil
			case <-ctx.Done():
				return false, ErrCancelled
			}
		}), nil
	}
	cc := make([]Node, len(s.Children))
	for i, c := range s.Children {
		n, err := c.toNode()
		if err != nil {
			return nil, err
		}
		cc[i] = n
	}
	switch s.Kind {
	case "not":
		return Not(cc[0]), nil
	case "and":
		return And(cc...), nil
	case "or":
		return Or(cc...), nil
	case "if":
		return If(cc[0], cc[1], cc[2]), nil
	case "gt":
		return GT(s.K, cc...), nil
	case "lt":
		return LT(s.K, cc...), nil
	default:
		return nil, fmt.Errorf("unknown circuit kind %q", s.Kind)
	}
}
