// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package loop

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Branching selects how a step chooses between its two outcomes.
type Branching uint8

const (
	// Exclusive evaluates only the chosen branch. After termination the
	// remaining steps cost a no-op each.
	Exclusive Branching = iota

	// Select evaluates both branches of every step and keeps the chosen
	// one. Results are identical to Exclusive, but cond and body run on
	// every step, including those after termination.
	Select
)

func (b Branching) String() string {
	switch b {
	case Exclusive:
		return "exclusive"
	case Select:
		return "select"
	}
	return "Branching(" + strconv.Itoa(int(b)) + ")"
}

// ParseBranching parses "exclusive" or "select", ignoring case.
func ParseBranching(s string) (Branching, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exclusive":
		return Exclusive, nil
	case "select":
		return Select, nil
	}
	return Exclusive, fmt.Errorf("loop: unknown branching %q (want exclusive or select)", s)
}

// Option configures a bounded loop.
type Option func(*options)

type options struct {
	branching Branching
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithBranching sets the branching strategy. The default is [Exclusive].
func WithBranching(b Branching) Option {
	return func(o *options) { o.branching = b }
}

// ParseMaxSteps validates a max_steps value coming from configuration.
//
// Accepted: any Go integer type. Rejected with a *ConfigError: negative
// values, floats (even integral ones such as 3.0), strings (even "3"), and
// every other type. Callers reading text, such as environment variables,
// convert it to an integer first.
func ParseMaxSteps(v any) (int, error) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint:
		if uint64(x) > math.MaxInt {
			return 0, &ConfigError{Value: v}
		}
		n = int64(x)
	case uint8:
		n = int64(x)
	case uint16:
		n = int64(x)
	case uint32:
		n = int64(x)
	case uint64:
		if x > math.MaxInt {
			return 0, &ConfigError{Value: v}
		}
		n = int64(x)
	default:
		return 0, &ConfigError{Value: v}
	}
	if n < 0 || n > math.MaxInt {
		return 0, &ConfigError{Value: v}
	}
	return int(n), nil
}
