// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package loop

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMaxSteps is matched by every *ConfigError.
	ErrInvalidMaxSteps = errors.New("loop: max_steps must be a non-negative integer")

	// ErrBoundExceeded is matched by every *BoundExceededError.
	ErrBoundExceeded = errors.New("loop: exceeded max_steps")
)

// ConfigError reports a max_steps value that is not a non-negative integer.
// It is returned synchronously, before anything is staged.
type ConfigError struct {
	Value any
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("loop: max_steps must be a non-negative integer, got %v (%T)", e.Value, e.Value)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidMaxSteps }

// BoundExceededError reports that cond still held after MaxSteps steps.
// It only surfaces when the staged result is realized.
type BoundExceededError struct {
	MaxSteps int
}

func (e *BoundExceededError) Error() string {
	return fmt.Sprintf("loop: bounded while loop exceeded max_steps=%d without cond becoming false", e.MaxSteps)
}

func (e *BoundExceededError) Unwrap() error { return ErrBoundExceeded }
