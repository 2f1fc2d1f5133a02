// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package loop provides a bounded while loop for staged computations.
//
// A staged substrate (package [code.hybscloud.com/loop/stage]) only runs
// loops whose iteration count is fixed when the computation is built, and
// only branches through its own conditional primitive. [While] expresses
// "repeat body while cond holds, but at most maxSteps times" in that form:
//
//	m, err := loop.While(
//		func(x int) bool { return x < 5 },
//		func(x int) int { return x + 1 },
//		0, 10,
//	)
//	if err != nil {
//		return err // negative maxSteps
//	}
//	x, err := stage.Realize(m)
//	// x == 5, err == nil
//
// # Semantics
//
// The carry is paired with a termination latch and folded through exactly
// maxSteps steps of [stage.Scan]. Each step is a two-state machine:
//
//   - Terminated: the carry passes through; cond and body do not run.
//   - Active: cond runs. If it holds, body runs and the loop stays Active.
//     Otherwise the latch sets and body does not run.
//
// The latch only goes from Active to Terminated. The result is the carry
// at the step where the loop terminated; later steps leave it frozen.
// Termination needs a step that observes cond false, so a loop whose cond
// first fails on the carry left by the last step is still reported as
// exceeded.
//
// # Errors
//
//   - [*ConfigError]: maxSteps is negative, or (via [ParseMaxSteps]) not an
//     integer. Returned synchronously, before anything is staged.
//   - [*BoundExceededError]: cond still held after maxSteps steps. This is
//     data-dependent, so it is staged with [stage.ErrorIf] and reported
//     only when the result is realized, together with the carry after the
//     last step.
//   - Panics in cond or body, and failures they stage with [stage.Fail],
//     propagate unchanged.
//
// A staged result that is never realized never reports an overflow.
// Every evaluator surfaces it: [stage.Realize] returns it, [stage.RunPure]
// and [stage.MustRealize] panic with it, and [stage.Step] suspends on it.
//
// # Branching
//
// By default each step uses [stage.Cond], so after termination the remaining
// steps skip cond and body entirely. [WithBranching]([Select]) switches to
// the eager [stage.Select], for comparison or for substrates without an
// exclusive conditional; results are identical but cond and body run on
// every step.
package loop
