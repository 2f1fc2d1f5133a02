// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package stage provides a staged execution substrate: computations are
// built first as defunctionalized frame chains ([Expr]) and evaluated later,
// when realized.
//
// Construction time fixes program structure (step counts, branch shapes).
// Realization is when data values, including data-dependent predicates,
// become known. The package supplies the primitives a staged program needs
// and nothing else:
//
//   - [Scan]: fixed-length iteration with an auxiliary per-step output
//   - [Cond]: exclusive conditional branch (exactly one branch runs)
//   - [Select]: eager two-way select (both branches run)
//   - [ErrorIf]: deferred assertion, reported only at realization
//   - [Fail]: staged abort
//
// # Core Operations
//
//   - [Return], [Suspend]: construct computations
//   - [Bind], [Map], [Then]: compose them
//   - [ChainFrames]: compose raw frame chains
//
// # Realization
//
//   - [Realize]: evaluate to (value, error)
//   - [RealizeEither]: evaluate to [Either]
//   - [MustRealize]: evaluate, panic on failure
//   - [RunPure]: evaluate a computation that must not perform effects
//   - [Handle]: evaluate with a custom F-bounded [Handler]
//   - [Step]: evaluate one effect at a time via [Suspension]
//
// Evaluation is iterative and never grows the Go stack with the length of
// the frame chain. A staged [Expr] is immutable: it may be realized any
// number of times, from any number of goroutines, each realization
// independent of the others.
//
// # Deferred Failures
//
// [ErrorIf] stages an [Assert] operation. Realize records its error and
// resumes with the guarded value, so the caller gets both the value and the
// failure. [Fail] stages a [Throw], which aborts realization. A computation
// that is never evaluated never reports either.
//
// # Example
//
//	m := stage.Scan(func(x, _ int) stage.Expr[stage.Pair[int, struct{}]] {
//		return stage.Return(stage.Pair[int, struct{}]{Fst: x * 2})
//	}, stage.Return(1), 10)
//	out := stage.RunPure(m)
//	// out.Fst == 1024
package stage
