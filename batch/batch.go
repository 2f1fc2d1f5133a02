// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package batch realizes independent staged computations concurrently.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/loop/stage"
)

// Outcome is the realization of one staged computation.
type Outcome[T any] struct {
	Index int
	Value T
	Err   error
}

// Run realizes every expr with at most limit goroutines at a time
// (limit <= 0 means one per expr). Outcomes are returned in input order.
//
// Per-item failures, including deferred ones such as an exceeded loop
// bound, are reported in Outcome.Err and do not stop the other items. The
// returned error is non-nil only when ctx is done before every item has
// been realized; items not started by then carry ctx's error.
func Run[T any](ctx context.Context, exprs []stage.Expr[T], limit int) ([]Outcome[T], error) {
	outcomes := make([]Outcome[T], len(exprs))
	var skipped error
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, m := range exprs {
		outcomes[i].Index = i
		if err := gctx.Err(); err != nil {
			outcomes[i].Err = err
			skipped = err
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i].Err = err
				return err
			}
			outcomes[i].Value, outcomes[i].Err = stage.Realize(m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, skipped
}
