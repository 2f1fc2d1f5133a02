// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package batch_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"code.hybscloud.com/loop"
	"code.hybscloud.com/loop/batch"
	"code.hybscloud.com/loop/stage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func countTo(t *testing.T, limit, maxSteps int) stage.Expr[int] {
	t.Helper()
	m, err := loop.While(func(x int) bool { return x < limit }, func(x int) int { return x + 1 }, 0, maxSteps)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestRunPreservesOrder(t *testing.T) {
	exprs := make([]stage.Expr[int], 20)
	want := make([]int, len(exprs))
	for i := range exprs {
		exprs[i] = countTo(t, i*3, 100)
		want[i] = i * 3
	}
	outcomes, err := batch.Run(context.Background(), exprs, 4)
	if err != nil {
		t.Fatal(err)
	}
	got := make([]int, len(outcomes))
	for i, o := range outcomes {
		if o.Index != i {
			t.Fatalf("outcome %d has index %d", i, o.Index)
		}
		if o.Err != nil {
			t.Fatalf("outcome %d: %v", i, o.Err)
		}
		got[i] = o.Value
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestRunIsolatesOverflow(t *testing.T) {
	exprs := []stage.Expr[int]{
		countTo(t, 3, 10),
		countTo(t, 50, 10),
		countTo(t, 7, 10),
	}
	outcomes, err := batch.Run(context.Background(), exprs, 0)
	if err != nil {
		t.Fatal(err)
	}
	if outcomes[0].Err != nil || outcomes[0].Value != 3 {
		t.Fatalf("outcome 0 = %+v", outcomes[0])
	}
	if !errors.Is(outcomes[1].Err, loop.ErrBoundExceeded) || outcomes[1].Value != 10 {
		t.Fatalf("outcome 1 = %+v, want overflow with value 10", outcomes[1])
	}
	if outcomes[2].Err != nil || outcomes[2].Value != 7 {
		t.Fatalf("outcome 2 = %+v", outcomes[2])
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exprs := []stage.Expr[int]{countTo(t, 1, 5), countTo(t, 2, 5)}
	outcomes, err := batch.Run(ctx, exprs, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	for _, o := range outcomes {
		if !errors.Is(o.Err, context.Canceled) {
			t.Fatalf("outcome %d err = %v, want context.Canceled", o.Index, o.Err)
		}
	}
}

func TestRunRespectsLimit(t *testing.T) {
	var active, peak atomic.Int32
	track := func(x int) bool {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		active.Add(-1)
		return x < 200
	}
	exprs := make([]stage.Expr[int], 16)
	for i := range exprs {
		m, err := loop.While(track, func(x int) int { return x + 1 }, 0, 500)
		if err != nil {
			t.Fatal(err)
		}
		exprs[i] = m
	}
	outcomes, err := batch.Run(context.Background(), exprs, 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, o := range outcomes {
		if o.Err != nil || o.Value != 200 {
			t.Fatalf("outcome %d = %+v", o.Index, o)
		}
	}
	if p := peak.Load(); p > 2 {
		t.Fatalf("peak concurrency %d exceeds limit 2", p)
	}
}

func TestRunEmpty(t *testing.T) {
	outcomes, err := batch.Run[int](context.Background(), nil, 3)
	if err != nil || len(outcomes) != 0 {
		t.Fatalf("got (%v, %v), want empty", outcomes, err)
	}
}
