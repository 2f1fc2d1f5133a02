// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"code.hybscloud.com/loop"
	"code.hybscloud.com/loop/batch"
	"code.hybscloud.com/loop/stage"
)

// errExceeded is returned after printing when any loop exceeded its bound.
var errExceeded = errors.New("one or more loops exceeded max_steps")

func (a *app) newRunCommand() *cobra.Command {
	var initial float64
	cmd := &cobra.Command{
		Use:   "run <program>",
		Short: "Stage and realize one bounded loop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.settings()
			if err != nil {
				return err
			}
			p, err := lookupProgram(args[0])
			if err != nil {
				return err
			}
			m, err := p.build(initial, s.maxSteps, loop.WithBranching(s.branching))
			if err != nil {
				return err
			}
			a.logger.Info("Realizing loop",
				zap.String("program", p.name),
				zap.Float64("init", initial),
				zap.Int("max_steps", s.maxSteps))
			r, err := stage.Realize(m)
			if r.Program == "" {
				r.Program, r.Init = p.name, initial
			}
			r = a.annotate(r, err)
			if werr := a.emit(s, []report{r}); werr != nil {
				return werr
			}
			return a.verdict(err)
		},
	}
	cmd.Flags().Float64Var(&initial, "init", 1, "initial carry value")
	return cmd
}

func (a *app) newBatchCommand() *cobra.Command {
	var inits []float64
	cmd := &cobra.Command{
		Use:   "batch <program>",
		Short: "Stage one loop per initial value and realize them concurrently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.settings()
			if err != nil {
				return err
			}
			p, err := lookupProgram(args[0])
			if err != nil {
				return err
			}
			exprs := make([]stage.Expr[report], len(inits))
			for i, x := range inits {
				if exprs[i], err = p.build(x, s.maxSteps, loop.WithBranching(s.branching)); err != nil {
					return fmt.Errorf("init %v: %w", x, err)
				}
			}
			a.logger.Info("Realizing batch",
				zap.String("program", p.name),
				zap.Int("loops", len(exprs)),
				zap.Int("workers", s.workers),
				zap.Int("max_steps", s.maxSteps))
			outcomes, err := batch.Run(cmd.Context(), exprs, s.workers)
			reports := make([]report, len(outcomes))
			var failed error
			for i, o := range outcomes {
				r := o.Value
				if r.Program == "" {
					r.Program, r.Init = p.name, inits[i]
				}
				reports[i] = a.annotate(r, o.Err)
				if o.Err != nil && failed == nil {
					failed = o.Err
				}
			}
			if werr := a.emit(s, reports); werr != nil {
				return werr
			}
			if err != nil {
				return err
			}
			return a.verdict(failed)
		},
	}
	cmd.Flags().Float64SliceVar(&inits, "inits", []float64{1}, "initial carry values")
	cmd.Flags().Int("workers", 0, "maximum concurrent realizations (0 means unlimited)")
	return cmd
}

func (a *app) newProgramsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "programs",
		Short: "List the available demo programs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(programs))
			for _, name := range programNames() {
				rows = append(rows, []string{name, programs[name].description})
			}
			return writeTable(a.out, []string{"Program", "Description"}, rows)
		},
	}
}

// annotate records a realization failure on the report, logs it and
// counts the outcome.
func (a *app) annotate(r report, err error) report {
	a.metrics.observe(r, err)
	if err == nil {
		a.logger.Debug("Loop terminated", zap.String("program", r.Program), zap.Int("steps", r.Steps))
		return r
	}
	r.Error = err.Error()
	if errors.Is(err, loop.ErrBoundExceeded) {
		a.logger.Warn("Loop exceeded its bound",
			zap.String("program", r.Program),
			zap.Float64("init", r.Init),
			zap.Int("steps", r.Steps))
	} else {
		a.logger.Error("Loop failed", zap.String("program", r.Program), zap.Error(err))
	}
	return r
}

// emit prints the reports and writes the metrics file, if configured.
func (a *app) emit(s settings, reports []report) error {
	if err := writeReports(a.out, s.output, reports); err != nil {
		return err
	}
	return a.metrics.writeTextfile(s.metricsFile)
}

// verdict maps a realization failure to the command's error.
func (a *app) verdict(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, loop.ErrBoundExceeded):
		return fmt.Errorf("%w: %w", errExceeded, err)
	default:
		return err
	}
}
