// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"code.hybscloud.com/loop"
)

// app holds the state shared by all subcommands.
type app struct {
	v       *viper.Viper
	logger  *zap.Logger
	metrics *metrics
	out     io.Writer
	cfgFile string
	verbose bool
}

// settings is the resolved configuration for one invocation.
type settings struct {
	maxSteps    int
	branching   loop.Branching
	workers     int
	output      string
	metricsFile string
}

// newRootCommand builds the command tree. A nil logger is built from the
// resolved configuration on first use.
func newRootCommand(out io.Writer, logger *zap.Logger) *cobra.Command {
	a := &app{v: viper.New(), out: out, logger: logger, metrics: newMetrics()}

	root := &cobra.Command{
		Use:   "boundedloop",
		Short: "Run bounded while loops over staged computations",
		Long: `boundedloop stages demo loops with a fixed step bound, realizes them,
and reports the final carry. A loop whose condition still holds after
max-steps steps is reported as exceeded and the command exits non-zero.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initConfig(cmd); err != nil {
				return err
			}
			return a.initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.boundedloop/config.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.Int("max-steps", 100, "maximum number of loop steps")
	flags.String("branching", "exclusive", "step branching: exclusive or select")
	flags.StringP("output", "o", "table", "output format: table, json or yaml")
	flags.String("metrics-file", "", "write Prometheus text-format loop metrics to this file")

	root.AddCommand(a.newRunCommand(), a.newBatchCommand(), a.newProgramsCommand())
	return root
}

// initConfig reads the config file and environment, then binds flags.
// Precedence: flag, env (BOUNDEDLOOP_*), config file, default.
func (a *app) initConfig(cmd *cobra.Command) error {
	v := a.v
	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".boundedloop"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("BOUNDEDLOOP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, flag := range map[string]string{
		"max_steps":    "max-steps",
		"branching":    "branching",
		"output":       "output",
		"workers":      "workers",
		"metrics_file": "metrics-file",
	} {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func (a *app) initLogger() error {
	if a.logger != nil {
		return nil
	}
	config := zap.NewProductionConfig()
	if a.verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

// integerValue converts text from the environment to an int when it holds
// a base-10 integer. Anything else is returned unchanged for
// loop.ParseMaxSteps to judge, so "1.5" from BOUNDEDLOOP_MAX_STEPS is still
// rejected.
func integerValue(raw any) any {
	text, ok := raw.(string)
	if !ok {
		return raw
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return raw
	}
	return n
}

// settings resolves and validates the configuration. max_steps goes through
// loop.ParseMaxSteps so that a config value such as 1.5 is rejected here,
// before any loop is staged.
func (a *app) settings() (settings, error) {
	maxSteps, err := loop.ParseMaxSteps(integerValue(a.v.Get("max_steps")))
	if err != nil {
		return settings{}, err
	}
	branching, err := loop.ParseBranching(a.v.GetString("branching"))
	if err != nil {
		return settings{}, err
	}
	output := strings.ToLower(a.v.GetString("output"))
	switch output {
	case "table", "json", "yaml":
	default:
		return settings{}, fmt.Errorf("unknown output format %q (want table, json or yaml)", output)
	}
	s := settings{
		maxSteps:    maxSteps,
		branching:   branching,
		workers:     a.v.GetInt("workers"),
		output:      output,
		metricsFile: a.v.GetString("metrics_file"),
	}
	a.logger.Debug("Resolved settings",
		zap.Int("max_steps", s.maxSteps),
		zap.Stringer("branching", s.branching),
		zap.Int("workers", s.workers),
		zap.String("output", s.output),
		zap.String("config", a.v.ConfigFileUsed()))
	return s, nil
}
