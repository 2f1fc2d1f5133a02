// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"code.hybscloud.com/loop"
)

// metrics counts loop outcomes for one invocation. The registry is private
// so that repeated command construction never collides on registration.
type metrics struct {
	registry *prometheus.Registry
	loops    *prometheus.CounterVec
	steps    *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		loops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boundedloop_loops_total",
				Help: "Realized bounded loops by program and outcome",
			},
			[]string{"program", "outcome"},
		),
		steps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "boundedloop_loop_steps",
				Help:    "Body applications per realized loop",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"program"},
		),
	}
	m.registry.MustRegister(m.loops, m.steps)
	return m
}

// outcome labels a realization error.
func outcome(err error) string {
	switch {
	case err == nil:
		return "terminated"
	case errors.Is(err, loop.ErrBoundExceeded):
		return "exceeded"
	}
	return "failed"
}

func (m *metrics) observe(r report, err error) {
	m.loops.WithLabelValues(r.Program, outcome(err)).Inc()
	m.steps.WithLabelValues(r.Program).Observe(float64(r.Steps))
}

// writeTextfile writes the collected metrics in the text exposition format,
// for pickup by a node exporter textfile collector.
func (m *metrics) writeTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
