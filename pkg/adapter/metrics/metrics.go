// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package metrics exposes the borrowing lifecycle outcomes as the
// prometheus metrics. Collector observes the borrowinguc use case and
// may be registered in a prometheus.Registry which is served by the
// Handler function.
package metrics

import (
	"net/http"
	"time"

	"github.com/momeni/clean-library/pkg/core/cerr"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "libweb"

// Outcome label values, besides the cerr.Kind names of failures.
const (
	OutcomeOK = "ok"
)

// Collector is a prometheus.Collector that collects metrics about
// borrowing and returning of books.
type Collector struct {
	borrowings *prometheus.CounterVec
	returns    *prometheus.CounterVec
	lateFees   prometheus.Counter
	duration   *prometheus.HistogramVec
}

// NewCollector returns a new Collector.
func NewCollector() *Collector {
	return &Collector{
		borrowings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "borrowings_total",
				Help:      "The number of borrow attempts by their outcome.",
			}, []string{"outcome"},
		),
		returns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "returns_total",
				Help:      "The number of return attempts by their outcome.",
			}, []string{"outcome"},
		),
		lateFees: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "late_fees_total",
				Help:      "The sum of late fees which are charged on returns.",
			},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "lifecycle_duration_seconds",
				Help:      "The time taken to borrow or return a book.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			}, []string{"operation"},
		),
	}
}

// ObserveBorrow is part of the borrowinguc.Observer interface.
func (c *Collector) ObserveBorrow(err error, elapsed time.Duration) {
	c.borrowings.WithLabelValues(outcome(err)).Inc()
	c.duration.WithLabelValues("borrow").Observe(elapsed.Seconds())
}

// ObserveReturn is part of the borrowinguc.Observer interface.
func (c *Collector) ObserveReturn(
	fee model.Amount, err error, elapsed time.Duration,
) {
	c.returns.WithLabelValues(outcome(err)).Inc()
	c.duration.WithLabelValues("return").Observe(elapsed.Seconds())
	if err == nil {
		c.lateFees.Add(fee.Float())
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.borrowings.Describe(ch)
	c.returns.Describe(ch)
	c.lateFees.Describe(ch)
	c.duration.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.borrowings.Collect(ch)
	c.returns.Collect(ch)
	c.lateFees.Collect(ch)
	c.duration.Collect(ch)
}

// NewRegistry creates a registry with the Go runtime and process
// collectors in addition to the given collectors.
func NewRegistry(cs ...prometheus.Collector) (*prometheus.Registry, error) {
	r := prometheus.NewRegistry()
	cs = append(cs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Handler serves the metrics of the g gatherer in the prometheus text
// exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	return cerr.KindOf(err).String()
}
