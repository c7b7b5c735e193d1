// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package metrics_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/momeni/clean-library/pkg/adapter/metrics"
	"github.com/momeni/clean-library/pkg/core/cerr"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCountsOutcomes(t *testing.T) {
	c := metrics.NewCollector()
	c.ObserveBorrow(nil, 10*time.Millisecond)
	c.ObserveBorrow(cerr.InvalidState(model.ErrNoCopiesAvailable), time.Millisecond)
	c.ObserveBorrow(errors.New("connection reset"), time.Millisecond)
	c.ObserveReturn(model.Units(25), nil, 20*time.Millisecond)
	c.ObserveReturn(model.Units(5), cerr.InvalidState(model.ErrAlreadyReturned), time.Millisecond)

	expected := `
# HELP libweb_borrowings_total The number of borrow attempts by their outcome.
# TYPE libweb_borrowings_total counter
libweb_borrowings_total{outcome="invalid_state"} 1
libweb_borrowings_total{outcome="ok"} 1
libweb_borrowings_total{outcome="unknown"} 1
# HELP libweb_late_fees_total The sum of late fees which are charged on returns.
# TYPE libweb_late_fees_total counter
libweb_late_fees_total 25
# HELP libweb_returns_total The number of return attempts by their outcome.
# TYPE libweb_returns_total counter
libweb_returns_total{outcome="invalid_state"} 1
libweb_returns_total{outcome="ok"} 1
`
	err := testutil.CollectAndCompare(
		c, strings.NewReader(expected),
		"libweb_borrowings_total", "libweb_returns_total",
		"libweb_late_fees_total",
	)
	assert.NoError(t, err)
}

func TestRegistryServesMetrics(t *testing.T) {
	c := metrics.NewCollector()
	r, err := metrics.NewRegistry(c)
	require.NoError(t, err)
	c.ObserveReturn(model.Units(15), nil, time.Millisecond)

	mfs, err := r.Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily, len(mfs))
	for _, mf := range mfs {
		byName[mf.GetName()] = mf
	}
	h := byName["libweb_lifecycle_duration_seconds"]
	require.NotNil(t, h)
	require.Len(t, h.GetMetric(), 1)
	assert.EqualValues(t, 1, h.GetMetric()[0].GetHistogram().GetSampleCount())
	assert.Contains(t, byName, "go_goroutines")

	_, err = metrics.NewRegistry(c)
	require.NoError(t, err, "each registry is independent")

	rec := httptest.NewRecorder()
	metrics.Handler(r).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "libweb_late_fees_total 15")
}
