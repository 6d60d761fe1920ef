/*
Copyright © 2026 the SPA authors.
This file is part of SPA.

SPA is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SPA is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SPA.  If not, see <http://www.gnu.org/licenses/>.
*/

package spa

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects operational statistics. A nil *Metrics records
// nothing.
type Metrics struct {
	// Reloads counts monthly dataset loads, by dataset ("begin" or "end").
	Reloads *prometheus.CounterVec

	// PhaseDuration records the duration of each interpolation phase.
	PhaseDuration *prometheus.HistogramVec

	// CacheRequests counts raw variable reads through a CachedSource,
	// by result ("hit" or "miss").
	CacheRequests *prometheus.CounterVec

	// Repairs counts output values overwritten by a lower bound check.
	Repairs prometheus.Counter
}

// NewMetrics creates metrics in the given namespace and registers them
// with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Reloads: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dataset_loads_total",
				Help:      "Total number of monthly dataset loads",
			},
			[]string{"dataset"},
		),
		PhaseDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "interpolation_phase_duration_seconds",
				Help:      "Duration of interpolation phases in seconds",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"phase"},
		),
		CacheRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_requests_total",
				Help:      "Total number of raw variable reads through the cache",
			},
			[]string{"result"},
		),
		Repairs: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "output_repairs_total",
				Help:      "Total number of output values raised to the lower bound",
			},
		),
	}
}

func (m *Metrics) observePhase(phase string, start time.Time) {
	if m == nil {
		return
	}
	m.PhaseDuration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
}

func (m *Metrics) reload(dataset string) {
	if m == nil {
		return
	}
	m.Reloads.WithLabelValues(dataset).Inc()
}

func (m *Metrics) cache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheRequests.WithLabelValues("hit").Inc()
	} else {
		m.CacheRequests.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) repaired(n int) {
	if m == nil || n == 0 {
		return
	}
	m.Repairs.Add(float64(n))
}
