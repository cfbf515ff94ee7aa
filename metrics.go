// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package skyrandoms

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "skyrandoms"

type storeMetrics struct {
	pointsInserted  prometheus.Counter
	chunksCommitted prometheus.Counter
	detectedUpdates prometheus.Counter
	totalArea       prometheus.Gauge
}

func newStoreMetrics(reg prometheus.Registerer) (*storeMetrics, error) {
	m := &storeMetrics{
		pointsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "points_inserted_total",
			Help:      "Random points committed to the store.",
		}),
		chunksCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "chunks_committed_total",
			Help:      "Batch chunks committed to the store.",
		}),
		detectedUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "detected_updates_total",
			Help:      "Rows flagged as detected.",
		}),
		totalArea: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "total_area_square_degrees",
			Help:      "Cumulative solid angle of batch-filled regions.",
		}),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.pointsInserted, err = register(reg, m.pointsInserted); err != nil {
		return nil, err
	}
	if m.chunksCommitted, err = register(reg, m.chunksCommitted); err != nil {
		return nil, err
	}
	if m.detectedUpdates, err = register(reg, m.detectedUpdates); err != nil {
		return nil, err
	}
	if m.totalArea, err = register(reg, m.totalArea); err != nil {
		return nil, err
	}
	return m, nil
}

// register returns the already registered collector when c duplicates one.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register metrics: %w", err)
	}
	return c, nil
}
