// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("orgatlas.insight.graph")
	meter  = otel.Meter("orgatlas.insight.graph")

	metricsOnce sync.Once

	analysisDuration metric.Float64Histogram
	analysisTotal    metric.Int64Counter
	analysisErrors   metric.Int64Counter
)

// initMetrics lazily creates the package instruments. Called from the
// analytics facade on first use so importing the package alone doesn't
// touch the meter provider.
func initMetrics() {
	metricsOnce.Do(func() {
		var err error

		analysisDuration, err = meter.Float64Histogram(
			"orgatlas.graph.analysis.duration",
			metric.WithDescription("Duration of graph analysis operations"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			otel.Handle(err)
		}

		analysisTotal, err = meter.Int64Counter(
			"orgatlas.graph.analysis.total",
			metric.WithDescription("Total graph analysis operations"),
		)
		if err != nil {
			otel.Handle(err)
		}

		analysisErrors, err = meter.Int64Counter(
			"orgatlas.graph.analysis.errors",
			metric.WithDescription("Failed graph analysis operations"),
		)
		if err != nil {
			otel.Handle(err)
		}
	})
}

// recordAnalysis records duration and outcome for one analysis operation.
func recordAnalysis(ctx context.Context, operation string, start time.Time, err error) {
	initMetrics()

	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
	)

	if analysisDuration != nil {
		analysisDuration.Record(ctx, float64(time.Since(start).Microseconds())/1000.0, attrs)
	}
	if analysisTotal != nil {
		analysisTotal.Add(ctx, 1, attrs)
	}
	if err != nil && analysisErrors != nil {
		analysisErrors.Add(ctx, 1, attrs)
	}
}
