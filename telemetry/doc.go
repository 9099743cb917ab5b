// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package telemetry builds the logger, tracer and metrics shared by every
other package.

# Logging

	logger, err := telemetry.NewLogger("info", "json")

Levels are zap levels (debug, info, warn, error). Format "console" gives
the human-readable development encoder.

# Tracing

	shutdown, err := telemetry.Setup(ctx, "quickly-dine", cfg.OTelEndpoint)
	defer shutdown(ctx)

Spans are exported over OTLP/HTTP. An empty endpoint disables export and
Tracer returns a no-op tracer.

# Metrics

NewMetrics creates a private Prometheus registry with counters for
sessions, joins, swipes, votes, consensus, completions and conflicts, a
live subscriber gauge, and an HTTP latency histogram. Handler serves it
at /metrics.
*/
package telemetry
