// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics holds the Prometheus collectors for elections, ballots,
// notifications and HTTP latency. They register with the default registry,
// which Handler serves at GET /metrics.
package metrics
