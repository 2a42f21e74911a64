// Package api provides the HTTP daemon layer for powercap.
//
// This package is a thin wrapper around the reusable pkg/server package. It
// opens every RAPL package read-only, registers the Prometheus exporter, and
// exposes zone snapshots over REST.
//
// # Usage
//
//	if err := api.Serve(ctx, api.Options{}); err != nil {
//	    log.Fatalf("server error: %v", err)
//	}
//
// # Endpoints
//
// Application endpoints (with rate limiting):
//   - GET /v1/zones - Snapshot of the control type
//
// System endpoints (no rate limiting):
//   - GET /health  - Liveness probe
//   - GET /ready   - Readiness probe, fails while the control type is absent
//   - GET /metrics - Prometheus metrics, including the powercap_* zone gauges
//
// # Query Parameters (GET /v1/zones)
//
//   - package: package index
//   - subzone: subzone index under package
//   - constraint: constraint index
//   - recurse: include subzones (true/false)
//   - verbose: report per-attribute read failures (true/false)
//
// Example:
//
//	curl "http://localhost:9464/v1/zones?recurse=true"
//
// # Configuration
//
// The server honors these environment variables:
//   - PORT: HTTP server port (default: 9464)
//   - LOG_LEVEL: Logging level (debug, info, warn, error)
//   - SHUTDOWN_TIMEOUT_SECONDS: graceful shutdown limit
//
// Version information is set at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/powercap/pkg/api.version=1.0.0'"
package api
