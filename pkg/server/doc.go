// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server provides the HTTP server shared by the powercap daemon
// endpoints.
//
// # Architecture
//
// Callers register their own routes with WithHandler. Every registered route
// is wrapped in the common middleware chain:
//
//   - Prometheus request metrics
//   - API version negotiation via the Accept header
//     (application/vnd.nvidia.powercap.v1+json)
//   - Request ID tracking (X-Request-Id, UUID)
//   - Panic recovery
//   - Rate limiting (golang.org/x/time/rate token bucket)
//   - Debug request logging
//
// System endpoints bypass the chain:
//
//	GET /health   liveness, always 200
//	GET /ready    readiness, 503 while shutting down or while the
//	              readiness check fails
//	GET /metrics  Prometheus exposition of the default registry
//
// A GET / route listing the registered routes is added unless the caller
// registers its own.
//
// # Usage
//
//	s := server.New(
//	    server.WithName("powercap"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/zones": handleZones,
//	    }),
//	    server.WithReadinessCheck(func() error { return nil }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// # Configuration
//
// NewConfig reads PORT and SHUTDOWN_TIMEOUT_SECONDS from the environment.
// Errors are written as ErrorResponse with an HTTP status derived from the
// pkg/errors code by HTTPStatusFromCode.
package server
