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

// Package defaults provides centralized configuration constants for the powercap tools.
//
// This package defines the sysfs layout defaults, bounded buffer sizes, and the
// HTTP server timeouts used across the codebase. Centralizing these values ensures
// consistency and makes tuning easier.
//
// # Categories
//
//   - Sysfs: powercap class root and the RAPL control type name
//   - Buffers: bounded name buffers used during discovery and constraint repair
//   - Server timeouts: HTTP server configuration for the metrics endpoint
//   - Inspect timeouts: upper bound for a full tree snapshot
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/NVIDIA/powercap/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.InspectTimeout)
//	defer cancel()
package defaults
