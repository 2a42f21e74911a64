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

package defaults

import "time"

// Sysfs layout defaults.
const (
	// SysfsRoot is the powercap class directory published by the kernel.
	SysfsRoot = "/sys/class/powercap"

	// ControlTypeRAPL is the control type name of the Intel RAPL tree.
	ControlTypeRAPL = "intel-rapl"

	// ProcModules lists the loaded kernel modules.
	ProcModules = "/proc/modules"
)

// Bounded buffers for string attributes.
const (
	// PowerPlaneNameSize bounds the buffer used to classify a power plane.
	// It fits the longest role literal ("uncore") plus terminator.
	PowerPlaneNameSize = 8

	// ConstraintNameSize bounds the buffer used to verify constraint order.
	ConstraintNameSize = 32

	// MaxNameSize bounds zone and constraint names returned to callers.
	MaxNameSize = 64
)

// Inspect timeouts for tree snapshots.
const (
	// InspectTimeout bounds a full snapshot of every package, subzone and constraint.
	InspectTimeout = 30 * time.Second
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)
