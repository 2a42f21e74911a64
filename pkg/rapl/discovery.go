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

package rapl

import (
	"log/slog"

	"github.com/NVIDIA/powercap/pkg/defaults"
	"github.com/NVIDIA/powercap/pkg/errors"
	"github.com/NVIDIA/powercap/pkg/powercap"
)

// CountPackages returns the number of packages. Finding none is a NOT_FOUND
// error since it usually means the intel_rapl module is not loaded.
func CountPackages(opts ...Option) (uint32, error) {
	return countPackages(newConfig(opts).control())
}

func countPackages(ct *powercap.ControlType) (uint32, error) {
	n := ct.CountZones(nil)
	if n == 0 {
		slog.Error("no packages found, is the intel_rapl kernel module loaded?", "control_type", ct.Name())
		return 0, errors.NewWithContext(errors.ErrCodeNotFound, "no packages found",
			map[string]any{"control_type": ct.Name()})
	}
	return n, nil
}

// CountPowerPlanes returns the number of power planes under package pkg.
func CountPowerPlanes(pkg uint32, opts ...Option) uint32 {
	return newConfig(opts).control().CountZones([]uint32{pkg})
}

// PackageExists reports whether package pkg is present.
func PackageExists(pkg uint32, opts ...Option) bool {
	return newConfig(opts).control().ZoneExists([]uint32{pkg})
}

// PowerPlaneExists reports whether power plane plane of package pkg is present.
func PowerPlaneExists(pkg, plane uint32, opts ...Option) bool {
	return newConfig(opts).control().ZoneExists([]uint32{pkg, plane})
}

// ConstraintExists reports whether constraint c of the package zone, or of one
// of its power planes when isPlane is set, is present.
func ConstraintExists(pkg, plane uint32, isPlane bool, c uint32, opts ...Option) bool {
	return newConfig(opts).control().ConstraintExists(zonePath(pkg, plane, isPlane), c)
}

// CountConstraints returns the number of constraints of the package zone, or
// of one of its power planes when isPlane is set.
func CountConstraints(pkg, plane uint32, isPlane bool, opts ...Option) uint32 {
	return newConfig(opts).control().CountConstraints(zonePath(pkg, plane, isPlane))
}

// ClassifyPowerPlane reads the name of a power plane and maps it to its role.
// Anything other than core, uncore, dram or psys is INVALID_ARGUMENT, as is
// failing to read the name at all.
func ClassifyPowerPlane(pkg, plane uint32, opts ...Option) (Zone, error) {
	return classifyPowerPlane(newConfig(opts).control(), pkg, plane)
}

func classifyPowerPlane(ct *powercap.ControlType, pkg, plane uint32) (Zone, error) {
	var buf [defaults.PowerPlaneNameSize]byte
	n, err := ct.ReadZoneString([]uint32{pkg, plane}, powercap.ZoneFileName, buf[:])
	if err != nil {
		return 0, errors.WrapWithContext(errors.ErrCodeInvalidArgument, "failed to read power plane name", err,
			map[string]any{"package": pkg, "plane": plane})
	}
	name := string(buf[:n])
	z, ok := planeRole(name)
	if !ok {
		slog.Error("unknown power plane", "package", pkg, "plane", plane, "name", name)
		return 0, errors.NewWithContext(errors.ErrCodeInvalidArgument, "unknown power plane",
			map[string]any{"package": pkg, "plane": plane, "name": name})
	}
	return z, nil
}

func zonePath(pkg, plane uint32, isPlane bool) []uint32 {
	if isPlane {
		return []uint32{pkg, plane}
	}
	return []uint32{pkg}
}
