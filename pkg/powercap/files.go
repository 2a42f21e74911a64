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

package powercap

import (
	"fmt"

	"github.com/NVIDIA/powercap/pkg/sysfs"
)

// ZoneFile selects a zone attribute.
type ZoneFile int

const (
	ZoneFileMaxEnergyRangeUJ ZoneFile = iota
	ZoneFileEnergyUJ
	ZoneFileMaxPowerRangeUW
	ZoneFilePowerUW
	ZoneFileEnabled
	ZoneFileName

	numZoneFiles
)

var zoneFilenames = [numZoneFiles]string{
	ZoneFileMaxEnergyRangeUJ: "max_energy_range_uj",
	ZoneFileEnergyUJ:         "energy_uj",
	ZoneFileMaxPowerRangeUW:  "max_power_range_uw",
	ZoneFilePowerUW:          "power_uw",
	ZoneFileEnabled:          "enabled",
	ZoneFileName:             "name",
}

// AllZoneFiles lists every zone attribute in open order.
func AllZoneFiles() []ZoneFile {
	out := make([]ZoneFile, numZoneFiles)
	for i := range out {
		out[i] = ZoneFile(i)
	}
	return out
}

// Valid reports whether f names a known zone attribute.
func (f ZoneFile) Valid() bool {
	return f >= 0 && f < numZoneFiles
}

// Filename returns the attribute filename, or an empty string for an unknown selector.
func (f ZoneFile) Filename() string {
	if !f.Valid() {
		return ""
	}
	return zoneFilenames[f]
}

// String returns the attribute filename.
func (f ZoneFile) String() string {
	if !f.Valid() {
		return fmt.Sprintf("ZoneFile(%d)", int(f))
	}
	return zoneFilenames[f]
}

// Writable reports whether the attribute may be opened for writing.
func (f ZoneFile) Writable() bool {
	return f == ZoneFileEnergyUJ || f == ZoneFileEnabled
}

// ParseZoneFile resolves an attribute filename.
func ParseZoneFile(name string) (ZoneFile, bool) {
	for i, n := range zoneFilenames {
		if n == name {
			return ZoneFile(i), true
		}
	}
	return 0, false
}

// ConstraintFile selects a constraint attribute.
type ConstraintFile int

const (
	ConstraintFilePowerLimitUW ConstraintFile = iota
	ConstraintFileTimeWindowUS
	ConstraintFileMaxPowerUW
	ConstraintFileMinPowerUW
	ConstraintFileMaxTimeWindowUS
	ConstraintFileMinTimeWindowUS
	ConstraintFileName

	numConstraintFiles
)

var constraintSuffixes = [numConstraintFiles]string{
	ConstraintFilePowerLimitUW:    "power_limit_uw",
	ConstraintFileTimeWindowUS:    "time_window_us",
	ConstraintFileMaxPowerUW:      "max_power_uw",
	ConstraintFileMinPowerUW:      "min_power_uw",
	ConstraintFileMaxTimeWindowUS: "max_time_window_us",
	ConstraintFileMinTimeWindowUS: "min_time_window_us",
	ConstraintFileName:            "name",
}

// AllConstraintFiles lists every constraint attribute in open order.
func AllConstraintFiles() []ConstraintFile {
	out := make([]ConstraintFile, numConstraintFiles)
	for i := range out {
		out[i] = ConstraintFile(i)
	}
	return out
}

// Valid reports whether f names a known constraint attribute.
func (f ConstraintFile) Valid() bool {
	return f >= 0 && f < numConstraintFiles
}

// Suffix returns the attribute name without the constraint_<n>_ prefix.
func (f ConstraintFile) Suffix() string {
	if !f.Valid() {
		return ""
	}
	return constraintSuffixes[f]
}

// Filename returns the attribute filename for constraint n.
func (f ConstraintFile) Filename(n uint32) string {
	if !f.Valid() {
		return ""
	}
	return sysfs.ConstraintFilename(n, constraintSuffixes[f])
}

// String returns the attribute suffix.
func (f ConstraintFile) String() string {
	if !f.Valid() {
		return fmt.Sprintf("ConstraintFile(%d)", int(f))
	}
	return constraintSuffixes[f]
}

// Writable reports whether the attribute may be opened for writing.
func (f ConstraintFile) Writable() bool {
	return f == ConstraintFilePowerLimitUW || f == ConstraintFileTimeWindowUS
}

// ParseConstraintFile resolves an attribute suffix such as "power_limit_uw".
func ParseConstraintFile(name string) (ConstraintFile, bool) {
	for i, n := range constraintSuffixes {
		if n == name {
			return ConstraintFile(i), true
		}
	}
	return 0, false
}

// modeFor derives the open mode of an attribute from the session mode.
func modeFor(writable, readOnly bool) sysfs.AccessMode {
	if writable && !readOnly {
		return sysfs.ReadWrite
	}
	return sysfs.ReadOnly
}
