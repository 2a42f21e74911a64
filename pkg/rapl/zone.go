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
	"fmt"
	"strings"

	"github.com/NVIDIA/powercap/pkg/errors"
)

// Zone selects the package zone or one of the power plane roles.
type Zone int

const (
	ZonePackage Zone = iota
	ZoneCore
	ZoneUncore
	ZoneDRAM
	ZonePSys

	numZones
)

var zoneNames = [numZones]string{
	ZonePackage: "package",
	ZoneCore:    "core",
	ZoneUncore:  "uncore",
	ZoneDRAM:    "dram",
	ZonePSys:    "psys",
}

// AllZones lists the package zone followed by every power plane role.
func AllZones() []Zone {
	return []Zone{ZonePackage, ZoneCore, ZoneUncore, ZoneDRAM, ZonePSys}
}

// Valid reports whether z is a known zone.
func (z Zone) Valid() bool {
	return z >= 0 && z < numZones
}

// IsPowerPlane reports whether z is a subordinate power plane role.
func (z Zone) IsPowerPlane() bool {
	return z.Valid() && z != ZonePackage
}

func (z Zone) String() string {
	if !z.Valid() {
		return fmt.Sprintf("Zone(%d)", int(z))
	}
	return zoneNames[z]
}

// ParseZone resolves a zone name, case-insensitively.
func ParseZone(name string) (Zone, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "pkg" {
		return ZonePackage, nil
	}
	for i, zn := range zoneNames {
		if zn == n {
			return Zone(i), nil
		}
	}
	return 0, errors.NewWithContext(errors.ErrCodeInvalidArgument, "unknown zone",
		map[string]any{"zone": name, "valid": zoneNames[:]})
}

// planeRole matches a power plane name exactly against the role literals.
func planeRole(name string) (Zone, bool) {
	for _, z := range []Zone{ZoneCore, ZoneUncore, ZoneDRAM, ZonePSys} {
		if zoneNames[z] == name {
			return z, true
		}
	}
	return 0, false
}

// Constraint selects the long-term or short-term constraint of a zone.
type Constraint int

const (
	ConstraintLong Constraint = iota
	ConstraintShort

	numConstraints
)

var constraintNames = [numConstraints]string{
	ConstraintLong:  "long_term",
	ConstraintShort: "short_term",
}

// AllConstraints lists both constraints in slot order.
func AllConstraints() []Constraint {
	return []Constraint{ConstraintLong, ConstraintShort}
}

// Valid reports whether c is a known constraint.
func (c Constraint) Valid() bool {
	return c >= 0 && c < numConstraints
}

// String returns the name the kernel reports for the constraint.
func (c Constraint) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Constraint(%d)", int(c))
	}
	return constraintNames[c]
}

// ParseConstraint resolves "long", "long_term", "short" or "short_term".
func ParseConstraint(name string) (Constraint, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "long", "long_term", "0":
		return ConstraintLong, nil
	case "short", "short_term", "1":
		return ConstraintShort, nil
	default:
		return 0, errors.NewWithContext(errors.ErrCodeInvalidArgument, "unknown constraint",
			map[string]any{"constraint": name})
	}
}
