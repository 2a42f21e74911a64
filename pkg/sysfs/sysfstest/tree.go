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

package sysfstest

import (
	"github.com/NVIDIA/powercap/pkg/defaults"
	"github.com/NVIDIA/powercap/pkg/sysfs"
)

// Root is the powercap class directory used by fake trees.
const Root = "/sys/class/powercap"

// Zone describes the attribute files of one zone. Empty fields other than
// Name are not created.
type Zone struct {
	Name             string
	MaxEnergyRangeUJ string
	EnergyUJ         string
	MaxPowerRangeUW  string
	PowerUW          string
	Enabled          string
}

// Constraint describes the attribute files of one constraint. Empty fields
// other than Name are not created.
type Constraint struct {
	Name            string
	PowerLimitUW    string
	TimeWindowUS    string
	MaxPowerUW      string
	MinPowerUW      string
	MaxTimeWindowUS string
	MinTimeWindowUS string
}

// Tree builds intel-rapl style zones into an FS.
type Tree struct {
	FS          *FS
	Resolver    sysfs.Resolver
	ControlType string
}

// NewTree returns a builder over a fresh FS rooted at Root for intel-rapl.
func NewTree() *Tree {
	fsys := New()
	fsys.AddDir(Root + "/" + defaults.ControlTypeRAPL)
	return &Tree{
		FS:          fsys,
		Resolver:    sysfs.NewResolver(Root),
		ControlType: defaults.ControlTypeRAPL,
	}
}

// ZonePath returns the path of a zone attribute.
func (t *Tree) ZonePath(zones []uint32, name string) string {
	return t.Resolver.ZoneFile(t.ControlType, zones, name)
}

// ConstraintPath returns the path of a constraint attribute.
func (t *Tree) ConstraintPath(zones []uint32, constraint uint32, name string) string {
	return t.Resolver.ConstraintFile(t.ControlType, zones, constraint, name)
}

// AddZone writes the attribute files of z under zones.
func (t *Tree) AddZone(zones []uint32, z Zone) {
	t.FS.AddDir(t.Resolver.ZoneDir(t.ControlType, zones))
	t.FS.AddFile(t.ZonePath(zones, "name"), line(z.Name))
	t.add(t.ZonePath(zones, "max_energy_range_uj"), z.MaxEnergyRangeUJ)
	t.add(t.ZonePath(zones, "energy_uj"), z.EnergyUJ)
	t.add(t.ZonePath(zones, "max_power_range_uw"), z.MaxPowerRangeUW)
	t.add(t.ZonePath(zones, "power_uw"), z.PowerUW)
	t.add(t.ZonePath(zones, "enabled"), z.Enabled)
}

// AddConstraint writes the attribute files of constraint n under zones.
func (t *Tree) AddConstraint(zones []uint32, n uint32, c Constraint) {
	t.FS.AddFile(t.ConstraintPath(zones, n, "name"), line(c.Name))
	t.add(t.ConstraintPath(zones, n, "power_limit_uw"), c.PowerLimitUW)
	t.add(t.ConstraintPath(zones, n, "time_window_us"), c.TimeWindowUS)
	t.add(t.ConstraintPath(zones, n, "max_power_uw"), c.MaxPowerUW)
	t.add(t.ConstraintPath(zones, n, "min_power_uw"), c.MinPowerUW)
	t.add(t.ConstraintPath(zones, n, "max_time_window_us"), c.MaxTimeWindowUS)
	t.add(t.ConstraintPath(zones, n, "min_time_window_us"), c.MinTimeWindowUS)
}

func (t *Tree) add(p, v string) {
	if v != "" {
		t.FS.AddFile(p, line(v))
	}
}

// AddRAPLZone writes a zone laid out the way intel-rapl exposes it, with its
// long_term and short_term constraints. power_uw, max_power_range_uw and the
// time window bounds are not created.
func (t *Tree) AddRAPLZone(zones []uint32, name string) {
	t.AddZone(zones, Zone{
		Name:             name,
		MaxEnergyRangeUJ: "262143328850",
		EnergyUJ:         "123456789",
		Enabled:          "1",
	})
	t.AddConstraint(zones, 0, Constraint{
		Name:         "long_term",
		PowerLimitUW: "95000000",
		TimeWindowUS: "27983872",
		MaxPowerUW:   "95000000",
		MinPowerUW:   "0",
	})
	t.AddConstraint(zones, 1, Constraint{
		Name:         "short_term",
		PowerLimitUW: "114000000",
		TimeWindowUS: "2440",
		MaxPowerUW:   "0",
		MinPowerUW:   "0",
	})
}

// AddPackage writes package pkg as a RAPL zone named package-<pkg> with the
// given power planes as subzones in order.
func (t *Tree) AddPackage(pkg uint32, planes ...string) {
	t.AddRAPLZone([]uint32{pkg}, "package-"+itoa(pkg))
	for i, plane := range planes {
		t.AddRAPLZone([]uint32{pkg, uint32(i)}, plane)
	}
}

func line(s string) string {
	return s + "\n"
}

func itoa(v uint32) string {
	return string(sysfs.FormatU64(uint64(v)))
}
