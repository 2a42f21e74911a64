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

package inspect

import (
	"github.com/NVIDIA/powercap/pkg/header"
)

// Snapshot is the tree of one control type.
type Snapshot struct {
	header.Header `json:",inline" yaml:",inline"`

	// ControlType is the name of the inspected tree, such as intel-rapl.
	ControlType string `json:"controlType" yaml:"controlType"`

	// Packages holds the inspected packages ordered by index.
	Packages []PackageInfo `json:"packages" yaml:"packages"`

	// KernelModules maps each RAPL driver to whether it is loaded. Nil unless
	// the inspector was given a module list.
	KernelModules map[string]bool `json:"kernelModules,omitempty" yaml:"kernelModules,omitempty"`
}

// PackageInfo is one package zone and its subzones.
type PackageInfo struct {
	Index uint32 `json:"index" yaml:"index"`

	// Zone is nil when only a subzone was requested.
	Zone *ZoneInfo `json:"zone,omitempty" yaml:"zone,omitempty"`

	Subzones []ZoneInfo `json:"subzones,omitempty" yaml:"subzones,omitempty"`
}

// ZoneInfo holds the attributes of one zone. Unavailable attributes are nil.
type ZoneInfo struct {
	// Subzone is the index under the package, nil for the package zone itself.
	Subzone *uint32 `json:"subzone,omitempty" yaml:"subzone,omitempty"`

	Name             string  `json:"name,omitempty" yaml:"name,omitempty"`
	Enabled          *bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	MaxEnergyRangeUJ *uint64 `json:"maxEnergyRangeUJ,omitempty" yaml:"maxEnergyRangeUJ,omitempty"`
	EnergyUJ         *uint64 `json:"energyUJ,omitempty" yaml:"energyUJ,omitempty"`
	MaxPowerRangeUW  *uint64 `json:"maxPowerRangeUW,omitempty" yaml:"maxPowerRangeUW,omitempty"`
	PowerUW          *uint64 `json:"powerUW,omitempty" yaml:"powerUW,omitempty"`

	Constraints []ConstraintInfo `json:"constraints,omitempty" yaml:"constraints,omitempty"`

	// Errors maps attribute names to read failures. Only filled in verbose mode.
	Errors map[string]string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// ConstraintInfo holds the attributes of one constraint.
type ConstraintInfo struct {
	Index uint32 `json:"index" yaml:"index"`

	Name            string  `json:"name,omitempty" yaml:"name,omitempty"`
	PowerLimitUW    *uint64 `json:"powerLimitUW,omitempty" yaml:"powerLimitUW,omitempty"`
	TimeWindowUS    *uint64 `json:"timeWindowUS,omitempty" yaml:"timeWindowUS,omitempty"`
	MaxPowerUW      *uint64 `json:"maxPowerUW,omitempty" yaml:"maxPowerUW,omitempty"`
	MinPowerUW      *uint64 `json:"minPowerUW,omitempty" yaml:"minPowerUW,omitempty"`
	MaxTimeWindowUS *uint64 `json:"maxTimeWindowUS,omitempty" yaml:"maxTimeWindowUS,omitempty"`
	MinTimeWindowUS *uint64 `json:"minTimeWindowUS,omitempty" yaml:"minTimeWindowUS,omitempty"`

	Errors map[string]string `json:"errors,omitempty" yaml:"errors,omitempty"`
}
