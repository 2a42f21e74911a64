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

package limits

import (
	"time"

	"github.com/NVIDIA/powercap/pkg/header"
)

// Limits is a document of power limits to apply.
type Limits struct {
	header.Header `json:",inline" yaml:",inline"`

	Limits []Limit `json:"limits" yaml:"limits"`
}

// Limit sets attributes of one zone. Nil settings are left untouched.
type Limit struct {
	// Package is the package index.
	Package uint32 `json:"package" yaml:"package"`

	// Zone is the zone role: package, core, uncore, dram or psys.
	Zone string `json:"zone" yaml:"zone"`

	// Constraint is long_term or short_term. Required by PowerLimitUW and TimeWindowUS.
	Constraint string `json:"constraint,omitempty" yaml:"constraint,omitempty"`

	Enabled      *bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	PowerLimitUW *uint64 `json:"powerLimitUW,omitempty" yaml:"powerLimitUW,omitempty"`
	TimeWindowUS *uint64 `json:"timeWindowUS,omitempty" yaml:"timeWindowUS,omitempty"`
}

// Setting names one attribute an entry can change.
type Setting string

const (
	SettingEnabled      Setting = "enabled"
	SettingPowerLimitUW Setting = "power_limit_uw"
	SettingTimeWindowUS Setting = "time_window_us"
)

// Status is the outcome of one setting.
type Status string

const (
	// StatusApplied indicates the value was written.
	StatusApplied Status = "applied"

	// StatusFailed indicates the write or the lookup of its target failed.
	StatusFailed Status = "failed"

	// StatusSkipped indicates a dry run.
	StatusSkipped Status = "skipped"
)

// ResultStatus is the overall outcome of an apply.
type ResultStatus string

const (
	ResultStatusPass ResultStatus = "pass"
	ResultStatusFail ResultStatus = "fail"
)

// Result reports what Apply did.
type Result struct {
	header.Header `json:",inline" yaml:",inline"`

	// DryRun is true when nothing was written.
	DryRun bool `json:"dryRun" yaml:"dryRun"`

	Summary Summary `json:"summary" yaml:"summary"`

	Results []SettingResult `json:"results" yaml:"results"`
}

// Summary contains aggregate counts of an apply.
type Summary struct {
	Applied  int           `json:"applied" yaml:"applied"`
	Failed   int           `json:"failed" yaml:"failed"`
	Skipped  int           `json:"skipped" yaml:"skipped"`
	Total    int           `json:"total" yaml:"total"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Status   ResultStatus  `json:"status" yaml:"status"`
}

// SettingResult is the outcome of one setting of one entry.
type SettingResult struct {
	Package    uint32  `json:"package" yaml:"package"`
	Zone       string  `json:"zone" yaml:"zone"`
	Constraint string  `json:"constraint,omitempty" yaml:"constraint,omitempty"`
	Setting    Setting `json:"setting" yaml:"setting"`
	Value      uint64  `json:"value" yaml:"value"`

	// Previous is the value read before writing, nil if it could not be read.
	Previous *uint64 `json:"previous,omitempty" yaml:"previous,omitempty"`

	Status Status `json:"status" yaml:"status"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}
