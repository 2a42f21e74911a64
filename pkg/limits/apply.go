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
	"context"
	"log/slog"
	"time"

	"github.com/NVIDIA/powercap/pkg/errors"
	"github.com/NVIDIA/powercap/pkg/header"
	"github.com/NVIDIA/powercap/pkg/rapl"
)

// Applier writes limits documents to opened packages.
type Applier struct {
	// Version is recorded in the result header.
	Version string

	// DryRun reads current values without writing.
	DryRun bool
}

// Option is a functional option for configuring Applier instances.
type Option func(*Applier)

// WithVersion sets the version recorded in results.
func WithVersion(version string) Option {
	return func(a *Applier) {
		a.Version = version
	}
}

// WithDryRun disables writes.
func WithDryRun(dryRun bool) Option {
	return func(a *Applier) {
		a.DryRun = dryRun
	}
}

// NewApplier creates an Applier with the provided options.
func NewApplier(opts ...Option) *Applier {
	a := &Applier{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply validates doc and applies each entry to the package with the matching
// index. Setting failures are recorded in the result; the returned error is
// reserved for an invalid document or a canceled context.
func (a *Applier) Apply(ctx context.Context, doc *Limits, pkgs rapl.Packages) (*Result, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "limits document is nil")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		applyDuration.Observe(time.Since(start).Seconds())
	}()

	res := &Result{DryRun: a.DryRun}
	res.Init(header.KindApplyResult, header.APIVersion, a.Version)

	byIndex := make(map[uint32]*rapl.Package, len(pkgs))
	for _, p := range pkgs {
		if p != nil {
			byIndex[p.Index()] = p
		}
	}

	for _, l := range doc.Limits {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		res.Results = append(res.Results, a.applyLimit(byIndex[l.Package], l)...)
	}

	for _, r := range res.Results {
		settingsTotal.WithLabelValues(string(r.Setting), string(r.Status)).Inc()
		switch r.Status {
		case StatusApplied:
			res.Summary.Applied++
		case StatusFailed:
			res.Summary.Failed++
		case StatusSkipped:
			res.Summary.Skipped++
		}
	}
	res.Summary.Total = len(res.Results)
	res.Summary.Duration = time.Since(start)
	res.Summary.Status = ResultStatusPass
	if res.Summary.Failed > 0 {
		res.Summary.Status = ResultStatusFail
	}

	slog.Info("limits applied",
		"applied", res.Summary.Applied,
		"failed", res.Summary.Failed,
		"skipped", res.Summary.Skipped,
		"dryRun", a.DryRun)
	return res, nil
}

// setting is one write of an entry with its matching read.
type setting struct {
	name  Setting
	value uint64
	read  func() (uint64, error)
	write func() error
}

func (a *Applier) applyLimit(p *rapl.Package, l Limit) []SettingResult {
	// Validate already accepted both names.
	z, _ := rapl.ParseZone(l.Zone)
	var c rapl.Constraint
	if l.Constraint != "" {
		c, _ = rapl.ParseConstraint(l.Constraint)
	}

	var settings []setting
	if l.Enabled != nil {
		enabled := *l.Enabled
		settings = append(settings, setting{
			name:  SettingEnabled,
			value: boolU64(enabled),
			read: func() (uint64, error) {
				v, err := p.IsEnabled(z)
				return boolU64(v), err
			},
			write: func() error { return p.SetEnabled(z, enabled) },
		})
	}
	if l.PowerLimitUW != nil {
		v := *l.PowerLimitUW
		settings = append(settings, setting{
			name:  SettingPowerLimitUW,
			value: v,
			read:  func() (uint64, error) { return p.PowerLimitUW(z, c) },
			write: func() error { return p.SetPowerLimitUW(z, c, v) },
		})
	}
	if l.TimeWindowUS != nil {
		v := *l.TimeWindowUS
		settings = append(settings, setting{
			name:  SettingTimeWindowUS,
			value: v,
			read:  func() (uint64, error) { return p.TimeWindowUS(z, c) },
			write: func() error { return p.SetTimeWindowUS(z, c, v) },
		})
	}

	out := make([]SettingResult, 0, len(settings))
	for _, s := range settings {
		r := SettingResult{
			Package: l.Package,
			Zone:    z.String(),
			Setting: s.name,
			Value:   s.value,
		}
		if l.Constraint != "" {
			r.Constraint = c.String()
		}
		if p == nil {
			r.Status = StatusFailed
			r.Error = errors.NewWithContext(errors.ErrCodeNotFound, "package is not open",
				map[string]any{"package": l.Package}).Error()
			out = append(out, r)
			continue
		}
		if prev, err := s.read(); err == nil {
			r.Previous = &prev
		}
		r.Status = a.write(s, &r)
		out = append(out, r)
	}
	return out
}

func (a *Applier) write(s setting, r *SettingResult) Status {
	if a.DryRun {
		return StatusSkipped
	}
	if err := s.write(); err != nil {
		slog.Error("failed to apply limit",
			"package", r.Package, "zone", r.Zone, "constraint", r.Constraint,
			"setting", r.Setting, "error", err)
		r.Error = err.Error()
		return StatusFailed
	}
	slog.Debug("limit applied",
		"package", r.Package, "zone", r.Zone, "constraint", r.Constraint,
		"setting", r.Setting, "value", r.Value)
	return StatusApplied
}

func boolU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
