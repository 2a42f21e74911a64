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
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/powercap/pkg/defaults"
	"github.com/NVIDIA/powercap/pkg/errors"
	"github.com/NVIDIA/powercap/pkg/header"
	"github.com/NVIDIA/powercap/pkg/powercap"
	"github.com/NVIDIA/powercap/pkg/serializer"
)

// Options narrows a snapshot. The zero value inspects only package zones.
type Options struct {
	// Package limits the snapshot to one package.
	Package *uint32
	// Subzone limits the snapshot to one subzone of Package.
	Subzone *uint32
	// Constraint limits the snapshot to one constraint of the selected zone.
	Constraint *uint32
	// Recurse includes subzones when no Subzone is selected.
	Recurse bool
	// Verbose records why attributes are missing.
	Verbose bool
}

// Validate checks option combinations.
func (o Options) Validate() error {
	if o.Package == nil && (o.Subzone != nil || o.Constraint != nil) {
		return errors.New(errors.ErrCodeInvalidArgument, "subzone and constraint require a package")
	}
	return nil
}

// Inspector builds snapshots of one control type and serializes them.
type Inspector struct {
	// ControlType is the tree to inspect. Required.
	ControlType *powercap.ControlType

	// Version is recorded in the snapshot header.
	Version string

	// ModulesPath lists loaded kernel modules, normally /proc/modules. When
	// set, the snapshot reports which RAPL drivers are loaded.
	ModulesPath string

	// Serializer receives the snapshot in Measure. If nil, JSON is written to stdout.
	Serializer serializer.Serializer
}

// Measure builds a snapshot and serializes it.
func (i *Inspector) Measure(ctx context.Context, opts Options) error {
	snap, err := i.Snapshot(ctx, opts)
	if err != nil {
		return err
	}
	if i.Serializer == nil {
		i.Serializer = serializer.NewStdoutWriter(serializer.FormatJSON)
	}
	if err := i.Serializer.Serialize(ctx, snap); err != nil {
		slog.Error("failed to serialize", slog.String("error", err.Error()))
		return fmt.Errorf("failed to serialize: %w", err)
	}
	return nil
}

// Snapshot builds the tree. Packages are read concurrently. A missing package,
// subzone or constraint selected in opts is NOT_FOUND; attributes that cannot
// be read are left out.
func (i *Inspector) Snapshot(ctx context.Context, opts Options) (*Snapshot, error) {
	if i.ControlType == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "control type is required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		inspectDuration.Observe(time.Since(start).Seconds())
	}()

	snap, err := i.snapshot(ctx, opts)
	if err != nil {
		inspectTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	inspectTotal.WithLabelValues("success").Inc()
	return snap, nil
}

func (i *Inspector) snapshot(ctx context.Context, opts Options) (*Snapshot, error) {
	ct := i.ControlType

	var mods map[string]bool
	if i.ModulesPath != "" {
		var err error
		if mods, err = kernelModules(ctx, i.ModulesPath); err != nil {
			slog.Warn("failed to read kernel modules", "path", i.ModulesPath, "error", err)
		}
	}

	indices, err := i.packages(opts)
	if err != nil {
		if mods != nil {
			slog.Warn("packages unavailable", "kernelModules", mods, "error", err)
		}
		return nil, err
	}

	snap := &Snapshot{
		ControlType: ct.Name(),
		Packages:    make([]PackageInfo, len(indices)),

		KernelModules: mods,
	}
	snap.Init(header.KindSnapshot, header.APIVersion, i.Version)

	g, gctx := errgroup.WithContext(ctx)
	for n, pkg := range indices {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			info, err := i.inspectPackage(pkg, opts)
			if err != nil {
				return err
			}
			snap.Packages[n] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Debug("snapshot complete", slog.Int("packages", len(snap.Packages)))
	return snap, nil
}

func (i *Inspector) packages(opts Options) ([]uint32, error) {
	ct := i.ControlType
	if opts.Package != nil {
		if !ct.ZoneExists([]uint32{*opts.Package}) {
			return nil, errors.NewWithContext(errors.ErrCodeNotFound, "package does not exist",
				map[string]any{"package": *opts.Package})
		}
		return []uint32{*opts.Package}, nil
	}
	n := ct.CountZones(nil)
	if n == 0 {
		return nil, errors.NewWithContext(errors.ErrCodeNotFound,
			"no packages found, is the intel_rapl kernel module loaded?",
			map[string]any{"control_type": ct.Name()})
	}
	out := make([]uint32, n)
	for k := range out {
		out[k] = uint32(k)
	}
	return out, nil
}

func (i *Inspector) inspectPackage(pkg uint32, opts Options) (PackageInfo, error) {
	ct := i.ControlType
	info := PackageInfo{Index: pkg}

	if opts.Subzone != nil {
		zones := []uint32{pkg, *opts.Subzone}
		if !ct.ZoneExists(zones) {
			return info, errors.NewWithContext(errors.ErrCodeNotFound, "subzone does not exist",
				map[string]any{"package": pkg, "subzone": *opts.Subzone})
		}
		z, err := i.inspectZone(zones, opts)
		if err != nil {
			return info, err
		}
		info.Subzones = []ZoneInfo{z}
		return info, nil
	}

	z, err := i.inspectZone([]uint32{pkg}, opts)
	if err != nil {
		return info, err
	}
	info.Zone = &z

	if !opts.Recurse || opts.Constraint != nil {
		return info, nil
	}
	n := ct.CountZones([]uint32{pkg})
	for sz := uint32(0); sz < n; sz++ {
		sub, err := i.inspectZone([]uint32{pkg, sz}, opts)
		if err != nil {
			return info, err
		}
		info.Subzones = append(info.Subzones, sub)
	}
	return info, nil
}

func (i *Inspector) inspectZone(zones []uint32, opts Options) (ZoneInfo, error) {
	ct := i.ControlType
	var z ZoneInfo
	if len(zones) > 1 {
		sz := zones[len(zones)-1]
		z.Subzone = &sz
	}

	if opts.Constraint != nil {
		if !ct.ConstraintExists(zones, *opts.Constraint) {
			return z, errors.NewWithContext(errors.ErrCodeNotFound, "constraint does not exist",
				map[string]any{"zone": zones, "constraint": *opts.Constraint})
		}
		z.Constraints = []ConstraintInfo{i.inspectConstraint(zones, *opts.Constraint, opts.Verbose)}
		return z, nil
	}

	r := newRecorder(opts.Verbose)
	z.Name = r.str("name", func(buf []byte) (int, error) {
		return ct.ReadZoneString(zones, powercap.ZoneFileName, buf)
	})
	if v := r.u64("enabled", func() (uint64, error) { return ct.ReadZoneU64(zones, powercap.ZoneFileEnabled) }); v != nil {
		enabled := *v != 0
		z.Enabled = &enabled
	}
	z.MaxEnergyRangeUJ = r.zoneU64(ct, zones, powercap.ZoneFileMaxEnergyRangeUJ)
	z.EnergyUJ = r.zoneU64(ct, zones, powercap.ZoneFileEnergyUJ)
	z.MaxPowerRangeUW = r.zoneU64(ct, zones, powercap.ZoneFileMaxPowerRangeUW)
	z.PowerUW = r.zoneU64(ct, zones, powercap.ZoneFilePowerUW)
	z.Errors = r.errors

	n := ct.CountConstraints(zones)
	for c := uint32(0); c < n; c++ {
		z.Constraints = append(z.Constraints, i.inspectConstraint(zones, c, opts.Verbose))
	}
	return z, nil
}

func (i *Inspector) inspectConstraint(zones []uint32, c uint32, verbose bool) ConstraintInfo {
	ct := i.ControlType
	r := newRecorder(verbose)
	info := ConstraintInfo{Index: c}
	info.Name = r.str("name", func(buf []byte) (int, error) {
		return ct.ReadConstraintString(zones, c, powercap.ConstraintFileName, buf)
	})
	info.PowerLimitUW = r.constraintU64(ct, zones, c, powercap.ConstraintFilePowerLimitUW)
	info.TimeWindowUS = r.constraintU64(ct, zones, c, powercap.ConstraintFileTimeWindowUS)
	info.MaxPowerUW = r.constraintU64(ct, zones, c, powercap.ConstraintFileMaxPowerUW)
	info.MinPowerUW = r.constraintU64(ct, zones, c, powercap.ConstraintFileMinPowerUW)
	info.MaxTimeWindowUS = r.constraintU64(ct, zones, c, powercap.ConstraintFileMaxTimeWindowUS)
	info.MinTimeWindowUS = r.constraintU64(ct, zones, c, powercap.ConstraintFileMinTimeWindowUS)
	info.Errors = r.errors
	return info
}

// recorder collects attribute values, keeping failures only in verbose mode.
type recorder struct {
	verbose bool
	errors  map[string]string
}

func newRecorder(verbose bool) *recorder {
	return &recorder{verbose: verbose}
}

func (r *recorder) fail(attr string, err error) {
	code := errors.CodeOf(err)
	inspectAttributeErrors.WithLabelValues(string(code)).Inc()
	slog.Debug("attribute unavailable", "attribute", attr, "error", err)
	if !r.verbose {
		return
	}
	if r.errors == nil {
		r.errors = make(map[string]string)
	}
	r.errors[attr] = err.Error()
}

func (r *recorder) u64(attr string, read func() (uint64, error)) *uint64 {
	v, err := read()
	if err != nil {
		r.fail(attr, err)
		return nil
	}
	return &v
}

func (r *recorder) str(attr string, read func([]byte) (int, error)) string {
	var buf [defaults.MaxNameSize]byte
	n, err := read(buf[:])
	if err != nil {
		r.fail(attr, err)
		return ""
	}
	return string(buf[:n])
}

func (r *recorder) zoneU64(ct *powercap.ControlType, zones []uint32, f powercap.ZoneFile) *uint64 {
	return r.u64(f.String(), func() (uint64, error) { return ct.ReadZoneU64(zones, f) })
}

func (r *recorder) constraintU64(ct *powercap.ControlType, zones []uint32, c uint32, f powercap.ConstraintFile) *uint64 {
	return r.u64(f.String(), func() (uint64, error) { return ct.ReadConstraintU64(zones, c, f) })
}
