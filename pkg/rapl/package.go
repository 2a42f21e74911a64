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
	"context"
	"log/slog"

	"github.com/NVIDIA/powercap/pkg/defaults"
	"github.com/NVIDIA/powercap/pkg/errors"
	"github.com/NVIDIA/powercap/pkg/powercap"
)

// zoneFiles is one zone with its two constraint slots, indexed by Constraint.
type zoneFiles struct {
	opened      bool
	zone        powercap.ZoneFiles
	constraints [numConstraints]powercap.ConstraintFiles
}

func (zf *zoneFiles) close() error {
	first := zf.zone.Close()
	for i := range zf.constraints {
		if err := zf.constraints[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Package is an open session on one RAPL package. The zero value behaves like
// a package with no zones and is safe to Close.
type Package struct {
	index    uint32
	readOnly bool
	zones    [numZones]zoneFiles
}

// Open opens package pkg: the package zone and its constraints first, then
// every power plane in the role its name classifies it as. Any hard failure
// releases everything opened and returns the original error.
func Open(pkg uint32, opts ...Option) (*Package, error) {
	cfg := newConfig(opts)
	return openPackage(cfg.control(), pkg, cfg.readOnly)
}

func openPackage(ct *powercap.ControlType, index uint32, readOnly bool) (*Package, error) {
	if !ct.ZoneExists([]uint32{index}) {
		return nil, errors.NewWithContext(errors.ErrCodeNotFound, "package not found",
			map[string]any{"control_type": ct.Name(), "package": index})
	}
	p := &Package{index: index, readOnly: readOnly}
	if err := p.open(ct); err != nil {
		if cerr := p.Close(); cerr != nil {
			slog.Warn("failed to release package after open failure", "package", index, "error", cerr)
		}
		return nil, err
	}
	slog.Debug("package opened", "package", index, "read_only", readOnly)
	return p, nil
}

func (p *Package) open(ct *powercap.ControlType) error {
	if err := p.openZone(ct, ZonePackage, []uint32{p.index}); err != nil {
		return err
	}
	planes := ct.CountZones([]uint32{p.index})
	for i := uint32(0); i < planes; i++ {
		role, err := classifyPowerPlane(ct, p.index, i)
		if err != nil {
			return err
		}
		if p.zones[role].opened {
			slog.Warn("duplicate power plane, keeping the first", "package", p.index, "plane", i, "zone", role.String())
			continue
		}
		if err := p.openZone(ct, role, []uint32{p.index, i}); err != nil {
			return err
		}
	}
	return nil
}

func (p *Package) openZone(ct *powercap.ControlType, z Zone, path []uint32) error {
	zf := &p.zones[z]
	zf.opened = true
	if err := ct.OpenZoneInto(&zf.zone, path, p.readOnly); err != nil {
		return err
	}
	for _, c := range AllConstraints() {
		if err := ct.OpenConstraintInto(&zf.constraints[c], path, uint32(c), p.readOnly); err != nil {
			return err
		}
	}
	repairConstraintOrder(zf, p.index, z)
	return nil
}

// repairConstraintOrder swaps the constraint slots when neither carries the
// name expected for it. A single mismatched slot is reported and left alone.
func repairConstraintOrder(zf *zoneFiles, pkg uint32, z Zone) {
	longWrong := wrongConstraint(&zf.constraints[ConstraintLong], ConstraintLong)
	shortWrong := wrongConstraint(&zf.constraints[ConstraintShort], ConstraintShort)
	if !longWrong && !shortWrong {
		return
	}

	if longWrong && shortWrong {
		slog.Warn("long and short term constraints are out of order, swapping",
			"package", pkg, "zone", z.String())
		zf.constraints[ConstraintLong], zf.constraints[ConstraintShort] =
			zf.constraints[ConstraintShort], zf.constraints[ConstraintLong]
		return
	}

	// a zone with only long_term is common and not worth a warning
	level := slog.LevelDebug
	if namePresent(&zf.constraints[ConstraintLong]) && namePresent(&zf.constraints[ConstraintShort]) {
		level = slog.LevelWarn
	}
	slog.Log(context.Background(), level, "constraint name mismatch, leaving order unchanged",
		"package", pkg, "zone", z.String(), "long_ok", !longWrong, "short_ok", !shortWrong)
}

// wrongConstraint reports whether slot c does not prove it holds c: the name
// cannot be read, is empty, or differs.
func wrongConstraint(cf *powercap.ConstraintFiles, c Constraint) bool {
	var buf [defaults.ConstraintNameSize]byte
	n, err := cf.ReadName(buf[:])
	return err != nil || n == 0 || string(buf[:n]) != c.String()
}

func namePresent(cf *powercap.ConstraintFiles) bool {
	ok, _ := cf.Supported(powercap.ConstraintFileName)
	return ok
}

// Close releases every open descriptor exactly once. It is idempotent, safe on
// a nil, zero or partially opened Package, and returns the first release
// failure after attempting all of them.
func (p *Package) Close() error {
	if p == nil {
		return nil
	}
	var first error
	for i := range p.zones {
		if err := p.zones[i].close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Index returns the package index.
func (p *Package) Index() uint32 {
	return p.index
}

// ReadOnly reports whether the package was opened read-only.
func (p *Package) ReadOnly() bool {
	return p.readOnly
}
