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
	"log/slog"

	"github.com/NVIDIA/powercap/pkg/defaults"
	"github.com/NVIDIA/powercap/pkg/errors"
	"github.com/NVIDIA/powercap/pkg/sysfs"
)

// ControlType addresses one powercap tree, such as intel-rapl.
type ControlType struct {
	name     string
	fs       sysfs.FS
	resolver sysfs.Resolver
}

// Option configures a ControlType.
type Option func(*ControlType)

// WithFS sets the filesystem used for every open and probe.
func WithFS(fsys sysfs.FS) Option {
	return func(c *ControlType) {
		c.fs = fsys
	}
}

// WithRoot sets the powercap class directory, /sys/class/powercap by default.
func WithRoot(root string) Option {
	return func(c *ControlType) {
		c.resolver = sysfs.NewResolver(root)
	}
}

// NewControlType returns a handle on the named control type. An empty name
// selects intel-rapl.
func NewControlType(name string, opts ...Option) *ControlType {
	if name == "" {
		name = defaults.ControlTypeRAPL
	}
	c := &ControlType{
		name:     name,
		resolver: sysfs.NewResolver(""),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fs == nil {
		c.fs = sysfs.NewOSFS()
	}
	return c
}

// Name returns the control type name.
func (c *ControlType) Name() string {
	return c.name
}

// FS returns the filesystem the control type reads through.
func (c *ControlType) FS() sysfs.FS {
	return c.fs
}

// Resolver returns the path resolver.
func (c *ControlType) Resolver() sysfs.Resolver {
	return c.resolver
}

// Exists reports whether the control type directory is present.
func (c *ControlType) Exists() bool {
	return c.isDir(c.resolver.ControlTypeDir(c.name))
}

// ZoneExists reports whether the zone directory addressed by zones is present.
func (c *ControlType) ZoneExists(zones []uint32) bool {
	return c.isDir(c.resolver.ZoneDir(c.name, zones))
}

// ConstraintExists reports whether a constraint is present. A constraint
// exists iff its power_limit_uw attribute is a regular file.
func (c *ControlType) ConstraintExists(zones []uint32, constraint uint32) bool {
	fi, err := c.fs.Stat(c.resolver.ConstraintFile(c.name, zones, constraint, ConstraintFilePowerLimitUW.Suffix()))
	return err == nil && fi.Mode().IsRegular()
}

// CountZones probes child zones of parent at index 0,1,2,... until one is missing.
func (c *ControlType) CountZones(parent []uint32) uint32 {
	zones := make([]uint32, len(parent)+1)
	copy(zones, parent)
	var n uint32
	for {
		zones[len(parent)] = n
		if !c.ZoneExists(zones) {
			return n
		}
		n++
	}
}

// CountConstraints probes constraints of a zone at index 0,1,2,... until one is missing.
func (c *ControlType) CountConstraints(zones []uint32) uint32 {
	var n uint32
	for c.ConstraintExists(zones, n) {
		n++
	}
	return n
}

func (c *ControlType) isDir(p string) bool {
	fi, err := c.fs.Stat(p)
	return err == nil && fi.IsDir()
}

// OpenZone opens every attribute of a zone. A missing attribute is left absent.
// energy_uj falls back to read-only when a writable open is denied. Any other
// failure releases what was opened and is returned.
func (c *ControlType) OpenZone(zones []uint32, readOnly bool) (*ZoneFiles, error) {
	z := &ZoneFiles{}
	if err := c.OpenZoneInto(z, zones, readOnly); err != nil {
		return nil, err
	}
	return z, nil
}

// OpenZoneInto opens a zone into a caller-owned set, which must be unopened.
// On failure the set holds no open descriptors.
func (c *ControlType) OpenZoneInto(z *ZoneFiles, zones []uint32, readOnly bool) error {
	slog.Debug("opening zone", "control_type", c.name, "zone", c.resolver.ZoneDir(c.name, zones), "read_only", readOnly)
	return openSet(c.fs, z.files[:], zoneSpecs(c.resolver, c.name, zones, readOnly))
}

// OpenConstraint opens every attribute of one constraint of a zone.
func (c *ControlType) OpenConstraint(zones []uint32, constraint uint32, readOnly bool) (*ConstraintFiles, error) {
	cf := &ConstraintFiles{}
	if err := c.OpenConstraintInto(cf, zones, constraint, readOnly); err != nil {
		return nil, err
	}
	return cf, nil
}

// OpenConstraintInto opens a constraint into a caller-owned set, which must be unopened.
// On failure the set holds no open descriptors.
func (c *ControlType) OpenConstraintInto(cf *ConstraintFiles, zones []uint32, constraint uint32, readOnly bool) error {
	slog.Debug("opening constraint", "control_type", c.name, "zone", c.resolver.ZoneDir(c.name, zones),
		"constraint", constraint, "read_only", readOnly)
	return openSet(c.fs, cf.files[:], constraintSpecs(c.resolver, c.name, zones, constraint, readOnly))
}

// ReadZoneU64 opens, reads, and closes one numeric zone attribute.
func (c *ControlType) ReadZoneU64(zones []uint32, f ZoneFile) (uint64, error) {
	if !f.Valid() {
		return 0, errors.New(errors.ErrCodeInvalidArgument, "unknown zone file")
	}
	return c.readU64(c.resolver.ZoneFile(c.name, zones, f.Filename()))
}

// ReadZoneString opens, reads, and closes one string zone attribute.
func (c *ControlType) ReadZoneString(zones []uint32, f ZoneFile, buf []byte) (int, error) {
	if !f.Valid() {
		return 0, errors.New(errors.ErrCodeInvalidArgument, "unknown zone file")
	}
	return c.readString(c.resolver.ZoneFile(c.name, zones, f.Filename()), buf)
}

// WriteZoneU64 opens, writes, and closes one writable zone attribute.
func (c *ControlType) WriteZoneU64(zones []uint32, f ZoneFile, v uint64) error {
	if !f.Valid() {
		return errors.New(errors.ErrCodeInvalidArgument, "unknown zone file")
	}
	if !f.Writable() {
		return errors.NewWithContext(errors.ErrCodePermission, "zone attribute is read-only",
			map[string]any{"file": f.String()})
	}
	return c.writeU64(c.resolver.ZoneFile(c.name, zones, f.Filename()), v)
}

// ReadConstraintU64 opens, reads, and closes one numeric constraint attribute.
func (c *ControlType) ReadConstraintU64(zones []uint32, constraint uint32, f ConstraintFile) (uint64, error) {
	if !f.Valid() {
		return 0, errors.New(errors.ErrCodeInvalidArgument, "unknown constraint file")
	}
	return c.readU64(c.resolver.ConstraintFile(c.name, zones, constraint, f.Suffix()))
}

// ReadConstraintString opens, reads, and closes one string constraint attribute.
func (c *ControlType) ReadConstraintString(zones []uint32, constraint uint32, f ConstraintFile, buf []byte) (int, error) {
	if !f.Valid() {
		return 0, errors.New(errors.ErrCodeInvalidArgument, "unknown constraint file")
	}
	return c.readString(c.resolver.ConstraintFile(c.name, zones, constraint, f.Suffix()), buf)
}

// WriteConstraintU64 opens, writes, and closes one writable constraint attribute.
func (c *ControlType) WriteConstraintU64(zones []uint32, constraint uint32, f ConstraintFile, v uint64) error {
	if !f.Valid() {
		return errors.New(errors.ErrCodeInvalidArgument, "unknown constraint file")
	}
	if !f.Writable() {
		return errors.NewWithContext(errors.ErrCodePermission, "constraint attribute is read-only",
			map[string]any{"file": f.String()})
	}
	return c.writeU64(c.resolver.ConstraintFile(c.name, zones, constraint, f.Suffix()), v)
}

// once opens p, runs fn against the descriptor, and releases it. A missing
// file surfaces as NOT_SUPPORTED like it does on a held descriptor.
// A release failure is returned only after a successful write, where it may
// report the write itself; otherwise it is logged.
func (c *ControlType) once(p string, mode sysfs.AccessMode, fn func(*Descriptor) error) error {
	var d Descriptor
	if err := d.open(c.fs, p, mode, false); err != nil {
		return err
	}
	err := fn(&d)
	if cerr := d.Close(); cerr != nil {
		if err == nil && mode.Writable() {
			return cerr
		}
		slog.Warn("failed to release attribute", "path", p, "error", cerr)
	}
	return err
}

func (c *ControlType) readU64(p string) (uint64, error) {
	var v uint64
	err := c.once(p, sysfs.ReadOnly, func(d *Descriptor) error {
		var rerr error
		v, rerr = d.ReadU64()
		return rerr
	})
	return v, err
}

func (c *ControlType) readString(p string, buf []byte) (int, error) {
	var n int
	err := c.once(p, sysfs.ReadOnly, func(d *Descriptor) error {
		var rerr error
		n, rerr = d.ReadString(buf)
		return rerr
	})
	return n, err
}

func (c *ControlType) writeU64(p string, v uint64) error {
	return c.once(p, sysfs.ReadWrite, func(d *Descriptor) error {
		return d.WriteU64(v)
	})
}
