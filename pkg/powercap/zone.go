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

	"github.com/NVIDIA/powercap/pkg/defaults"
	"github.com/NVIDIA/powercap/pkg/errors"
	"github.com/NVIDIA/powercap/pkg/sysfs"
)

// ZoneFiles holds the attribute descriptors of one zone.
// The zero value has every descriptor unopened.
type ZoneFiles struct {
	files [numZoneFiles]Descriptor
}

// Descriptor returns the descriptor of attribute f.
func (z *ZoneFiles) Descriptor(f ZoneFile) (*Descriptor, error) {
	if !f.Valid() {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidArgument, "unknown zone file",
			map[string]any{"file": int(f)})
	}
	return &z.files[f], nil
}

// Supported reports whether attribute f holds an open descriptor.
func (z *ZoneFiles) Supported(f ZoneFile) (bool, error) {
	d, err := z.Descriptor(f)
	if err != nil {
		return false, err
	}
	return d.IsOpen(), nil
}

// ReadU64 reads numeric attribute f.
func (z *ZoneFiles) ReadU64(f ZoneFile) (uint64, error) {
	d, err := z.Descriptor(f)
	if err != nil {
		return 0, err
	}
	return d.ReadU64()
}

// WriteU64 writes numeric attribute f.
func (z *ZoneFiles) WriteU64(f ZoneFile, v uint64) error {
	d, err := z.Descriptor(f)
	if err != nil {
		return err
	}
	return d.WriteU64(v)
}

// MaxEnergyRangeUJ returns the energy counter range in microjoules.
func (z *ZoneFiles) MaxEnergyRangeUJ() (uint64, error) {
	return z.files[ZoneFileMaxEnergyRangeUJ].ReadU64()
}

// EnergyUJ returns the energy counter in microjoules.
func (z *ZoneFiles) EnergyUJ() (uint64, error) {
	return z.files[ZoneFileEnergyUJ].ReadU64()
}

// ResetEnergyUJ resets the energy counter to zero.
func (z *ZoneFiles) ResetEnergyUJ() error {
	return z.files[ZoneFileEnergyUJ].WriteU64(0)
}

// MaxPowerRangeUW returns the power range in microwatts.
func (z *ZoneFiles) MaxPowerRangeUW() (uint64, error) {
	return z.files[ZoneFileMaxPowerRangeUW].ReadU64()
}

// PowerUW returns the current power in microwatts.
func (z *ZoneFiles) PowerUW() (uint64, error) {
	return z.files[ZoneFilePowerUW].ReadU64()
}

// Enabled reports whether the zone is enabled.
func (z *ZoneFiles) Enabled() (bool, error) {
	v, err := z.files[ZoneFileEnabled].ReadU64()
	return v != 0, err
}

// SetEnabled enables or disables the zone.
func (z *ZoneFiles) SetEnabled(enabled bool) error {
	var v uint64
	if enabled {
		v = 1
	}
	return z.files[ZoneFileEnabled].WriteU64(v)
}

// ReadName copies the zone name into buf and returns the number of bytes copied.
func (z *ZoneFiles) ReadName(buf []byte) (int, error) {
	return z.files[ZoneFileName].ReadString(buf)
}

// Name returns the zone name.
func (z *ZoneFiles) Name() (string, error) {
	return readName(&z.files[ZoneFileName])
}

// Close releases every open descriptor. It is idempotent and returns the first
// release failure after attempting all of them.
func (z *ZoneFiles) Close() error {
	return closeAll(z.files[:])
}

// ConstraintFiles holds the attribute descriptors of one constraint.
// The zero value has every descriptor unopened.
type ConstraintFiles struct {
	files [numConstraintFiles]Descriptor
}

// Descriptor returns the descriptor of attribute f.
func (c *ConstraintFiles) Descriptor(f ConstraintFile) (*Descriptor, error) {
	if !f.Valid() {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidArgument, "unknown constraint file",
			map[string]any{"file": int(f)})
	}
	return &c.files[f], nil
}

// Supported reports whether attribute f holds an open descriptor.
func (c *ConstraintFiles) Supported(f ConstraintFile) (bool, error) {
	d, err := c.Descriptor(f)
	if err != nil {
		return false, err
	}
	return d.IsOpen(), nil
}

// ReadU64 reads numeric attribute f.
func (c *ConstraintFiles) ReadU64(f ConstraintFile) (uint64, error) {
	d, err := c.Descriptor(f)
	if err != nil {
		return 0, err
	}
	return d.ReadU64()
}

// WriteU64 writes numeric attribute f.
func (c *ConstraintFiles) WriteU64(f ConstraintFile, v uint64) error {
	d, err := c.Descriptor(f)
	if err != nil {
		return err
	}
	return d.WriteU64(v)
}

// PowerLimitUW returns the power limit in microwatts.
func (c *ConstraintFiles) PowerLimitUW() (uint64, error) {
	return c.files[ConstraintFilePowerLimitUW].ReadU64()
}

// SetPowerLimitUW sets the power limit in microwatts.
func (c *ConstraintFiles) SetPowerLimitUW(v uint64) error {
	return c.files[ConstraintFilePowerLimitUW].WriteU64(v)
}

// TimeWindowUS returns the time window in microseconds.
func (c *ConstraintFiles) TimeWindowUS() (uint64, error) {
	return c.files[ConstraintFileTimeWindowUS].ReadU64()
}

// SetTimeWindowUS sets the time window in microseconds.
func (c *ConstraintFiles) SetTimeWindowUS(v uint64) error {
	return c.files[ConstraintFileTimeWindowUS].WriteU64(v)
}

// MaxPowerUW returns the maximum allowed power in microwatts.
func (c *ConstraintFiles) MaxPowerUW() (uint64, error) {
	return c.files[ConstraintFileMaxPowerUW].ReadU64()
}

// MinPowerUW returns the minimum allowed power in microwatts.
func (c *ConstraintFiles) MinPowerUW() (uint64, error) {
	return c.files[ConstraintFileMinPowerUW].ReadU64()
}

// MaxTimeWindowUS returns the maximum time window in microseconds.
func (c *ConstraintFiles) MaxTimeWindowUS() (uint64, error) {
	return c.files[ConstraintFileMaxTimeWindowUS].ReadU64()
}

// MinTimeWindowUS returns the minimum time window in microseconds.
func (c *ConstraintFiles) MinTimeWindowUS() (uint64, error) {
	return c.files[ConstraintFileMinTimeWindowUS].ReadU64()
}

// ReadName copies the constraint name into buf and returns the number of bytes copied.
func (c *ConstraintFiles) ReadName(buf []byte) (int, error) {
	return c.files[ConstraintFileName].ReadString(buf)
}

// Name returns the constraint name.
func (c *ConstraintFiles) Name() (string, error) {
	return readName(&c.files[ConstraintFileName])
}

// Close releases every open descriptor. It is idempotent and returns the first
// release failure after attempting all of them.
func (c *ConstraintFiles) Close() error {
	return closeAll(c.files[:])
}

func readName(d *Descriptor) (string, error) {
	var buf [defaults.MaxNameSize]byte
	n, err := d.ReadString(buf[:])
	if err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}

// String describes the descriptor states, for logs.
func (z *ZoneFiles) String() string {
	return fmt.Sprintf("zone%v", states(z.files[:]))
}

// String describes the descriptor states, for logs.
func (c *ConstraintFiles) String() string {
	return fmt.Sprintf("constraint%v", states(c.files[:]))
}

func states(ds []Descriptor) []string {
	out := make([]string, len(ds))
	for i := range ds {
		out[i] = ds[i].state.String()
	}
	return out
}

// zoneSpecs returns the open plan of a zone.
func zoneSpecs(r sysfs.Resolver, controlType string, zones []uint32, readOnly bool) []attrSpec {
	specs := make([]attrSpec, numZoneFiles)
	for _, f := range AllZoneFiles() {
		specs[f] = attrSpec{
			path:             r.ZoneFile(controlType, zones, f.Filename()),
			mode:             modeFor(f.Writable(), readOnly),
			readOnlyFallback: f == ZoneFileEnergyUJ,
		}
	}
	return specs
}

// constraintSpecs returns the open plan of a constraint.
func constraintSpecs(r sysfs.Resolver, controlType string, zones []uint32, constraint uint32, readOnly bool) []attrSpec {
	specs := make([]attrSpec, numConstraintFiles)
	for _, f := range AllConstraintFiles() {
		specs[f] = attrSpec{
			path: r.ConstraintFile(controlType, zones, constraint, f.Suffix()),
			mode: modeFor(f.Writable(), readOnly),
		}
	}
	return specs
}
