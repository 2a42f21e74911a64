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
	"github.com/NVIDIA/powercap/pkg/errors"
	"github.com/NVIDIA/powercap/pkg/powercap"
)

func (p *Package) zoneFiles(z Zone) (*powercap.ZoneFiles, error) {
	if p == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "nil package")
	}
	if !z.Valid() {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidArgument, "unknown zone",
			map[string]any{"zone": int(z)})
	}
	return &p.zones[z].zone, nil
}

func (p *Package) constraintFiles(z Zone, c Constraint) (*powercap.ConstraintFiles, error) {
	if p == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "nil package")
	}
	if !z.Valid() {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidArgument, "unknown zone",
			map[string]any{"zone": int(z)})
	}
	if !c.Valid() {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidArgument, "unknown constraint",
			map[string]any{"constraint": int(c)})
	}
	return &p.zones[z].constraints[c], nil
}

// IsZoneSupported reports whether zone z is usable, which requires its long
// term power limit.
func (p *Package) IsZoneSupported(z Zone) (bool, error) {
	return p.IsConstraintSupported(z, ConstraintLong)
}

// IsConstraintSupported reports whether constraint c of zone z exposes a power limit.
func (p *Package) IsConstraintSupported(z Zone, c Constraint) (bool, error) {
	return p.IsConstraintFileSupported(z, c, powercap.ConstraintFilePowerLimitUW)
}

// IsZoneFileSupported reports whether attribute f of zone z was found.
func (p *Package) IsZoneFileSupported(z Zone, f powercap.ZoneFile) (bool, error) {
	zf, err := p.zoneFiles(z)
	if err != nil {
		return false, err
	}
	return zf.Supported(f)
}

// IsConstraintFileSupported reports whether attribute f of constraint c of zone z was found.
func (p *Package) IsConstraintFileSupported(z Zone, c Constraint, f powercap.ConstraintFile) (bool, error) {
	cf, err := p.constraintFiles(z, c)
	if err != nil {
		return false, err
	}
	return cf.Supported(f)
}

// ReadZoneU64 reads numeric attribute f of zone z.
func (p *Package) ReadZoneU64(z Zone, f powercap.ZoneFile) (uint64, error) {
	zf, err := p.zoneFiles(z)
	if err != nil {
		return 0, err
	}
	return zf.ReadU64(f)
}

// WriteZoneU64 writes numeric attribute f of zone z.
func (p *Package) WriteZoneU64(z Zone, f powercap.ZoneFile, v uint64) error {
	zf, err := p.zoneFiles(z)
	if err != nil {
		return err
	}
	return zf.WriteU64(f, v)
}

// ReadConstraintU64 reads numeric attribute f of constraint c of zone z.
func (p *Package) ReadConstraintU64(z Zone, c Constraint, f powercap.ConstraintFile) (uint64, error) {
	cf, err := p.constraintFiles(z, c)
	if err != nil {
		return 0, err
	}
	return cf.ReadU64(f)
}

// WriteConstraintU64 writes numeric attribute f of constraint c of zone z.
func (p *Package) WriteConstraintU64(z Zone, c Constraint, f powercap.ConstraintFile, v uint64) error {
	cf, err := p.constraintFiles(z, c)
	if err != nil {
		return err
	}
	return cf.WriteU64(f, v)
}

// Name returns the kernel name of zone z, such as package-0 or dram.
func (p *Package) Name(z Zone) (string, error) {
	zf, err := p.zoneFiles(z)
	if err != nil {
		return "", err
	}
	return zf.Name()
}

// ReadZoneName copies the name of zone z into buf, NUL terminated, and
// returns the number of bytes copied.
func (p *Package) ReadZoneName(z Zone, buf []byte) (int, error) {
	zf, err := p.zoneFiles(z)
	if err != nil {
		return 0, err
	}
	return zf.ReadName(buf)
}

// IsEnabled reports whether zone z is enabled.
func (p *Package) IsEnabled(z Zone) (bool, error) {
	zf, err := p.zoneFiles(z)
	if err != nil {
		return false, err
	}
	return zf.Enabled()
}

// SetEnabled enables or disables zone z.
func (p *Package) SetEnabled(z Zone, enabled bool) error {
	zf, err := p.zoneFiles(z)
	if err != nil {
		return err
	}
	return zf.SetEnabled(enabled)
}

// MaxEnergyRangeUJ returns the energy counter range of zone z in microjoules.
func (p *Package) MaxEnergyRangeUJ(z Zone) (uint64, error) {
	return p.ReadZoneU64(z, powercap.ZoneFileMaxEnergyRangeUJ)
}

// EnergyUJ returns the energy counter of zone z in microjoules.
func (p *Package) EnergyUJ(z Zone) (uint64, error) {
	return p.ReadZoneU64(z, powercap.ZoneFileEnergyUJ)
}

// ResetEnergyUJ resets the energy counter of zone z.
func (p *Package) ResetEnergyUJ(z Zone) error {
	zf, err := p.zoneFiles(z)
	if err != nil {
		return err
	}
	return zf.ResetEnergyUJ()
}

// MaxPowerRangeUW returns the power range of zone z in microwatts.
func (p *Package) MaxPowerRangeUW(z Zone) (uint64, error) {
	return p.ReadZoneU64(z, powercap.ZoneFileMaxPowerRangeUW)
}

// PowerUW returns the power of zone z in microwatts.
func (p *Package) PowerUW(z Zone) (uint64, error) {
	return p.ReadZoneU64(z, powercap.ZoneFilePowerUW)
}

// ConstraintName returns the kernel name of constraint c of zone z.
func (p *Package) ConstraintName(z Zone, c Constraint) (string, error) {
	cf, err := p.constraintFiles(z, c)
	if err != nil {
		return "", err
	}
	return cf.Name()
}

// ReadConstraintName copies the name of constraint c of zone z into buf.
func (p *Package) ReadConstraintName(z Zone, c Constraint, buf []byte) (int, error) {
	cf, err := p.constraintFiles(z, c)
	if err != nil {
		return 0, err
	}
	return cf.ReadName(buf)
}

// PowerLimitUW returns the power limit in microwatts.
func (p *Package) PowerLimitUW(z Zone, c Constraint) (uint64, error) {
	return p.ReadConstraintU64(z, c, powercap.ConstraintFilePowerLimitUW)
}

// SetPowerLimitUW sets the power limit in microwatts. The kernel clamps out
// of range values.
func (p *Package) SetPowerLimitUW(z Zone, c Constraint, v uint64) error {
	return p.WriteConstraintU64(z, c, powercap.ConstraintFilePowerLimitUW, v)
}

// TimeWindowUS returns the time window in microseconds.
func (p *Package) TimeWindowUS(z Zone, c Constraint) (uint64, error) {
	return p.ReadConstraintU64(z, c, powercap.ConstraintFileTimeWindowUS)
}

// SetTimeWindowUS sets the time window in microseconds.
func (p *Package) SetTimeWindowUS(z Zone, c Constraint, v uint64) error {
	return p.WriteConstraintU64(z, c, powercap.ConstraintFileTimeWindowUS, v)
}

// MaxPowerUW returns the highest power limit the constraint accepts, in microwatts.
func (p *Package) MaxPowerUW(z Zone, c Constraint) (uint64, error) {
	return p.ReadConstraintU64(z, c, powercap.ConstraintFileMaxPowerUW)
}

// MinPowerUW returns the lowest power limit the constraint accepts, in microwatts.
func (p *Package) MinPowerUW(z Zone, c Constraint) (uint64, error) {
	return p.ReadConstraintU64(z, c, powercap.ConstraintFileMinPowerUW)
}

// MaxTimeWindowUS returns the longest allowed time window in microseconds.
func (p *Package) MaxTimeWindowUS(z Zone, c Constraint) (uint64, error) {
	return p.ReadConstraintU64(z, c, powercap.ConstraintFileMaxTimeWindowUS)
}

// MinTimeWindowUS returns the shortest allowed time window in microseconds.
func (p *Package) MinTimeWindowUS(z Zone, c Constraint) (uint64, error) {
	return p.ReadConstraintU64(z, c, powercap.ConstraintFileMinTimeWindowUS)
}
