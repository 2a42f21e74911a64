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
	"fmt"
	"log/slog"

	"github.com/NVIDIA/powercap/pkg/errors"
	"github.com/NVIDIA/powercap/pkg/header"
	"github.com/NVIDIA/powercap/pkg/rapl"
	"github.com/NVIDIA/powercap/pkg/serializer"
)

// Load reads a limits document from a JSON or YAML file and validates it.
func Load(path string) (*Limits, error) {
	doc, err := serializer.FromFile[Limits](path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidArgument, "failed to load limits", err,
			map[string]any{"path": path})
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("limits loaded", "path", path, "entries", len(doc.Limits))
	return doc, nil
}

// Validate checks the header and every entry.
func (l *Limits) Validate() error {
	if err := l.Header.Validate(header.KindLimits); err != nil {
		return err
	}
	if len(l.Limits) == 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "limits document has no entries")
	}
	for n := range l.Limits {
		if err := l.Limits[n].Validate(); err != nil {
			return fmt.Errorf("limits[%d]: %w", n, err)
		}
	}
	return nil
}

// Validate checks that the entry names a known zone and constraint and
// changes at least one attribute. A power limit or time window requires a
// constraint.
func (l *Limit) Validate() error {
	if _, err := rapl.ParseZone(l.Zone); err != nil {
		return err
	}
	if l.Constraint != "" {
		if _, err := rapl.ParseConstraint(l.Constraint); err != nil {
			return err
		}
	}
	if l.Enabled == nil && l.PowerLimitUW == nil && l.TimeWindowUS == nil {
		return errors.NewWithContext(errors.ErrCodeInvalidArgument, "entry sets nothing",
			map[string]any{"package": l.Package, "zone": l.Zone})
	}
	if (l.PowerLimitUW != nil || l.TimeWindowUS != nil) && l.Constraint == "" {
		return errors.NewWithContext(errors.ErrCodeInvalidArgument,
			"power limit and time window require a constraint",
			map[string]any{"package": l.Package, "zone": l.Zone})
	}
	return nil
}
