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

package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/powercap/pkg/errors"
	"github.com/NVIDIA/powercap/pkg/powercap"
	"github.com/NVIDIA/powercap/pkg/rapl"
)

const attrName = "name"

func (a *app) getCmd() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Read one attribute of a zone or constraint",
		ArgsUsage: "<attribute>",
		Description: `Print the value of one attribute. Zone attributes are energy_uj,
max_energy_range_uj, power_uw, max_power_range_uw, enabled and name.
With --constraint the constraint attributes are power_limit_uw,
time_window_us, max_power_uw, min_power_uw, max_time_window_us,
min_time_window_us and name.`,
		Flags: []cli.Flag{
			packageFlag(),
			zoneFlag(),
			constraintFlag(),
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errors.New(errors.ErrCodeInvalidArgument, "expected exactly one attribute")
			}
			pkg, err := parseIndex(cmd, "package")
			if err != nil {
				return err
			}
			z, err := rapl.ParseZone(cmd.String("zone"))
			if err != nil {
				return err
			}
			c, err := parseConstraint(cmd)
			if err != nil {
				return err
			}

			p, err := rapl.Open(pkg, a.raplOptions(cmd, true)...)
			if err != nil {
				return err
			}
			defer closePackages(rapl.Packages{p})

			v, err := readAttribute(p, z, c, cmd.Args().First())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.Root().Writer, v)
			return err
		},
	}
}

// readAttribute reads a zone attribute, or a constraint attribute when c is set.
func readAttribute(p *rapl.Package, z rapl.Zone, c *rapl.Constraint, attr string) (string, error) {
	if c == nil {
		if attr == attrName {
			return p.Name(z)
		}
		f, ok := powercap.ParseZoneFile(attr)
		if !ok {
			return "", unknownAttribute(attr, "zone")
		}
		return formatU64(p.ReadZoneU64(z, f))
	}

	if attr == attrName {
		return p.ConstraintName(z, *c)
	}
	f, ok := powercap.ParseConstraintFile(attr)
	if !ok {
		return "", unknownAttribute(attr, "constraint")
	}
	return formatU64(p.ReadConstraintU64(z, *c, f))
}

func formatU64(v uint64, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(v, 10), nil
}

func unknownAttribute(attr, kind string) error {
	return errors.NewWithContext(errors.ErrCodeInvalidArgument, "unknown "+kind+" attribute",
		map[string]any{"attribute": attr})
}
