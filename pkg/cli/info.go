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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/powercap/pkg/defaults"
	"github.com/NVIDIA/powercap/pkg/inspect"
	"github.com/NVIDIA/powercap/pkg/rapl"
)

func (a *app) packagesCmd() *cli.Command {
	return &cli.Command{
		Name:  "packages",
		Usage: "Print the number of RAPL packages",
		Action: func(_ context.Context, cmd *cli.Command) error {
			n, err := rapl.CountPackages(a.raplOptions(cmd, true)...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.Root().Writer, n)
			return err
		},
	}
}

func (a *app) infoCmd() *cli.Command {
	return &cli.Command{
		Name:                  "info",
		EnableShellCompletion: true,
		Usage:                 "Print a snapshot of packages, zones and constraints",
		Description: `Print the attributes of every package zone. Attributes the platform does
not provide are omitted. Use --verbose to list why each one is missing and
which RAPL kernel modules are loaded.

Indexes follow the sysfs tree: --subzone 1 is intel-rapl:<package>:1 and
--constraint 0 is constraint_0_*, regardless of the role names.`,
		Flags: []cli.Flag{
			packageFlag(),
			&cli.UintFlag{
				Name:    "subzone",
				Aliases: []string{"z"},
				Usage:   "subzone index under --package",
			},
			&cli.UintFlag{
				Name:    "constraint",
				Aliases: []string{"c"},
				Usage:   "constraint index",
			},
			&cli.BoolFlag{
				Name:    "recurse",
				Aliases: []string{"r"},
				Usage:   "include subzones",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "report attribute read failures",
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			f, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			var opts inspect.Options
			if opts.Package, err = optionalIndex(cmd, "package"); err != nil {
				return err
			}
			if opts.Subzone, err = optionalIndex(cmd, "subzone"); err != nil {
				return err
			}
			if opts.Constraint, err = optionalIndex(cmd, "constraint"); err != nil {
				return err
			}
			opts.Recurse = cmd.Bool("recurse")
			opts.Verbose = cmd.Bool("verbose")

			w := newWriter(cmd, f)
			defer closeWriter(w)

			in := &inspect.Inspector{
				ControlType: a.controlType(cmd),
				Version:     version,
				Serializer:  w,
			}
			if opts.Verbose {
				in.ModulesPath = defaults.ProcModules
			}
			return in.Measure(ctx, opts)
		},
	}
}
