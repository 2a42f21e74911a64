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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/powercap/pkg/limits"
	"github.com/NVIDIA/powercap/pkg/rapl"
)

func (a *app) applyCmd() *cli.Command {
	return &cli.Command{
		Name:                  "apply",
		EnableShellCompletion: true,
		Usage:                 "Apply a limits document to every package",
		Description: `Read a PowercapLimits document (YAML or JSON, chosen by extension) and
write each entry to its package. Failed settings do not stop the others; the
command exits non-zero if any failed.

Example document:

  kind: PowercapLimits
  apiVersion: powercap.nvidia.com/v1alpha1
  limits:
    - package: 0
      zone: package
      constraint: long_term
      powerLimitUW: 95000000
      timeWindowUS: 28000`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "path to the limits document",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "read current values without writing",
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			doc, err := limits.Load(cmd.String("file"))
			if err != nil {
				return err
			}

			dryRun := cmd.Bool("dry-run")
			pkgs, err := rapl.OpenAll(ctx, a.raplOptions(cmd, dryRun)...)
			if err != nil {
				return err
			}
			defer closePackages(pkgs)

			return applyAndReport(ctx, cmd, doc, pkgs, dryRun)
		},
	}
}
