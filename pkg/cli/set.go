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

	"github.com/NVIDIA/powercap/pkg/errors"
	"github.com/NVIDIA/powercap/pkg/header"
	"github.com/NVIDIA/powercap/pkg/limits"
	"github.com/NVIDIA/powercap/pkg/rapl"
)

func (a *app) setCmd() *cli.Command {
	return &cli.Command{
		Name:  "set",
		Usage: "Enable or disable a zone, or change a constraint limit",
		Description: `Write one or more attributes of a zone. --power-limit and --time-window
require --constraint. The previous and new values are reported.

Writing requires root. Use --dry-run to report the current values only.`,
		Flags: []cli.Flag{
			packageFlag(),
			zoneFlag(),
			constraintFlag(),
			&cli.BoolFlag{
				Name:    "enabled",
				Aliases: []string{"e"},
				Usage:   "enable (true) or disable (false) the zone",
			},
			&cli.Uint64Flag{
				Name:    "power-limit",
				Aliases: []string{"l"},
				Usage:   "power limit in microwatts",
			},
			&cli.Uint64Flag{
				Name:    "time-window",
				Aliases: []string{"s"},
				Usage:   "time window in microseconds",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "read current values without writing",
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			l, err := limitFromCmd(cmd)
			if err != nil {
				return err
			}
			doc := &limits.Limits{Limits: []limits.Limit{l}}
			doc.Init(header.KindLimits, header.APIVersion, version)
			if err := doc.Validate(); err != nil {
				return err
			}

			dryRun := cmd.Bool("dry-run")
			p, err := rapl.Open(l.Package, a.raplOptions(cmd, dryRun)...)
			if err != nil {
				return err
			}
			pkgs := rapl.Packages{p}
			defer closePackages(pkgs)

			return applyAndReport(ctx, cmd, doc, pkgs, dryRun)
		},
	}
}

// limitFromCmd builds a single-entry limit from the set flags.
func limitFromCmd(cmd *cli.Command) (limits.Limit, error) {
	pkg, err := parseIndex(cmd, "package")
	if err != nil {
		return limits.Limit{}, err
	}
	l := limits.Limit{
		Package:    pkg,
		Zone:       cmd.String("zone"),
		Constraint: cmd.String("constraint"),
	}
	if cmd.IsSet("enabled") {
		v := cmd.Bool("enabled")
		l.Enabled = &v
	}
	if cmd.IsSet("power-limit") {
		v := cmd.Uint64("power-limit")
		l.PowerLimitUW = &v
	}
	if cmd.IsSet("time-window") {
		v := cmd.Uint64("time-window")
		l.TimeWindowUS = &v
	}
	return l, nil
}

// applyAndReport applies doc, writes the result, and fails if any setting failed.
func applyAndReport(ctx context.Context, cmd *cli.Command, doc *limits.Limits, pkgs rapl.Packages, dryRun bool) error {
	a := limits.NewApplier(limits.WithVersion(version), limits.WithDryRun(dryRun))
	res, err := a.Apply(ctx, doc, pkgs)
	if err != nil {
		return err
	}
	if err := writeOutput(ctx, cmd, res); err != nil {
		return err
	}
	if res.Summary.Status == limits.ResultStatusFail {
		return errors.NewWithContext(errors.ErrCodeIO, "one or more settings failed",
			map[string]any{"failed": res.Summary.Failed, "total": res.Summary.Total})
	}
	return nil
}
