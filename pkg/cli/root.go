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
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/powercap/pkg/defaults"
	"github.com/NVIDIA/powercap/pkg/logging"
	"github.com/NVIDIA/powercap/pkg/sysfs"
)

const (
	name           = "powercap"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// app carries state shared by every command.
type app struct {
	// fs replaces the host sysfs when set.
	fs sysfs.FS
}

// Execute runs the CLI with os.Args and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&app{}).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		EnableShellCompletion: true,
		Usage:                 "Inspect and control Linux powercap zones",
		Description: `Typed access to the Intel RAPL tree under the Linux powercap sysfs class.

Packages are discovered under <root>/<control-type>. Each package exposes a
package zone and optional core, uncore, dram and psys power planes, each with
long-term and short-term constraints.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Usage:   "powercap class directory",
				Sources: cli.EnvVars("POWERCAP_ROOT"),
				Value:   defaults.SysfsRoot,
			},
			&cli.StringFlag{
				Name:    "control-type",
				Usage:   "powercap control type",
				Sources: cli.EnvVars("POWERCAP_CONTROL_TYPE"),
				Value:   defaults.ControlTypeRAPL,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars(logging.EnvLogLevel),
				Value:   "info",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "shorthand for --log-level debug",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := cmd.String("log-level")
			if cmd.Bool("debug") {
				level = "debug"
			}
			logging.SetDefaultStructuredLoggerWithLevel(name, version, level)
			return ctx, nil
		},
		Commands: []*cli.Command{
			a.packagesCmd(),
			a.infoCmd(),
			a.getCmd(),
			a.setCmd(),
			a.applyCmd(),
			a.serveCmd(),
		},
	}
}
