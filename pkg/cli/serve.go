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

	"github.com/NVIDIA/powercap/pkg/api"
)

func (a *app) serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the exporter and snapshot API",
		Description: `Open every package read-only and serve:

  GET /v1/zones  zone snapshot (query: package, subzone, constraint, recurse, verbose)
  GET /metrics   Prometheus metrics
  GET /health    liveness
  GET /ready     readiness, fails while the control type is absent`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "address",
				Usage: "listen address",
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "listen port",
				Sources: cli.EnvVars("PORT"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return api.Serve(ctx, api.Options{
				Root:        cmd.String("root"),
				ControlType: cmd.String("control-type"),
				Address:     cmd.String("address"),
				Port:        int(cmd.Int("port")),
				FS:          a.fs,
			})
		},
	}
}
