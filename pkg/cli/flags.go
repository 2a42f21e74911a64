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
	"log/slog"
	"math"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/powercap/pkg/errors"
	"github.com/NVIDIA/powercap/pkg/powercap"
	"github.com/NVIDIA/powercap/pkg/rapl"
	"github.com/NVIDIA/powercap/pkg/serializer"
)

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "format",
		Value: string(serializer.FormatYAML),
		Usage: fmt.Sprintf("output format (supported values: %s)",
			strings.Join(serializer.SupportedFormats(), ", ")),
	}
}

func packageFlag() cli.Flag {
	return &cli.UintFlag{
		Name:    "package",
		Aliases: []string{"p"},
		Usage:   "package index",
	}
}

func zoneFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "zone",
		Aliases: []string{"z"},
		Value:   rapl.ZonePackage.String(),
		Usage:   "zone role (package, core, uncore, dram, psys)",
	}
}

func constraintFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "constraint",
		Aliases: []string{"c"},
		Usage:   "constraint (long, short)",
	}
}

// parseOutputFormat reads --format, rejecting unknown values.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", errors.NewWithContext(errors.ErrCodeInvalidArgument, "unknown output format",
			map[string]any{"format": string(f), "supported": serializer.SupportedFormats()})
	}
	return f, nil
}

// parseIndex reads a uint flag that must fit a zone index.
func parseIndex(cmd *cli.Command, flag string) (uint32, error) {
	v := cmd.Uint(flag)
	if v > math.MaxUint32 {
		return 0, errors.NewWithContext(errors.ErrCodeInvalidArgument, "index out of range",
			map[string]any{"flag": flag, "value": v})
	}
	return uint32(v), nil
}

// optionalIndex is parseIndex for flags that may be omitted.
func optionalIndex(cmd *cli.Command, flag string) (*uint32, error) {
	if !cmd.IsSet(flag) {
		return nil, nil
	}
	v, err := parseIndex(cmd, flag)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// parseConstraint reads --constraint. It returns nil when the flag is empty.
func parseConstraint(cmd *cli.Command) (*rapl.Constraint, error) {
	s := cmd.String("constraint")
	if s == "" {
		return nil, nil
	}
	c, err := rapl.ParseConstraint(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (a *app) raplOptions(cmd *cli.Command, readOnly bool) []rapl.Option {
	opts := []rapl.Option{
		rapl.WithReadOnly(readOnly),
		rapl.WithRoot(cmd.String("root")),
		rapl.WithControlType(cmd.String("control-type")),
	}
	if a.fs != nil {
		opts = append(opts, rapl.WithFS(a.fs))
	}
	return opts
}

func (a *app) controlType(cmd *cli.Command) *powercap.ControlType {
	opts := []powercap.Option{powercap.WithRoot(cmd.String("root"))}
	if a.fs != nil {
		opts = append(opts, powercap.WithFS(a.fs))
	}
	return powercap.NewControlType(cmd.String("control-type"), opts...)
}

// writeOutput serializes v to --output in --format.
func writeOutput(ctx context.Context, cmd *cli.Command, v any) error {
	f, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}
	w := newWriter(cmd, f)
	defer closeWriter(w)
	return w.Serialize(ctx, v)
}

// newWriter writes to --output, or to the root command writer when unset.
func newWriter(cmd *cli.Command, f serializer.Format) *serializer.Writer {
	if path := cmd.String("output"); path != "" {
		return serializer.NewFileWriterOrStdout(f, path)
	}
	return serializer.NewWriter(f, cmd.Root().Writer)
}

func closeWriter(w *serializer.Writer) {
	if err := w.Close(); err != nil {
		slog.Warn("failed to close serializer", "error", err)
	}
}

func closePackages(ps rapl.Packages) {
	if err := ps.Close(); err != nil {
		slog.Warn("failed to close packages", "error", err)
	}
}
