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

package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/NVIDIA/powercap/pkg/defaults"
	"github.com/NVIDIA/powercap/pkg/errors"
	"github.com/NVIDIA/powercap/pkg/exporter"
	"github.com/NVIDIA/powercap/pkg/inspect"
	"github.com/NVIDIA/powercap/pkg/logging"
	"github.com/NVIDIA/powercap/pkg/powercap"
	"github.com/NVIDIA/powercap/pkg/rapl"
	"github.com/NVIDIA/powercap/pkg/server"
	"github.com/NVIDIA/powercap/pkg/sysfs"
)

const (
	name           = "powercapd"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/powercap/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Options configures Serve. Zero values select the defaults.
type Options struct {
	// Root is the powercap class directory.
	Root string
	// ControlType is the control type to serve.
	ControlType string
	// Address and Port override the server listen address.
	Address string
	Port    int
	// FS replaces the host sysfs.
	FS sysfs.FS
	// ModulesPath is the kernel module list reported in snapshots.
	ModulesPath string
	// Registerer receives the zone collector. Defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

func (o Options) withDefaults() Options {
	if o.Root == "" {
		o.Root = defaults.SysfsRoot
	}
	if o.ControlType == "" {
		o.ControlType = defaults.ControlTypeRAPL
	}
	if o.ModulesPath == "" {
		o.ModulesPath = defaults.ProcModules
	}
	if o.Registerer == nil {
		o.Registerer = prometheus.DefaultRegisterer
	}
	return o
}

func (o Options) raplOptions() []rapl.Option {
	ropts := []rapl.Option{
		rapl.WithReadOnly(true),
		rapl.WithRoot(o.Root),
		rapl.WithControlType(o.ControlType),
	}
	if o.FS != nil {
		ropts = append(ropts, rapl.WithFS(o.FS))
	}
	return ropts
}

func (o Options) controlType() *powercap.ControlType {
	popts := []powercap.Option{powercap.WithRoot(o.Root)}
	if o.FS != nil {
		popts = append(popts, powercap.WithFS(o.FS))
	}
	return powercap.NewControlType(o.ControlType, popts...)
}

// Serve starts the daemon and blocks until ctx is canceled or a shutdown
// signal arrives. Packages stay open for the lifetime of the server.
func Serve(ctx context.Context, opts Options) error {
	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	opts = opts.withDefaults()
	pkgs, err := rapl.OpenAll(ctx, opts.raplOptions()...)
	if err != nil {
		return fmt.Errorf("failed to open packages: %w", err)
	}
	defer func() {
		if cerr := pkgs.Close(); cerr != nil {
			slog.Warn("failed to close packages", "error", cerr)
		}
	}()
	slog.Info("packages opened", "count", len(pkgs), "controlType", opts.ControlType)

	unregister, err := register(opts.Registerer, exporter.NewCollector(pkgs))
	if err != nil {
		return err
	}
	defer unregister()

	s := newServer(opts)
	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}
	return nil
}

func newServer(opts Options) *server.Server {
	ct := opts.controlType()
	in := &inspect.Inspector{
		ControlType: ct,
		Version:     version,
		ModulesPath: opts.ModulesPath,
	}

	cfg := server.NewConfig()
	if opts.Address != "" {
		cfg.Address = opts.Address
	}
	if opts.Port > 0 {
		cfg.Port = opts.Port
	}

	return server.New(
		server.WithConfig(cfg),
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(routes(in)),
		server.WithReadinessCheck(readiness(ct)),
	)
}

func routes(in *inspect.Inspector) map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/zones": in.HandleZones,
	}
}

func readiness(ct *powercap.ControlType) server.ReadinessCheck {
	return func() error {
		if !ct.Exists() {
			return errors.NewWithContext(errors.ErrCodeUnavailable, "control type not found",
				map[string]any{"controlType": ct.Name()})
		}
		return nil
	}
}

// register adds c to reg and returns a func that removes it again. The
// collector holds the packages of one Serve call, so a collector already
// registered by another instance is rejected rather than shared.
func register(reg prometheus.Registerer, c prometheus.Collector) (func(), error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if stderrors.As(err, &are) {
			return nil, errors.Wrap(errors.ErrCodeUnavailable, "powercap collector already registered", err)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to register collector", err)
	}
	return func() {
		if !reg.Unregister(c) {
			slog.Warn("powercap collector was not registered")
		}
	}, nil
}
