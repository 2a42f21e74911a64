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
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Packages is a set of open packages ordered by index.
type Packages []*Package

// OpenAll opens every package concurrently. On any failure the packages that
// did open are closed and the first error is returned.
func OpenAll(ctx context.Context, opts ...Option) (Packages, error) {
	cfg := newConfig(opts)
	ct := cfg.control()
	n, err := countPackages(ct)
	if err != nil {
		return nil, err
	}

	pkgs := make(Packages, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := range pkgs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := openPackage(ct, uint32(i), cfg.readOnly)
			if err != nil {
				return err
			}
			pkgs[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if cerr := pkgs.Close(); cerr != nil {
			slog.Warn("failed to release packages after open failure", "error", cerr)
		}
		return nil, err
	}
	return pkgs, nil
}

// Close closes every package and returns the first failure.
func (ps Packages) Close() error {
	var first error
	for _, p := range ps {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
