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

package inspect

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/NVIDIA/powercap/pkg/defaults"
	"github.com/NVIDIA/powercap/pkg/errors"
	"github.com/NVIDIA/powercap/pkg/serializer"
	"github.com/NVIDIA/powercap/pkg/server"
)

// HandleZones serves GET /v1/zones. Query parameters package, subzone and
// constraint narrow the snapshot; recurse and verbose are booleans.
func (i *Inspector) HandleZones(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		server.WriteError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{"method": r.Method})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.InspectTimeout)
	defer cancel()

	opts, err := ParseOptions(r.URL.Query())
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid snapshot query", nil)
		return
	}

	snap, err := i.Snapshot(ctx, opts)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to build snapshot", nil)
		return
	}

	slog.Debug("snapshot served", "packages", len(snap.Packages))
	w.Header().Set("Cache-Control", "no-store")
	serializer.RespondJSON(w, http.StatusOK, snap)
}

// ParseOptions reads Options from query parameters.
func ParseOptions(q url.Values) (Options, error) {
	var opts Options
	var err error

	if opts.Package, err = queryIndex(q, "package"); err != nil {
		return opts, err
	}
	if opts.Subzone, err = queryIndex(q, "subzone"); err != nil {
		return opts, err
	}
	if opts.Constraint, err = queryIndex(q, "constraint"); err != nil {
		return opts, err
	}
	if opts.Recurse, err = queryBool(q, "recurse"); err != nil {
		return opts, err
	}
	if opts.Verbose, err = queryBool(q, "verbose"); err != nil {
		return opts, err
	}
	return opts, opts.Validate()
}

func queryIndex(q url.Values, key string) (*uint32, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidArgument, "invalid index", err,
			map[string]any{"parameter": key, "value": s})
	}
	idx := uint32(v)
	return &idx, nil
}

func queryBool(q url.Values, key string) (bool, error) {
	s := q.Get(key)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.WrapWithContext(errors.ErrCodeInvalidArgument, "invalid boolean", err,
			map[string]any{"parameter": key, "value": s})
	}
	return v, nil
}
