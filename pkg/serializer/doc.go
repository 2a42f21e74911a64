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

// Package serializer encodes snapshots and decodes limit files.
//
// # Formats
//
// JSON:
//   - Machine-readable, indented output
//   - Standard encoding/json package
//
// YAML:
//   - Human-readable, suitable for limit files kept in version control
//   - gopkg.in/yaml.v3 package
//
// Table:
//   - Flattened FIELD/VALUE rows for terminal viewing
//   - Write-only
//
// # Encoding
//
//	w := serializer.NewStdoutWriter(serializer.FormatYAML)
//	defer w.Close()
//	if err := w.Serialize(ctx, snap); err != nil {
//	    return err
//	}
//
// NewFileWriterOrStdout writes to a file and falls back to stdout when the
// path is empty or cannot be created.
//
// # Decoding
//
//	limits, err := serializer.FromFile[apply.Limits]("limits.yaml")
//
// The format is taken from the file extension (.json, .yaml, .yml).
//
// # HTTP
//
//	serializer.RespondJSON(w, http.StatusOK, snap)
//
// The body is encoded before the status line is written so that an encoding
// failure turns into a 500 rather than a truncated 200.
package serializer
