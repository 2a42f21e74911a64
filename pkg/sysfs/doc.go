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

// Package sysfs provides the leaf file primitives of the powercap tree.
//
// # Overview
//
// The package has two jobs and no state of its own:
//
//   - Path resolution: Resolver turns a control type name, an ordered chain of
//     zone indices and an attribute filename into an absolute path using the
//     kernel naming scheme (intel-rapl/intel-rapl:0/intel-rapl:0:1).
//   - Attribute I/O: FS opens a path with an AccessMode and returns a File that
//     reads a decimal uint64 or a short string, or writes a decimal uint64.
//
// # Descriptors
//
// A File wraps one open descriptor. Reads use pread(2) at offset zero, so a held
// descriptor observes the live value on every call without reopening the file.
// Writes use pwrite(2) with plain decimal text; range validation and clamping are
// left to the kernel.
//
// # Errors
//
// Failures are returned as *fs.PathError wrapping the raw errno, so callers can
// test them with errors.Is(err, fs.ErrNotExist) or errors.Is(err, fs.ErrPermission).
// Classification into the project error taxonomy happens one layer up.
//
// # Testing
//
// Package sysfstest provides an in-memory FS with per-path error injection and
// open/close accounting.
package sysfs
