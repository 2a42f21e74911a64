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

// Package powercap manages attribute descriptors of powercap zones and constraints.
//
// # Overview
//
// A zone is one node of a control type tree (for example a RAPL package or one
// of its power planes). Each zone carries six attribute files and each of its
// constraints carries seven. ZoneFiles and ConstraintFiles hold one Descriptor
// per attribute, opened together and released together.
//
// # Descriptors
//
// A Descriptor is always in exactly one state:
//
//   - Unopened: the zero value, never attempted
//   - Absent: the attribute file does not exist on this platform
//   - Open: a live handle usable for reads and, if opened writable, writes
//   - Closed: released at teardown
//
// Absent is a legitimate platform property, not an error. Reads and writes on
// an Unopened or Absent descriptor fail with NOT_SUPPORTED and perform no I/O.
//
// # Open protocol
//
// Each attribute is opened with a mode derived from the requested session mode
// and the attribute's mutability. A missing file yields Absent and the sequence
// continues. A permission failure on energy_uj is retried once read-only. Any
// other failure aborts the set, releases what the set already opened, and is
// returned to the caller.
//
// # Stateless access
//
// ControlType also offers single-shot reads and writes that open, use and close
// one attribute per call. They back the inspection tools and existence probes.
//
// # Concurrency
//
// A ZoneFiles or ConstraintFiles value is not synchronized. Distinct values are
// independent and may be used from different goroutines.
package powercap
