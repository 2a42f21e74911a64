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

// Package inspect builds a read-only snapshot of a powercap tree.
//
// A snapshot lists every package with its zone attributes, its constraints
// and its subzones. Attributes are read with one short-lived descriptor each,
// so inspecting never holds the tree open and does not need write access.
// Missing or unreadable attributes are omitted; with Verbose set the reason
// is recorded in the Errors map of the zone or constraint.
//
// Scope can be narrowed the same way as the rapl-info tool: one package,
// optionally without its subzones, one subzone of a package, or one
// constraint of either.
//
// Usage:
//
//	ins := &inspect.Inspector{
//	    ControlType: powercap.NewControlType(""),
//	    Version:     version,
//	    Serializer:  serializer.NewStdoutWriter(serializer.FormatYAML),
//	}
//	if err := ins.Measure(ctx, inspect.Options{Recurse: true}); err != nil {
//	    return err
//	}
package inspect
