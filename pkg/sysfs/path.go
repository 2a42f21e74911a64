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

package sysfs

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/NVIDIA/powercap/pkg/defaults"
)

// Resolver builds filesystem paths inside the powercap class directory.
// The zero value resolves against defaults.SysfsRoot.
type Resolver struct {
	Root string
}

// NewResolver returns a Resolver rooted at root, or at the kernel default if root is empty.
func NewResolver(root string) Resolver {
	return Resolver{Root: root}
}

func (r Resolver) root() string {
	if r.Root == "" {
		return defaults.SysfsRoot
	}
	return r.Root
}

// ControlTypeDir returns the directory of a control type.
func (r Resolver) ControlTypeDir(controlType string) string {
	return filepath.Join(r.root(), controlType)
}

// ZoneDir returns the directory of the zone addressed by the index chain.
// An empty chain addresses the control type directory itself.
func (r Resolver) ZoneDir(controlType string, zones []uint32) string {
	elems := make([]string, 0, len(zones)+2)
	elems = append(elems, r.root(), controlType)

	var b strings.Builder
	b.WriteString(controlType)
	for _, z := range zones {
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(uint64(z), 10))
		elems = append(elems, b.String())
	}
	return filepath.Join(elems...)
}

// ZoneFile returns the path of a zone attribute file.
func (r Resolver) ZoneFile(controlType string, zones []uint32, name string) string {
	return filepath.Join(r.ZoneDir(controlType, zones), name)
}

// ConstraintFile returns the path of a constraint attribute file. Constraint
// attributes live in the zone directory as constraint_<n>_<name>.
func (r Resolver) ConstraintFile(controlType string, zones []uint32, constraint uint32, name string) string {
	return filepath.Join(r.ZoneDir(controlType, zones), ConstraintFilename(constraint, name))
}

// ConstraintFilename returns the bare filename of a constraint attribute.
func ConstraintFilename(constraint uint32, name string) string {
	return fmt.Sprintf("constraint_%d_%s", constraint, name)
}
