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
	"github.com/NVIDIA/powercap/pkg/defaults"
	"github.com/NVIDIA/powercap/pkg/powercap"
	"github.com/NVIDIA/powercap/pkg/sysfs"
)

type config struct {
	readOnly    bool
	fs          sysfs.FS
	root        string
	controlType string
}

// Option configures discovery and Open.
type Option func(*config)

// WithReadOnly opens every attribute read-only.
func WithReadOnly(readOnly bool) Option {
	return func(c *config) {
		c.readOnly = readOnly
	}
}

// WithFS sets the filesystem, the host sysfs by default.
func WithFS(fsys sysfs.FS) Option {
	return func(c *config) {
		c.fs = fsys
	}
}

// WithRoot sets the powercap class directory.
func WithRoot(root string) Option {
	return func(c *config) {
		c.root = root
	}
}

// WithControlType sets the control type, intel-rapl by default.
func WithControlType(name string) Option {
	return func(c *config) {
		c.controlType = name
	}
}

func newConfig(opts []Option) config {
	c := config{
		root:        defaults.SysfsRoot,
		controlType: defaults.ControlTypeRAPL,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c config) control() *powercap.ControlType {
	popts := []powercap.Option{powercap.WithRoot(c.root)}
	if c.fs != nil {
		popts = append(popts, powercap.WithFS(c.fs))
	}
	return powercap.NewControlType(c.controlType, popts...)
}
