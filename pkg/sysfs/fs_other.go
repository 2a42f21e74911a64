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

//go:build !unix

package sysfs

import (
	"errors"
	"io/fs"
	"os"
)

var errUnsupportedPlatform = errors.New("powercap is only available on unix platforms")

// OSFS is the FS backed by the running kernel. Opening attributes is not
// supported on this platform.
type OSFS struct{}

// NewOSFS returns the kernel-backed FS.
func NewOSFS() FS {
	return OSFS{}
}

// Open always fails on this platform.
func (OSFS) Open(path string, _ AccessMode) (File, error) {
	return nil, &fs.PathError{Op: "open", Path: path, Err: errUnsupportedPlatform}
}

// Stat returns file information for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}
