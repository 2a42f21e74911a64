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

package powercap

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/NVIDIA/powercap/pkg/errors"
	"github.com/NVIDIA/powercap/pkg/sysfs"
)

// State is the lifecycle state of a Descriptor.
type State uint8

const (
	// StateUnopened is the zero value: no open was attempted.
	StateUnopened State = iota
	// StateAbsent means the attribute file does not exist on this platform.
	StateAbsent
	// StateOpen means the descriptor holds a live handle.
	StateOpen
	// StateClosed means the handle was released at teardown.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateAbsent:
		return "absent"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// Descriptor is one attribute file of a zone or constraint.
// The zero value is StateUnopened.
type Descriptor struct {
	state State
	mode  sysfs.AccessMode
	file  sysfs.File
	path  string
}

// State returns the descriptor state.
func (d *Descriptor) State() State {
	return d.state
}

// Mode returns the mode the descriptor was opened with. Only meaningful in StateOpen.
func (d *Descriptor) Mode() sysfs.AccessMode {
	return d.mode
}

// Path returns the attribute path, or an empty string if no open was attempted.
func (d *Descriptor) Path() string {
	return d.path
}

// IsOpen reports whether the descriptor holds a live handle.
func (d *Descriptor) IsOpen() bool {
	return d.state == StateOpen
}

// open resolves one attribute following the open protocol. A nil return leaves
// the descriptor either open or absent.
func (d *Descriptor) open(fsys sysfs.FS, path string, mode sysfs.AccessMode, readOnlyFallback bool) error {
	d.path = path
	f, err := fsys.Open(path, mode)
	switch {
	case err == nil:
		d.set(f, mode)
		return nil
	case stderrors.Is(err, fs.ErrNotExist):
		slog.Debug("attribute not available", "path", path, "error", err)
		d.state = StateAbsent
		return nil
	case readOnlyFallback && mode.Writable() && stderrors.Is(err, fs.ErrPermission):
		// energy_uj may be read-only even for privileged sessions
		f, err = fsys.Open(path, sysfs.ReadOnly)
		if err != nil {
			slog.Error("failed to open attribute read-only", "path", path, "error", err)
			return errors.WrapSyscall("failed to open attribute read-only", err, map[string]any{"path": path})
		}
		slog.Debug("attribute opened read-only after permission failure", "path", path)
		d.set(f, sysfs.ReadOnly)
		return nil
	default:
		slog.Error("failed to open attribute", "path", path, "mode", mode.String(), "error", err)
		return errors.WrapSyscall("failed to open attribute", err, map[string]any{
			"path": path,
			"mode": mode.String(),
		})
	}
}

func (d *Descriptor) set(f sysfs.File, mode sysfs.AccessMode) {
	d.state = StateOpen
	d.file = f
	d.mode = mode
}

// Close releases an open handle exactly once. Closing a descriptor in any other
// state is a no-op.
func (d *Descriptor) Close() error {
	if d.state != StateOpen {
		return nil
	}
	f := d.file
	d.file = nil
	d.state = StateClosed
	if err := f.Close(); err != nil {
		return errors.WrapSyscall("failed to close attribute", err, map[string]any{"path": d.path})
	}
	return nil
}

func (d *Descriptor) ready(op string) error {
	switch d.state {
	case StateOpen:
		return nil
	case StateClosed:
		return errors.WrapWithContext(errors.ErrCodeIO, op+": descriptor closed", fs.ErrClosed,
			map[string]any{"path": d.path})
	default:
		return errors.NewWithContext(errors.ErrCodeNotSupported, op+": attribute not supported",
			map[string]any{"path": d.path, "state": d.state.String()})
	}
}

// ReadU64 reads the attribute as a decimal unsigned integer.
func (d *Descriptor) ReadU64() (uint64, error) {
	if err := d.ready("read"); err != nil {
		return 0, err
	}
	v, err := d.file.ReadU64()
	if err != nil {
		return 0, errors.WrapSyscall("failed to read attribute", err, map[string]any{"path": d.path})
	}
	return v, nil
}

// ReadString copies the attribute into buf, NUL terminated, and returns the
// number of bytes copied.
func (d *Descriptor) ReadString(buf []byte) (int, error) {
	if err := d.ready("read"); err != nil {
		return 0, err
	}
	if len(buf) == 0 {
		return 0, errors.Wrap(errors.ErrCodeInvalidArgument, "empty string buffer", sysfs.ErrShortBuffer)
	}
	n, err := d.file.ReadString(buf)
	if err != nil {
		return 0, errors.WrapSyscall("failed to read attribute", err, map[string]any{"path": d.path})
	}
	return n, nil
}

// WriteU64 writes v as decimal text. A descriptor opened read-only fails with
// PERMISSION without touching the file.
func (d *Descriptor) WriteU64(v uint64) error {
	if err := d.ready("write"); err != nil {
		return err
	}
	if !d.mode.Writable() {
		return errors.WrapWithContext(errors.ErrCodePermission, "attribute opened read-only",
			fs.ErrPermission, map[string]any{"path": d.path})
	}
	if err := d.file.WriteU64(v); err != nil {
		return errors.WrapSyscall("failed to write attribute", err, map[string]any{
			"path":  d.path,
			"value": v,
		})
	}
	return nil
}

// closeAll releases every descriptor and returns the first failure.
// All descriptors are attempted regardless of earlier failures.
func closeAll(ds []Descriptor) error {
	var first error
	for i := range ds {
		if err := ds[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openSet opens each attribute in order. On a hard failure everything opened
// so far is released and the original error is returned.
func openSet(fsys sysfs.FS, ds []Descriptor, specs []attrSpec) error {
	for i, s := range specs {
		if err := ds[i].open(fsys, s.path, s.mode, s.readOnlyFallback); err != nil {
			if cerr := closeAll(ds[:i]); cerr != nil {
				slog.Warn("failed to release attributes after open failure", "error", cerr)
			}
			return err
		}
	}
	return nil
}

type attrSpec struct {
	path             string
	mode             sysfs.AccessMode
	readOnlyFallback bool
}
