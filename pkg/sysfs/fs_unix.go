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

//go:build unix

package sysfs

import (
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// OSFS is the FS backed by the running kernel.
type OSFS struct{}

// NewOSFS returns the kernel-backed FS.
func NewOSFS() FS {
	return OSFS{}
}

// Open opens path with open(2). Descriptors are close-on-exec.
func (OSFS) Open(path string, mode AccessMode) (File, error) {
	flags := unix.O_RDONLY
	if mode.Writable() {
		flags = unix.O_RDWR
	}
	fd, err := retryEINTR(func() (int, error) {
		return unix.Open(path, flags|unix.O_CLOEXEC, 0)
	})
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: path, Err: err}
	}
	return &osFile{fd: fd, path: path}, nil
}

// Stat returns file information for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

type osFile struct {
	fd     int
	path   string
	closed bool
}

func (f *osFile) pread(buf []byte) (int, error) {
	if f.closed {
		return 0, &fs.PathError{Op: "read", Path: f.path, Err: fs.ErrClosed}
	}
	n, err := retryEINTR(func() (int, error) {
		return unix.Pread(f.fd, buf, 0)
	})
	if err != nil {
		return 0, &fs.PathError{Op: "read", Path: f.path, Err: err}
	}
	return n, nil
}

func (f *osFile) ReadU64() (uint64, error) {
	var buf [u64BufSize]byte
	n, err := f.pread(buf[:])
	if err != nil {
		return 0, err
	}
	v, err := ParseU64(buf[:n])
	if err != nil {
		return 0, &fs.PathError{Op: "read", Path: f.path, Err: err}
	}
	return v, nil
}

func (f *osFile) ReadString(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, &fs.PathError{Op: "read", Path: f.path, Err: ErrShortBuffer}
	}
	// one spare byte so a value filling buf exactly still has room for its newline
	tmp := make([]byte, len(buf))
	n, err := f.pread(tmp)
	if err != nil {
		return 0, err
	}
	return CopyString(buf, tmp[:n])
}

func (f *osFile) WriteU64(v uint64) error {
	if f.closed {
		return &fs.PathError{Op: "write", Path: f.path, Err: fs.ErrClosed}
	}
	data := FormatU64(v)
	n, err := retryEINTR(func() (int, error) {
		return unix.Pwrite(f.fd, data, 0)
	})
	if err != nil {
		return &fs.PathError{Op: "write", Path: f.path, Err: err}
	}
	if n != len(data) {
		return &fs.PathError{Op: "write", Path: f.path, Err: unix.EIO}
	}
	return nil
}

func (f *osFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if err := unix.Close(f.fd); err != nil {
		return &fs.PathError{Op: "close", Path: f.path, Err: err}
	}
	return nil
}

func retryEINTR(fn func() (int, error)) (int, error) {
	for {
		n, err := fn()
		if err != unix.EINTR {
			return n, err
		}
	}
}
