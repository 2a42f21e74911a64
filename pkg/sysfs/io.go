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
	"bytes"
	"fmt"
	"io/fs"
	"strconv"
)

// AccessMode is the access requested when opening an attribute file.
type AccessMode uint8

const (
	// ReadOnly opens the attribute for reading only.
	ReadOnly AccessMode = iota
	// ReadWrite opens the attribute for reading and writing.
	ReadWrite
)

// String returns the mode name.
func (m AccessMode) String() string {
	switch m {
	case ReadOnly:
		return "ro"
	case ReadWrite:
		return "rw"
	default:
		return fmt.Sprintf("AccessMode(%d)", m)
	}
}

// Writable reports whether the mode permits writes.
func (m AccessMode) Writable() bool {
	return m == ReadWrite
}

// FS opens attribute files and probes the tree.
type FS interface {
	// Open opens path with the requested mode.
	Open(path string, mode AccessMode) (File, error)
	// Stat returns file information for path.
	Stat(path string) (fs.FileInfo, error)
}

// File is one open attribute descriptor.
type File interface {
	// ReadU64 reads the whole attribute as a decimal unsigned integer.
	ReadU64() (uint64, error)
	// ReadString copies the attribute into buf, without the trailing newline,
	// truncated to len(buf)-1 bytes and NUL terminated. It returns the number
	// of bytes copied, excluding the terminator.
	ReadString(buf []byte) (int, error)
	// WriteU64 writes v as decimal text.
	WriteU64(v uint64) error
	// Close releases the descriptor.
	Close() error
}

// u64BufSize fits the 20 digits of math.MaxUint64 plus a newline.
const u64BufSize = 24

// ErrShortBuffer is returned by ReadString for a zero-length buffer.
var ErrShortBuffer = fmt.Errorf("string buffer must hold at least the terminator")

// ParseU64 parses attribute content as a decimal unsigned integer, tolerating
// trailing whitespace.
func ParseU64(content []byte) (uint64, error) {
	s := string(bytes.TrimRight(content, " \t\r\n\x00"))
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid attribute value %q: %w", s, err)
	}
	return v, nil
}

// FormatU64 renders v the way attribute writes expect it.
func FormatU64(v uint64) []byte {
	return strconv.AppendUint(make([]byte, 0, u64BufSize), v, 10)
}

// CopyString copies src into buf the way File.ReadString does: a trailing
// newline is dropped, the copy is truncated to len(buf)-1 bytes and the result
// is NUL terminated.
func CopyString(buf, src []byte) (int, error) {
	if len(buf) == 0 {
		return 0, ErrShortBuffer
	}
	src = bytes.TrimRight(src, "\n")
	n := copy(buf[:len(buf)-1], src)
	buf[n] = 0
	return n, nil
}

// String returns the bytes of buf up to the first NUL.
func String(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		return string(buf[:i])
	}
	return string(buf)
}
