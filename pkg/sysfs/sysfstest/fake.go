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

// Package sysfstest provides an in-memory sysfs.FS for tests.
package sysfstest

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/NVIDIA/powercap/pkg/sysfs"
)

type entry struct {
	content  []byte
	openErr  map[sysfs.AccessMode]error
	readErr  error
	writeErr error
	closeErr error
}

// FS is an in-memory tree of attribute files. It is safe for concurrent use.
type FS struct {
	mu      sync.Mutex
	files   map[string]*entry
	dirs    map[string]bool
	handles map[int]*File
	nextID  int
	opened  int
	closed  int
	reads   map[string]int
	writes  map[string]int
}

// New returns an empty tree.
func New() *FS {
	return &FS{
		files:   make(map[string]*entry),
		dirs:    make(map[string]bool),
		handles: make(map[int]*File),
		reads:   make(map[string]int),
		writes:  make(map[string]int),
	}
}

func (f *FS) mkdirAll(dir string) {
	for dir != "/" && dir != "." && dir != "" {
		f.dirs[dir] = true
		dir = path.Dir(dir)
	}
}

// AddFile creates or replaces a file and all of its parent directories.
func (f *FS) AddFile(p, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p = path.Clean(p)
	f.mkdirAll(path.Dir(p))
	if e, ok := f.files[p]; ok {
		e.content = []byte(content)
		return
	}
	f.files[p] = &entry{content: []byte(content), openErr: make(map[sysfs.AccessMode]error)}
}

// AddDir creates an empty directory and its parents.
func (f *FS) AddDir(p string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mkdirAll(path.Clean(p))
}

// RemoveFile deletes a file so that opening it fails with ENOENT.
func (f *FS) RemoveFile(p string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, path.Clean(p))
}

func (f *FS) entry(p string) *entry {
	e, ok := f.files[path.Clean(p)]
	if !ok {
		panic(fmt.Sprintf("sysfstest: no such file %s", p))
	}
	return e
}

// SetOpenError makes opening p with mode fail with err.
func (f *FS) SetOpenError(p string, mode sysfs.AccessMode, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entry(p).openErr[mode] = err
}

// SetReadError makes every read of p fail with err.
func (f *FS) SetReadError(p string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entry(p).readErr = err
}

// SetWriteError makes every write of p fail with err.
func (f *FS) SetWriteError(p string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entry(p).writeErr = err
}

// SetCloseError makes every Close of a handle on p report err. The handle is
// still released, as with close(2).
func (f *FS) SetCloseError(p string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entry(p).closeErr = err
}

// Content returns the current content of p.
func (f *FS) Content(p string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return string(f.entry(p).content)
}

// OpenHandles returns the number of handles not yet closed.
func (f *FS) OpenHandles() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handles)
}

// OpenedPaths returns the paths of handles not yet closed, sorted.
func (f *FS) OpenedPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.handles))
	for _, h := range f.handles {
		out = append(out, h.path)
	}
	sort.Strings(out)
	return out
}

// Opened returns the total number of successful opens.
func (f *FS) Opened() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opened
}

// Closed returns the total number of closes of open handles.
func (f *FS) Closed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Reads returns the number of reads issued against p.
func (f *FS) Reads(p string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads[path.Clean(p)]
}

// Writes returns the number of writes issued against p.
func (f *FS) Writes(p string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes[path.Clean(p)]
}

// Open implements sysfs.FS. Handle identifiers start at zero.
func (f *FS) Open(p string, mode sysfs.AccessMode) (sysfs.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p = path.Clean(p)
	e, ok := f.files[p]
	if !ok {
		if f.dirs[p] {
			return nil, &fs.PathError{Op: "open", Path: p, Err: syscall.EISDIR}
		}
		return nil, &fs.PathError{Op: "open", Path: p, Err: syscall.ENOENT}
	}
	if err := e.openErr[mode]; err != nil {
		return nil, &fs.PathError{Op: "open", Path: p, Err: err}
	}
	h := &File{fs: f, id: f.nextID, path: p, mode: mode}
	f.handles[h.id] = h
	f.nextID++
	f.opened++
	return h, nil
}

// Stat implements sysfs.FS.
func (f *FS) Stat(p string) (fs.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p = path.Clean(p)
	if e, ok := f.files[p]; ok {
		return fileInfo{name: path.Base(p), size: int64(len(e.content))}, nil
	}
	if f.dirs[p] {
		return fileInfo{name: path.Base(p), dir: true}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: p, Err: syscall.ENOENT}
}

// File is a handle returned by FS.Open.
type File struct {
	fs     *FS
	id     int
	path   string
	mode   sysfs.AccessMode
	closed bool
}

// ID returns the handle identifier. The first handle opened on an FS is zero.
func (h *File) ID() int {
	return h.id
}

// Mode returns the mode the handle was opened with.
func (h *File) Mode() sysfs.AccessMode {
	return h.mode
}

func (h *File) read() ([]byte, error) {
	h.fs.mu.Lock()
	defer h.fs.mu.Unlock()
	if h.closed {
		return nil, &fs.PathError{Op: "read", Path: h.path, Err: fs.ErrClosed}
	}
	h.fs.reads[h.path]++
	e, ok := h.fs.files[h.path]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: h.path, Err: syscall.ENODEV}
	}
	if e.readErr != nil {
		return nil, &fs.PathError{Op: "read", Path: h.path, Err: e.readErr}
	}
	return append([]byte(nil), e.content...), nil
}

// ReadU64 implements sysfs.File.
func (h *File) ReadU64() (uint64, error) {
	data, err := h.read()
	if err != nil {
		return 0, err
	}
	v, err := sysfs.ParseU64(data)
	if err != nil {
		return 0, &fs.PathError{Op: "read", Path: h.path, Err: err}
	}
	return v, nil
}

// ReadString implements sysfs.File.
func (h *File) ReadString(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, &fs.PathError{Op: "read", Path: h.path, Err: sysfs.ErrShortBuffer}
	}
	data, err := h.read()
	if err != nil {
		return 0, err
	}
	if len(data) > len(buf) {
		data = data[:len(buf)]
	}
	return sysfs.CopyString(buf, data)
}

// WriteU64 implements sysfs.File. Writing a read-only handle fails with EBADF.
func (h *File) WriteU64(v uint64) error {
	h.fs.mu.Lock()
	defer h.fs.mu.Unlock()
	if h.closed {
		return &fs.PathError{Op: "write", Path: h.path, Err: fs.ErrClosed}
	}
	h.fs.writes[h.path]++
	if !h.mode.Writable() {
		return &fs.PathError{Op: "write", Path: h.path, Err: syscall.EBADF}
	}
	e, ok := h.fs.files[h.path]
	if !ok {
		return &fs.PathError{Op: "write", Path: h.path, Err: syscall.ENODEV}
	}
	if e.writeErr != nil {
		return &fs.PathError{Op: "write", Path: h.path, Err: e.writeErr}
	}
	e.content = append(sysfs.FormatU64(v), '\n')
	return nil
}

// Close implements sysfs.File. A second Close fails with fs.ErrClosed and is
// not counted.
func (h *File) Close() error {
	h.fs.mu.Lock()
	defer h.fs.mu.Unlock()
	if h.closed {
		return &fs.PathError{Op: "close", Path: h.path, Err: fs.ErrClosed}
	}
	h.closed = true
	delete(h.fs.handles, h.id)
	h.fs.closed++
	if e, ok := h.fs.files[h.path]; ok && e.closeErr != nil {
		return &fs.PathError{Op: "close", Path: h.path, Err: e.closeErr}
	}
	return nil
}

type fileInfo struct {
	name string
	size int64
	dir  bool
}

func (i fileInfo) Name() string { return i.name }
func (i fileInfo) Size() int64  { return i.size }
func (i fileInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0o555
	}
	return 0o644
}
func (i fileInfo) ModTime() time.Time { return time.Time{} }
func (i fileInfo) IsDir() bool        { return i.dir }
func (i fileInfo) Sys() any           { return nil }

// Tree lists every file path, sorted. Useful in test failure messages.
func (f *FS) Tree() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	paths := make([]string, 0, len(f.files))
	for p := range f.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return strings.Join(paths, "\n")
}
