package sysfstest

import (
	"errors"
	"io/fs"
	"syscall"
	"testing"

	"github.com/NVIDIA/powercap/pkg/sysfs"
)

func TestFS_OpenReadWrite(t *testing.T) {
	f := New()
	f.AddFile("/r/a/energy_uj", "10\n")

	h, err := f.Open("/r/a/energy_uj", sysfs.ReadWrite)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if h.(*File).ID() != 0 {
		t.Errorf("first handle ID = %d, want 0", h.(*File).ID())
	}
	if err := h.WriteU64(0); err != nil {
		t.Fatalf("WriteU64() error = %v", err)
	}
	if got := f.Content("/r/a/energy_uj"); got != "0\n" {
		t.Errorf("content = %q", got)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !errors.Is(h.Close(), fs.ErrClosed) {
		t.Error("second Close() should report fs.ErrClosed")
	}
	if f.Opened() != 1 || f.Closed() != 1 || f.OpenHandles() != 0 {
		t.Errorf("accounting opened=%d closed=%d open=%d", f.Opened(), f.Closed(), f.OpenHandles())
	}
}

func TestFS_Errors(t *testing.T) {
	f := New()
	f.AddFile("/r/a/energy_uj", "10\n")
	f.SetOpenError("/r/a/energy_uj", sysfs.ReadWrite, syscall.EACCES)

	if _, err := f.Open("/r/a/missing", sysfs.ReadOnly); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing: got %v", err)
	}
	if _, err := f.Open("/r/a/energy_uj", sysfs.ReadWrite); !errors.Is(err, fs.ErrPermission) {
		t.Errorf("denied: got %v", err)
	}
	h, err := f.Open("/r/a/energy_uj", sysfs.ReadOnly)
	if err != nil {
		t.Fatalf("read-only open: %v", err)
	}
	if err := h.WriteU64(1); !errors.Is(err, syscall.EBADF) {
		t.Errorf("write on read-only handle: got %v", err)
	}
}

func TestFS_Stat(t *testing.T) {
	f := New()
	f.AddFile("/r/a/name", "core\n")

	fi, err := f.Stat("/r/a")
	if err != nil || !fi.IsDir() {
		t.Fatalf("Stat(dir) = %v, %v", fi, err)
	}
	fi, err = f.Stat("/r/a/name")
	if err != nil || !fi.Mode().IsRegular() {
		t.Fatalf("Stat(file) = %v, %v", fi, err)
	}
	if _, err := f.Stat("/r/b"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Stat(missing) = %v", err)
	}
}

func TestFS_CloseError(t *testing.T) {
	f := New()
	f.AddFile("/r/a/energy_uj", "10\n")
	f.SetCloseError("/r/a/energy_uj", syscall.EIO)

	h, err := f.Open("/r/a/energy_uj", sysfs.ReadOnly)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := h.Close(); !errors.Is(err, syscall.EIO) {
		t.Errorf("Close() = %v, want EIO", err)
	}
	if f.OpenHandles() != 0 || f.Closed() != 1 {
		t.Errorf("failed close should still release: open=%d closed=%d", f.OpenHandles(), f.Closed())
	}
	if !errors.Is(h.Close(), fs.ErrClosed) {
		t.Error("second Close() should report fs.ErrClosed")
	}
}
