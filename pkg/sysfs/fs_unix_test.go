//go:build unix

package sysfs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func writeAttr(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestOSFS_ReadU64_Live(t *testing.T) {
	dir := t.TempDir()
	p := writeAttr(t, dir, "energy_uj", "1000\n")

	f, err := NewOSFS().Open(p, ReadOnly)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	v, err := f.ReadU64()
	if err != nil || v != 1000 {
		t.Fatalf("ReadU64() = %d, %v", v, err)
	}

	// a held descriptor sees new content without reopening
	writeAttr(t, dir, "energy_uj", "2000\n")
	v, err = f.ReadU64()
	if err != nil || v != 2000 {
		t.Fatalf("ReadU64() after update = %d, %v", v, err)
	}
}

func TestOSFS_WriteU64(t *testing.T) {
	dir := t.TempDir()
	p := writeAttr(t, dir, "constraint_0_power_limit_uw", "0\n")

	f, err := NewOSFS().Open(p, ReadWrite)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	if err := f.WriteU64(95000000); err != nil {
		t.Fatalf("WriteU64() error = %v", err)
	}
	v, err := f.ReadU64()
	if err != nil || v != 95000000 {
		t.Fatalf("ReadU64() = %d, %v", v, err)
	}
}

func TestOSFS_ReadString(t *testing.T) {
	dir := t.TempDir()
	p := writeAttr(t, dir, "name", "package-0\n")

	f, err := NewOSFS().Open(p, ReadOnly)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	buf := make([]byte, 64)
	n, err := f.ReadString(buf)
	if err != nil {
		t.Fatalf("ReadString() error = %v", err)
	}
	if got := string(buf[:n]); got != "package-0" {
		t.Errorf("ReadString() = %q", got)
	}

	small := make([]byte, 5)
	n, err = f.ReadString(small)
	if err != nil || n != 4 || String(small) != "pack" {
		t.Errorf("truncated ReadString() = %d %q %v", n, String(small), err)
	}
}

func TestOSFS_WriteReadOnlyDescriptor(t *testing.T) {
	dir := t.TempDir()
	p := writeAttr(t, dir, "energy_uj", "5\n")

	f, err := NewOSFS().Open(p, ReadOnly)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	if err := f.WriteU64(0); err == nil {
		t.Fatal("expected write on read-only descriptor to fail")
	}
}

func TestOSFS_OpenMissing(t *testing.T) {
	_, err := NewOSFS().Open(filepath.Join(t.TempDir(), "missing"), ReadOnly)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
	var pe *fs.PathError
	if !errors.As(err, &pe) || pe.Op != "open" {
		t.Errorf("expected *fs.PathError for open, got %T", err)
	}
}

func TestOSFS_CloseIdempotent(t *testing.T) {
	dir := t.TempDir()
	p := writeAttr(t, dir, "enabled", "1\n")

	f, err := NewOSFS().Open(p, ReadOnly)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if _, err := f.ReadU64(); !errors.Is(err, fs.ErrClosed) {
		t.Errorf("expected fs.ErrClosed after close, got %v", err)
	}
}

func TestOSFS_Stat(t *testing.T) {
	dir := t.TempDir()
	fi, err := NewOSFS().Stat(dir)
	if err != nil || !fi.IsDir() {
		t.Fatalf("Stat(dir) = %v, %v", fi, err)
	}
}
