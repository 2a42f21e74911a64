package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/NVIDIA/powercap/pkg/errors"
	"github.com/NVIDIA/powercap/pkg/exporter"
	"github.com/NVIDIA/powercap/pkg/inspect"
	"github.com/NVIDIA/powercap/pkg/rapl"
	"github.com/NVIDIA/powercap/pkg/sysfs/sysfstest"
)

// TestConstants verifies package constants are properly defined
func TestConstants(t *testing.T) {
	if name != "powercapd" {
		t.Errorf("name = %q, want %q", name, "powercapd")
	}
	if versionDefault != "dev" {
		t.Errorf("versionDefault = %q, want %q", versionDefault, "dev")
	}
	if version == "" || commit == "" || date == "" {
		t.Error("build variables should not be empty")
	}
}

func testOptions(tree *sysfstest.Tree) Options {
	return Options{
		Root:        sysfstest.Root,
		ControlType: tree.ControlType,
		FS:          tree.FS,
		Registerer:  prometheus.NewRegistry(),
	}.withDefaults()
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	if o.Root == "" || o.ControlType == "" {
		t.Errorf("expected defaults, got %+v", o)
	}
	if o.Registerer != prometheus.DefaultRegisterer {
		t.Error("expected default registerer")
	}
}

func TestRoutes(t *testing.T) {
	tree := sysfstest.NewTree()
	tree.AddPackage(0, "core", "uncore")
	opts := testOptions(tree)

	r := routes(&inspect.Inspector{ControlType: opts.controlType(), Version: "test"})
	if len(r) != 1 {
		t.Fatalf("expected exactly 1 route, got %d", len(r))
	}
	h, ok := r["/v1/zones"]
	if !ok || h == nil {
		t.Fatal("expected /v1/zones route")
	}

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/v1/zones?package=0&recurse=true", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}

	var snap inspect.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(snap.Packages) != 1 || len(snap.Packages[0].Subzones) != 2 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if snap.Metadata["version"] != "test" {
		t.Errorf("version = %q", snap.Metadata["version"])
	}
}

func TestReadiness(t *testing.T) {
	empty := sysfstest.NewTree()
	if err := readiness(testOptions(empty).controlType())(); !errors.IsCode(err, errors.ErrCodeUnavailable) {
		t.Errorf("expected SERVICE_UNAVAILABLE, got %v", err)
	}

	tree := sysfstest.NewTree()
	tree.AddPackage(0)
	if err := readiness(testOptions(tree).controlType())(); err != nil {
		t.Errorf("expected ready, got %v", err)
	}
}

func TestRegister(t *testing.T) {
	tree := sysfstest.NewTree()
	tree.AddPackage(0)
	opts := testOptions(tree)

	pkgs, err := rapl.OpenAll(context.Background(), opts.raplOptions()...)
	if err != nil {
		t.Fatalf("OpenAll: %v", err)
	}
	defer pkgs.Close()

	reg := prometheus.NewRegistry()
	unregister, err := register(reg, exporter.NewCollector(pkgs))
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := register(reg, exporter.NewCollector(pkgs)); !errors.IsCode(err, errors.ErrCodeUnavailable) {
		t.Errorf("second register: expected SERVICE_UNAVAILABLE, got %v", err)
	}

	unregister()
	if n := gatheredFamilies(t, reg); n != 0 {
		t.Errorf("expected no metric families after unregister, got %d", n)
	}
	if _, err := register(reg, exporter.NewCollector(pkgs)); err != nil {
		t.Errorf("register after unregister: %v", err)
	}
}

func gatheredFamilies(t *testing.T, g prometheus.Gatherer) int {
	t.Helper()
	mfs, err := g.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	return len(mfs)
}

func TestRaplOptionsReadOnly(t *testing.T) {
	tree := sysfstest.NewTree()
	tree.AddPackage(0)

	pkgs, err := rapl.OpenAll(context.Background(), testOptions(tree).raplOptions()...)
	if err != nil {
		t.Fatalf("OpenAll: %v", err)
	}
	defer pkgs.Close()

	err = pkgs[0].SetEnabled(rapl.ZonePackage, false)
	if !errors.IsCode(err, errors.ErrCodePermission) {
		t.Errorf("expected PERMISSION on read-only write, got %v", err)
	}
}

func TestServe_NoPackages(t *testing.T) {
	opts := testOptions(sysfstest.NewTree())
	if err := Serve(context.Background(), opts); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestServe_CanceledContext(t *testing.T) {
	tree := sysfstest.NewTree()
	tree.AddPackage(0)
	tree.AddPackage(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Serve(ctx, testOptions(tree)); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestServe_UnregistersCollector(t *testing.T) {
	tree := sysfstest.NewTree()
	tree.AddPackage(0)
	opts := testOptions(tree)
	opts.Address = "127.0.0.1"
	opts.Port = 70000 // rejected at listen time

	for i := range 2 {
		err := Serve(context.Background(), opts)
		if err == nil {
			t.Fatalf("run %d: expected listen error", i)
		}
		if errors.IsCode(err, errors.ErrCodeUnavailable) {
			t.Fatalf("run %d: collector left registered by previous run: %v", i, err)
		}
	}
	if n := gatheredFamilies(t, opts.Registerer.(prometheus.Gatherer)); n != 0 {
		t.Errorf("expected no metric families after Serve returned, got %d", n)
	}
	if tree.FS.OpenHandles() != 0 {
		t.Errorf("open handles after Serve returned: %d", tree.FS.OpenHandles())
	}
}
