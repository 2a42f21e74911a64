package inspect

import (
	"bytes"
	"context"
	"encoding/json"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/powercap/pkg/errors"
	"github.com/NVIDIA/powercap/pkg/header"
	"github.com/NVIDIA/powercap/pkg/powercap"
	"github.com/NVIDIA/powercap/pkg/serializer"
	"github.com/NVIDIA/powercap/pkg/sysfs"
	"github.com/NVIDIA/powercap/pkg/sysfs/sysfstest"
)

func newInspector(tree *sysfstest.Tree) *Inspector {
	return &Inspector{
		ControlType: powercap.NewControlType(tree.ControlType,
			powercap.WithFS(tree.FS), powercap.WithRoot(sysfstest.Root)),
		Version: "v0.1.0",
	}
}

func ptr(v uint32) *uint32 {
	return &v
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "zero", opts: Options{}},
		{name: "package", opts: Options{Package: ptr(0)}},
		{name: "package subzone constraint", opts: Options{Package: ptr(0), Subzone: ptr(1), Constraint: ptr(0)}},
		{name: "subzone without package", opts: Options{Subzone: ptr(0)}, wantErr: true},
		{name: "constraint without package", opts: Options{Constraint: ptr(0)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidArgument))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSnapshot_PackagesOnly(t *testing.T) {
	tree := sysfstest.NewTree()
	tree.AddPackage(0, "core", "dram")
	tree.AddPackage(1)

	snap, err := newInspector(tree).Snapshot(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, header.KindSnapshot, snap.Kind)
	assert.Equal(t, header.APIVersion, snap.APIVersion)
	assert.Equal(t, "intel-rapl", snap.ControlType)
	require.Len(t, snap.Packages, 2)

	for n, pkg := range snap.Packages {
		assert.Equal(t, uint32(n), pkg.Index)
		require.NotNil(t, pkg.Zone)
		assert.Nil(t, pkg.Zone.Subzone)
		assert.Empty(t, pkg.Subzones)
	}

	z := snap.Packages[0].Zone
	assert.Equal(t, "package-0", z.Name)
	require.NotNil(t, z.Enabled)
	assert.True(t, *z.Enabled)
	require.NotNil(t, z.EnergyUJ)
	assert.Equal(t, uint64(123456789), *z.EnergyUJ)
	require.NotNil(t, z.MaxEnergyRangeUJ)
	assert.Equal(t, uint64(262143328850), *z.MaxEnergyRangeUJ)
	assert.Nil(t, z.PowerUW)
	assert.Nil(t, z.MaxPowerRangeUW)
	assert.Nil(t, z.Errors)

	require.Len(t, z.Constraints, 2)
	long := z.Constraints[0]
	assert.Equal(t, "long_term", long.Name)
	require.NotNil(t, long.PowerLimitUW)
	assert.Equal(t, uint64(95000000), *long.PowerLimitUW)
	require.NotNil(t, long.TimeWindowUS)
	assert.Equal(t, uint64(27983872), *long.TimeWindowUS)
	assert.Nil(t, long.MaxTimeWindowUS)
	assert.Equal(t, "short_term", z.Constraints[1].Name)
}

func TestSnapshot_Recurse(t *testing.T) {
	tree := sysfstest.NewTree()
	tree.AddPackage(0, "core", "uncore", "dram")

	snap, err := newInspector(tree).Snapshot(context.Background(), Options{Recurse: true})
	require.NoError(t, err)

	require.Len(t, snap.Packages, 1)
	subs := snap.Packages[0].Subzones
	require.Len(t, subs, 3)
	for n, want := range []string{"core", "uncore", "dram"} {
		assert.Equal(t, want, subs[n].Name)
		require.NotNil(t, subs[n].Subzone)
		assert.Equal(t, uint32(n), *subs[n].Subzone)
		assert.Len(t, subs[n].Constraints, 2)
	}
}

func TestSnapshot_SelectSubzone(t *testing.T) {
	tree := sysfstest.NewTree()
	tree.AddPackage(0, "core", "dram")
	tree.AddPackage(1, "core")

	snap, err := newInspector(tree).Snapshot(context.Background(), Options{Package: ptr(0), Subzone: ptr(1)})
	require.NoError(t, err)

	require.Len(t, snap.Packages, 1)
	pkg := snap.Packages[0]
	assert.Nil(t, pkg.Zone)
	require.Len(t, pkg.Subzones, 1)
	assert.Equal(t, "dram", pkg.Subzones[0].Name)
}

func TestSnapshot_SelectConstraint(t *testing.T) {
	tree := sysfstest.NewTree()
	tree.AddPackage(0, "core")

	snap, err := newInspector(tree).Snapshot(context.Background(),
		Options{Package: ptr(0), Subzone: ptr(0), Constraint: ptr(1), Recurse: true})
	require.NoError(t, err)

	z := snap.Packages[0].Subzones[0]
	assert.Empty(t, z.Name)
	assert.Nil(t, z.EnergyUJ)
	require.Len(t, z.Constraints, 1)
	assert.Equal(t, uint32(1), z.Constraints[0].Index)
	assert.Equal(t, "short_term", z.Constraints[0].Name)
}

func TestSnapshot_NotFound(t *testing.T) {
	tree := sysfstest.NewTree()
	tree.AddPackage(0, "core")

	tests := []struct {
		name string
		opts Options
	}{
		{name: "package", opts: Options{Package: ptr(3)}},
		{name: "subzone", opts: Options{Package: ptr(0), Subzone: ptr(4)}},
		{name: "constraint", opts: Options{Package: ptr(0), Constraint: ptr(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newInspector(tree).Snapshot(context.Background(), tt.opts)
			assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound), "got %v", err)
		})
	}
}

func TestSnapshot_NoPackages(t *testing.T) {
	tree := sysfstest.NewTree()

	_, err := newInspector(tree).Snapshot(context.Background(), Options{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestSnapshot_NoControlType(t *testing.T) {
	_, err := (&Inspector{}).Snapshot(context.Background(), Options{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidArgument))
}

func TestSnapshot_Verbose(t *testing.T) {
	tree := sysfstest.NewTree()
	tree.AddPackage(0)
	tree.FS.SetOpenError(tree.ZonePath([]uint32{0}, "energy_uj"), sysfs.ReadOnly, syscall.EIO)
	tree.FS.SetReadError(tree.ConstraintPath([]uint32{0}, 0, "power_limit_uw"), syscall.EIO)

	quiet, err := newInspector(tree).Snapshot(context.Background(), Options{})
	require.NoError(t, err)
	assert.Nil(t, quiet.Packages[0].Zone.Errors)
	assert.Nil(t, quiet.Packages[0].Zone.Constraints[0].Errors)
	assert.Nil(t, quiet.Packages[0].Zone.Constraints[0].PowerLimitUW)

	loud, err := newInspector(tree).Snapshot(context.Background(), Options{Verbose: true})
	require.NoError(t, err)
	z := loud.Packages[0].Zone
	assert.Nil(t, z.EnergyUJ)
	assert.Contains(t, z.Errors, "energy_uj")
	assert.Contains(t, z.Errors, "power_uw")
	assert.Contains(t, z.Errors, "max_power_range_uw")
	assert.NotContains(t, z.Errors, "name")
	assert.Contains(t, z.Constraints[0].Errors, "power_limit_uw")
	assert.NotContains(t, z.Constraints[1].Errors, "power_limit_uw")
}

func TestSnapshot_CanceledContext(t *testing.T) {
	tree := sysfstest.NewTree()
	tree.AddPackage(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newInspector(tree).Snapshot(ctx, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnapshot_ReleasesHandles(t *testing.T) {
	tree := sysfstest.NewTree()
	tree.AddPackage(0, "core", "dram")

	_, err := newInspector(tree).Snapshot(context.Background(), Options{Recurse: true})
	require.NoError(t, err)
	assert.Zero(t, tree.FS.OpenHandles())
}

func TestMeasure(t *testing.T) {
	tree := sysfstest.NewTree()
	tree.AddPackage(0, "psys")

	var buf bytes.Buffer
	in := newInspector(tree)
	in.Serializer = serializer.NewWriter(serializer.FormatJSON, &buf)

	require.NoError(t, in.Measure(context.Background(), Options{Recurse: true}))

	var snap Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &snap))
	assert.Equal(t, header.KindSnapshot, snap.Kind)
	require.Len(t, snap.Packages, 1)
	require.Len(t, snap.Packages[0].Subzones, 1)
	assert.Equal(t, "psys", snap.Packages[0].Subzones[0].Name)
}
