package inspect

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/powercap/pkg/errors"
	"github.com/NVIDIA/powercap/pkg/server"
	"github.com/NVIDIA/powercap/pkg/sysfs/sysfstest"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    Options
		wantErr bool
	}{
		{name: "empty", query: "", want: Options{}},
		{name: "full", query: "package=1&subzone=2&constraint=0&recurse=true&verbose=1",
			want: Options{Package: ptr(1), Subzone: ptr(2), Constraint: ptr(0), Recurse: true, Verbose: true}},
		{name: "bad index", query: "package=-1", wantErr: true},
		{name: "overflow", query: "package=4294967296", wantErr: true},
		{name: "bad bool", query: "recurse=maybe", wantErr: true},
		{name: "subzone without package", query: "subzone=0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := ParseOptions(q)
			if tt.wantErr {
				assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidArgument), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleZones(t *testing.T) {
	tree := sysfstest.NewTree()
	tree.AddPackage(0, "core")
	in := newInspector(tree)

	w := httptest.NewRecorder()
	in.HandleZones(w, httptest.NewRequest(http.MethodGet, "/v1/zones?recurse=true", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var snap Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Len(t, snap.Packages, 1)
	require.Len(t, snap.Packages[0].Subzones, 1)
	assert.Equal(t, "core", snap.Packages[0].Subzones[0].Name)
}

func TestHandleZones_Errors(t *testing.T) {
	tree := sysfstest.NewTree()
	tree.AddPackage(0)
	in := newInspector(tree)

	tests := []struct {
		name   string
		method string
		target string
		status int
		code   errors.ErrorCode
	}{
		{name: "method", method: http.MethodPost, target: "/v1/zones", status: http.StatusMethodNotAllowed, code: errors.ErrCodeMethodNotAllowed},
		{name: "bad query", method: http.MethodGet, target: "/v1/zones?package=x", status: http.StatusBadRequest, code: errors.ErrCodeInvalidArgument},
		{name: "missing package", method: http.MethodGet, target: "/v1/zones?package=7", status: http.StatusNotFound, code: errors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			in.HandleZones(w, httptest.NewRequest(tt.method, tt.target, nil))

			assert.Equal(t, tt.status, w.Code)
			var resp server.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, string(tt.code), resp.Code)
		})
	}
}
