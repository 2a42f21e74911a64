package serializer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testLimit struct {
	Package      uint32  `json:"package" yaml:"package"`
	Zone         string  `json:"zone" yaml:"zone"`
	PowerLimitUW *uint64 `json:"powerLimitUW,omitempty" yaml:"powerLimitUW,omitempty"`
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"limits.json", FormatJSON},
		{"limits.JSON", FormatJSON},
		{"limits.yaml", FormatYAML},
		{"limits.yml", FormatYAML},
		{"out.table", FormatTable},
		{"out.txt", FormatTable},
		{"limits", FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatFromPath(tt.path); got != tt.want {
				t.Errorf("FormatFromPath(%q) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}

func TestNewReader(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"table", FormatTable, true},
		{"unknown", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(tt.format, strings.NewReader("{}"))
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewReader() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && r == nil {
				t.Error("expected reader")
			}
		})
	}
}

func TestReader_Deserialize(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		input   string
		want    testLimit
		wantErr bool
	}{
		{
			name:   "json",
			format: FormatJSON,
			input:  `{"package": 1, "zone": "dram", "powerLimitUW": 20000000}`,
			want:   testLimit{Package: 1, Zone: "dram"},
		},
		{
			name:   "yaml",
			format: FormatYAML,
			input:  "package: 1\nzone: dram\npowerLimitUW: 20000000\n",
			want:   testLimit{Package: 1, Zone: "dram"},
		},
		{
			name:    "json unknown field",
			format:  FormatJSON,
			input:   `{"package": 1, "zone": "dram", "limit": 5}`,
			wantErr: true,
		},
		{
			name:    "yaml unknown field",
			format:  FormatYAML,
			input:   "package: 1\nlimit: 5\n",
			wantErr: true,
		},
		{
			name:    "invalid json",
			format:  FormatJSON,
			input:   `{"package": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(tt.format, strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("NewReader failed: %v", err)
			}

			var got testLimit
			err = r.Deserialize(&got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Deserialize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Package != tt.want.Package || got.Zone != tt.want.Zone {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if got.PowerLimitUW == nil || *got.PowerLimitUW != 20000000 {
				t.Errorf("powerLimitUW not decoded: %+v", got)
			}
		})
	}
}

func TestReader_NilChecks(t *testing.T) {
	var r *Reader
	if err := r.Deserialize(&testLimit{}); err == nil {
		t.Error("expected error for nil reader")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil reader: %v", err)
	}

	r = &Reader{format: FormatJSON}
	if err := r.Deserialize(&testLimit{}); err == nil {
		t.Error("expected error for nil input")
	}
}

type countingCloser struct {
	*strings.Reader
	closed int
}

func (c *countingCloser) Close() error {
	c.closed++
	return nil
}

func TestReader_CloseOnce(t *testing.T) {
	input := &countingCloser{Reader: strings.NewReader("{}")}
	r, err := NewReader(FormatJSON, input)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if input.closed != 1 {
		t.Errorf("expected one close, got %d", input.closed)
	}
}

func TestFromFile(t *testing.T) {
	path := writeTestFile(t, "limit.yaml", "package: 0\nzone: package\npowerLimitUW: 20000000\n")

	got, err := FromFile[testLimit](path)
	if err != nil {
		t.Fatalf("FromFile failed: %v", err)
	}
	if got.Zone != "package" || got.PowerLimitUW == nil {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestFromFile_Errors(t *testing.T) {
	if _, err := FromFile[testLimit](filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not exist error, got %v", err)
	}

	path := writeTestFile(t, "limit.json", "not json")
	if _, err := FromFile[testLimit](path); err == nil {
		t.Error("expected decode error")
	}

	path = writeTestFile(t, "limit.txt", "package: 0")
	if _, err := FromFile[testLimit](path); err == nil {
		t.Error("expected error for table format")
	}
}
