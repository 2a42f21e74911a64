package sysfs

import (
	"errors"
	"testing"
)

func TestParseU64(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    uint64
		wantErr bool
	}{
		{name: "plain", in: "123", want: 123},
		{name: "newline", in: "95000000\n", want: 95000000},
		{name: "trailing spaces", in: "7 \t\n", want: 7},
		{name: "max", in: "18446744073709551615\n", want: 18446744073709551615},
		{name: "zero", in: "0\n", want: 0},
		{name: "empty", in: "", wantErr: true},
		{name: "negative", in: "-1\n", wantErr: true},
		{name: "text", in: "enabled\n", wantErr: true},
		{name: "leading space", in: " 5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseU64([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseU64(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseU64(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatU64(t *testing.T) {
	if got := string(FormatU64(42)); got != "42" {
		t.Errorf("FormatU64(42) = %q", got)
	}
}

func TestCopyString(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		src   string
		want  string
		wantN int
	}{
		{name: "fits", size: 32, src: "long_term\n", want: "long_term", wantN: 9},
		{name: "exact with terminator", size: 7, src: "uncore\n", want: "uncore", wantN: 6},
		{name: "truncated", size: 5, src: "package-0\n", want: "pack", wantN: 4},
		{name: "single byte buffer", size: 1, src: "dram\n", want: "", wantN: 0},
		{name: "empty source", size: 8, src: "", want: "", wantN: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.size)
			for i := range buf {
				buf[i] = 'x'
			}
			n, err := CopyString(buf, []byte(tt.src))
			if err != nil {
				t.Fatalf("CopyString() error = %v", err)
			}
			if n != tt.wantN {
				t.Errorf("n = %d, want %d", n, tt.wantN)
			}
			if buf[n] != 0 {
				t.Errorf("buf[%d] = %q, want NUL", n, buf[n])
			}
			if got := String(buf); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCopyString_EmptyBuffer(t *testing.T) {
	if _, err := CopyString(nil, []byte("core")); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("expected ErrShortBuffer, got %v", err)
	}
}

func TestAccessMode(t *testing.T) {
	if ReadOnly.Writable() {
		t.Error("ReadOnly must not be writable")
	}
	if !ReadWrite.Writable() {
		t.Error("ReadWrite must be writable")
	}
	if ReadOnly.String() != "ro" || ReadWrite.String() != "rw" {
		t.Errorf("unexpected mode names %q %q", ReadOnly, ReadWrite)
	}
}
