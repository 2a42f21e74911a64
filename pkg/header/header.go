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

package header

import (
	"time"

	"github.com/NVIDIA/powercap/pkg/errors"
)

// APIVersion is the schema version of every document this module writes.
const APIVersion = "powercap.nvidia.com/v1alpha1"

// Kind represents the type of a powercap document.
type Kind string

const (
	// KindSnapshot is a read-only tree of packages, zones and constraints.
	KindSnapshot Kind = "PowercapSnapshot"
	// KindLimits is a set of power limits to apply.
	KindLimits Kind = "PowercapLimits"
	// KindApplyResult reports the outcome of applying a limits document.
	KindApplyResult Kind = "PowercapApplyResult"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k *Kind) IsValid() bool {
	switch *k {
	case KindSnapshot, KindLimits, KindApplyResult:
		return true
	default:
		return false
	}
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata returns an Option that adds a metadata key-value pair to the Header.
// If the Metadata map is nil, it will be initialized.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithKind returns an Option that sets the Kind field of the Header.
func WithKind(kind Kind) Option {
	return func(h *Header) {
		h.Kind = kind
	}
}

// WithAPIVersion returns an Option that sets the APIVersion field of the Header.
func WithAPIVersion(version string) Option {
	return func(h *Header) {
		h.APIVersion = version
	}
}

// New creates a new Header instance with the provided functional options.
// The Metadata map is initialized automatically.
func New(opts ...Option) *Header {
	h := &Header{
		Metadata: make(map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Header contains kind, schema version and free-form metadata.
type Header struct {
	// Kind is the type of the document.
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the schema version of the document.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata contains key-value pairs such as timestamp and tool version.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Init sets the kind and API version and records a UTC timestamp and, when
// not empty, the tool version.
func (h *Header) Init(kind Kind, apiVersion string, version string) {
	h.Kind = kind
	h.APIVersion = apiVersion
	h.Metadata = make(map[string]string)

	h.Metadata["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	if version != "" {
		h.Metadata["version"] = version
	}
}

// Validate checks that a decoded header carries the expected kind and a
// supported API version. An empty API version is accepted.
func (h *Header) Validate(kind Kind) error {
	if h.Kind != kind {
		return errors.NewWithContext(errors.ErrCodeInvalidArgument, "unexpected document kind",
			map[string]any{"kind": h.Kind.String(), "expected": kind.String()})
	}
	if h.APIVersion != "" && h.APIVersion != APIVersion {
		return errors.NewWithContext(errors.ErrCodeInvalidArgument, "unsupported API version",
			map[string]any{"apiVersion": h.APIVersion, "supported": APIVersion})
	}
	return nil
}
