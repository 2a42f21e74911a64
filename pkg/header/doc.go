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

// Package header provides the common header of serialized powercap documents.
//
// Snapshots produced by the inspect package and limit files consumed by the
// apply command carry a Kubernetes-style header so that tools can tell them
// apart and reject documents written for another schema version:
//
//	kind: PowercapSnapshot
//	apiVersion: powercap.nvidia.com/v1alpha1
//	metadata:
//	  timestamp: "2025-06-01T10:00:00Z"
//	  version: v0.3.0
//
// # Usage
//
//	var h header.Header
//	h.Init(header.KindSnapshot, header.APIVersion, version)
//
// Or with functional options:
//
//	h := header.New(
//	    header.WithKind(header.KindLimits),
//	    header.WithAPIVersion(header.APIVersion),
//	    header.WithMetadata("host", hostname),
//	)
//
// Validate checks a decoded header against an expected kind.
package header
