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

package inspect

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	inspectDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "powercap_inspect_duration_seconds",
			Help:    "Time taken to build a powercap snapshot",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	inspectTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "powercap_inspect_total",
			Help: "Total number of snapshot attempts",
		},
		[]string{"status"}, // success or error
	)

	inspectAttributeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "powercap_inspect_attribute_errors_total",
			Help: "Attribute reads that failed while building a snapshot",
		},
		[]string{"code"},
	)
)
