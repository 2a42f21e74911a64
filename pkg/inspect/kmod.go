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
	"context"
	"os"
	"strings"

	"github.com/NVIDIA/powercap/pkg/errors"
)

// raplModules are the drivers that publish the intel-rapl control type.
var raplModules = []string{
	"intel_rapl_common",
	"intel_rapl_msr",
	"intel_rapl_tpmi",
	"processor_thermal_rapl",
}

// kernelModules reports which RAPL drivers path lists. The module name is
// the first field of each line.
func kernelModules(ctx context.Context, path string) (map[string]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapSyscall("failed to read kernel modules", err, map[string]any{"path": path})
	}

	loaded := make(map[string]bool, len(raplModules))
	for _, m := range raplModules {
		loaded[m] = false
	}
	for line := range strings.SplitSeq(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if _, ok := loaded[fields[0]]; ok {
			loaded[fields[0]] = true
		}
	}
	return loaded, nil
}
