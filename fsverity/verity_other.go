//go:build !linux

// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package fsverity

import (
	"fmt"

	"github.com/containerd/errdefs"
)

var errUnsupported = fmt.Errorf("fs-verity is only supported on Linux: %w", errdefs.ErrNotImplemented)

// Enable turns on fs-verity for the file at path. Only supported on
// Linux.
func Enable(_ string, _ *MerkleTreeParams) error {
	return errUnsupported
}

// Measure asks the kernel for the fs-verity measurement of a
// verity-enabled file. Only supported on Linux.
func Measure(_ string) (*Digest, error) {
	return nil, errUnsupported
}

// IsEnabled reports whether the file at path has fs-verity enabled.
// Only supported on Linux.
func IsEnabled(_ string) (bool, error) {
	return false, errUnsupported
}

// IsSupported probes whether the filesystem holding root supports
// fs-verity. Only supported on Linux.
func IsSupported(_ string) (bool, error) {
	return false, errUnsupported
}
