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

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/google/go-fsverity/internal/testutil"
)

const patternDigest = "c84bc7bd0ce821ca20eba76abf6a86f33146f60ade6567749101f54cf280fa0d"

func writePatternFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "content")
	require.NoError(t, os.WriteFile(path, testutil.Pattern(100000), 0644))
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(append([]string{"fsverity"}, args...))
	return out.String(), err
}

func TestDigestCommand(t *testing.T) {
	path := writePatternFile(t)

	out, err := runApp(t, "digest", path)
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("sha256:%s %s\n", patternDigest, path), out)
}

func TestDigestCommandCompact(t *testing.T) {
	path := writePatternFile(t)

	out, err := runApp(t, "digest", "--compact", path)
	require.NoError(t, err)
	require.Equal(t, patternDigest+"\n", out)
}

func TestDigestCommandSalt(t *testing.T) {
	path := writePatternFile(t)

	out, err := runApp(t, "digest", "--compact", "--salt", "01", path)
	require.NoError(t, err)
	require.Equal(t, "8cf124f617f5e15914f9270981357536758a4dc82db5def85850181ff45304ee\n", out)
}

func TestDigestCommandErrors(t *testing.T) {
	path := writePatternFile(t)

	_, err := runApp(t, "digest")
	require.ErrorContains(t, err, "no files specified")

	_, err = runApp(t, "digest", "--salt", "zz", path)
	require.ErrorContains(t, err, "invalid salt")

	_, err = runApp(t, "digest", "--hash-alg", "md5", path)
	require.ErrorContains(t, err, "unknown hash algorithm")

	_, err = runApp(t, "digest", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
