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
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/google/go-fsverity/fsverity"
)

var measureCommand = &cli.Command{
	Name:      "measure",
	Usage:     "print the kernel-reported measurement of verity-enabled files (Linux only)",
	ArgsUsage: "FILE...",
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() == 0 {
			return fmt.Errorf("no files specified")
		}
		for _, path := range ctx.Args().Slice() {
			d, err := fsverity.Measure(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			fmt.Fprintf(ctx.App.Writer, "%s %s\n", d, path)
		}
		return nil
	},
}
