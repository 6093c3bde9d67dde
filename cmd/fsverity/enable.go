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

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/google/go-fsverity/fsverity"
)

var enableCommand = &cli.Command{
	Name:      "enable",
	Usage:     "enable fs-verity on a file (Linux only)",
	ArgsUsage: "FILE",
	Flags:     treeFlags,
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() != 1 {
			return fmt.Errorf("expected exactly one file")
		}
		params, err := paramsFromFlags(ctx)
		if err != nil {
			return err
		}
		path := ctx.Args().First()
		logrus.WithField("file", path).Debug("enabling fs-verity")
		if err := fsverity.Enable(path, params); err != nil {
			return err
		}
		return nil
	},
}
