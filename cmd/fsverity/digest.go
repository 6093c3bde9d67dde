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
	"encoding/hex"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/google/go-fsverity/fsverity"
)

var digestCommand = &cli.Command{
	Name:      "digest",
	Usage:     "compute the fs-verity measurement of files",
	ArgsUsage: "FILE...",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{
			Name:  "compact",
			Usage: "print only the digest hex, without algorithm or file name",
		},
	}, treeFlags...),
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() == 0 {
			return fmt.Errorf("no files specified")
		}
		params, err := paramsFromFlags(ctx)
		if err != nil {
			return err
		}
		for _, path := range ctx.Args().Slice() {
			logrus.WithField("file", path).Debug("computing fs-verity measurement")
			d, err := fsverity.ComputeDigestFromFile(path, params)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if ctx.Bool("compact") {
				fmt.Fprintln(ctx.App.Writer, hex.EncodeToString(d.Raw))
			} else {
				fmt.Fprintf(ctx.App.Writer, "%s %s\n", d, path)
			}
		}
		return nil
	},
}
