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

// fsverity computes and manages fs-verity file measurements.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/google/go-fsverity/fsverity"
	"github.com/google/go-fsverity/hashalg"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "fsverity",
		Usage: "compute and manage fs-verity file measurements",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Before: func(ctx *cli.Context) error {
			if ctx.Bool("debug") {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			digestCommand,
			enableCommand,
			measureCommand,
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "fsverity: %s\n", err)
		os.Exit(1)
	}
}

// treeFlags are the Merkle tree parameters shared by the digest and
// enable commands.
var treeFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "hash-alg",
		Value: "sha256",
		Usage: "Merkle tree hash algorithm (sha256 or sha512)",
	},
	&cli.UintFlag{
		Name:  "block-size",
		Value: 4096,
		Usage: "Merkle tree block size in bytes",
	},
	&cli.StringFlag{
		Name:  "salt",
		Usage: "salt prepended to every hashed block, as a hex string",
	},
}

func paramsFromFlags(ctx *cli.Context) (*fsverity.MerkleTreeParams, error) {
	alg, err := hashalg.FromName(ctx.String("hash-alg"))
	if err != nil {
		return nil, err
	}
	var salt []byte
	if s := ctx.String("salt"); s != "" {
		salt, err = hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid salt %q: %w", s, err)
		}
	}
	return &fsverity.MerkleTreeParams{
		Version:       1,
		HashAlgorithm: alg,
		BlockSize:     uint32(ctx.Uint("block-size")),
		Salt:          salt,
	}, nil
}
