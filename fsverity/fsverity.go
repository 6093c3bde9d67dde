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

// Package fsverity computes fs-verity file measurements: compact
// digests that authenticate a file's entire contents through a Merkle
// tree, compatible with the Linux kernel's fs-verity feature.
//
// The measurement of a file is the hash of a fixed 256-byte descriptor
// embedding the Merkle tree root hash, so it can be computed, signed
// and compared without materializing the tree itself.
package fsverity

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"math/bits"
	"os"

	"github.com/containerd/errdefs"
	digest "github.com/opencontainers/go-digest"

	"github.com/google/go-fsverity/hashalg"
	"github.com/google/go-fsverity/internal/merkle"
)

// maxSaltSize is the largest salt the descriptor can carry.
const maxSaltSize = 32

// MerkleTreeParams describes the Merkle tree to build over a file.
type MerkleTreeParams struct {
	// Version of the Merkle tree format; must be 1.
	Version uint32

	// HashAlgorithm for the tree and the final measurement.
	HashAlgorithm hashalg.Alg

	// BlockSize of the data and tree blocks, in bytes. Must be a
	// power of two.
	BlockSize uint32

	// Salt prepended to every hashed block, at most 32 bytes. May be
	// empty.
	Salt []byte

	// FileSize is the length of the data the tree is built over.
	FileSize uint64

	// Reserved must be zero.
	Reserved [8]uint64
}

// Digest is the fs-verity measurement of a file.
type Digest struct {
	// Algorithm that produced the digest.
	Algorithm hashalg.Alg

	// Raw digest bytes, Algorithm.DigestSize() long.
	Raw []byte
}

// String renders the digest as "alg:hex", the form the fsverity tooling
// prints.
func (d *Digest) String() string {
	return d.Algorithm.String() + ":" + hex.EncodeToString(d.Raw)
}

// OCI converts the measurement into an OCI digest, for callers that
// track verity-enabled content in content-addressed stores.
func (d *Digest) OCI() digest.Digest {
	return digest.NewDigestFromEncoded(digest.Algorithm(d.Algorithm.String()), hex.EncodeToString(d.Raw))
}

// ComputeDigest computes the fs-verity measurement of params.FileSize
// bytes of data streamed from r.
//
// r is read strictly sequentially, one block at a time; it must yield
// exactly params.FileSize bytes. The returned digest is owned by the
// caller. Validation and read failures wrap errdefs.ErrInvalidArgument
// and the underlying read error respectively, checkable with errors.Is.
func ComputeDigest(r io.Reader, params *MerkleTreeParams) (*Digest, error) {
	if r == nil || params == nil {
		return nil, fmt.Errorf("missing required parameters for digest computation: %w", errdefs.ErrInvalidArgument)
	}
	if params.Version != 1 {
		return nil, fmt.Errorf("unsupported version (%d): %w", params.Version, errdefs.ErrInvalidArgument)
	}
	if params.BlockSize == 0 || params.BlockSize&(params.BlockSize-1) != 0 {
		return nil, fmt.Errorf("unsupported block size (%d): %w", params.BlockSize, errdefs.ErrInvalidArgument)
	}
	if len(params.Salt) > maxSaltSize {
		return nil, fmt.Errorf("unsupported salt size (%d): %w", len(params.Salt), errdefs.ErrInvalidArgument)
	}
	for _, v := range params.Reserved {
		if v != 0 {
			return nil, fmt.Errorf("reserved bits set in Merkle tree parameters: %w", errdefs.ErrInvalidArgument)
		}
	}
	alg := params.HashAlgorithm
	if !alg.Valid() {
		return nil, fmt.Errorf("unknown hash algorithm (%d): %w", uint32(alg), errdefs.ErrInvalidArgument)
	}

	h := alg.New()
	desc := &descriptor{
		version:       1,
		hashAlgorithm: uint8(alg),
		logBlockSize:  uint8(bits.TrailingZeros32(params.BlockSize)),
		saltSize:      uint8(len(params.Salt)),
		dataSize:      params.FileSize,
	}
	copy(desc.salt[:], params.Salt)

	// The builder writes the tree's root hash directly into the
	// descriptor.
	if err := merkle.RootHash(r, params.FileSize, h, int(params.BlockSize), params.Salt, desc.rootHash[:h.Size()]); err != nil {
		return nil, err
	}

	h.Reset()
	h.Write(desc.marshal())
	return &Digest{Algorithm: alg, Raw: h.Sum(nil)}, nil
}

// ComputeDigestFromFile computes the fs-verity measurement of the file
// at path. If params.FileSize is zero it is taken from the file's
// metadata, so a literal zero only describes an empty file.
func ComputeDigestFromFile(path string, params *MerkleTreeParams) (*Digest, error) {
	if params == nil {
		return nil, fmt.Errorf("missing required parameters for digest computation: %w", errdefs.ErrInvalidArgument)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p := *params
	if p.FileSize == 0 {
		fi, err := f.Stat()
		if err != nil {
			return nil, err
		}
		p.FileSize = uint64(fi.Size())
	}
	return ComputeDigest(bufio.NewReader(f), &p)
}
