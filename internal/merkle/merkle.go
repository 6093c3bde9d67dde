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

// Package merkle builds the fs-verity Merkle tree over a stream of data
// blocks. The tree is consumed as it is built; only the root hash is
// retained.
package merkle

import (
	"fmt"
	"hash"
	"io"

	"github.com/containerd/errdefs"
)

// MaxLevels is the maximum number of interior tree levels, matching the
// kernel's FS_VERITY_MAX_LEVELS.
const MaxLevels = 64

// dataSlot indexes the buffer that stages raw data blocks. Interior
// level l of the tree lives at index l+1, and the slot after the last
// interior level aliases the caller's root hash region.
const dataSlot = 0

type blockBuffer struct {
	filled int
	data   []byte
}

type builder struct {
	h          hash.Hash
	blockSize  int
	digestSize int
	paddedSalt []byte
	buffers    []blockBuffer
}

// hashOneBlock hashes the pending block at the given buffer index,
// appending the digest to the next buffer up. It reports whether the
// next buffer can no longer accept another digest, meaning it must be
// hashed upward in turn.
func (b *builder) hashOneBlock(idx int) bool {
	cur := &b.buffers[idx]
	next := &b.buffers[idx+1]

	// Zero-pad the block if it's shorter than blockSize.
	clear(cur.data[cur.filled:])

	b.h.Reset()
	if len(b.paddedSalt) > 0 {
		b.h.Write(b.paddedSalt)
	}
	b.h.Write(cur.data)
	// Sum appends in place: next.data always has room for one more
	// digest whenever this is called.
	b.h.Sum(next.data[:next.filled])

	next.filled += b.digestSize
	cur.filled = 0

	return next.filled+b.digestSize > b.blockSize
}

// numLevels returns the number of interior tree levels needed for the
// given file size.
func numLevels(fileSize uint64, blockSize, hashesPerBlock int) (int, error) {
	levels := 0
	for blocks := divRoundUp(fileSize, uint64(blockSize)); blocks > 1; blocks = divRoundUp(blocks, uint64(hashesPerBlock)) {
		if levels >= MaxLevels {
			return 0, fmt.Errorf("file requires more than %d tree levels: %w", MaxLevels, errdefs.ErrInvalidArgument)
		}
		levels++
	}
	return levels, nil
}

// RootHash streams fileSize bytes of data from r through the Merkle
// tree defined by h, blockSize and salt, and writes the tree's root
// hash into root. root must be exactly h.Size() bytes and may alias a
// larger caller-owned region, such as a descriptor's root hash field.
//
// Reads are issued strictly in increasing offset order, each for
// exactly min(blockSize, remaining) bytes. The salt, zero-padded to a
// multiple of h.BlockSize(), is prepended to every hashed block at
// every level.
func RootHash(r io.Reader, fileSize uint64, h hash.Hash, blockSize int, salt, root []byte) error {
	digestSize := h.Size()

	// Root hash of an empty file is all zeros; no reads are issued.
	if fileSize == 0 {
		clear(root)
		return nil
	}

	var paddedSalt []byte
	if len(salt) > 0 {
		paddedSalt = make([]byte, roundUp(len(salt), h.BlockSize()))
		copy(paddedSalt, salt)
	}

	hashesPerBlock := blockSize / digestSize
	if hashesPerBlock == 0 {
		return fmt.Errorf("block size (%d) smaller than the digest size (%d): %w", blockSize, digestSize, errdefs.ErrInvalidArgument)
	}
	levels, err := numLevels(fileSize, blockSize, hashesPerBlock)
	if err != nil {
		return err
	}

	b := &builder{
		h:          h,
		blockSize:  blockSize,
		digestSize: digestSize,
		paddedSalt: paddedSalt,
		buffers:    make([]blockBuffer, levels+2),
	}
	for i := dataSlot; i <= levels; i++ {
		b.buffers[i].data = make([]byte, blockSize)
	}
	b.buffers[levels+1].data = root

	// Hash each data block, also hashing tree blocks as they fill up.
	for offset := uint64(0); offset < fileSize; offset += uint64(blockSize) {
		data := &b.buffers[dataSlot]
		data.filled = blockSize
		if remaining := fileSize - offset; remaining < uint64(blockSize) {
			data.filled = int(remaining)
		}

		if _, err := io.ReadFull(r, data.data[:data.filled]); err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}

		idx := dataSlot
		for b.hashOneBlock(idx) {
			idx++
			if idx > levels {
				return fmt.Errorf("hash tree overflowed its %d levels: %w", levels, errdefs.ErrInvalidArgument)
			}
		}
	}

	// Finish all nonempty pending tree blocks.
	for idx := 1; idx <= levels; idx++ {
		if b.buffers[idx].filled != 0 {
			b.hashOneBlock(idx)
		}
	}

	// The root slot was filled by the last call to hashOneBlock.
	if b.buffers[levels+1].filled != digestSize {
		return fmt.Errorf("root hash slot holds %d bytes, want %d: %w", b.buffers[levels+1].filled, digestSize, errdefs.ErrInvalidArgument)
	}
	return nil
}

func divRoundUp(n, d uint64) uint64 {
	return (n + d - 1) / d
}

func roundUp(n, d int) int {
	return (n + d - 1) / d * d
}
