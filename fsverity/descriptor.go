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

import "encoding/binary"

// descriptorSize is the size of the marshaled fs-verity descriptor.
// The measurement is always the hash of exactly this many bytes: the
// optional signature trailer of the on-disk format is excluded and
// sigSize stays zero in the hashed bytes.
const descriptorSize = 256

// descriptor holds the Merkle tree properties of a file. Its marshaled
// form is the input to the final measurement hash, so the layout below
// must match the kernel's struct fsverity_descriptor exactly.
type descriptor struct {
	version       uint8
	hashAlgorithm uint8
	logBlockSize  uint8
	saltSize      uint8
	sigSize       uint32
	dataSize      uint64
	rootHash      [64]byte
	salt          [32]byte
	// 144 reserved bytes of zeros complete the structure.
}

// marshal serializes the descriptor into its fixed 256-byte
// little-endian wire form.
func (d *descriptor) marshal() []byte {
	buf := make([]byte, descriptorSize)
	buf[0] = d.version
	buf[1] = d.hashAlgorithm
	buf[2] = d.logBlockSize
	buf[3] = d.saltSize
	binary.LittleEndian.PutUint32(buf[4:8], d.sigSize)
	binary.LittleEndian.PutUint64(buf[8:16], d.dataSize)
	copy(buf[16:80], d.rootHash[:])
	copy(buf[80:112], d.salt[:])
	return buf
}
