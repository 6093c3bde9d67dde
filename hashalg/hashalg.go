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

// Package hashalg exposes the hash algorithms defined by the fs-verity
// on-disk format and maps their numeric identifiers to Go hash
// implementations.
package hashalg

import (
	"crypto"
	"fmt"
	"hash"

	// Ensure hashes are available.
	_ "crypto/sha256"
	_ "crypto/sha512"
)

// Alg is an fs-verity hash algorithm identifier. The numeric values are
// part of the on-disk format and must match the kernel's definitions.
type Alg uint32

// Hash algorithms accepted by fs-verity.
const (
	SHA256 Alg = 1
	SHA512 Alg = 2
)

var algs = map[Alg]crypto.Hash{
	SHA256: crypto.SHA256,
	SHA512: crypto.SHA512,
}

var algNames = map[string]Alg{
	"sha256": SHA256,
	"sha512": SHA512,
}

// FromName resolves a textual algorithm name such as "sha256".
func FromName(name string) (Alg, error) {
	a, ok := algNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown hash algorithm: %q", name)
	}
	return a, nil
}

// Valid reports whether a is a known fs-verity hash algorithm.
func (a Alg) Valid() bool {
	_, ok := algs[a]
	return ok
}

// CryptoHash returns the crypto.Hash backing this algorithm.
func (a Alg) CryptoHash() (crypto.Hash, error) {
	h, ok := algs[a]
	if !ok {
		return crypto.Hash(0), fmt.Errorf("unknown hash algorithm: %d", uint32(a))
	}
	return h, nil
}

// New returns a fresh hash context for the algorithm.
// It panics if the algorithm is unknown; callers must check Valid first.
func (a Alg) New() hash.Hash {
	return algs[a].New()
}

// DigestSize returns the number of bytes the algorithm's contexts emit.
func (a Alg) DigestSize() int {
	return algs[a].Size()
}

// BlockSize returns the internal compression block size of the
// algorithm. The fs-verity salt is zero-padded to a multiple of this
// size before being prepended to each hashed block.
func (a Alg) BlockSize() int {
	return algs[a].New().BlockSize()
}

// String returns the name the fs-verity tooling uses for the algorithm.
func (a Alg) String() string {
	switch a {
	case SHA256:
		return "sha256"
	case SHA512:
		return "sha512"
	}
	return fmt.Sprintf("Alg<%d>", uint32(a))
}
