//go:build linux

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
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/google/go-fsverity/hashalg"
)

// maxDigestSize is the largest digest FS_IOC_MEASURE_VERITY can return.
const maxDigestSize = 64

// defaultParams fills in the Merkle tree parameters the kernel would
// pick on its own: SHA-256 over 4096-byte blocks, no salt.
func defaultParams() *MerkleTreeParams {
	return &MerkleTreeParams{
		Version:       1,
		HashAlgorithm: hashalg.SHA256,
		BlockSize:     4096,
	}
}

// Enable turns on fs-verity for the file at path. The kernel builds and
// persists its own Merkle tree with the given parameters; params may be
// nil to use SHA-256 over 4096-byte blocks. The file must be closed by
// all writers and becomes immutable on success.
func Enable(path string, params *MerkleTreeParams) error {
	if params == nil {
		params = defaultParams()
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	arg := unix.FsverityEnableArg{
		Version:        params.Version,
		Hash_algorithm: uint32(params.HashAlgorithm),
		Block_size:     params.BlockSize,
		Salt_size:      uint32(len(params.Salt)),
	}
	if len(params.Salt) > 0 {
		arg.Salt_ptr = uint64(uintptr(unsafe.Pointer(&params.Salt[0])))
	}

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), unix.FS_IOC_ENABLE_VERITY, uintptr(unsafe.Pointer(&arg)))
	if errno != 0 {
		return fmt.Errorf("enabling fs-verity on %s: %w", path, errno)
	}
	return nil
}

// Measure asks the kernel for the fs-verity measurement of an already
// verity-enabled file. The result matches ComputeDigest over the same
// file and parameters.
func Measure(path string) (*Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// struct fsverity_digest header followed by room for the digest.
	buf := make([]byte, 4+maxDigestSize)
	binary.LittleEndian.PutUint16(buf[2:4], maxDigestSize)

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), unix.FS_IOC_MEASURE_VERITY, uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return nil, fmt.Errorf("measuring fs-verity file %s: %w", path, errno)
	}

	alg := hashalg.Alg(binary.LittleEndian.Uint16(buf[0:2]))
	size := binary.LittleEndian.Uint16(buf[2:4])
	if !alg.Valid() || int(size) > maxDigestSize {
		return nil, fmt.Errorf("kernel returned unknown digest algorithm %d of size %d", uint16(alg), size)
	}
	return &Digest{
		Algorithm: alg,
		Raw:       append([]byte(nil), buf[4:4+size]...),
	}, nil
}

// IsEnabled reports whether the file at path has fs-verity enabled.
func IsEnabled(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	var attr int32
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), unix.FS_IOC_GETFLAGS, uintptr(unsafe.Pointer(&attr)))
	if errno != 0 {
		return false, fmt.Errorf("reading inode flags of %s: %w", path, errno)
	}
	return attr&unix.FS_VERITY_FL != 0, nil
}

// IsSupported probes whether the filesystem holding root supports
// fs-verity, by enabling it on a scratch file.
func IsSupported(root string) (bool, error) {
	dir, err := os.MkdirTemp(root, "fsverity")
	if err != nil {
		return false, err
	}
	defer os.RemoveAll(dir)

	probe := filepath.Join(dir, "probe")
	f, err := os.Create(probe)
	if err != nil {
		return false, err
	}
	if err := f.Close(); err != nil {
		return false, err
	}

	switch err := Enable(probe, nil); {
	case err == nil:
		return true, nil
	case errors.Is(err, unix.ENOTTY), errors.Is(err, unix.EOPNOTSUPP), errors.Is(err, unix.EINVAL):
		return false, nil
	default:
		return false, err
	}
}
