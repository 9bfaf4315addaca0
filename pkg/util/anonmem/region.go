/*
Copyright 2022 The Katalyst Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package anonmem manages the anonymous private mapping that the
// fragmentation driver writes to and punches holes in.
package anonmem

import (
	"math"

	"github.com/pkg/errors"

	"github.com/kubewharf/memfrag/pkg/fragmem"
	"github.com/kubewharf/memfrag/pkg/util/general"
)

// Region is one anonymous read/write mapping. Offsets are relative to
// the start of the mapping and every access is bounds-checked.
type Region interface {
	// Size returns the mapped length in bytes.
	Size() uint64
	// Touch writes one byte at offset, faulting the backing page in.
	Touch(offset uint64) error
	// Release hands [offset, offset+length) back to the kernel.
	// Both values must be page aligned.
	Release(offset, length uint64) error
	// Unmap drops the mapping. Calling it twice is a no-op.
	Unmap() error
}

// Mapper creates regions.
type Mapper interface {
	Map(size uint64) (Region, error)
}

var errUnmapped = errors.New("region is unmapped")

// touchMark is the byte written into every touched page.
const touchMark = 'f'

func checkTouch(size, offset uint64) error {
	if offset >= size {
		return errors.Wrapf(general.ErrOutOfRange, "touch at %d, region size %d", offset, size)
	}
	return nil
}

func checkRelease(size, offset, length uint64) error {
	if offset%fragmem.PageSize != 0 || length%fragmem.PageSize != 0 {
		return errors.Errorf("release [%d, +%d) is not page aligned", offset, length)
	}
	if offset > math.MaxUint64-length || offset+length > size {
		return errors.Wrapf(general.ErrOutOfRange, "release [%d, +%d), region size %d", offset, length, size)
	}
	return nil
}

func checkMapSize(size uint64) error {
	if size == 0 || size%fragmem.PageSize != 0 {
		return errors.Errorf("mapping size %d must be a positive multiple of the page size", size)
	}
	if size > math.MaxInt {
		return errors.Errorf("mapping size %d exceeds address space", size)
	}
	return nil
}
