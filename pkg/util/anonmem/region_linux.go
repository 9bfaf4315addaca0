//go:build linux
// +build linux

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

package anonmem

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

type mmapMapper struct{}

// NewMmapMapper returns a Mapper backed by mmap(2).
func NewMmapMapper() Mapper {
	return mmapMapper{}
}

func (mmapMapper) Map(size uint64) (Region, error) {
	if err := checkMapSize(size); err != nil {
		return nil, err
	}

	data, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANONYMOUS|unix.MAP_PRIVATE)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap %d bytes", size)
	}
	return &mmapRegion{data: data}, nil
}

type mmapRegion struct {
	data []byte
}

func (r *mmapRegion) Size() uint64 {
	return uint64(len(r.data))
}

func (r *mmapRegion) Touch(offset uint64) error {
	if r.data == nil {
		return errUnmapped
	}
	if err := checkTouch(r.Size(), offset); err != nil {
		return err
	}
	r.data[offset] = touchMark
	return nil
}

func (r *mmapRegion) Release(offset, length uint64) error {
	if r.data == nil {
		return errUnmapped
	}
	if err := checkRelease(r.Size(), offset, length); err != nil {
		return err
	}
	if length == 0 {
		return nil
	}
	if err := unix.Madvise(r.data[offset:offset+length], unix.MADV_DONTNEED); err != nil {
		return errors.Wrapf(err, "madvise [%d, +%d)", offset, length)
	}
	return nil
}

func (r *mmapRegion) Unmap() error {
	if r.data == nil {
		return nil
	}
	if err := unix.Munmap(r.data); err != nil {
		return errors.Wrap(err, "munmap")
	}
	r.data = nil
	return nil
}
