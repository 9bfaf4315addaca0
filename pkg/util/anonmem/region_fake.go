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

// ReleasedRange records one successful Release call on a FakeRegion.
type ReleasedRange struct {
	Offset, Length uint64
}

// FakeRegion is a heap-backed Region with the same bounds checks as the
// real mapping. It records every release for inspection.
type FakeRegion struct {
	size     uint64
	touched  map[uint64]struct{}
	released []ReleasedRange
	unmapped bool

	// ReleaseErr, when set, is returned by every Release call.
	ReleaseErr error
}

var _ Region = &FakeRegion{}

func NewFakeRegion(size uint64) *FakeRegion {
	return &FakeRegion{size: size, touched: make(map[uint64]struct{})}
}

func (f *FakeRegion) Size() uint64 {
	return f.size
}

func (f *FakeRegion) Touch(offset uint64) error {
	if f.unmapped {
		return errUnmapped
	}
	if err := checkTouch(f.size, offset); err != nil {
		return err
	}
	f.touched[offset] = struct{}{}
	return nil
}

func (f *FakeRegion) Release(offset, length uint64) error {
	if f.unmapped {
		return errUnmapped
	}
	if f.ReleaseErr != nil {
		return f.ReleaseErr
	}
	if err := checkRelease(f.size, offset, length); err != nil {
		return err
	}
	f.released = append(f.released, ReleasedRange{Offset: offset, Length: length})
	return nil
}

func (f *FakeRegion) Unmap() error {
	f.unmapped = true
	return nil
}

// Touched returns the number of distinct offsets written.
func (f *FakeRegion) Touched() int {
	return len(f.touched)
}

func (f *FakeRegion) Released() []ReleasedRange {
	return append([]ReleasedRange(nil), f.released...)
}

func (f *FakeRegion) Unmapped() bool {
	return f.unmapped
}

// FakeMapper hands out FakeRegions and remembers the requested sizes.
type FakeMapper struct {
	// Err, when set, fails every Map call.
	Err error
	// ReleaseErr is copied into every region created.
	ReleaseErr error

	Calls   []uint64
	Regions []*FakeRegion
}

var _ Mapper = &FakeMapper{}

func (m *FakeMapper) Map(size uint64) (Region, error) {
	m.Calls = append(m.Calls, size)
	if m.Err != nil {
		return nil, m.Err
	}
	if err := checkMapSize(size); err != nil {
		return nil, err
	}

	region := NewFakeRegion(size)
	region.ReleaseErr = m.ReleaseErr
	m.Regions = append(m.Regions, region)
	return region, nil
}
