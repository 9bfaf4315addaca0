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

package fragmenter

import (
	"github.com/kubewharf/memfrag/pkg/fragmem"
)

// PageRange is the byte range [Start, Start+Length) of a region.
type PageRange struct {
	Start, Length uint64
}

// Stride is one block of the hole pattern: the first page is kept and the
// rest of the block is released.
type Stride struct {
	Retain  PageRange
	Release PageRange
}

// WalkBound returns the exclusive upper limit for block starts in a
// region of regionSize bytes. One block and one page are kept clear of
// the end of the region.
func WalkBound(regionSize uint64, order int) uint64 {
	reserve := fragmem.BlockSize(order) + fragmem.PageSize
	if regionSize <= reserve {
		return 0
	}
	return regionSize - reserve
}

// StepSize turns a free memory reading into the number of bytes handled
// by one pass. It is page aligned and never smaller than a page.
func StepSize(free uint64) uint64 {
	size := fragmem.AlignUp(free)
	if size < fragmem.PageSize {
		return fragmem.PageSize
	}
	return size
}

// HolePattern iterates the blocks starting in [start, end).
type HolePattern struct {
	next, end, block uint64
}

func NewHolePattern(start, end uint64, order int) *HolePattern {
	return &HolePattern{next: start, end: end, block: fragmem.BlockSize(order)}
}

// Next returns the following stride, or false once the pattern is exhausted.
func (p *HolePattern) Next() (Stride, bool) {
	if p.next >= p.end {
		return Stride{}, false
	}

	start := p.next
	p.next = fragmem.SaturatingAdd(start, p.block)
	return Stride{
		Retain:  PageRange{Start: start, Length: fragmem.PageSize},
		Release: PageRange{Start: start + fragmem.PageSize, Length: p.block - fragmem.PageSize},
	}, true
}
