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

// Package fragmem holds the constants and helpers shared by the buddy
// statistics reporter and the fragmentation driver.
package fragmem

import (
	"math"

	"github.com/pkg/errors"
)

const (
	// PageSize is the base page size the buddy allocator counts in.
	PageSize = 4096
	// MaxOrder is the number of allocation orders reported in /proc/buddyinfo.
	MaxOrder = 11

	// MinFragmentOrder and MaxFragmentOrder bound the hole-punch granularity.
	MinFragmentOrder = 1
	MaxFragmentOrder = 18

	// DentrySize approximates the kernel footprint of one struct dentry.
	DentrySize = 192

	GiB = 1 << 30

	// BuddyInfoBufferSize bounds the single read of /proc/buddyinfo.
	BuddyInfoBufferSize = 4 * PageSize
)

var (
	ErrInvalidOrder = errors.New("Order must be in [1; 18] range")
	ErrEmptyRead    = errors.New("read returned no data")
)

// ValidateOrder rejects hole-punch orders outside [MinFragmentOrder, MaxFragmentOrder].
func ValidateOrder(order int) error {
	if order < MinFragmentOrder || order > MaxFragmentOrder {
		return ErrInvalidOrder
	}
	return nil
}

// BlockSize returns the size in bytes of a free block of the given order.
func BlockSize(order int) uint64 {
	return uint64(PageSize) << uint(order)
}

// AlignDown rounds n down to a page boundary.
func AlignDown(n uint64) uint64 {
	return n &^ (PageSize - 1)
}

// AlignUp rounds n up to a page boundary, saturating at the last page.
func AlignUp(n uint64) uint64 {
	if n > math.MaxUint64-(PageSize-1) {
		return AlignDown(math.MaxUint64)
	}
	return AlignDown(n + PageSize - 1)
}

// SaturatingAdd adds a and b, clamping at math.MaxUint64.
func SaturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

// ToGiB converts a byte count for display.
func ToGiB(bytes uint64) float64 {
	return float64(bytes) / GiB
}
