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

package buddyinfo

import (
	"github.com/samber/lo"

	"github.com/kubewharf/memfrag/pkg/fragmem"
)

// OrderHistogram holds the number of free blocks per allocation order.
type OrderHistogram [fragmem.MaxOrder]uint64

// OrderStat is one row of the distribution table.
type OrderStat struct {
	Order int
	// Blocks is the number of free blocks of this order.
	Blocks uint64
	Bytes  uint64
	// PercentFree is the share of all free bytes held by this order.
	PercentFree float64
	// PercentHigher is the share of free bytes held by strictly higher orders.
	PercentHigher float64
}

// Add accumulates per-order counts. Counts beyond MaxOrder are ignored.
func (h *OrderHistogram) Add(counts []uint64) {
	for order := 0; order < len(h) && order < len(counts); order++ {
		h[order] += counts[order]
	}
}

// Bytes returns the free bytes held by blocks of the given order.
func (h OrderHistogram) Bytes(order int) uint64 {
	return fragmem.BlockSize(order) * h[order]
}

// Total returns the free bytes summed over every order.
func (h OrderHistogram) Total() uint64 {
	return lo.Sum(lo.Map(h[:], func(_ uint64, order int) uint64 {
		return h.Bytes(order)
	}))
}

// Rows computes the per-order statistics. With no free memory at all the
// percentages are NaN.
func (h OrderHistogram) Rows() []OrderStat {
	total := h.Total()
	rows := make([]OrderStat, 0, len(h))

	var cumulative uint64
	for order := range h {
		bytes := h.Bytes(order)
		cumulative += bytes

		rows = append(rows, OrderStat{
			Order:         order,
			Blocks:        h[order],
			Bytes:         bytes,
			PercentFree:   float64(bytes) / float64(total) * 100,
			PercentHigher: float64(total-cumulative) / float64(total) * 100,
		})
	}
	return rows
}
