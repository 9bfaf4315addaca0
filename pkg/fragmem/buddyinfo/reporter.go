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

// Package buddyinfo reports how free memory is spread across the
// allocation orders of the buddy allocator.
package buddyinfo

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/prometheus/procfs"

	"github.com/kubewharf/memfrag/pkg/fragmem"
)

// Source returns the raw buddyinfo table.
type Source interface {
	ReadBuddyInfo() ([]byte, error)
}

// ZoneSource returns the buddyinfo table already split per node and zone.
type ZoneSource interface {
	GetBuddyInfo() ([]procfs.BuddyInfo, error)
}

type Reporter struct {
	source Source
	zones  ZoneSource
}

// NewReporter builds a Reporter. zones may be nil when per zone reports
// are not needed.
func NewReporter(source Source, zones ZoneSource) *Reporter {
	return &Reporter{source: source, zones: zones}
}

// Histogram reads the table and aggregates all nodes and zones.
func (r *Reporter) Histogram() (OrderHistogram, error) {
	buf, err := r.source.ReadBuddyInfo()
	if err != nil {
		return OrderHistogram{}, errors.Wrap(err, "read buddyinfo")
	}
	return Parse(buf), nil
}

// Report writes the per order distribution table to w.
func (r *Reporter) Report(w io.Writer) error {
	h, err := r.Histogram()
	if err != nil {
		return err
	}

	_, err = w.Write(FormatTable(h))
	return err
}

// FormatTable renders the distribution table of h.
func FormatTable(h OrderHistogram) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%-4s%10s%10s%10s%10s\n", "Order", "Pages", "Total", "%Free", "%Higher")
	for _, row := range h.Rows() {
		fmt.Fprintf(&buf, "%-4d %10d %7.2fGB %8.1f%% %8.1f%%\n",
			row.Order, row.Blocks, fragmem.ToGiB(row.Bytes), row.PercentFree, row.PercentHigher)
	}
	return buf.Bytes()
}

// ReportZones writes one line per node and zone with its free memory and
// the highest order that still has a free block.
func (r *Reporter) ReportZones(w io.Writer) error {
	if r.zones == nil {
		return errors.New("no zone source configured")
	}

	zones, err := r.zones.GetBuddyInfo()
	if err != nil {
		return errors.Wrap(err, "read buddyinfo zones")
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%-6s%-10s%12s%10s\n", "Node", "Zone", "Free", "MaxOrder")
	for _, zone := range zones {
		free, highest := zoneSummary(zone.Sizes)
		maxOrder := "-"
		if highest >= 0 {
			maxOrder = fmt.Sprint(highest)
		}
		fmt.Fprintf(&buf, "%-6s%-10s%10.2fGB%10s\n", zone.Node, zone.Zone, fragmem.ToGiB(free), maxOrder)
	}

	_, err = w.Write(buf.Bytes())
	return err
}

// zoneSummary returns the free bytes of a zone and its highest order with
// a free block, or -1 if the zone is exhausted.
func zoneSummary(sizes []float64) (uint64, int) {
	var free uint64
	highest := -1
	for order, count := range sizes {
		if count <= 0 {
			continue
		}
		free += fragmem.BlockSize(order) * uint64(count)
		highest = order
	}
	return free, highest
}
