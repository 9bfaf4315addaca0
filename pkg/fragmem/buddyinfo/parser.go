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
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/kubewharf/memfrag/pkg/fragmem"
)

// fieldsPerLine covers "Node", the node id, "zone", the zone name and
// one count per order.
const fieldsPerLine = fragmem.MaxOrder + 4

// ZoneHistogram is the free list of a single node and zone.
type ZoneHistogram struct {
	Node   int
	Zone   string
	Counts OrderHistogram
}

// ParseZones decodes buddyinfo lines of the form
//
//	Node 0, zone   Normal   3029   1870 ...
//
// Parsing stops at the first line that does not carry a full set of
// counts, so a truncated buffer yields the complete lines before it.
// Blank lines are skipped.
func ParseZones(buf []byte) []ZoneHistogram {
	var zones []ZoneHistogram

	scanner := bufio.NewScanner(bytes.NewReader(buf))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		zone, ok := parseLine(fields)
		if !ok {
			break
		}
		zones = append(zones, zone)
	}
	return zones
}

// Parse aggregates every parsed node and zone into one histogram.
func Parse(buf []byte) OrderHistogram {
	var h OrderHistogram
	for _, zone := range ParseZones(buf) {
		h.Add(zone.Counts[:])
	}
	return h
}

func parseLine(fields []string) (ZoneHistogram, bool) {
	if len(fields) < fieldsPerLine || !strings.HasSuffix(fields[1], ",") {
		return ZoneHistogram{}, false
	}

	node, err := strconv.Atoi(strings.TrimSuffix(fields[1], ","))
	if err != nil {
		return ZoneHistogram{}, false
	}

	zone := ZoneHistogram{Node: node, Zone: fields[3]}
	for order := 0; order < fragmem.MaxOrder; order++ {
		count, err := strconv.ParseUint(fields[4+order], 10, 64)
		if err != nil {
			return ZoneHistogram{}, false
		}
		zone.Counts[order] = count
	}
	return zone, true
}
