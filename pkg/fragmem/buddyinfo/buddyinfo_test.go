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
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/prometheus/procfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubewharf/memfrag/pkg/fragmem"
)

const sampleBuddyInfo = `Node 0, zone      DMA      1      1      1      0      2      1      1      0      1      1      3
Node 0, zone    DMA32      6      4      5      4      3      3      4      4      3      3    422
Node 0, zone   Normal   3029   1870    830    426    137     59     23     10      5      2   8911
Node 1, zone   Normal   2817   2114    964    482    161     66     17      9      4      1   9102
`

type fakeSource struct {
	data  []byte
	zones []procfs.BuddyInfo
	err   error
	reads int
}

func (f *fakeSource) ReadBuddyInfo() ([]byte, error) {
	f.reads++
	return f.data, f.err
}

func (f *fakeSource) GetBuddyInfo() ([]procfs.BuddyInfo, error) {
	return f.zones, f.err
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  OrderHistogram
	}{
		{
			name:  "two nodes",
			input: "Node 0, zone Normal 10 5 3 2 1 0 0 0 0 0 0\nNode 1, zone Normal 10 5 3 2 1 0 0 0 0 0 0\n",
			want:  OrderHistogram{20, 10, 6, 4, 2},
		},
		{
			name:  "truncated last line",
			input: "Node 0, zone Normal 1 1 1 1 1 1 1 1 1 1 1\nNode 1, zone Normal 7 7 7",
			want:  OrderHistogram{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		},
		{
			name:  "malformed line stops parsing",
			input: "Node 0, zone Normal 1 0 0 0 0 0 0 0 0 0 0\ngarbage\nNode 1, zone Normal 5 0 0 0 0 0 0 0 0 0 0\n",
			want:  OrderHistogram{1},
		},
		{
			name:  "bad count stops parsing",
			input: "Node 0, zone Normal 1 0 0 0 0 0 0 0 0 0 x\nNode 1, zone Normal 5 0 0 0 0 0 0 0 0 0 0\n",
			want:  OrderHistogram{},
		},
		{
			name:  "missing comma stops parsing",
			input: "Node 0 zone Normal 1 0 0 0 0 0 0 0 0 0 0 0\n",
			want:  OrderHistogram{},
		},
		{
			name:  "extra orders are ignored",
			input: "Node 0, zone Normal 1 2 3 4 5 6 7 8 9 10 11 12 13\n",
			want:  OrderHistogram{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
		},
		{
			name:  "blank lines are skipped",
			input: "\nNode 0, zone Normal 1 0 0 0 0 0 0 0 0 0 0\n\n",
			want:  OrderHistogram{1},
		},
		{
			name:  "empty",
			input: "",
			want:  OrderHistogram{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Parse([]byte(tt.input)))
		})
	}
}

func TestParseZones(t *testing.T) {
	t.Parallel()

	zones := ParseZones([]byte(sampleBuddyInfo))
	require.Len(t, zones, 4)
	assert.Equal(t, 1, zones[3].Node)
	assert.Equal(t, "DMA32", zones[1].Zone)
	assert.Equal(t, uint64(8911), zones[2].Counts[10])

	h := Parse([]byte(sampleBuddyInfo))
	assert.Equal(t, uint64(1+6+3029+2817), h[0])
	assert.Equal(t, uint64(3+422+8911+9102), h[10])
}

func TestRowsInvariants(t *testing.T) {
	t.Parallel()

	h := Parse([]byte(sampleBuddyInfo))
	rows := h.Rows()
	require.Len(t, rows, fragmem.MaxOrder)

	var bytesSum uint64
	var percentSum float64
	for _, row := range rows {
		bytesSum += row.Bytes
		percentSum += row.PercentFree
	}
	assert.Equal(t, h.Total(), bytesSum)
	assert.InDelta(t, 100, percentSum, 1e-9)

	total := float64(h.Total())
	assert.InDelta(t, (total-float64(rows[0].Bytes))/total*100, rows[0].PercentHigher, 1e-9)
	assert.Equal(t, float64(0), rows[fragmem.MaxOrder-1].PercentHigher)

	for i := 1; i < len(rows); i++ {
		assert.LessOrEqual(t, rows[i].PercentHigher, rows[i-1].PercentHigher)
	}
}

func TestRowsEmpty(t *testing.T) {
	t.Parallel()

	rows := OrderHistogram{}.Rows()
	assert.True(t, math.IsNaN(rows[0].PercentFree))
	assert.True(t, math.IsNaN(rows[0].PercentHigher))
}

func TestReport(t *testing.T) {
	t.Parallel()

	source := &fakeSource{data: []byte(
		"Node 0, zone Normal 10 5 3 2 1 0 0 0 0 0 0\n" +
			"Node 1, zone Normal 10 5 3 2 1 0 0 0 0 0 0\n")}
	reporter := NewReporter(source, nil)

	h, err := reporter.Histogram()
	require.NoError(t, err)
	assert.Equal(t, uint64(81920), h.Bytes(0))
	assert.Equal(t, uint64(81920), h.Bytes(1))

	var out bytes.Buffer
	require.NoError(t, reporter.Report(&out))
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, fragmem.MaxOrder+1)
	assert.Equal(t, "Order     Pages     Total     %Free   %Higher", lines[0])
	assert.Equal(t, "0            20    0.00GB     15.6%     84.4%", lines[1])
	assert.Equal(t, "10            0    0.00GB      0.0%      0.0%", lines[11])
	assert.Equal(t, 2, source.reads)
}

func TestReportSingleZone(t *testing.T) {
	t.Parallel()

	source := &fakeSource{data: []byte("Node 0, zone Normal 10 5 3 2 1 0 0 0 0 0 0\nNode 0, zone\n")}
	h, err := NewReporter(source, nil).Histogram()
	require.NoError(t, err)
	assert.Equal(t, uint64(40960), h.Bytes(0))
	assert.Equal(t, uint64(40960), h.Bytes(1))
	assert.Equal(t, uint64(40960+40960+49152+65536+65536), h.Total())

	rows := h.Rows()
	assert.InDelta(t, 15.625, rows[0].PercentFree, 1e-9)
	assert.InDelta(t, 84.375, rows[0].PercentHigher, 1e-9)
	assert.InDelta(t, 25, rows[4].PercentFree, 1e-9)
	assert.InDelta(t, 0, rows[4].PercentHigher, 1e-9)
}

func TestReportFailure(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	boom := errors.New("boom")
	err := NewReporter(&fakeSource{err: boom}, nil).Report(&out)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, out.Len())
}

func TestReportEmptyTotal(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, NewReporter(&fakeSource{data: []byte("Node 0, zone Normal 0 0 0 0 0 0 0 0 0 0 0\n")}, nil).Report(&out))
	assert.Contains(t, out.String(), "NaN")
}

func TestReportZones(t *testing.T) {
	t.Parallel()

	source := &fakeSource{zones: []procfs.BuddyInfo{
		{Node: "0", Zone: "DMA", Sizes: []float64{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
		{Node: "0", Zone: "Normal", Sizes: []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 256}},
		{Node: "1", Zone: "Normal", Sizes: []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
	}}

	var out bytes.Buffer
	require.NoError(t, NewReporter(source, source).ReportZones(&out))
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Node  Zone              Free  MaxOrder", lines[0])
	assert.Equal(t, "0     DMA             0.00GB         0", lines[1])
	assert.Equal(t, "0     Normal          1.00GB        10", lines[2])
	assert.Equal(t, "1     Normal          0.00GB         -", lines[3])

	assert.Error(t, NewReporter(source, nil).ReportZones(&out))
}
