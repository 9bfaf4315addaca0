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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kubewharf/memfrag/pkg/fragmem"
)

func TestWalkBound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		regionSize uint64
		order      int
		want       uint64
	}{
		{"large region", 64 * fragmem.PageSize, 2, 59 * fragmem.PageSize},
		{"exact reserve", 5 * fragmem.PageSize, 2, 0},
		{"smaller than a block", 2 * fragmem.PageSize, 3, 0},
		{"empty", 0, 1, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, WalkBound(tt.regionSize, tt.order))
		})
	}
}

func TestStepSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(fragmem.PageSize), StepSize(0))
	assert.Equal(t, uint64(fragmem.PageSize), StepSize(1))
	assert.Equal(t, uint64(fragmem.PageSize), StepSize(fragmem.PageSize))
	assert.Equal(t, uint64(2*fragmem.PageSize), StepSize(fragmem.PageSize+1))
}

func TestHolePattern(t *testing.T) {
	t.Parallel()

	var strides []Stride
	holes := NewHolePattern(0, 40000, 2)
	for stride, ok := holes.Next(); ok; stride, ok = holes.Next() {
		strides = append(strides, stride)
	}

	assert.Equal(t, []Stride{
		{Retain: PageRange{0, 4096}, Release: PageRange{4096, 12288}},
		{Retain: PageRange{16384, 4096}, Release: PageRange{20480, 12288}},
		{Retain: PageRange{32768, 4096}, Release: PageRange{36864, 12288}},
	}, strides)

	empty := NewHolePattern(8192, 8192, 1)
	_, ok := empty.Next()
	assert.False(t, ok)
}

func TestDentryCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(0), DentryCount(0, 9))
	assert.Equal(t, uint64(0), DentryCount(191, 1))
	assert.Equal(t, uint64(1), DentryCount(192, 18))
	assert.Equal(t, uint64(1<<30/192), DentryCount(1<<30, 9))
	assert.Equal(t, uint64((1<<62)/192), DentryCount(1<<62, 18))
	assert.Equal(t, uint64(math.MaxUint64/192), DentryCount(math.MaxUint64, 1))
}
