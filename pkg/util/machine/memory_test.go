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

package machine

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/procfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcFS struct {
	meminfo procfs.Meminfo
	stat    procfs.Stat
	err     error
}

func (f *fakeProcFS) ReadBuddyInfo() ([]byte, error) { return nil, f.err }
func (f *fakeProcFS) GetBuddyInfo() ([]procfs.BuddyInfo, error) { return nil, f.err }
func (f *fakeProcFS) GetMeminfo() (procfs.Meminfo, error) { return f.meminfo, f.err }
func (f *fakeProcFS) GetProcStat() (procfs.Stat, error) { return f.stat, f.err }

func uint64Ptr(v uint64) *uint64 {
	return &v
}

func TestProcFSSource(t *testing.T) {
	t.Parallel()

	fs := &fakeProcFS{
		meminfo: procfs.Meminfo{MemTotal: uint64Ptr(2048), MemFree: uint64Ptr(1024)},
		stat:    procfs.Stat{BootTime: 1000},
	}
	now := func() time.Time { return time.Unix(1600, 0) }

	snapshot, err := NewProcFSSource(fs, now).Snapshot()
	require.NoError(t, err)
	assert.Equal(t, MemorySnapshot{TotalBytes: 2048 * 1024, FreeBytes: 1024 * 1024, Uptime: 600}, snapshot)

	fs.meminfo.MemFree = nil
	_, err = NewProcFSSource(fs, now).Snapshot()
	assert.Error(t, err)

	fs.err = errors.New("boom")
	_, err = NewProcFSSource(fs, now).Snapshot()
	assert.Error(t, err)
}

func TestNewMemorySource(t *testing.T) {
	t.Parallel()

	source, err := NewMemorySource(MemorySourceSysinfo, nil)
	require.NoError(t, err)
	assert.NotNil(t, source)

	_, err = NewMemorySource(MemorySourceProcFS, nil)
	assert.Error(t, err)

	source, err = NewMemorySource(MemorySourceProcFS, &fakeProcFS{})
	require.NoError(t, err)
	assert.NotNil(t, source)

	_, err = NewMemorySource("swap", nil)
	assert.Error(t, err)
}

func TestStaticSource(t *testing.T) {
	t.Parallel()

	source := &StaticSource{Snapshots: []MemorySnapshot{{FreeBytes: 1}, {FreeBytes: 2}}}
	for _, want := range []uint64{1, 2, 2} {
		snapshot, err := source.Snapshot()
		require.NoError(t, err)
		assert.Equal(t, want, snapshot.FreeBytes)
	}
	assert.Equal(t, 3, source.Calls())
}
