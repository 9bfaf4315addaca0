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
	"time"

	"github.com/pkg/errors"

	"github.com/kubewharf/memfrag/pkg/util/procfs/manager"
)

const (
	MemorySourceSysinfo = "sysinfo"
	MemorySourceProcFS  = "procfs"
)

// MemorySnapshot is one reading of the host memory counters.
type MemorySnapshot struct {
	TotalBytes uint64
	FreeBytes  uint64
	// Uptime is the number of seconds since boot.
	Uptime int64
}

// MemorySource reads a fresh MemorySnapshot on every call.
type MemorySource interface {
	Snapshot() (MemorySnapshot, error)
}

// NewMemorySource builds the named source.
func NewMemorySource(kind string, procfsManager manager.ProcFSManager) (MemorySource, error) {
	switch kind {
	case MemorySourceSysinfo, "":
		return NewSysinfoSource(), nil
	case MemorySourceProcFS:
		if procfsManager == nil {
			return nil, errors.New("procfs memory source requires a procfs manager")
		}
		return NewProcFSSource(procfsManager, time.Now), nil
	default:
		return nil, errors.Errorf("unknown memory source %q", kind)
	}
}

type procFSSource struct {
	procfs manager.ProcFSManager
	now    func() time.Time
}

// NewProcFSSource reads totals from /proc/meminfo and derives uptime from
// the boot time in /proc/stat.
func NewProcFSSource(procfsManager manager.ProcFSManager, now func() time.Time) MemorySource {
	return &procFSSource{procfs: procfsManager, now: now}
}

func (p *procFSSource) Snapshot() (MemorySnapshot, error) {
	meminfo, err := p.procfs.GetMeminfo()
	if err != nil {
		return MemorySnapshot{}, errors.Wrap(err, "read meminfo")
	}
	if meminfo.MemTotal == nil || meminfo.MemFree == nil {
		return MemorySnapshot{}, errors.New("meminfo lacks MemTotal or MemFree")
	}

	stat, err := p.procfs.GetProcStat()
	if err != nil {
		return MemorySnapshot{}, errors.Wrap(err, "read stat")
	}

	uptime := p.now().Unix() - int64(stat.BootTime)
	if uptime < 0 {
		uptime = 0
	}

	// meminfo reports kB
	return MemorySnapshot{
		TotalBytes: *meminfo.MemTotal * 1024,
		FreeBytes:  *meminfo.MemFree * 1024,
		Uptime:     uptime,
	}, nil
}

// StaticSource replays canned readings. It is meant for tests.
type StaticSource struct {
	Snapshots []MemorySnapshot
	Err       error

	calls int
}

// Snapshot returns the readings in order and repeats the last one.
func (s *StaticSource) Snapshot() (MemorySnapshot, error) {
	defer func() { s.calls++ }()

	if s.Err != nil {
		return MemorySnapshot{}, s.Err
	}
	if len(s.Snapshots) == 0 {
		return MemorySnapshot{}, nil
	}
	if s.calls >= len(s.Snapshots) {
		return s.Snapshots[len(s.Snapshots)-1], nil
	}
	return s.Snapshots[s.calls], nil
}

// Calls returns how many snapshots were taken.
func (s *StaticSource) Calls() int {
	return s.calls
}
