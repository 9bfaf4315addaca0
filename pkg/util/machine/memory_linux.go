//go:build linux
// +build linux

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
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

type sysinfoSource struct{}

// NewSysinfoSource reads totals through sysinfo(2).
func NewSysinfoSource() MemorySource {
	return sysinfoSource{}
}

func (sysinfoSource) Snapshot() (MemorySnapshot, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return MemorySnapshot{}, errors.Wrap(err, "sysinfo")
	}

	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	return MemorySnapshot{
		TotalBytes: uint64(info.Totalram) * unit,
		FreeBytes:  uint64(info.Freeram) * unit,
		Uptime:     int64(info.Uptime),
	}, nil
}
