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

package dentry

import (
	"golang.org/x/sys/unix"
)

type statProber struct{}

// NewStatProber returns a Prober that calls stat(2) and ignores the result.
func NewStatProber() Prober {
	return statProber{}
}

func (statProber) Probe(path string) {
	var st unix.Stat_t
	_ = unix.Stat(path, &st)
}
