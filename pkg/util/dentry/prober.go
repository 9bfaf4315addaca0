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

// Package dentry forces the kernel to allocate negative dentries by
// looking up paths that do not exist.
package dentry

import (
	"path/filepath"
	"strconv"
)

// Prober looks up one path. The outcome of the lookup is irrelevant.
type Prober interface {
	Probe(path string)
}

// MissPath builds a lookup path that is unique per uptime, pass and index.
func MissPath(dir string, uptime int64, pass, index uint64) string {
	name := strconv.FormatInt(uptime, 10) + "-" +
		strconv.FormatUint(pass, 10) + "-" +
		strconv.FormatUint(index, 10)
	return filepath.Join(dir, name)
}

// CountingProber records lookups without touching the filesystem.
type CountingProber struct {
	paths map[string]struct{}
	count uint64
}

var _ Prober = &CountingProber{}

func NewCountingProber() *CountingProber {
	return &CountingProber{paths: make(map[string]struct{})}
}

func (c *CountingProber) Probe(path string) {
	c.paths[path] = struct{}{}
	c.count++
}

// Count returns the number of lookups.
func (c *CountingProber) Count() uint64 {
	return c.count
}

// Distinct returns the number of distinct paths looked up.
func (c *CountingProber) Distinct() int {
	return len(c.paths)
}
