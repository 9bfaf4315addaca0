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

package fragment

import (
	"time"
)

// FragmentConfiguration stores the configurations of the fragmentation
// driver and the watch loop.
type FragmentConfiguration struct {
	// RegionSize overrides the size of the mapping; zero means the total
	// memory of the host.
	RegionSize uint64
	// DentryDir is the directory under which missing paths are looked up.
	DentryDir string
	// WatchInterval is the pause between two reports in the watch loop.
	WatchInterval time.Duration
}

func NewFragmentConfiguration() *FragmentConfiguration {
	return &FragmentConfiguration{}
}
