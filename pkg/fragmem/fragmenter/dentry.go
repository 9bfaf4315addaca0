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
	"github.com/kubewharf/memfrag/pkg/fragmem"
)

// DentryCount returns how many dentries to create for the given free
// memory: one per DentrySize free bytes, whatever the hole order is.
func DentryCount(free uint64, _ int) uint64 {
	return free / fragmem.DentrySize
}
