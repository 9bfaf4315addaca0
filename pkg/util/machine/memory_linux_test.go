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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSysinfoSource(t *testing.T) {
	t.Parallel()

	snapshot, err := NewSysinfoSource().Snapshot()
	require.NoError(t, err)
	assert.Greater(t, snapshot.TotalBytes, uint64(0))
	assert.LessOrEqual(t, snapshot.FreeBytes, snapshot.TotalBytes)
	t.Logf("sysinfo snapshot: %+v", snapshot)
}
