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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFlagOverrides(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "memfrag.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
memory-source: procfs
region-size: 4Gi
watch-interval: 30s
v: 4
logs-package-level: short
dentries: true
vmodule:
  - fragmenter=4
  - buddyinfo=2
`), 0o644))

	overrides, err := ReadFlagOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"memory-source":      "procfs",
		"region-size":        "4Gi",
		"watch-interval":     "30s",
		"v":                  "4",
		"logs-package-level": "short",
		"dentries":           "true",
		"vmodule":            "fragmenter=4,buddyinfo=2",
	}, overrides)
	assert.Equal(t, []string{"dentries", "logs-package-level", "memory-source", "region-size", "v", "vmodule", "watch-interval"},
		SortedKeys(overrides))
}

func TestReadFlagOverridesErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := ReadFlagOverrides(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	nested := filepath.Join(dir, "nested.yaml")
	require.NoError(t, os.WriteFile(nested, []byte("lock-file:\n  path: /tmp/x\n"), 0o644))
	_, err = ReadFlagOverrides(nested)
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("a: [1, 2"), 0o644))
	_, err = ReadFlagOverrides(broken)
	assert.Error(t, err)
}

func TestNewConfiguration(t *testing.T) {
	t.Parallel()

	conf := NewConfiguration()
	require.NotNil(t, conf.GenericConfiguration)
	require.NotNil(t, conf.SourceConfiguration)
	require.NotNil(t, conf.FragmentConfiguration)
}
