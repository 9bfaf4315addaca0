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

package options

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/kubewharf/memfrag/pkg/util/general"
)

func parse(t *testing.T, args ...string) *Options {
	t.Helper()

	opt := NewOptions()
	fss := &cliflag.NamedFlagSets{}
	opt.AddFlags(fss)

	fs := pflag.NewFlagSet("memfrag", pflag.ContinueOnError)
	fs.SetNormalizeFunc(cliflag.WordSepNormalizeFunc)
	for _, f := range fss.FlagSets {
		fs.AddFlagSet(f)
	}
	require.NoError(t, fs.Parse(args))
	return opt
}

func TestDefaults(t *testing.T) {
	conf, err := parse(t).Config()
	require.NoError(t, err)

	assert.Equal(t, "/var/run/memfrag.lock", conf.LockFile)
	assert.Equal(t, "", conf.MetricsTextfile)
	assert.Equal(t, "/proc", conf.ProcFSRoot)
	assert.Equal(t, "sysinfo", conf.MemorySource)
	assert.Equal(t, uint64(0), conf.RegionSize)
	assert.Equal(t, "/", conf.DentryDir)
	assert.Equal(t, 10*time.Second, conf.WatchInterval)
}

func TestFlags(t *testing.T) {
	opt := parse(t,
		"--lock-file=/tmp/memfrag.lock",
		"--metrics-textfile=/tmp/memfrag.prom",
		"--procfs-root=/host/proc",
		"--memory-source=procfs",
		"--region-size=2Gi",
		"--dentry-dir=/tmp/probe",
		"--watch-interval=1m",
		"--logs-package-level=none",
	)
	defer general.SetDefaultLoggingPackage(general.LoggingPKGFull)

	conf, err := opt.Config()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/memfrag.lock", conf.LockFile)
	assert.Equal(t, "/tmp/memfrag.prom", conf.MetricsTextfile)
	assert.Equal(t, "/host/proc", conf.ProcFSRoot)
	assert.Equal(t, "procfs", conf.MemorySource)
	assert.Equal(t, uint64(2<<30), conf.RegionSize)
	assert.Equal(t, "/tmp/probe", conf.DentryDir)
	assert.Equal(t, time.Minute, conf.WatchInterval)
	assert.Equal(t, general.LoggingPKGNone, opt.logsOptions.LogPackageLevel)
}

func TestInvalidOptions(t *testing.T) {
	for _, args := range [][]string{
		{"--memory-source=swap"},
		{"--region-size=lots"},
		{"--region-size=-1Gi"},
		{"--watch-interval=0s"},
	} {
		_, err := parse(t, args...).Config()
		assert.Error(t, err, "args %v", args)
	}
}
