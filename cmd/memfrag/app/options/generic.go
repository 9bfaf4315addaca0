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
	"flag"
	"os"

	"k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"
	"k8s.io/klog/v2"

	"github.com/kubewharf/memfrag/pkg/config/generic"
)

const defaultLockFile = "/var/run/memfrag.lock"

// GenericOptions holds the process level configurations.
type GenericOptions struct {
	LockFile        string
	MetricsTextfile string

	logsOptions *LogsOptions
}

func NewGenericOptions() *GenericOptions {
	return &GenericOptions{
		LockFile:    defaultLockFile,
		logsOptions: NewLogsOptions(),
	}
}

// AddFlags adds flags to the specified FlagSet.
func (o *GenericOptions) AddFlags(fss *cliflag.NamedFlagSets) {
	fs := fss.FlagSet("generic")

	local := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	klog.InitFlags(local)
	local.VisitAll(func(fl *flag.Flag) {
		fs.AddGoFlag(fl)
	})

	fs.StringVar(&o.LockFile, "lock-file", o.LockFile,
		"the file locked while fragmenting so that only one run happens at a time, empty to disable")
	fs.StringVar(&o.MetricsTextfile, "metrics-textfile", o.MetricsTextfile,
		"path of a prometheus textfile that receives per pass metrics, empty to disable")

	o.logsOptions.AddFlags(fs)
}

// ApplyTo fills up config with options
func (o *GenericOptions) ApplyTo(c *generic.GenericConfiguration) error {
	c.LockFile = o.LockFile
	c.MetricsTextfile = o.MetricsTextfile

	return errors.NewAggregate([]error{o.logsOptions.ApplyTo()})
}
