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
	"fmt"

	cliflag "k8s.io/component-base/cli/flag"

	"github.com/kubewharf/memfrag/pkg/config/generic"
	"github.com/kubewharf/memfrag/pkg/util/machine"
	"github.com/kubewharf/memfrag/pkg/util/procfs/manager"
)

// SourceOptions selects where memory statistics come from.
type SourceOptions struct {
	ProcFSRoot   string
	MemorySource string
}

func NewSourceOptions() *SourceOptions {
	return &SourceOptions{
		ProcFSRoot:   manager.DefaultProcFSRoot,
		MemorySource: machine.MemorySourceSysinfo,
	}
}

// AddFlags adds flags to the specified FlagSet.
func (o *SourceOptions) AddFlags(fss *cliflag.NamedFlagSets) {
	fs := fss.FlagSet("source")

	fs.StringVar(&o.ProcFSRoot, "procfs-root", o.ProcFSRoot, "mount point of procfs")
	fs.StringVar(&o.MemorySource, "memory-source", o.MemorySource,
		fmt.Sprintf("where total and free memory are read from, one of %s or %s",
			machine.MemorySourceSysinfo, machine.MemorySourceProcFS))
}

// ApplyTo fills up config with options
func (o *SourceOptions) ApplyTo(c *generic.SourceConfiguration) error {
	switch o.MemorySource {
	case machine.MemorySourceSysinfo, machine.MemorySourceProcFS:
	default:
		return fmt.Errorf("invalid memory source %q", o.MemorySource)
	}

	c.ProcFSRoot = o.ProcFSRoot
	c.MemorySource = o.MemorySource
	return nil
}
