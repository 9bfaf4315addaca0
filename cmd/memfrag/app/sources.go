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

package app

import (
	"github.com/kubewharf/memfrag/pkg/config"
	"github.com/kubewharf/memfrag/pkg/fragmem/buddyinfo"
	"github.com/kubewharf/memfrag/pkg/util/anonmem"
	"github.com/kubewharf/memfrag/pkg/util/dentry"
	"github.com/kubewharf/memfrag/pkg/util/machine"
	"github.com/kubewharf/memfrag/pkg/util/procfs/manager"
)

// Sources are the operating system facing collaborators of the commands.
type Sources struct {
	BuddyInfo buddyinfo.Source
	Zones     buddyinfo.ZoneSource
	Memory    machine.MemorySource
	Mapper    anonmem.Mapper
	Prober    dentry.Prober
}

// SourcesFactory builds the Sources once the configuration is known.
type SourcesFactory func(conf *config.Configuration) (*Sources, error)

// NewHostSources reads the host procfs and maps real memory.
func NewHostSources(conf *config.Configuration) (*Sources, error) {
	procfsManager, err := manager.NewProcFSManager(conf.ProcFSRoot)
	if err != nil {
		return nil, err
	}

	memory, err := machine.NewMemorySource(conf.MemorySource, procfsManager)
	if err != nil {
		return nil, err
	}

	return &Sources{
		BuddyInfo: procfsManager,
		Zones:     procfsManager,
		Memory:    memory,
		Mapper:    anonmem.NewMmapMapper(),
		Prober:    dentry.NewStatProber(),
	}, nil
}
