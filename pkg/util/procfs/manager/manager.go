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

// Package manager reads the kernel memory statistics under a procfs
// mount point.
package manager

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/prometheus/procfs"

	"github.com/kubewharf/memfrag/pkg/fragmem"
)

const (
	DefaultProcFSRoot = procfs.DefaultMountPoint

	buddyInfoFile = "buddyinfo"
)

// ProcFSManager exposes the procfs files memfrag consumes.
type ProcFSManager interface {
	// ReadBuddyInfo returns the raw /proc/buddyinfo contents from one
	// bounded read.
	ReadBuddyInfo() ([]byte, error)
	// GetBuddyInfo returns the per node and zone free lists.
	GetBuddyInfo() ([]procfs.BuddyInfo, error)
	GetMeminfo() (procfs.Meminfo, error)
	GetProcStat() (procfs.Stat, error)
}

type manager struct {
	root   string
	procfs procfs.FS
}

var _ ProcFSManager = &manager{}

// NewProcFSManager return a manager for the procfs mounted at root.
func NewProcFSManager(root string) (ProcFSManager, error) {
	if root == "" {
		root = DefaultProcFSRoot
	}

	fs, err := procfs.NewFS(root)
	if err != nil {
		return nil, errors.Wrapf(err, "open procfs at %s", root)
	}
	return &manager{root: root, procfs: fs}, nil
}

func (m *manager) ReadBuddyInfo() ([]byte, error) {
	return ReadFileOnce(filepath.Join(m.root, buddyInfoFile), fragmem.BuddyInfoBufferSize)
}

func (m *manager) GetBuddyInfo() ([]procfs.BuddyInfo, error) {
	return m.procfs.BuddyInfo()
}

func (m *manager) GetMeminfo() (procfs.Meminfo, error) {
	return m.procfs.Meminfo()
}

func (m *manager) GetProcStat() (procfs.Stat, error) {
	return m.procfs.Stat()
}

// ReadFileOnce issues a single read of at most limit bytes. Files in
// /proc report a bogus size, so os.ReadFile is not used. A read that
// returns no data is reported as fragmem.ErrEmptyRead.
func ReadFileOnce(filename string, limit int) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", filename)
	}
	defer f.Close()

	buf := make([]byte, limit)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "read %s", filename)
	}
	if n <= 0 {
		return nil, errors.Wrapf(fragmem.ErrEmptyRead, "read %s", filename)
	}
	return buf[:n], nil
}
