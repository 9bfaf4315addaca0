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

// Package fragmenter fragments physical memory on purpose: it fills the
// free memory with an anonymous mapping, releases all but one page of
// every block of a chosen order and optionally fills the freed memory
// with negative dentries.
package fragmenter

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/utils/clock"

	"github.com/kubewharf/memfrag/pkg/config/fragment"
	"github.com/kubewharf/memfrag/pkg/fragmem"
	"github.com/kubewharf/memfrag/pkg/metrics"
	"github.com/kubewharf/memfrag/pkg/util/anonmem"
	"github.com/kubewharf/memfrag/pkg/util/dentry"
	"github.com/kubewharf/memfrag/pkg/util/general"
	"github.com/kubewharf/memfrag/pkg/util/machine"
)

// StatsReporter prints the buddy allocator statistics.
type StatsReporter interface {
	Report(w io.Writer) error
}

// Collaborators are the operating system facing dependencies of a
// Fragmenter. Emitter and Clock may be left nil.
type Collaborators struct {
	Reporter StatsReporter
	Memory   machine.MemorySource
	Mapper   anonmem.Mapper
	Prober   dentry.Prober
	Emitter  metrics.MetricEmitter
	Clock    clock.Clock
}

// PassResult accounts for the work done by one pass.
type PassResult struct {
	Pass           uint64
	FreeBytes      uint64
	PagesTouched   uint64
	PagesReleased  uint64
	DentriesProbed uint64
}

type Fragmenter struct {
	conf *fragment.FragmentConfiguration
	out  io.Writer

	reporter StatsReporter
	memory   machine.MemorySource
	mapper   anonmem.Mapper
	prober   dentry.Prober
	emitter  metrics.MetricEmitter
	clock    clock.Clock
	logger   general.Logger
}

// NewFragmenter returns a Fragmenter that writes its progress to out.
func NewFragmenter(conf *fragment.FragmentConfiguration, out io.Writer, c Collaborators) *Fragmenter {
	f := &Fragmenter{
		conf:     conf,
		out:      out,
		reporter: c.Reporter,
		memory:   c.Memory,
		mapper:   c.Mapper,
		prober:   c.Prober,
		emitter:  c.Emitter,
		clock:    c.Clock,
		logger:   general.LoggerWithPrefix("fragmenter", general.LoggingPKGNone),
	}
	if f.emitter == nil {
		f.emitter = metrics.DummyMetrics{}
	}
	if f.clock == nil {
		f.clock = clock.RealClock{}
	}
	return f
}

// Fragment maps a region as large as the host memory, fills it pass by
// pass and punches holes of 2^order pages into it. Without dentries it
// keeps printing reports until ctx is done, so the holes stay in place.
func (f *Fragmenter) Fragment(ctx context.Context, order int, withDentries bool) (err error) {
	if err := fragmem.ValidateOrder(order); err != nil {
		return err
	}

	snapshot, err := f.memory.Snapshot()
	if err != nil {
		return errors.Wrap(err, "read memory snapshot")
	}

	f.report()
	fmt.Fprintf(f.out, "total %.1f GB, free %.1f GB\n",
		fragmem.ToGiB(snapshot.TotalBytes), fragmem.ToGiB(snapshot.FreeBytes))

	regionSize := f.regionSize(snapshot)
	region, err := f.mapper.Map(regionSize)
	if err != nil {
		return errors.Wrapf(err, "map %d bytes", regionSize)
	}
	f.logger.Infof("mapped %d bytes, order %d, dentries %v", regionSize, order, withDentries)

	defer func() {
		if unmapErr := region.Unmap(); unmapErr != nil {
			err = utilerrors.NewAggregate([]error{err, unmapErr})
		}
	}()

	if err := f.fragmentRegion(ctx, region, order, withDentries); err != nil {
		return err
	}

	fmt.Fprintln(f.out, "done")
	f.report()

	if withDentries {
		return nil
	}
	return Watch(ctx, f.out, f.reporter, f.clock, f.conf.WatchInterval)
}

func (f *Fragmenter) regionSize(snapshot machine.MemorySnapshot) uint64 {
	if f.conf.RegionSize > 0 {
		return StepSize(f.conf.RegionSize)
	}
	return StepSize(snapshot.TotalBytes)
}

// fragmentRegion runs passes until the region is covered. A failed
// memory reading ends the walk early without an error.
func (f *Fragmenter) fragmentRegion(ctx context.Context, region anonmem.Region, order int, withDentries bool) error {
	regionSize := region.Size()
	bound := WalkBound(regionSize, order)
	emitter := f.emitter.WithTags(metricsEmitUnit, metrics.MetricTag{Key: metricsTagKeyOrder, Val: strconv.Itoa(order)})

	var off uint64
	for pass := uint64(0); ; pass++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "fragmentation interrupted at pass %d", pass)
		}

		// Step 1, size the pass after the memory that is free right now
		snapshot, err := f.memory.Snapshot()
		if err != nil {
			f.logger.Errorf("read memory snapshot failed: %v", err)
			break
		}
		size := StepSize(snapshot.FreeBytes)
		fmt.Fprintf(f.out, "%.1f GB..\n", fragmem.ToGiB(snapshot.FreeBytes))

		result := PassResult{Pass: pass, FreeBytes: snapshot.FreeBytes}
		end := fragmem.SaturatingAdd(off, size)

		// Step 2, fault in every page of the pass
		for page := off; page < end && page < regionSize; page += fragmem.PageSize {
			if err := region.Touch(page); err != nil {
				return errors.Wrapf(err, "touch page at %d", page)
			}
			result.PagesTouched++
		}

		// Step 3, keep the first page of every block and release the rest
		holes := NewHolePattern(off, minUint64(end, bound), order)
		for stride, ok := holes.Next(); ok; stride, ok = holes.Next() {
			if err := region.Release(stride.Release.Start, stride.Release.Length); err != nil {
				return errors.Wrapf(err, "release block at %d", stride.Retain.Start)
			}
			result.PagesReleased += stride.Release.Length / fragmem.PageSize
		}

		// Step 4, fill the released memory with negative dentries
		if withDentries {
			probed, err := f.probeDentries(ctx, order, pass)
			if err != nil {
				return err
			}
			if probed < 0 {
				break
			}
			result.DentriesProbed = uint64(probed)
		}

		f.emitPass(emitter, result)
		f.logger.InfofV(4, "pass %d: free %d, touched %d, released %d, dentries %d",
			pass, result.FreeBytes, result.PagesTouched, result.PagesReleased, result.DentriesProbed)

		off = end
		if off >= regionSize {
			break
		}
	}

	if err := metrics.Flush(emitter); err != nil {
		f.logger.Warningf("flush metrics failed: %v", err)
	}
	return nil
}

// probeDentries looks up missing paths sized after the current free
// memory. It returns -1 if the memory reading fails.
func (f *Fragmenter) probeDentries(ctx context.Context, order int, pass uint64) (int64, error) {
	snapshot, err := f.memory.Snapshot()
	if err != nil {
		f.logger.Errorf("read memory snapshot failed: %v", err)
		return -1, nil
	}

	count := DentryCount(snapshot.FreeBytes, order)
	fmt.Fprintf(f.out, "creating %d dentries (%.1fGB)\n", count, float64(count)*fragmem.DentrySize/fragmem.GiB)

	for i := uint64(0); i < count; i++ {
		if i%dentryCancelCheck == 0 {
			if err := ctx.Err(); err != nil {
				return 0, errors.Wrapf(err, "dentry creation interrupted at %d", i)
			}
		}
		f.prober.Probe(dentry.MissPath(f.conf.DentryDir, snapshot.Uptime, pass, i))
	}
	return int64(count), nil
}

func (f *Fragmenter) emitPass(emitter metrics.MetricEmitter, result PassResult) {
	errList := []error{
		emitter.StoreInt64(metricNamePassFreeBytes, int64(result.FreeBytes), metrics.MetricTypeNameRaw),
		emitter.StoreInt64(metricNamePagesTouched, int64(result.PagesTouched), metrics.MetricTypeNameCount),
		emitter.StoreInt64(metricNamePagesReleased, int64(result.PagesReleased), metrics.MetricTypeNameCount),
		emitter.StoreInt64(metricNameDentriesProbed, int64(result.DentriesProbed), metrics.MetricTypeNameCount),
		emitter.StoreInt64(metricNamePasses, 1, metrics.MetricTypeNameCount),
	}
	if err := utilerrors.NewAggregate(errList); err != nil {
		f.logger.Warningf("emit metrics of pass %d failed: %v", result.Pass, err)
	}
	if err := metrics.Flush(emitter); err != nil {
		f.logger.Warningf("flush metrics failed: %v", err)
	}
}

// report prints the buddy statistics; a failure is only logged.
func (f *Fragmenter) report() {
	if err := f.reporter.Report(f.out); err != nil {
		f.logger.Errorf("report buddyinfo failed: %v", err)
	}
}

func minUint64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
