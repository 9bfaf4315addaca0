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
	"fmt"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	cliflag "k8s.io/component-base/cli/flag"
	"k8s.io/utils/clock"

	"github.com/kubewharf/memfrag/cmd/memfrag/app/options"
	"github.com/kubewharf/memfrag/pkg/config"
	"github.com/kubewharf/memfrag/pkg/fragmem"
	"github.com/kubewharf/memfrag/pkg/fragmem/buddyinfo"
	"github.com/kubewharf/memfrag/pkg/fragmem/fragmenter"
	"github.com/kubewharf/memfrag/pkg/metrics"
	"github.com/kubewharf/memfrag/pkg/util/general"
)

const commandsUsage = `Usage:
    Fragment memory: fragment [--dentries] <order>
    Show stats:      stat [--zones]
    Watch stats:     watch [--interval <duration>]
`

var errMissingCommand = errors.New("no command given")

// NewMemFragCommand creates the memfrag command tree. newSources is
// called only after the arguments of a command are validated.
func NewMemFragCommand(newSources SourcesFactory) *cobra.Command {
	opt := options.NewOptions()
	fss := &cliflag.NamedFlagSets{}
	opt.AddFlags(fss)

	cmd := &cobra.Command{
		Use:   "memfrag",
		Short: "Report and induce physical memory fragmentation",
		Long: "memfrag prints how free memory is spread over the buddy allocator orders " +
			"and can fragment it on purpose by punching holes into a large anonymous mapping.",
		Args: cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return applyConfigFile(cmd.Flags(), opt.ConfigFile)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errMissingCommand
			}
			return errors.Errorf("unknown command %q", args[0])
		},
	}

	for _, f := range fss.FlagSets {
		cmd.PersistentFlags().AddFlagSet(f)
	}
	cmd.SetGlobalNormalizationFunc(cliflag.WordSepNormalizeFunc)

	cmd.SetUsageFunc(func(c *cobra.Command) error {
		fmt.Fprint(c.OutOrStderr(), commandsUsage)
		if c.LocalNonPersistentFlags().HasAvailableFlags() {
			fmt.Fprintf(c.OutOrStderr(), "\n%s flags:\n%s", c.Name(), c.LocalNonPersistentFlags().FlagUsages())
		}
		cliflag.PrintSections(c.OutOrStderr(), *fss, 0)
		return nil
	})

	cmd.AddCommand(
		newStatCommand(opt, newSources),
		newFragmentCommand(opt, newSources),
		newWatchCommand(opt, newSources),
	)
	return cmd
}

func newStatCommand(opt *options.Options, newSources SourcesFactory) *cobra.Command {
	var zones bool

	cmd := &cobra.Command{
		Use:   "stat",
		Short: "Show the free memory distribution by order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			reporter, _, err := newReporter(opt, newSources)
			if err != nil {
				return err
			}
			if zones {
				return reporter.ReportZones(cmd.OutOrStdout())
			}
			return reporter.Report(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&zones, "zones", false, "report every node and zone separately")
	return cmd
}

func newFragmentCommand(opt *options.Options, newSources SourcesFactory) *cobra.Command {
	var dentries bool

	cmd := &cobra.Command{
		Use:   "fragment [--dentries] <order>",
		Short: "Fragment memory into holes of 2^order pages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			order, err := parseOrder(args[len(args)-1])
			if err != nil {
				return err
			}
			if len(args) > 1 {
				general.Warningf("ignoring extra arguments %v", args[:len(args)-1])
			}

			conf, err := opt.Config()
			if err != nil {
				return err
			}

			lock, err := acquireLock(conf)
			if err != nil {
				return err
			}
			defer func() {
				if err := general.ReleaseUniqueLock(lock); err != nil {
					general.Errorf("release lock failed: %v", err)
				}
			}()

			sources, err := newSources(conf)
			if err != nil {
				return err
			}

			f := fragmenter.NewFragmenter(conf.FragmentConfiguration, cmd.OutOrStdout(), fragmenter.Collaborators{
				Reporter: buddyinfo.NewReporter(sources.BuddyInfo, sources.Zones),
				Memory:   sources.Memory,
				Mapper:   sources.Mapper,
				Prober:   sources.Prober,
				Emitter:  newEmitter(conf),
				Clock:    clock.RealClock{},
			})
			return f.Fragment(cmd.Context(), order, dentries)
		},
	}
	cmd.Flags().BoolVar(&dentries, "dentries", false, "also fill freed memory with negative dentries")
	// the order is always the last argument, flags after it are not parsed
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newWatchCommand(opt *options.Options, newSources SourcesFactory) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show the free memory distribution periodically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			reporter, conf, err := newReporter(opt, newSources)
			if err != nil {
				return err
			}
			if interval <= 0 {
				interval = conf.WatchInterval
			}

			if err := reporter.Report(cmd.OutOrStdout()); err != nil {
				return err
			}
			return fragmenter.Watch(cmd.Context(), cmd.OutOrStdout(), reporter, clock.RealClock{}, interval)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "pause between two reports, defaults to --watch-interval")
	return cmd
}

func newReporter(opt *options.Options, newSources SourcesFactory) (*buddyinfo.Reporter, *config.Configuration, error) {
	conf, err := opt.Config()
	if err != nil {
		return nil, nil, err
	}

	sources, err := newSources(conf)
	if err != nil {
		return nil, nil, err
	}
	return buddyinfo.NewReporter(sources.BuddyInfo, sources.Zones), conf, nil
}

// parseOrder accepts a decimal order in the fragmentation range. Anything
// that is not a number is reported as an invalid order.
func parseOrder(arg string) (int, error) {
	order, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fragmem.ErrInvalidOrder
	}
	if err := fragmem.ValidateOrder(order); err != nil {
		return 0, err
	}
	return order, nil
}

func acquireLock(conf *config.Configuration) (*flock.Flock, error) {
	if conf.LockFile == "" {
		return nil, nil
	}
	return general.GetUniqueLock(conf.LockFile)
}

func newEmitter(conf *config.Configuration) metrics.MetricEmitter {
	if conf.MetricsTextfile == "" {
		return metrics.DummyMetrics{}
	}
	return metrics.NewTextfileEmitter(conf.MetricsTextfile)
}

// applyConfigFile sets every flag named in the config file that was not
// given on the command line. Keys that are not flags of the running
// command are skipped.
func applyConfigFile(fs *pflag.FlagSet, path string) error {
	if path == "" {
		return nil
	}

	overrides, err := config.ReadFlagOverrides(path)
	if err != nil {
		return err
	}

	for _, name := range config.SortedKeys(overrides) {
		f := fs.Lookup(name)
		if f == nil {
			general.Warningf("config file %s: %q is not a flag of this command, skipped", path, name)
			continue
		}
		if f.Changed {
			continue
		}
		if err := fs.Set(name, overrides[name]); err != nil {
			return errors.Wrapf(err, "apply %s from config file %s", name, path)
		}
	}
	return nil
}
