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
	"time"

	"k8s.io/apimachinery/pkg/api/resource"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/kubewharf/memfrag/pkg/config/fragment"
	"github.com/kubewharf/memfrag/pkg/fragmem/fragmenter"
)

// FragmentOptions holds the configurations of the fragmentation driver.
type FragmentOptions struct {
	RegionSize    string
	DentryDir     string
	WatchInterval time.Duration
}

func NewFragmentOptions() *FragmentOptions {
	return &FragmentOptions{
		DentryDir:     "/",
		WatchInterval: fragmenter.DefaultWatchInterval,
	}
}

// AddFlags adds flags to the specified FlagSet.
func (o *FragmentOptions) AddFlags(fss *cliflag.NamedFlagSets) {
	fs := fss.FlagSet("fragment")

	fs.StringVar(&o.RegionSize, "region-size", o.RegionSize,
		"size of the fragmented mapping as a quantity such as 4Gi, empty for the total memory of the host")
	fs.StringVar(&o.DentryDir, "dentry-dir", o.DentryDir,
		"directory under which missing paths are looked up to create dentries")
	fs.DurationVar(&o.WatchInterval, "watch-interval", o.WatchInterval,
		"pause between two reports once fragmentation is done")
}

// ApplyTo fills up config with options
func (o *FragmentOptions) ApplyTo(c *fragment.FragmentConfiguration) error {
	c.RegionSize = 0
	if o.RegionSize != "" {
		quantity, err := resource.ParseQuantity(o.RegionSize)
		if err != nil {
			return fmt.Errorf("invalid region size %q: %v", o.RegionSize, err)
		}
		if quantity.Sign() < 0 {
			return fmt.Errorf("region size %q is negative", o.RegionSize)
		}
		c.RegionSize = uint64(quantity.Value())
	}

	if o.WatchInterval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %v", o.WatchInterval)
	}

	c.DentryDir = o.DentryDir
	c.WatchInterval = o.WatchInterval
	return nil
}
