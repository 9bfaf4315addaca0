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
	"k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/kubewharf/memfrag/pkg/config"
)

// Options holds the configurations for memfrag.
type Options struct {
	// ConfigFile is a YAML file of flag values; flags given on the
	// command line win over it.
	ConfigFile string

	*GenericOptions
	*SourceOptions
	*FragmentOptions
}

// NewOptions creates a new Options with a default config.
func NewOptions() *Options {
	return &Options{
		GenericOptions:  NewGenericOptions(),
		SourceOptions:   NewSourceOptions(),
		FragmentOptions: NewFragmentOptions(),
	}
}

// AddFlags adds flags to the specified FlagSet.
func (o *Options) AddFlags(fss *cliflag.NamedFlagSets) {
	fss.FlagSet("generic").StringVar(&o.ConfigFile, "config", o.ConfigFile,
		"path of a YAML file mapping flag names to values")

	o.GenericOptions.AddFlags(fss)
	o.SourceOptions.AddFlags(fss)
	o.FragmentOptions.AddFlags(fss)
}

// ApplyTo fills up config with options
func (o *Options) ApplyTo(c *config.Configuration) error {
	var errList []error

	errList = append(errList, o.GenericOptions.ApplyTo(c.GenericConfiguration))
	errList = append(errList, o.SourceOptions.ApplyTo(c.SourceConfiguration))
	errList = append(errList, o.FragmentOptions.ApplyTo(c.FragmentConfiguration))

	return errors.NewAggregate(errList)
}

// Config returns a new configuration instance.
func (o *Options) Config() (*config.Configuration, error) {
	c := config.NewConfiguration()
	if err := o.ApplyTo(c); err != nil {
		return nil, err
	}
	return c, nil
}
