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

// Package config is the package that contains the configurations used by
// the memfrag commands.
package config // import "github.com/kubewharf/memfrag/pkg/config"

import (
	"github.com/kubewharf/memfrag/pkg/config/fragment"
	"github.com/kubewharf/memfrag/pkg/config/generic"
)

// Configuration stores all the configurations needed by memfrag. It is
// only modified through flags or the config file.
type Configuration struct {
	*generic.GenericConfiguration
	*generic.SourceConfiguration
	*fragment.FragmentConfiguration
}

func NewConfiguration() *Configuration {
	return &Configuration{
		GenericConfiguration:  generic.NewGenericConfiguration(),
		SourceConfiguration:   generic.NewSourceConfiguration(),
		FragmentConfiguration: fragment.NewFragmentConfiguration(),
	}
}
