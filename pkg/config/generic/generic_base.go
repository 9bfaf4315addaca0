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

package generic

// GenericConfiguration stores the process level configurations.
type GenericConfiguration struct {
	// LockFile guards against concurrent fragmenting processes.
	LockFile string
	// MetricsTextfile is where per pass metrics are written; empty disables it.
	MetricsTextfile string
}

func NewGenericConfiguration() *GenericConfiguration {
	return &GenericConfiguration{}
}

// SourceConfiguration selects where memory statistics are read from.
type SourceConfiguration struct {
	ProcFSRoot   string
	MemorySource string
}

func NewSourceConfiguration() *SourceConfiguration {
	return &SourceConfiguration{}
}
