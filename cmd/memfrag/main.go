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

package main

import (
	"os"

	"github.com/spf13/cobra"
	"k8s.io/component-base/logs"

	"github.com/kubewharf/memfrag/cmd/memfrag/app"
	"github.com/kubewharf/memfrag/pkg/util/process"
)

func main() {
	command := app.NewMemFragCommand(app.NewHostSources)

	if err := runCommand(command); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command) error {
	logs.InitLogs()
	defer logs.FlushLogs()

	// Set up signals so that the watch loop and the fragmentation passes
	// stop on the first shutdown signal.
	return cmd.ExecuteContext(process.SetupSignalHandler())
}
