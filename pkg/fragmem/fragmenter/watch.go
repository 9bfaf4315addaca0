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

package fragmenter

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"k8s.io/utils/clock"
)

// Watch prints a blank line and a fresh report every interval until ctx
// is done. A failed report ends the loop with its error.
func Watch(ctx context.Context, w io.Writer, reporter StatsReporter, clk clock.Clock, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-clk.After(interval):
		}

		fmt.Fprintln(w)
		if err := reporter.Report(w); err != nil {
			return errors.Wrap(err, "report buddyinfo")
		}
	}
}
