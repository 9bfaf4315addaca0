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
	"time"
)

const (
	DefaultWatchInterval = 10 * time.Second

	// dentryCancelCheck is how many lookups run between two context checks.
	dentryCancelCheck = 1 << 12
)

const (
	metricsEmitUnit = "fragmenter"

	metricNamePassFreeBytes  = "memfrag_pass_free_bytes"
	metricNamePagesTouched   = "memfrag_pages_touched"
	metricNamePagesReleased  = "memfrag_pages_released"
	metricNameDentriesProbed = "memfrag_dentries_probed"
	metricNamePasses         = "memfrag_passes"

	metricsTagKeyOrder = "order"
)
