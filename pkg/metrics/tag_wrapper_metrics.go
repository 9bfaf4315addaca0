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

package metrics

import "context"

// MetricTagWrapper decorates a MetricEmitter with a unit tag and a set
// of common tags appended to every item.
type MetricTagWrapper struct {
	unitTag    MetricTag
	commonTags []MetricTag

	MetricEmitter
}

var (
	_ MetricEmitter = &MetricTagWrapper{}
	_ Flusher       = &MetricTagWrapper{}
)

const unitTagKey = "emmit_unit"

func (t *MetricTagWrapper) StoreInt64(key string, val int64, emitType MetricTypeName, tags ...MetricTag) error {
	return t.MetricEmitter.StoreInt64(key, val, emitType, t.decorate(tags)...)
}

func (t *MetricTagWrapper) StoreFloat64(key string, val float64, emitType MetricTypeName, tags ...MetricTag) error {
	return t.MetricEmitter.StoreFloat64(key, val, emitType, t.decorate(tags)...)
}

func (t *MetricTagWrapper) Run(_ context.Context) {}

// Flush forwards to the wrapped emitter.
func (t *MetricTagWrapper) Flush() error {
	return Flush(t.MetricEmitter)
}

func (t *MetricTagWrapper) WithTags(unit string, commonTags ...MetricTag) MetricEmitter {
	wrapper := &MetricTagWrapper{
		MetricEmitter: t.MetricEmitter,
		unitTag:       MetricTag{Key: unitTagKey, Val: unit},
		commonTags:    append([]MetricTag(nil), t.commonTags...),
	}
	wrapper.addOrUpdateCommonTags(commonTags)
	return wrapper
}

func (t *MetricTagWrapper) decorate(tags []MetricTag) []MetricTag {
	out := make([]MetricTag, 0, len(tags)+len(t.commonTags)+1)
	out = append(out, tags...)
	out = append(out, t.commonTags...)
	return append(out, t.unitTag)
}

// addOrUpdateCommonTags overrides tags with a known key and appends the rest.
func (t *MetricTagWrapper) addOrUpdateCommonTags(tags []MetricTag) {
	for _, tag := range tags {
		exist := false
		for i := range t.commonTags {
			if tag.Key == t.commonTags[i].Key {
				t.commonTags[i].Val = tag.Val
				exist = true
				break
			}
		}
		if !exist {
			t.commonTags = append(t.commonTags, tag)
		}
	}
}
