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

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
)

// TextfileEmitter keeps metrics in a private prometheus registry and
// writes them in the text exposition format for the node-exporter
// textfile collector.
type TextfileEmitter struct {
	mu sync.Mutex

	path     string
	registry *prometheus.Registry
	gauges   map[string]*prometheus.GaugeVec
	counters map[string]*prometheus.CounterVec
	labels   map[string][]string
}

var (
	_ MetricEmitter = &TextfileEmitter{}
	_ Flusher       = &TextfileEmitter{}
)

func NewTextfileEmitter(path string) *TextfileEmitter {
	return &TextfileEmitter{
		path:     path,
		registry: prometheus.NewRegistry(),
		gauges:   make(map[string]*prometheus.GaugeVec),
		counters: make(map[string]*prometheus.CounterVec),
		labels:   make(map[string][]string),
	}
}

func (e *TextfileEmitter) StoreInt64(key string, val int64, emitType MetricTypeName, tags ...MetricTag) error {
	return e.StoreFloat64(key, float64(val), emitType, tags...)
}

func (e *TextfileEmitter) StoreFloat64(key string, val float64, emitType MetricTypeName, tags ...MetricTag) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	names, values := splitTags(tags)
	if registered, ok := e.labels[key]; ok && !sameLabels(registered, names) {
		return errors.Errorf("metric %s registered with labels %v, got %v", key, registered, names)
	}

	switch emitType {
	case MetricTypeNameRaw, MetricTypeNameUpDownCount:
		vec, err := e.gaugeVec(key, names)
		if err != nil {
			return err
		}
		gauge, err := vec.GetMetricWithLabelValues(values...)
		if err != nil {
			return errors.Wrapf(err, "metric %s", key)
		}
		if emitType == MetricTypeNameRaw {
			gauge.Set(val)
		} else {
			gauge.Add(val)
		}
	case MetricTypeNameCount:
		if val < 0 {
			return errors.Errorf("counter %s cannot decrease by %v", key, val)
		}
		vec, err := e.counterVec(key, names)
		if err != nil {
			return err
		}
		counter, err := vec.GetMetricWithLabelValues(values...)
		if err != nil {
			return errors.Wrapf(err, "metric %s", key)
		}
		counter.Add(val)
	default:
		return errors.Errorf("unknown metric type %q", emitType)
	}
	return nil
}

func (e *TextfileEmitter) gaugeVec(key string, names []string) (*prometheus.GaugeVec, error) {
	if vec, ok := e.gauges[key]; ok {
		return vec, nil
	}
	if _, ok := e.counters[key]; ok {
		return nil, errors.Errorf("metric %s is already a counter", key)
	}

	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: key, Help: key}, names)
	if err := e.registry.Register(vec); err != nil {
		return nil, errors.Wrapf(err, "register gauge %s", key)
	}
	e.gauges[key] = vec
	e.labels[key] = names
	return vec, nil
}

func (e *TextfileEmitter) counterVec(key string, names []string) (*prometheus.CounterVec, error) {
	if vec, ok := e.counters[key]; ok {
		return vec, nil
	}
	if _, ok := e.gauges[key]; ok {
		return nil, errors.Errorf("metric %s is already a gauge", key)
	}

	vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: key, Help: key}, names)
	if err := e.registry.Register(vec); err != nil {
		return nil, errors.Wrapf(err, "register counter %s", key)
	}
	e.counters[key] = vec
	e.labels[key] = names
	return vec, nil
}

func (e *TextfileEmitter) WithTags(unit string, commonTags ...MetricTag) MetricEmitter {
	newMetricTagWrapper := &MetricTagWrapper{MetricEmitter: e}
	return newMetricTagWrapper.WithTags(unit, commonTags...)
}

func (e *TextfileEmitter) Run(_ context.Context) {}

// Flush writes the registry to the textfile. It is a no-op without a path.
func (e *TextfileEmitter) Flush() error {
	if e.path == "" {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := prometheus.WriteToTextfile(e.path, e.registry); err != nil {
		return errors.Wrapf(err, "write metrics to %s", e.path)
	}
	return nil
}

// Gather exposes the registry, mostly for tests.
func (e *TextfileEmitter) Gather() prometheus.Gatherer {
	return e.registry
}

func sameLabels(a, b []string) bool {
	return len(a) == len(b) && lo.Every(a, b)
}

// splitTags sorts tags by key and returns the label names and values.
// A later tag overrides an earlier one with the same key.
func splitTags(tags []MetricTag) ([]string, []string) {
	merged := make(map[string]string, len(tags))
	for _, tag := range tags {
		merged[tag.Key] = tag.Val
	}

	names := lo.Keys(merged)
	sort.Strings(names)
	values := lo.Map(names, func(name string, _ int) string {
		return merged[name]
	})
	return names, values
}
