// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package cache

import "github.com/prometheus/client_golang/prometheus"

var (
	bytesDesc = prometheus.NewDesc(
		"sstable_cache_bytes", "Current bytes held by the block cache.", nil, nil)
	entriesDesc = prometheus.NewDesc(
		"sstable_cache_entries", "Current number of entries held by the block cache.", nil, nil)
	hitsDesc = prometheus.NewDesc(
		"sstable_cache_hits_total", "Total number of block cache lookups that hit.", nil, nil)
	missesDesc = prometheus.NewDesc(
		"sstable_cache_misses_total", "Total number of block cache lookups that missed.", nil, nil)
)

// PrometheusCollector adapts a *Cache's Metrics into a prometheus.Collector.
type PrometheusCollector struct {
	cache *Cache
}

// NewPrometheusCollector wraps c for registration with a prometheus.Registry.
func NewPrometheusCollector(c *Cache) *PrometheusCollector {
	return &PrometheusCollector{cache: c}
}

// Describe implements prometheus.Collector.
func (p *PrometheusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- bytesDesc
	ch <- entriesDesc
	ch <- hitsDesc
	ch <- missesDesc
}

// Collect implements prometheus.Collector.
func (p *PrometheusCollector) Collect(ch chan<- prometheus.Metric) {
	m := p.cache.Metrics()
	ch <- prometheus.MustNewConstMetric(bytesDesc, prometheus.GaugeValue, float64(m.Size))
	ch <- prometheus.MustNewConstMetric(entriesDesc, prometheus.GaugeValue, float64(m.Count))
	ch <- prometheus.MustNewConstMetric(hitsDesc, prometheus.CounterValue, float64(m.Hits))
	ch <- prometheus.MustNewConstMetric(missesDesc, prometheus.CounterValue, float64(m.Misses))
}
