// Package prom exposes aggregated bees families through a prometheus.Collector.
package prom

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/vshulcz/bees-exporter/internal/domain"
)

// FamilySource produces the families of one collection cycle.
type FamilySource interface {
	Collect(ctx context.Context) []domain.Family
}

// Collector is an unchecked collector: the set of counter names depends on
// what bees writes, so nothing is described up front.
type Collector struct {
	src FamilySource
	log *zap.Logger
}

var _ prometheus.Collector = (*Collector)(nil)

// New wraps src. A nil logger disables logging.
func New(src FamilySource, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{src: src, log: logger}
}

// Describe sends nothing, which makes the collector unchecked.
func (c *Collector) Describe(chan<- *prometheus.Desc) {}

// Collect re-reads every status file and emits one const metric per sample,
// stamped with the modification time of the file it came from.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, f := range c.src.Collect(context.Background()) {
		if len(f.Samples) == 0 {
			continue
		}
		desc := prometheus.NewDesc(f.Name, f.Help, f.LabelNames, nil)
		vt := valueType(f.Type)
		for _, s := range f.Samples {
			m, err := prometheus.NewConstMetric(desc, vt, s.Value, s.LabelValues...)
			if err != nil {
				c.log.Error("build metric failed", zap.String("metric", f.Name), zap.Strings("labels", s.LabelValues), zap.Error(err))
				continue
			}
			if !s.Time.IsZero() {
				m = prometheus.NewMetricWithTimestamp(s.Time, m)
			}
			ch <- m
		}
	}
}

func valueType(t domain.MetricType) prometheus.ValueType {
	if t == domain.Counter {
		return prometheus.CounterValue
	}
	return prometheus.GaugeValue
}
