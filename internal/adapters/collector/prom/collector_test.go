package prom

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vshulcz/bees-exporter/internal/domain"
)

type staticFamilies []domain.Family

func (s staticFamilies) Collect(context.Context) []domain.Family { return s }

func gather(t *testing.T, c prometheus.Collector) map[string]*dto.MetricFamily {
	t.Helper()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))
	mfs, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(mfs))
	for _, mf := range mfs {
		out[mf.GetName()] = mf
	}
	return out
}

func TestCollector_RendersFamilies(t *testing.T) {
	ts := time.UnixMilli(1750000000123)
	c := New(staticFamilies{
		{
			Name: "bees_addr_block_total", Help: "Bees metric addr_block", Type: domain.Counter,
			LabelNames: []string{"uuid"},
			Samples: []domain.Sample{
				{Time: ts, LabelValues: []string{"a"}, Value: 25},
				{Time: ts, LabelValues: []string{"b"}, Value: 7},
			},
		},
		{
			Name: "bees_progress_summary_point_idle", Help: "Bees progress summary idle", Type: domain.Gauge,
			LabelNames: []string{"uuid", "extent_size"},
			Samples:    []domain.Sample{{Time: ts, LabelValues: []string{"a", "32M"}, Value: 1}},
		},
		{
			Name: "bees_progress_summary_point", Help: "Bees progress summary", Type: domain.Gauge,
			LabelNames: []string{"uuid", "extent_size"},
		},
	}, nil)

	assert.Equal(t, 3, testutil.CollectAndCount(c))

	mfs := gather(t, c)
	require.Len(t, mfs, 2)

	counter := mfs["bees_addr_block_total"]
	require.NotNil(t, counter)
	assert.Equal(t, dto.MetricType_COUNTER, counter.GetType())
	require.Len(t, counter.GetMetric(), 2)
	m := counter.GetMetric()[0]
	assert.Equal(t, float64(25), m.GetCounter().GetValue())
	assert.Equal(t, ts.UnixMilli(), m.GetTimestampMs())
	assert.Equal(t, "uuid", m.GetLabel()[0].GetName())
	assert.Equal(t, "a", m.GetLabel()[0].GetValue())

	idle := mfs["bees_progress_summary_point_idle"]
	require.NotNil(t, idle)
	assert.Equal(t, dto.MetricType_GAUGE, idle.GetType())
	assert.Equal(t, float64(1), idle.GetMetric()[0].GetGauge().GetValue())
}

func TestCollector_SkipsInvalidSamples(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := New(staticFamilies{
		{
			Name: "bees_ok_total", Type: domain.Counter, LabelNames: []string{"uuid"},
			Samples: []domain.Sample{
				{LabelValues: []string{"a"}, Value: 1},
				{LabelValues: []string{"a", "extra"}, Value: 2},
				{LabelValues: []string{"\xff"}, Value: 3},
			},
		},
	}, zap.New(core))

	mfs := gather(t, c)
	require.Len(t, mfs, 1)
	ok := mfs["bees_ok_total"]
	require.Len(t, ok.GetMetric(), 1)
	assert.Zero(t, ok.GetMetric()[0].GetTimestampMs(), "zero time means no explicit timestamp")
	assert.Equal(t, 2, logs.FilterMessage("build metric failed").Len())
}
