// Package aggregate turns the status files of a bees work directory into metric families.
//
// Every call to Collect re-lists and re-reads the directory; nothing is cached
// between calls, so concurrent scrapes cannot observe each other.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vshulcz/bees-exporter/internal/domain"
	"github.com/vshulcz/bees-exporter/internal/ports"
	"github.com/vshulcz/bees-exporter/internal/statusfile"
)

// Label names attached to exported samples.
const (
	LabelUUID       = "uuid"
	LabelExtentSize = "extent_size"
)

// Names of the progress-table gauges.
const (
	MetricDataSize  = "bees_progress_summary_datasz_bytes"
	MetricPoint     = "bees_progress_summary_point"
	MetricPointIdle = "bees_progress_summary_point_idle"
	MetricGenMin    = "bees_progress_summary_gen_min"
	MetricGenMax    = "bees_progress_summary_gen_max"
)

const metricPrefix = "bees_"

// Options tune how sources are identified.
type Options struct {
	// RequireUUID skips status files whose name stem is not a UUID and
	// canonicalizes the ones that are.
	RequireUUID bool
}

// Service reads status files through a ports.StatusSource.
type Service struct {
	src  ports.StatusSource
	log  *zap.Logger
	opts Options
}

// New creates a Service. A nil logger disables logging.
func New(src ports.StatusSource, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{src: src, log: logger, opts: opts}
}

// Ping reports whether the work directory is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.src.Ping(ctx)
}

type sourceReport struct {
	src domain.Source
	rep domain.Report
}

// Collect runs one collection cycle: list, parse every file, merge by source id.
// Anomalies are logged and never fail the cycle.
func (s *Service) Collect(ctx context.Context) []domain.Family {
	return s.merge(s.readAll(ctx))
}

func (s *Service) readAll(ctx context.Context) []sourceReport {
	names, err := s.src.List(ctx)
	if err != nil {
		s.log.Error("list status files failed", zap.Error(err))
		return nil
	}

	out := make([]sourceReport, 0, len(names))
	seen := make(map[string]string, len(names))
	for _, name := range names {
		id, ok := s.sourceID(name)
		if !ok {
			continue
		}
		if prev, dup := seen[id]; dup {
			s.log.Error("duplicate source id, skipping file",
				zap.String("file", name), zap.String("first", prev), zap.String("source", id))
			continue
		}
		seen[id] = name

		rep := s.Read(ctx, name)
		out = append(out, sourceReport{
			src: domain.Source{ID: id, Name: name, ModTime: rep.ModTime},
			rep: rep,
		})
	}
	return out
}

func (s *Service) sourceID(name string) (string, bool) {
	stem := strings.TrimSuffix(name, domain.StatusSuffix)
	if !s.opts.RequireUUID {
		return stem, true
	}
	u, err := uuid.Parse(stem)
	if err != nil {
		s.log.Error("failed to parse UUID from filename", zap.String("file", name), zap.Error(err))
		return "", false
	}
	return u.String(), true
}

// Read parses a single status file. A missing or unreadable file yields an
// empty report; everything else yields whatever could be recovered.
func (s *Service) Read(ctx context.Context, name string) domain.Report {
	rc, modTime, err := s.src.Open(ctx, name)
	if err != nil {
		s.logAnomalies(name, err)
		return domain.Report{}
	}
	defer rc.Close()

	s.log.Debug("reading stats", zap.String("file", name))
	lines, err := statusfile.ReadLines(rc)
	if err != nil {
		s.logAnomalies(name, fmt.Errorf("%w: read %s: %v", domain.ErrSourceUnavailable, name, err))
		return domain.Report{}
	}

	rep, err := statusfile.Parse(lines)
	s.logAnomalies(name, err)
	rep.ModTime = modTime
	s.log.Debug("parsed stats",
		zap.String("file", name),
		zap.Int("counters", len(rep.Counters)),
		zap.Int("progress_rows", len(rep.Progress)),
	)
	return rep
}

func (s *Service) logAnomalies(name string, err error) {
	for _, e := range domain.Anomalies(err) {
		if errors.Is(e, domain.ErrSourceUnavailable) {
			s.log.Warn("status file unavailable", zap.String("file", name), zap.Error(e))
			continue
		}
		s.log.Error("status file anomaly", zap.String("file", name), zap.Error(e))
	}
}

func (s *Service) merge(reports []sourceReport) []domain.Family {
	counters := make(map[string]*domain.Family)
	dataSize := gaugeFamily(MetricDataSize, "Bees progress summary datasz in bytes")
	point := gaugeFamily(MetricPoint, "Bees progress summary")
	idle := gaugeFamily(MetricPointIdle, "Bees progress summary idle")
	genMin := gaugeFamily(MetricGenMin, "Bees progress summary gen_min")
	genMax := gaugeFamily(MetricGenMax, "Bees progress summary gen_max")

	for _, sr := range reports {
		id, ts := sr.src.ID, sr.rep.ModTime

		for _, token := range slices.Sorted(maps.Keys(sr.rep.Counters)) {
			name := CounterName(token)
			f, ok := counters[name]
			if !ok {
				f = &domain.Family{
					Name:       name,
					Help:       "Bees metric " + token,
					Type:       domain.Counter,
					LabelNames: []string{LabelUUID},
				}
				counters[name] = f
			}
			smp := domain.Sample{Time: ts, LabelValues: []string{id}, Value: float64(sr.rep.Counters[token])}
			if n := len(f.Samples); n > 0 && f.Samples[n-1].LabelValues[0] == id {
				s.log.Error("counter names collide after lower-casing",
					zap.String("source", id), zap.String("metric", name), zap.String("kept", token))
				f.Samples[n-1] = smp
				continue
			}
			s.log.Debug("adding metric", zap.String("metric", token), zap.Uint64("value", sr.rep.Counters[token]), zap.String("source", id))
			f.Samples = append(f.Samples, smp)
		}

		for _, row := range sr.rep.Progress {
			labels := []string{id, row.Extent.String()}
			add := func(f *domain.Family, v float64) {
				f.Samples = append(f.Samples, domain.Sample{Time: ts, LabelValues: labels, Value: v})
			}

			if b, err := statusfile.ParseDataSize(row.DataSize); err != nil {
				s.log.Error("could not parse datasz",
					zap.String("source", id), zap.Stringer("extent_size", row.Extent), zap.Error(err))
			} else {
				add(dataSize, float64(b))
			}
			if row.Point.Idle {
				add(idle, 1)
			} else {
				add(idle, 0)
				add(point, float64(row.Point.Offset))
			}
			add(genMin, float64(row.GenMin))
			add(genMax, float64(row.GenMax))
		}
	}

	out := make([]domain.Family, 0, len(counters)+5)
	for _, name := range slices.Sorted(maps.Keys(counters)) {
		out = append(out, *counters[name])
	}
	return append(out, *dataSize, *point, *idle, *genMin, *genMax)
}

// CounterName maps a TOTAL token to its exported counter name.
func CounterName(token string) string {
	return metricPrefix + strings.ToLower(token) + "_total"
}

func gaugeFamily(name, help string) *domain.Family {
	return &domain.Family{
		Name:       name,
		Help:       help,
		Type:       domain.Gauge,
		LabelNames: []string{LabelUUID, LabelExtentSize},
	}
}
