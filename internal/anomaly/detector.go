package anomaly

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Source supplies the raw inputs for one analysis run. Implemented by the
// warehouse layer; faked in tests. Either call may block for the duration
// of remote query execution and honors the request context.
type Source interface {
	AccessEvents(ctx context.Context, windowDays int) ([]AccessEvent, error)
	NewObjectAccesses(ctx context.Context, windowDays, newObjectDays int) ([]NewObjectAccess, error)
}

// Detector runs the full pipeline: aggregate, baseline, classify,
// summarize. Every run recomputes from scratch over the requested window;
// nothing is shared between runs, so concurrent scans are independent.
type Detector struct {
	source Source
	logger *zap.Logger
	now    func() time.Time
}

// NewDetector creates a detector over the given source.
func NewDetector(source Source, logger *zap.Logger) *Detector {
	return &Detector{
		source: source,
		logger: logger,
		now:    time.Now,
	}
}

// Scan analyzes the trailing windowDays of access history at the given
// sensitivity. A source failure aborts the whole run; partial results are
// never classified.
func (d *Detector) Scan(ctx context.Context, windowDays int, sensitivity string) ([]Record, *Report, error) {
	profile := ProfileFor(sensitivity)
	if profile.Level != sensitivity {
		d.logger.Warn("unrecognized sensitivity level, using medium",
			zap.String("requested", sensitivity))
	}

	events, err := d.source.AccessEvents(ctx, windowDays)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch access events: %w", err)
	}

	newObjects, err := d.source.NewObjectAccesses(ctx, windowDays, profile.NewObjectDays)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch new object accesses: %w", err)
	}

	buckets := Aggregate(events, windowDays, d.now())
	baselines := ComputeBaselines(buckets)
	records := Classify(buckets, baselines, profile, newObjects)

	report := Summarize(records)
	report.WindowDays = windowDays
	report.Sensitivity = profile.Level

	d.logger.Info("access pattern scan complete",
		zap.Int("window_days", windowDays),
		zap.String("sensitivity", profile.Level),
		zap.Int("events", len(events)),
		zap.Int("buckets", len(buckets)),
		zap.Int("anomalies", len(records)),
		zap.Int("high_risk_users", len(report.HighRiskUsers)))

	return records, report, nil
}
