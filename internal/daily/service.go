package daily

import (
	"context"
	"time"

	"github.com/daryadaneshmand/Oura-data/internal/metrics"
	"github.com/daryadaneshmand/Oura-data/internal/oura"
	"github.com/daryadaneshmand/Oura-data/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Service runs the full pipeline: validate the token, fetch the five
// collections, merge them by date and replace the snapshot. Any fetch
// failure aborts the run before anything is written.
type Service struct {
	client         *oura.Client
	store          *SnapshotStore
	metricsManager *metrics.Manager
}

func NewService(client *oura.Client, store *SnapshotStore, metricsManager *metrics.Manager) *Service {
	return &Service{
		client:         client,
		store:          store,
		metricsManager: metricsManager,
	}
}

func (s *Service) Refresh(ctx context.Context, rng oura.DateRange) (_ []Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "daily.service.refresh")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("range.start", rng.Start),
		attribute.String("range.end", rng.End),
	)

	if _, err = s.client.ValidateToken(ctx); err != nil {
		return nil, err
	}

	fetchStart := time.Now()
	cols, err := s.client.FetchCollections(ctx, rng)
	if err != nil {
		return nil, err
	}
	if s.metricsManager != nil {
		s.metricsManager.HistFetchDuration.Observe(time.Since(fetchStart).Seconds())
	}

	log.Debugf("raw response counts: resilience=%d readiness=%d activity=%d sleep=%d workouts=%d",
		len(cols.Resilience), len(cols.Readiness), len(cols.Activity), len(cols.Sleep), len(cols.Workouts))
	if len(cols.Workouts) == 0 {
		log.Warnf("workout endpoint returned 0 items, check that the token has the workout scope")
	}

	records := Merge(cols)

	if err = s.store.Write(records); err != nil {
		return nil, err
	}
	if s.metricsManager != nil {
		s.metricsManager.CounterSnapshotWrites.Inc()
	}

	log.Printf("wrote %d days to %s", len(records), s.store.Path)
	return records, nil
}
