package oura

import (
	"context"

	"github.com/daryadaneshmand/Oura-data/internal/telemetry/tracing"

	"golang.org/x/sync/errgroup"
)

// FetchCollections fetches all five collections concurrently. The first
// failure cancels the remaining fetches and fails the whole call: the
// merge never runs on partial inputs.
func (c *Client) FetchCollections(ctx context.Context, rng DateRange) (_ *Collections, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "oura.client.fetchCollections")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var cols Collections
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cols.Resilience, err = c.DailyResilience(ctx, rng)
		return err
	})
	g.Go(func() error {
		var err error
		cols.Readiness, err = c.DailyReadiness(ctx, rng)
		return err
	})
	g.Go(func() error {
		var err error
		cols.Activity, err = c.DailyActivity(ctx, rng)
		return err
	})
	g.Go(func() error {
		var err error
		cols.Sleep, err = c.Sleep(ctx, rng)
		return err
	})
	g.Go(func() error {
		var err error
		cols.Workouts, err = c.Workouts(ctx, rng)
		return err
	})

	if err = g.Wait(); err != nil {
		return nil, err
	}
	return &cols, nil
}
