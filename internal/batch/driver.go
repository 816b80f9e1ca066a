// Package batch applies the impact pipeline to an ordered collection of
// products, pacing external requests and reporting progress.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/ecoshop-impact/internal/carbon"
)

const (
	// DefaultDelay is the pause between consecutive manufacturing estimates.
	DefaultDelay = 200 * time.Millisecond

	// DefaultProgressEvery is how many products pass between progress reports.
	DefaultProgressEvery = 5
)

// DelayPolicy controls when the inter-request delay applies.
type DelayPolicy string

const (
	// DelayAlways sleeps between every pair of manufacturing estimates,
	// including after a local fallback that made no request.
	DelayAlways DelayPolicy = "always"

	// DelayExternalOnly sleeps only after an estimate that made a network request.
	DelayExternalOnly DelayPolicy = "external-only"
)

// ParseDelayPolicy parses a policy name; empty selects DelayAlways.
func ParseDelayPolicy(s string) (DelayPolicy, error) {
	switch DelayPolicy(s) {
	case "", DelayAlways:
		return DelayAlways, nil
	case DelayExternalOnly:
		return DelayExternalOnly, nil
	default:
		return "", fmt.Errorf("unknown delay policy %q (want %q or %q)", s, DelayAlways, DelayExternalOnly)
	}
}

// Recorder receives per-product outcomes for metrics. A nil Recorder is allowed.
type Recorder interface {
	ObserveProduct(status string)
}

// Product outcome labels passed to Recorder.
const (
	StatusOK        = "ok"
	StatusInvalid   = "invalid"
	StatusCancelled = "cancelled"
)

// Options configures a Driver.
type Options struct {
	// Delay is the pause between consecutive manufacturing estimates.
	Delay time.Duration

	// DelayPolicy selects when Delay applies (default DelayAlways).
	DelayPolicy DelayPolicy

	// ProgressEvery is the progress reporting interval in products
	// (default DefaultProgressEvery).
	ProgressEvery int

	// UseExternal allows the manufacturing estimator to call the external API.
	UseExternal bool

	// OnProgress, if set, is called at every progress report.
	OnProgress func(ProgressSnapshot)

	// Recorder, if set, receives per-product outcomes.
	Recorder Recorder
}

// Driver runs the impact pipeline over a batch of products. It is
// single-threaded: manufacturing estimates run one at a time in input order.
type Driver struct {
	calc   *carbon.Calculator
	opts   Options
	logger zerolog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewDriver creates a Driver.
func NewDriver(calc *carbon.Calculator, opts Options, logger zerolog.Logger) *Driver {
	if opts.DelayPolicy == "" {
		opts.DelayPolicy = DelayAlways
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = DefaultProgressEvery
	}
	if opts.Delay < 0 {
		opts.Delay = 0
	}
	return &Driver{
		calc:   calc,
		opts:   opts,
		logger: logger,
		sleep:  sleepContext,
	}
}

// Run computes one ImpactResult per product; out[i] always corresponds to
// products[i]. Invalid products keep their slot with Err set and do not
// stop the batch. If ctx is cancelled, Run returns the results computed so
// far together with ctx.Err(); unfinished slots carry the same error.
func (d *Driver) Run(ctx context.Context, products []carbon.Product) ([]carbon.ImpactResult, error) {
	results := make([]carbon.ImpactResult, len(products))

	valid := 0
	for i, p := range products {
		if err := p.Validate(); err != nil {
			d.logger.Warn().
				Int("row", i).
				Str("product_id", p.ID).
				Err(err).
				Msg("skipping invalid product")
			results[i] = carbon.ImpactResult{Product: p, Err: err}
			d.observe(StatusInvalid)
			continue
		}
		results[i] = d.calc.LocalScores(p)
		valid++
	}
	d.logger.Info().
		Int("products", len(products)).
		Int("valid", valid).
		Msg("materials and transport footprints calculated")

	if err := d.runManufacturing(ctx, results, valid); err != nil {
		return results, err
	}

	for i := range results {
		if results[i].Err != nil {
			continue
		}
		d.calc.Finalize(&results[i])
		d.observe(StatusOK)
	}
	d.logger.Info().Int("products", len(products)).Msg("totals and badges assigned")

	return results, nil
}

func (d *Driver) runManufacturing(ctx context.Context, results []carbon.ImpactResult, valid int) error {
	progress := NewProgress(valid)
	manufacturing := d.calc.Manufacturing()
	d.logger.Info().
		Int("products", valid).
		Bool("external", d.opts.UseExternal && manufacturing.ExternalEnabled()).
		Dur("delay", d.opts.Delay).
		Str("delay_policy", string(d.opts.DelayPolicy)).
		Msg("calculating manufacturing footprints")

	started := false
	prevCalled := false
	for i := range results {
		if results[i].Err != nil {
			continue
		}

		if started && d.shouldDelay(prevCalled) {
			if err := d.sleep(ctx, d.opts.Delay); err != nil {
				d.cancelFrom(results, i, err)
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			d.cancelFrom(results, i, err)
			return err
		}

		est := manufacturing.Estimate(ctx, results[i].Product, d.opts.UseExternal)
		carbon.SetManufacturing(&results[i], est)
		progress.Add(est.Source == carbon.SourceExternal)
		started = true
		prevCalled = est.Called

		snap := progress.Snapshot()
		if snap.Processed%d.opts.ProgressEvery == 0 || snap.Processed == snap.Total {
			d.report(snap)
		}
	}
	return nil
}

func (d *Driver) shouldDelay(prevCalled bool) bool {
	if d.opts.Delay <= 0 {
		return false
	}
	if d.opts.DelayPolicy == DelayExternalOnly {
		return prevCalled
	}
	return true
}

// cancelFrom marks every unfinished valid slot from index start onward.
func (d *Driver) cancelFrom(results []carbon.ImpactResult, start int, err error) {
	cancelled := 0
	for i := start; i < len(results); i++ {
		if results[i].Err == nil && results[i].ManufacturingKg == nil {
			results[i].Err = err
			cancelled++
			d.observe(StatusCancelled)
		}
	}
	for i := 0; i < start; i++ {
		if results[i].Err == nil {
			d.calc.Finalize(&results[i])
			d.observe(StatusOK)
		}
	}
	d.logger.Warn().Err(err).Int("cancelled", cancelled).Msg("batch interrupted")
}

func (d *Driver) report(snap ProgressSnapshot) {
	d.logger.Info().
		Int("processed", snap.Processed).
		Int("total", snap.Total).
		Int("external", snap.External).
		Float64("percent", snap.PercentComplete).
		Dur("elapsed", snap.Elapsed).
		Msgf("progress: %d/%d products", snap.Processed, snap.Total)
	if d.opts.OnProgress != nil {
		d.opts.OnProgress(snap)
	}
}

func (d *Driver) observe(status string) {
	if d.opts.Recorder != nil {
		d.opts.Recorder.ObserveProduct(status)
	}
}

// sleepContext pauses for dur or until ctx is done.
func sleepContext(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return nil
	}
	timer := time.NewTimer(dur)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
