package carbon

import (
	"context"
	"time"
)

// ExternalEstimator obtains a manufacturing footprint from a third-party
// emissions service. Failures are reported in the result, never as errors.
type ExternalEstimator interface {
	// Enabled reports whether the estimator is configured (has an API key).
	// When false, callers must not call Estimate.
	Enabled() bool

	// Estimate returns the manufacturing footprint of p in kg CO2e, or an
	// unavailable result with a failure reason.
	Estimate(ctx context.Context, p Product) ExternalResult
}

// Recorder receives estimation events for metrics. A nil Recorder is allowed.
type Recorder interface {
	ObserveManufacturing(source ManufacturingSource)
	ObserveExternalFailure(reason FailureReason)
	ObserveExternalDuration(d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveManufacturing(ManufacturingSource) {}
func (nopRecorder) ObserveExternalFailure(FailureReason)     {}
func (nopRecorder) ObserveExternalDuration(time.Duration)    {}
