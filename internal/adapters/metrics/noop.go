package metrics

import (
	"time"

	"go.trai.ch/bsp/internal/core/domain"
	"go.trai.ch/bsp/internal/core/ports"
)

var _ ports.Metrics = NoopRecorder{}

// NoopRecorder is a ports.Metrics that does nothing (default when metrics are not written).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBackend(string, domain.StatusCode, time.Duration) {}
func (NoopRecorder) ObserveTarget(domain.StatusCode, time.Duration)          {}
func (NoopRecorder) ObserveCompile(domain.StatusCode, time.Duration)         {}
func (NoopRecorder) IncMergeConflict(string)                                 {}
