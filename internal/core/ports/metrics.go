package ports

import (
	"time"

	"go.trai.ch/bsp/internal/core/domain"
)

// Metrics records compile outcomes.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// ObserveBackend records one backend invocation.
	ObserveBackend(backend string, status domain.StatusCode, d time.Duration)
	// ObserveTarget records one per-target compile.
	ObserveTarget(status domain.StatusCode, d time.Duration)
	// ObserveCompile records one compile request.
	ObserveCompile(status domain.StatusCode, d time.Duration)
	// IncMergeConflict counts a merge conflict in the given scope ("target" or "batch").
	IncMergeConflict(scope string)
}
