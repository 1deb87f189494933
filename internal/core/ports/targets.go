package ports

import (
	"context"

	"go.trai.ch/bsp/internal/core/domain"
)

// TargetResolver turns client identifiers into build targets and build targets into concrete targets.
//
//go:generate mockgen -source=targets.go -destination=mocks/mock_targets.go -package=mocks
type TargetResolver interface {
	// Resolve resolves a client identifier. It fails with domain.ErrTargetNotFound for unknown identifiers.
	Resolve(ctx context.Context, id domain.BuildTargetIdentifier) (*domain.BuildTarget, error)

	// Targets expands a build target into the concrete targets it stands for.
	Targets(ctx context.Context, bt *domain.BuildTarget) ([]*domain.Target, error)
}
