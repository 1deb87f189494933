// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/bsp/internal/core/domain"
)

// Backend is a pluggable compiler integration applicable to certain target shapes.
//
//go:generate mockgen -source=backend.go -destination=mocks/mock_backend.go -package=mocks
type Backend interface {
	// Name returns the unique name of the backend kind.
	Name() string

	// Applicable reports whether the backend can compile the target.
	Applicable(target *domain.Target) bool

	// Extract derives the backend-specific field set from an applicable target.
	Extract(target *domain.Target) domain.FieldSet

	// Compile compiles every field set of one build target in a single invocation.
	//
	// A non-OK status in the result reports a failed compile. A returned error means the
	// backend could not be invoked at all; callers treat it as a failed compile with no outputs.
	Compile(ctx context.Context, req domain.BackendRequest) (*domain.BackendResult, error)
}
