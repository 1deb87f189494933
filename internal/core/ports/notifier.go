package ports

import (
	"context"

	"go.trai.ch/bsp/internal/core/domain"
)

// Notifier delivers task notifications to the client.
//
//go:generate mockgen -source=notifier.go -destination=mocks/mock_notifier.go -package=mocks
type Notifier interface {
	// Notify pushes a notification. Delivery is best effort: callers log a returned error
	// and carry on.
	Notify(ctx context.Context, n domain.Notification) error
}
