package notify

import (
	"context"
	"errors"

	"go.trai.ch/bsp/internal/core/domain"
	"go.trai.ch/bsp/internal/core/ports"
)

var _ ports.Notifier = Multi(nil)

// Multi fans a notification out to every notifier in order.
// Every notifier is attempted; the failures are joined.
type Multi []ports.Notifier

// Notify delivers n to each notifier.
func (m Multi) Notify(ctx context.Context, n domain.Notification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
