// Package notify provides notification sinks for compile task events.
package notify

import (
	"context"
	"fmt"

	"go.trai.ch/bsp/internal/core/domain"
	"go.trai.ch/bsp/internal/core/ports"
)

var _ ports.Notifier = (*Log)(nil)

// Log implements ports.Notifier by writing one line per notification to a logger.
type Log struct {
	logger ports.Logger
}

// NewLog creates a new Log notifier.
func NewLog(logger ports.Logger) *Log {
	return &Log{logger: logger}
}

// Notify logs n. Finished tasks that failed are logged as warnings.
func (l *Log) Notify(_ context.Context, n domain.Notification) error {
	switch p := n.(type) {
	case domain.TaskStartParams:
		l.logger.Info(p.Data.Target.URI + " started")
	case domain.TaskFinishParams:
		msg := fmt.Sprintf("%s finished: %s", p.Data.Target.URI, p.Status)
		if p.Data.Time != nil {
			msg += fmt.Sprintf(" (%dms)", *p.Data.Time)
		}
		if p.Status.OK() {
			l.logger.Info(msg)
		} else {
			l.logger.Warn(msg)
		}
	default:
		l.logger.Info(n.Method())
	}
	return nil
}
