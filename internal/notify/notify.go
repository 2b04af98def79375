package notify

import (
	"context"

	"github.com/nimbuslabs/waitlist-service/internal/log"
)

// Severity classifies a notification for display purposes.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is one transient user-visible message.
type Notification struct {
	Title       string
	Description string
	Severity    Severity
}

// Notifier displays a notification. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Success builds a success notification.
func Success(title, description string) Notification {
	return Notification{Title: title, Description: description, Severity: SeveritySuccess}
}

// Error builds an error notification.
func Error(title, description string) Notification {
	return Notification{Title: title, Description: description, Severity: SeverityError}
}

// LogNotifier renders notifications into the structured log. It is the
// default sink when no external channel is configured.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, notification Notification) error {
	logger := log.FromContext(ctx, n.logger)

	switch notification.Severity {
	case SeverityError:
		logger.Warn("Notification",
			"title", notification.Title,
			"description", notification.Description,
			"severity", string(notification.Severity),
		)
	default:
		logger.Info("Notification",
			"title", notification.Title,
			"description", notification.Description,
			"severity", string(notification.Severity),
		)
	}

	return nil
}
