package resources

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Notification kinds.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// Notification is the UI-level outcome of a mutation.
type Notification struct {
	ID      string    `json:"id"`
	Kind    string    `json:"kind"`
	Source  string    `json:"source"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives mutation outcomes. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier builds a Notifier over the given logger.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify implements Notifier.
func (l *LogNotifier) Notify(n Notification) {
	if n.Kind == NoticeError {
		l.log.Error("mutation failed",
			slog.String("id", n.ID),
			slog.String("source", n.Source),
			slog.String("message", n.Message),
		)
		return
	}
	l.log.Info("mutation succeeded",
		slog.String("id", n.ID),
		slog.String("source", n.Source),
		slog.String("message", n.Message),
	)
}

func success(source, message string) Notification {
	return Notification{
		ID:      uuid.NewString(),
		Kind:    NoticeSuccess,
		Source:  source,
		Message: message,
		At:      time.Now(),
	}
}

func failure(source, message string) Notification {
	return Notification{
		ID:      uuid.NewString(),
		Kind:    NoticeError,
		Source:  source,
		Message: message,
		At:      time.Now(),
	}
}
