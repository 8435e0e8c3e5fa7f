package notify

import (
	"context"
	"strings"

	"care-tracker/internal/platform/logger"
)

// LogNotifier escribe las alertas al log. Es el notifier por defecto
// cuando no hay ALERT_WEBHOOK_URL configurada (desarrollo y tests).
type LogNotifier struct {
	log logger.Logger
}

func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{
		log: log.With(map[string]any{"component": "notify.log"}),
	}
}

func (n *LogNotifier) TimerExpired(ctx context.Context, petName, label string) {
	n.log.Info("timer expired", map[string]any{
		"pet":   petName,
		"label": label,
	})
}

func (n *LogNotifier) NightlyReminder(ctx context.Context, lines []string) {
	if len(lines) == 0 {
		return
	}
	n.log.Info("nightly reminder", map[string]any{
		"pending": strings.Join(lines, "; "),
	})
}

func (n *LogNotifier) CheckInConfirmation(ctx context.Context, userName, phoneNumber string) {
	n.log.Info("check-in confirmation", map[string]any{
		"user":  userName,
		"phone": phoneNumber,
	})
}
