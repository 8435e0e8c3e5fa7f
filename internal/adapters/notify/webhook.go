// Package notify implementa los emisores de alertas del hogar: un
// webhook HTTP (lo consume una automatización externa que manda el SMS
// o push real) y un fallback a log para desarrollo.
package notify

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"care-tracker/internal/platform/logger"
)

// Webhook postea cada evento como JSON a una URL configurada. El envío
// es best-effort: una alerta perdida no puede frenar un completado ni
// el sweep de timers, así que los errores solo se loguean.
type Webhook struct {
	client *resty.Client
	log    logger.Logger
}

func NewWebhook(url string, log logger.Logger) *Webhook {
	c := resty.New().
		SetBaseURL(strings.TrimRight(url, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second).
		SetRetryCount(2)

	return &Webhook{
		client: c,
		log:    log.With(map[string]any{"component": "notify.webhook"}),
	}
}

type webhookEvent struct {
	Event   string   `json:"event"`
	Pet     string   `json:"pet,omitempty"`
	Label   string   `json:"label,omitempty"`
	User    string   `json:"user,omitempty"`
	Phone   string   `json:"phone,omitempty"`
	Lines   []string `json:"lines,omitempty"`
	Message string   `json:"message"`
}

func (w *Webhook) TimerExpired(ctx context.Context, petName, label string) {
	w.post(ctx, webhookEvent{
		Event:   "timer_expired",
		Pet:     petName,
		Label:   label,
		Message: petName + ": " + label,
	})
}

func (w *Webhook) NightlyReminder(ctx context.Context, lines []string) {
	if len(lines) == 0 {
		return
	}
	w.post(ctx, webhookEvent{
		Event:   "nightly_reminder",
		Lines:   lines,
		Message: "Pending today: " + strings.Join(lines, "; "),
	})
}

func (w *Webhook) CheckInConfirmation(ctx context.Context, userName, phoneNumber string) {
	w.post(ctx, webhookEvent{
		Event:   "check_in_confirmation",
		User:    userName,
		Phone:   phoneNumber,
		Message: "Alerts enabled for " + userName,
	})
}

func (w *Webhook) post(ctx context.Context, ev webhookEvent) {
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(ev).
		Post("")
	if err != nil {
		w.log.Warn("webhook post failed", map[string]any{
			"event": ev.Event,
			"error": err.Error(),
		})
		return
	}
	if resp.IsError() {
		w.log.Warn("webhook rejected event", map[string]any{
			"event":  ev.Event,
			"status": resp.StatusCode(),
		})
	}
}
