// Package hass habla con Home Assistant para manejar la luz de estado
// física del hogar (el LED del switch de la escalera).
package hass

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"care-tracker/internal/platform/logger"
)

// Scripts de Home Assistant que pintan el LED. Verde pulsante = algo
// venció, amarillo fijo = timer corriendo, clear = apagado.
const (
	scriptExpired = "downstairs_spotlight_led_green_pulse"
	scriptRunning = "downstairs_spotlight_led_yellow_solid"
	scriptClear   = "downstairs_spotlight_led_clear"
)

// StatusLight dispara scripts de HASS vía su REST API. Sin token
// configurado se vuelve un no-op con warning: la luz es un extra, no
// puede tumbar el servicio.
type StatusLight struct {
	client  *resty.Client
	log     logger.Logger
	enabled bool
}

func NewStatusLight(baseURL, token string, log logger.Logger) *StatusLight {
	l := log.With(map[string]any{"component": "hass.statuslight"})

	enabled := baseURL != "" && token != ""
	if !enabled {
		l.Warn("home assistant not configured, status light disabled", nil)
	}

	c := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetTimeout(5 * time.Second)

	return &StatusLight{client: c, log: l, enabled: enabled}
}

func (s *StatusLight) Expired(ctx context.Context) error {
	return s.turnOn(ctx, scriptExpired)
}

func (s *StatusLight) Running(ctx context.Context) error {
	return s.turnOn(ctx, scriptRunning)
}

func (s *StatusLight) Clear(ctx context.Context) error {
	return s.turnOn(ctx, scriptClear)
}

func (s *StatusLight) turnOn(ctx context.Context, script string) error {
	if !s.enabled {
		return nil
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"entity_id": "script." + script}).
		Post("/api/services/script/turn_on")
	if err != nil {
		s.log.Warn("hass call failed", map[string]any{
			"script": script,
			"error":  err.Error(),
		})
		return err
	}
	if resp.IsError() {
		s.log.Warn("hass rejected call", map[string]any{
			"script": script,
			"status": resp.StatusCode(),
		})
	}
	return nil
}
