// Package config carga la configuración del servicio desde variables de
// entorno. Todo tiene default razonable: el binario arranca sin env en
// modo memoria, que es lo que usan los tests y el desarrollo local.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port    string `envconfig:"PORT" default:"8080"`
	AppName string `envconfig:"APP_NAME" default:"care-tracker"`

	// Storage: DB_DSN gana si está seteado (Postgres); si no,
	// SQLITE_PATH; sin ninguno, memoria.
	DBDSN      string `envconfig:"DB_DSN"`
	SQLitePath string `envconfig:"SQLITE_PATH"`

	// El care day corre en esta zona horaria y corta a esta hora local:
	// un completado a las 2 AM cuenta para el día anterior.
	Timezone     string `envconfig:"CARE_TIMEZONE" default:"America/New_York"`
	DayResetHour int    `envconfig:"DAY_RESET_HOUR" default:"4"`

	// Reglas del coordinador de timers.
	MealTasks []string `envconfig:"MEAL_TASKS" default:"Breakfast,Dinner"`
	GatedTask string   `envconfig:"GATED_TASK" default:"Denamarin"`

	// Integraciones salientes; vacías = deshabilitadas.
	AlertWebhookURL string `envconfig:"ALERT_WEBHOOK_URL"`
	HassURL         string `envconfig:"HASS_URL"`
	HassToken       string `envconfig:"HASS_TOKEN"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Location resuelve la zona horaria configurada; cae a UTC si el nombre
// no existe en la tzdata del sistema.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
