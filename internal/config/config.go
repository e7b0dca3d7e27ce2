package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort                 string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL              string `env:"DATABASE_URL,required"`
	JWTSecret                string `env:"JWT_SECRET,required,notEmpty"`
	JWTStaffTTLMinutes       int    `env:"JWT_STAFF_TTL_MINUTES" envDefault:"60"`
	JWTCaseTTLHours          int    `env:"JWT_CASE_TTL_HOURS" envDefault:"336"`
	PairingCodeTTLMinutes    int    `env:"PAIRING_CODE_TTL_MINUTES" envDefault:"60"`
	PairingAttemptsPerWindow int    `env:"PAIRING_ATTEMPTS_PER_WINDOW" envDefault:"5"`
	PairingWindowMinutes     int    `env:"PAIRING_WINDOW_MINUTES" envDefault:"10"`
	SMTPHost                 string `env:"SMTP_HOST"`
	SMTPPort                 int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser                 string `env:"SMTP_USER"`
	SMTPPass                 string `env:"SMTP_PASS"`
	SMTPFrom                 string `env:"SMTP_FROM"`
	SMTPFromName             string `env:"SMTP_FROM_NAME" envDefault:"GGD Contact"`
	SMTPUseTLS               bool   `env:"SMTP_USE_TLS" envDefault:"false"`
	RedisAddr                string `env:"REDIS_ADDR"`
	RedisPassword            string `env:"REDIS_PASSWORD"`
	RedisDB                  int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DatabaseConfig es el subconjunto usado por herramientas que solo necesitan la base.
type DatabaseConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
}

// LoadDatabaseConfig carga solo DATABASE_URL.
func LoadDatabaseConfig() (*DatabaseConfig, error) {
	var cfg DatabaseConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) StaffTokenTTL() time.Duration {
	return time.Duration(c.JWTStaffTTLMinutes) * time.Minute
}

func (c *Config) CaseTokenTTL() time.Duration {
	return time.Duration(c.JWTCaseTTLHours) * time.Hour
}

func (c *Config) PairingCodeTTL() time.Duration {
	return time.Duration(c.PairingCodeTTLMinutes) * time.Minute
}

func (c *Config) PairingWindow() time.Duration {
	return time.Duration(c.PairingWindowMinutes) * time.Minute
}
