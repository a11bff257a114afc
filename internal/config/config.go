// Package config loads the console app's configuration from the process
// environment.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds the settings the console app needs. Both values are required;
// no defaults are substituted for either.
type Config struct {
	// ConnectionString is the MailGate connection descriptor.
	ConnectionString string `env:"MAILGATE_CONNECTION_STRING"`
	// SenderAddress is the verified sender address to submit from.
	SenderAddress string `env:"MAILGATE_SENDER_ADDRESS"`
}

// Load reads the configuration from the environment, after loading a local
// .env file when one exists. A missing setting is reported with an example
// value so the operator can fix it without consulting the docs.
func Load() (*Config, error) {
	// Ignore the error: a missing .env file simply means plain env vars.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if cfg.ConnectionString == "" {
		return nil, fmt.Errorf("environment variable MAILGATE_CONNECTION_STRING is not set\n" +
			`  example: export MAILGATE_CONNECTION_STRING="endpoint=https://<resource>.mailgate.net;accesskey=<access-key>"`)
	}
	if cfg.SenderAddress == "" {
		return nil, fmt.Errorf("environment variable MAILGATE_SENDER_ADDRESS is not set\n" +
			`  example: export MAILGATE_SENDER_ADDRESS="DoNotReply@<resource>.mailgate.net"`)
	}

	return &cfg, nil
}
