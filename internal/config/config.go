package config

import (
	"github.com/spf13/viper"
)

// Config holds the runtime configuration of the API.
type Config struct {
	AppPort     string
	DBDriver    string // "sqlite", "postgres" or "memory"
	DBDSN       string
	RabbitMQURL string // empty disables event publishing
}

// Load reads the configuration from environment variables with sensible
// defaults for local development.
func Load() *Config {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_DSN", "gestion_produit.db")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	return &Config{
		AppPort:     viper.GetString("APP_PORT"),
		DBDriver:    viper.GetString("DB_DRIVER"),
		DBDSN:       viper.GetString("DB_DSN"),
		RabbitMQURL: viper.GetString("RABBITMQ_URL"),
	}
}
