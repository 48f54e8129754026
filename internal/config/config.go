package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server    Server    `mapstructure:"server"`
	Database  Database  `mapstructure:"database"`
	CoinGecko CoinGecko `mapstructure:"coingecko"`
	Logger    Logger    `mapstructure:"logger"`
	Simulator Simulator `mapstructure:"simulator"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// CoinGecko holds the configuration for the CoinGecko price API.
type CoinGecko struct {
	BaseURL        string  `mapstructure:"base_url"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Simulator holds the configuration for the trading simulator.
type Simulator struct {
	StartingBalance float64 `mapstructure:"starting_balance"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.dsn", "cryvia.db")
	viper.SetDefault("coingecko.base_url", "https://api.coingecko.com/api/v3")
	viper.SetDefault("coingecko.rate_limit", 10) // requests per second
	viper.SetDefault("coingecko.rate_limit_burst", 5)
	viper.SetDefault("simulator.starting_balance", 1000)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
