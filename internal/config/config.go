package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Config holds the application configuration
type Config struct {
	WeatherAPIKey     string        `envconfig:"WEATHER_API_KEY" required:"true"`
	WeatherAPIBaseURL string        `envconfig:"WEATHER_API_BASE_URL" default:"https://api.openweathermap.org/data/2.5/weather"`
	WeatherAPITimeout time.Duration `envconfig:"WEATHER_API_TIMEOUT" default:"10s"`

	StoreDriver string `envconfig:"STORE_DRIVER" default:"sqlite"`
	DBPath      string `envconfig:"DB_PATH" default:"weather_data.db"`
	MongoURI    string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDBName string `envconfig:"MONGO_DB_NAME" default:"weather"`

	HistoryLimit int `envconfig:"HISTORY_LIMIT" default:"10"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`
}

// Load reads the optional .env file and decodes the environment into a Config
func Load() (*Config, error) {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: expected %q or %q", c.StoreDriver, DriverSQLite, DriverMongo)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	if c.WeatherAPITimeout <= 0 {
		return fmt.Errorf("WEATHER_API_TIMEOUT must be positive, got %s", c.WeatherAPITimeout)
	}
	return nil
}
