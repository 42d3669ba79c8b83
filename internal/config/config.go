// Package config loads application configuration from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"blog/internal/apperrors"

	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds application level configuration.
type Config struct {
	AppPort string

	JWTSecret      string
	JWTAlgorithm   string
	AccessTokenTTL time.Duration
	BcryptCost     int

	StoreDriver  string
	StoreTimeout time.Duration
	MongoURI     string
	DBName       string
	DatabaseDSN  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RabbitMQURL string
}

// Load reads configuration from envFile (if present) and the environment.
// Environment variables win over the file.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Wrap(apperrors.KindConfiguration, "failed to read "+envFile, err)
		}
	}
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from v and fails if any required key is absent.
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("BCRYPT_COST", 0)
	v.SetDefault("REDIS_DB", 0)

	cfg := &Config{
		AppPort:       v.GetString("APP_PORT"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTAlgorithm:  v.GetString("JWT_ALGORITHM"),
		BcryptCost:    v.GetInt("BCRYPT_COST"),
		StoreDriver:   strings.ToLower(v.GetString("STORE_DRIVER")),
		MongoURI:      v.GetString("MONGO_URI"),
		DBName:        v.GetString("DB_NAME"),
		DatabaseDSN:   v.GetString("DATABASE_DSN"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		RabbitMQURL:   v.GetString("RABBITMQ_URL"),
	}

	required := []string{"JWT_SECRET", "JWT_ALGORITHM", "ACCESS_TOKEN_TTL"}
	switch cfg.StoreDriver {
	case DriverMongo:
		required = append(required, "MONGO_URI", "DB_NAME")
	case DriverPostgres, DriverSQLite:
		required = append(required, "DATABASE_DSN")
	case DriverMemory:
	default:
		return nil, apperrors.Configuration(fmt.Sprintf("unknown STORE_DRIVER %q", cfg.StoreDriver))
	}

	var missing []string
	for _, key := range required {
		if strings.TrimSpace(v.GetString(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.Configuration("missing required configuration: " + strings.Join(missing, ", "))
	}

	var err error
	if cfg.AccessTokenTTL, err = parseDuration(v, "ACCESS_TOKEN_TTL"); err != nil {
		return nil, err
	}
	if cfg.StoreTimeout, err = parseDuration(v, "STORE_TIMEOUT"); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil || d <= 0 {
		return 0, apperrors.Configuration(fmt.Sprintf("%s must be a positive duration such as 30m", key))
	}
	return d, nil
}
