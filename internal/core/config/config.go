// Package config loads the environment-driven configuration of the stats
// collector.
package config

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Config is the full configuration for one collection run
type Config struct {
	Redis RedisConfig
	// The Redis database indexes to collect, one pair of metric batches is
	// published per index.  Set with `REDIS_DBS` as a comma-separated list.
	DBs []int `validate:"min=1,dive,min=0" env:"REDIS_DBS"`
	// The CloudWatch namespace that metrics are published under
	Namespace string `default:"EC2/Redis" validate:"required" env:"CW_NAMESPACE"`
	// How long to wait on each EC2 instance metadata request
	MetadataTimeoutSeconds int `default:"2" validate:"min=1" env:"METADATA_TIMEOUT_SECONDS"`
	// Overrides the instance metadata endpoint.  Only useful for testing.
	MetadataEndpoint string `env:"METADATA_ENDPOINT"`
	Logging          LogConfig
}

// RedisConfig describes how to reach the Redis server
type RedisConfig struct {
	Host     string `default:"localhost" validate:"required" env:"REDIS_HOST"`
	Port     uint16 `default:"6379" validate:"required" env:"REDIS_PORT"`
	Password string `env:"REDIS_PASSWORD" neverLog:"true"`
	// Applies to dialing as well as each read and write
	TimeoutSeconds int `default:"5" validate:"min=1" env:"REDIS_TIMEOUT_SECONDS"`
}

// Timeout as a duration
func (rc *RedisConfig) Timeout() time.Duration {
	return time.Duration(rc.TimeoutSeconds) * time.Second
}

// MetadataTimeout as a duration
func (c *Config) MetadataTimeout() time.Duration {
	return time.Duration(c.MetadataTimeoutSeconds) * time.Second
}

// LogConfig contains configuration related to logging
type LogConfig struct {
	Level  string `default:"info" env:"LOG_LEVEL"`
	Format string `default:"text" validate:"oneof=text json" env:"LOG_FORMAT"`
}

// LogrusLevel returns a logrus log level based on the configured level in
// LogConfig.
func (lc *LogConfig) LogrusLevel() *log.Level {
	if lc.Level != "" {
		level, err := log.ParseLevel(lc.Level)
		if err != nil {
			log.WithFields(log.Fields{
				"level": lc.Level,
			}).Error("Invalid log level")
			return nil
		}
		return &level
	}
	return nil
}
