package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"github.com/signalfx/cw-redis-stats/internal/core/config/validation"
	"github.com/spf13/viper"
)

// Environment variable names
const (
	EnvRedisHost       = "REDIS_HOST"
	EnvRedisPort       = "REDIS_PORT"
	EnvRedisPassword   = "REDIS_PASSWORD"
	EnvRedisTimeout    = "REDIS_TIMEOUT_SECONDS"
	EnvRedisDBs        = "REDIS_DBS"
	EnvNamespace       = "CW_NAMESPACE"
	EnvMetadataTimeout = "METADATA_TIMEOUT_SECONDS"
	EnvMetadataURL     = "METADATA_ENDPOINT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
)

const defaultDBs = "0"

// Load reads the configuration from the process environment
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	return LoadFrom(v)
}

// LoadFrom builds the configuration from the given viper instance, filling
// in defaults for anything unset and validating the result.
func LoadFrom(v *viper.Viper) (*Config, error) {
	conf := &Config{}
	if err := defaults.Set(conf); err != nil {
		panic(fmt.Sprintf("Config defaults are wrong types: %s", err))
	}

	setString(v, EnvRedisHost, &conf.Redis.Host)
	setString(v, EnvRedisPassword, &conf.Redis.Password)
	setString(v, EnvNamespace, &conf.Namespace)
	setString(v, EnvMetadataURL, &conf.MetadataEndpoint)
	setString(v, EnvLogLevel, &conf.Logging.Level)
	setString(v, EnvLogFormat, &conf.Logging.Format)

	if v.IsSet(EnvRedisPort) {
		port, err := strconv.ParseUint(strings.TrimSpace(v.GetString(EnvRedisPort)), 10, 16)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s", EnvRedisPort)
		}
		conf.Redis.Port = uint16(port)
	}

	var err error
	if conf.Redis.TimeoutSeconds, err = intOrDefault(v, EnvRedisTimeout, conf.Redis.TimeoutSeconds); err != nil {
		return nil, err
	}
	if conf.MetadataTimeoutSeconds, err = intOrDefault(v, EnvMetadataTimeout, conf.MetadataTimeoutSeconds); err != nil {
		return nil, err
	}

	dbs := defaultDBs
	if v.IsSet(EnvRedisDBs) {
		dbs = v.GetString(EnvRedisDBs)
	}
	if conf.DBs, err = ParseDBs(dbs); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", EnvRedisDBs)
	}

	if err := validation.ValidateStruct(conf); err != nil {
		return nil, err
	}
	if conf.Logging.LogrusLevel() == nil {
		return nil, errors.Errorf("invalid %s %q", EnvLogLevel, conf.Logging.Level)
	}

	return conf, nil
}

// ParseDBs parses a comma-separated list of non-negative database indexes.
// Duplicates are kept and collected once per occurrence.
func ParseDBs(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		db, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.Errorf("database index %q is not an integer", part)
		}
		if db < 0 {
			return nil, errors.Errorf("database index %d is negative", db)
		}
		out = append(out, db)
	}
	return out, nil
}

func setString(v *viper.Viper, key string, target *string) {
	if v.IsSet(key) {
		*target = v.GetString(key)
	}
}

func intOrDefault(v *viper.Viper, key string, def int) (int, error) {
	if !v.IsSet(key) {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", key)
	}
	return n, nil
}
