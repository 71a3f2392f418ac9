// Package redis reads runtime statistics from a Redis server and reshapes
// them into the metric batches that get published to CloudWatch.
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

var logger = log.WithFields(log.Fields{"component": "redis"})

const commandStatsSection = "commandstats"

// SourceConfig holds the connection settings for a Redis server
type SourceConfig struct {
	Host     string
	Port     uint16
	Password string
	Timeout  time.Duration
}

// Addr is the host:port dial address
func (c SourceConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// infoClient is the subset of the go-redis client that the source uses
type infoClient interface {
	Info(ctx context.Context, section ...string) *redis.StringCmd
	Close() error
}

// Source fetches the raw stats for a single database index
type Source struct {
	client infoClient
	addr   string
	db     int
}

// NewSource creates a source bound to the given database index.  No
// connection is made until Fetch is called.
func NewSource(conf SourceConfig, db int) *Source {
	client := redis.NewClient(&redis.Options{
		Addr:         conf.Addr(),
		Password:     conf.Password,
		DB:           db,
		DialTimeout:  conf.Timeout,
		ReadTimeout:  conf.Timeout,
		WriteTimeout: conf.Timeout,
		MaxRetries:   -1,
		PoolSize:     1,
	})

	return &Source{
		client: client,
		addr:   conf.Addr(),
		db:     db,
	}
}

// Fetch runs INFO and INFO commandstats and returns their merged result, with
// the command stats taking precedence on key collisions.
func (s *Source) Fetch(ctx context.Context) (Stats, error) {
	general, err := s.info(ctx)
	if err != nil {
		return nil, err
	}

	cmdStats, err := s.info(ctx, commandStatsSection)
	if err != nil {
		return nil, err
	}

	logger.WithFields(log.Fields{
		"addr":         s.addr,
		"db":           s.db,
		"fields":       len(general),
		"commandStats": len(cmdStats),
	}).Debug("Fetched Redis stats")

	return Merge(general, cmdStats), nil
}

func (s *Source) info(ctx context.Context, section ...string) (Stats, error) {
	infoStr, err := s.client.Info(ctx, section...).Result()
	if err != nil {
		query := strings.TrimSpace("INFO " + strings.Join(section, " "))
		return nil, errors.Wrapf(err, "could not run %s against Redis at %s (db %d)", query, s.addr, s.db)
	}
	return ParseInfo(infoStr), nil
}

// Close releases the underlying connection
func (s *Source) Close() error {
	return s.client.Close()
}
