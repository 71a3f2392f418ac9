// Package core ties the stats source, aggregation, and the CloudWatch writer
// together into a single collection run.
package core

import (
	"context"

	"github.com/pkg/errors"
	"github.com/signalfx/cw-redis-stats/internal/monitors/redis"
	"github.com/signalfx/cw-redis-stats/internal/monitors/types"
	"github.com/signalfx/cw-redis-stats/pkg/core/hostid"
	log "github.com/sirupsen/logrus"
)

// StatsSource fetches the raw stats for one database index
type StatsSource interface {
	Fetch(ctx context.Context) (redis.Stats, error)
	Close() error
}

// MetricPublisher sends one batch in one request
type MetricPublisher interface {
	Publish(ctx context.Context, batch *types.MetricBatch) error
}

// Collector runs a single pass over the configured database indexes:
// fetch, aggregate, then publish the Count and Bytes batches.
type Collector struct {
	// ResolveIdentity is called once at the start of Run
	ResolveIdentity func(ctx context.Context) (*hostid.Identity, error)
	// NewSource opens a stats source for a database index
	NewSource func(db int) StatsSource
	// NewPublisher creates the publisher for the resolved region
	NewPublisher func(identity *hostid.Identity) (MetricPublisher, error)
	Groups       redis.CommandGroups
	DBs          []int
}

// Run executes the collection.  The first error aborts the run; nothing is
// retried and batches already published stay published.
func (c *Collector) Run(ctx context.Context) error {
	identity, err := c.ResolveIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "could not resolve instance identity")
	}

	logger := log.WithFields(log.Fields{
		"instanceID": identity.InstanceID,
		"region":     identity.Region,
	})
	logger.Info("Collecting Redis stats")

	publisher, err := c.NewPublisher(identity)
	if err != nil {
		return errors.Wrap(err, "could not create metric publisher")
	}

	for _, db := range c.DBs {
		if err := c.collectDB(ctx, db, publisher); err != nil {
			return errors.Wrapf(err, "collection failed for db %d", db)
		}
		logger.WithField("db", db).Info("Published Redis metrics")
	}
	return nil
}

func (c *Collector) collectDB(ctx context.Context, db int, publisher MetricPublisher) error {
	src := c.NewSource(db)
	defer func() {
		if err := src.Close(); err != nil {
			log.WithError(err).WithField("db", db).Warn("Could not close Redis connection")
		}
	}()

	stats, err := src.Fetch(ctx)
	if err != nil {
		return err
	}

	count, bytes, err := redis.Aggregate(stats, c.Groups, db)
	if err != nil {
		return err
	}

	if err := publisher.Publish(ctx, count); err != nil {
		return err
	}
	return publisher.Publish(ctx, bytes)
}
