package core

import (
	"context"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/signalfx/cw-redis-stats/internal/core/config"
	"github.com/signalfx/cw-redis-stats/internal/core/writer/cloudwatch"
	"github.com/signalfx/cw-redis-stats/internal/monitors/redis"
	"github.com/signalfx/cw-redis-stats/pkg/core/hostid"
	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// ConfigureLogging applies the logging section of the config to the standard
// logrus logger
func ConfigureLogging(conf *config.LogConfig) {
	switch conf.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&prefixed.TextFormatter{FullTimestamp: true})
	}

	if level := conf.LogrusLevel(); level != nil {
		log.SetLevel(*level)
	}
	log.Debugf("Using log level %s", log.GetLevel().String())
}

// NewCollector wires the collector to a real Redis server, the EC2 instance
// metadata service, and CloudWatch
func NewCollector(conf *config.Config, sess *session.Session) *Collector {
	sourceConf := redis.SourceConfig{
		Host:     conf.Redis.Host,
		Port:     conf.Redis.Port,
		Password: conf.Redis.Password,
		Timeout:  conf.Redis.Timeout(),
	}
	metadata := hostid.NewMetadataClient(sess, conf.MetadataTimeout(), conf.MetadataEndpoint)

	return &Collector{
		ResolveIdentity: func(ctx context.Context) (*hostid.Identity, error) {
			return hostid.AWSIdentity(ctx, metadata)
		},
		NewSource: func(db int) StatsSource {
			return redis.NewSource(sourceConf, db)
		},
		NewPublisher: func(identity *hostid.Identity) (MetricPublisher, error) {
			return cloudwatch.New(sess, identity.Region, conf.Namespace), nil
		},
		Groups: redis.DefaultCommandGroups(),
		DBs:    conf.DBs,
	}
}
