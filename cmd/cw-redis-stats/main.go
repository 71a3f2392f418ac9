// Command cw-redis-stats samples a Redis server once and publishes the
// results to CloudWatch.  Run it from cron or a systemd timer.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/signalfx/cw-redis-stats/internal/core"
	"github.com/signalfx/cw-redis-stats/internal/core/config"
	log "github.com/sirupsen/logrus"

	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Version of the collector, set at build time
var Version string

func init() {
	log.SetFormatter(&prefixed.TextFormatter{})
	log.SetLevel(log.InfoLevel)
	log.SetOutput(os.Stdout)
}

func main() {
	os.Exit(run())
}

func run() int {
	conf, err := config.Load()
	if err != nil {
		log.WithError(err).Error("Invalid configuration")
		return 1
	}
	core.ConfigureLogging(&conf.Logging)

	log.WithFields(log.Fields{
		"version": Version,
		"host":    conf.Redis.Host,
		"port":    conf.Redis.Port,
		"dbs":     conf.DBs,
	}).Debug("Starting cw-redis-stats")

	sess, err := session.NewSession()
	if err != nil {
		log.WithError(err).Error("Could not create AWS session")
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := core.NewCollector(conf, sess).Run(ctx); err != nil {
		log.WithError(err).Error("Redis stats collection failed")
		return 1
	}
	return 0
}
