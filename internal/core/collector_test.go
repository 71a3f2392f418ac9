package core

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/signalfx/cw-redis-stats/internal/core/config"
	"github.com/signalfx/cw-redis-stats/internal/monitors/redis"
	"github.com/signalfx/cw-redis-stats/internal/monitors/types"
	"github.com/signalfx/cw-redis-stats/pkg/core/hostid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	stats  redis.Stats
	err    error
	closed bool
}

func (f *fakeSource) Fetch(context.Context) (redis.Stats, error) {
	return f.stats, f.err
}

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

type recordingPublisher struct {
	batches []*types.MetricBatch
	failOn  int
}

func (p *recordingPublisher) Publish(_ context.Context, b *types.MetricBatch) error {
	p.batches = append(p.batches, b)
	if p.failOn > 0 && len(p.batches) == p.failOn {
		return errors.New("AccessDenied")
	}
	return nil
}

func statsFor(dbs ...int) redis.Stats {
	s := redis.Stats{
		"connected_clients":         int64(5),
		"evicted_keys":              int64(0),
		"expired_keys":              int64(2),
		"keyspace_hits":             int64(100),
		"keyspace_misses":           int64(10),
		"used_memory":               int64(2048),
		"instantaneous_ops_per_sec": int64(7),
		"instantaneous_input_kbps":  1.5,
		"instantaneous_output_kbps": 0.5,
		"cmdstat_get":               map[string]interface{}{"calls": int64(50)},
	}
	for _, db := range dbs {
		s["db"+strconv.Itoa(db)] = map[string]interface{}{"keys": int64(10 + db)}
	}
	return s
}

type harness struct {
	collector *Collector
	publisher *recordingPublisher
	sources   map[int]*fakeSource
	region    string
}

func newHarness(dbs []int, stats redis.Stats) *harness {
	h := &harness{
		publisher: &recordingPublisher{},
		sources:   map[int]*fakeSource{},
	}
	h.collector = &Collector{
		ResolveIdentity: func(context.Context) (*hostid.Identity, error) {
			return &hostid.Identity{InstanceID: "i-1", AvailabilityZone: "us-east-1a", Region: "us-east-1"}, nil
		},
		NewSource: func(db int) StatsSource {
			src := &fakeSource{stats: stats}
			h.sources[db] = src
			return src
		},
		NewPublisher: func(identity *hostid.Identity) (MetricPublisher, error) {
			h.region = identity.Region
			return h.publisher, nil
		},
		Groups: redis.DefaultCommandGroups(),
		DBs:    dbs,
	}
	return h
}

func TestRunPublishesTwoBatchesPerDB(t *testing.T) {
	h := newHarness([]int{0, 2}, statsFor(0, 2))

	require.NoError(t, h.collector.Run(context.Background()))

	assert.Equal(t, "us-east-1", h.region)
	require.Len(t, h.publisher.batches, 4)

	expectedOrder := []struct {
		unit types.Unit
		db   string
	}{
		{types.UnitCount, "0"},
		{types.UnitBytes, "0"},
		{types.UnitCount, "2"},
		{types.UnitBytes, "2"},
	}
	for i, exp := range expectedOrder {
		b := h.publisher.batches[i]
		assert.Equal(t, exp.unit, b.Unit)
		assert.Equal(t, map[string]string{"db": exp.db}, b.Dimensions)
	}

	assert.Equal(t, 10.0, h.publisher.batches[0].Values["CurrItems"])
	assert.Equal(t, 12.0, h.publisher.batches[2].Values["CurrItems"])
	assert.Equal(t, 50.0, h.publisher.batches[0].Values["GetTypeCmds"])
	assert.Equal(t, 2048.0, h.publisher.batches[1].Values["BytesUsedForCache"])

	assert.True(t, h.sources[0].closed)
	assert.True(t, h.sources[2].closed)
}

func TestRunStopsOnMalformedStats(t *testing.T) {
	stats := statsFor(0)
	delete(stats, "connected_clients")
	h := newHarness([]int{0, 1}, stats)

	err := h.collector.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db 0")
	assert.Empty(t, h.publisher.batches)
	assert.NotContains(t, h.sources, 1)
	assert.True(t, h.sources[0].closed)
}

func TestRunStopsOnFetchError(t *testing.T) {
	h := newHarness([]int{0}, nil)
	h.collector.NewSource = func(db int) StatsSource {
		src := &fakeSource{err: errors.New("connection refused")}
		h.sources[db] = src
		return src
	}

	err := h.collector.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Empty(t, h.publisher.batches)
}

func TestRunStopsOnPublishError(t *testing.T) {
	h := newHarness([]int{0, 1}, statsFor(0, 1))
	h.publisher.failOn = 1

	err := h.collector.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")
	// The Bytes batch is never attempted once the Count batch fails
	assert.Len(t, h.publisher.batches, 1)
	assert.NotContains(t, h.sources, 1)
}

func TestRunStopsOnIdentityError(t *testing.T) {
	h := newHarness([]int{0}, statsFor(0))
	h.collector.ResolveIdentity = func(context.Context) (*hostid.Identity, error) {
		return nil, errors.New("no route to host")
	}

	err := h.collector.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instance identity")
	assert.Empty(t, h.sources)
}

func TestConfigureLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.GetLevel())
	defer logrus.SetFormatter(logrus.StandardLogger().Formatter)

	ConfigureLogging(&config.LogConfig{Level: "debug", Format: "json"})
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)
}
