package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInfo = "# Server\r\n" +
	"redis_version:7.2.4\r\n" +
	"executable:/usr/bin/redis-server\r\n" +
	"\r\n" +
	"# Clients\r\n" +
	"connected_clients:5\r\n" +
	"# Stats\r\n" +
	"instantaneous_input_kbps:1.50\r\n" +
	"keyspace_hits:100\r\n" +
	"bogus line\r\n" +
	"# Keyspace\r\n" +
	"db0:keys=42,expires=1,avg_ttl=0\r\n"

const sampleCommandStats = "# Commandstats\r\n" +
	"cmdstat_get:calls=50,usec=120,usec_per_call=2.40,rejected_calls=0,failed_calls=0\r\n" +
	"cmdstat_set:calls=20,usec=80,usec_per_call=4.00\r\n"

func TestParseInfo(t *testing.T) {
	stats := ParseInfo(sampleInfo)

	assert.Equal(t, "7.2.4", stats["redis_version"])
	assert.Equal(t, "/usr/bin/redis-server", stats["executable"])
	assert.Equal(t, int64(5), stats["connected_clients"])
	assert.Equal(t, 1.5, stats["instantaneous_input_kbps"])
	assert.Equal(t, int64(100), stats["keyspace_hits"])
	assert.NotContains(t, stats, "bogus line")

	db0, ok := stats["db0"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, int64(42), db0["keys"])
	assert.Equal(t, int64(1), db0["expires"])
}

func TestParseCommandStats(t *testing.T) {
	stats := ParseInfo(sampleCommandStats)
	require.Len(t, stats, 2)

	get, ok := stats["cmdstat_get"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, int64(50), get["calls"])
	assert.Equal(t, 2.4, get["usec_per_call"])
}

func TestParseInfoValueNotKeyValueList(t *testing.T) {
	stats := ParseInfo("config_file:/etc/redis/a=b,c.conf\n")
	assert.Equal(t, "/etc/redis/a=b,c.conf", stats["config_file"])
}

func TestMerge(t *testing.T) {
	base := Stats{"a": int64(1), "shared": "base"}
	override := Stats{"b": int64(2), "shared": "override"}

	merged := Merge(base, override)

	assert.Equal(t, Stats{"a": int64(1), "b": int64(2), "shared": "override"}, merged)
	// Inputs are left untouched
	assert.Equal(t, "base", base["shared"])
	assert.Len(t, override, 2)
}
