package redis

import (
	"strconv"
	"strings"
)

// Stats is the merged result of the INFO queries against a single Redis
// server.  Values are int64, float64, string, or a nested map[string]interface{}
// for lines such as `db0:keys=1,expires=0` and `cmdstat_get:calls=2,usec=5`.
type Stats map[string]interface{}

// ParseInfo turns the text output of the INFO command into a Stats record.
func ParseInfo(infoStr string) Stats {
	out := Stats{}
	for _, line := range strings.Split(infoStr, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			logger.Warnf("Non-blank/comment info line is not in form <key>:<value>: %s", line)
			continue
		}
		out[parts[0]] = parseInfoValue(parts[1])
	}
	return out
}

func parseInfoValue(v string) interface{} {
	if !strings.Contains(v, "=") {
		return parseScalar(v)
	}

	nested := map[string]interface{}{}
	for _, field := range strings.Split(v, ",") {
		kv := strings.SplitN(field, "=", 2)
		if len(kv) != 2 {
			// Not a key/value list after all, e.g. a path containing '='
			return v
		}
		nested[kv[0]] = parseScalar(kv[1])
	}
	return nested
}

func parseScalar(v string) interface{} {
	if strings.Contains(v, ".") {
		if asFloat, err := strconv.ParseFloat(v, 64); err == nil {
			return asFloat
		}
		return v
	}
	if asInt, err := strconv.ParseInt(v, 10, 64); err == nil {
		return asInt
	}
	return v
}

// Merge returns a new record holding every key of base overlaid with every
// key of override.  On collision the override value wins.
func Merge(base, override Stats) Stats {
	out := make(Stats, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
