package redis

import (
	"fmt"
	"strconv"

	"github.com/signalfx/cw-redis-stats/internal/monitors/types"
)

// MissingFieldError is returned when a field that every INFO response should
// contain is absent or not numeric.  It means the record is malformed or comes
// from an incompatible server.
type MissingFieldError struct {
	Field  string
	Reason string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("redis stats field %q %s", e.Field, e.Reason)
}

// Aggregate reshapes a raw stats record for database db into the Count batch
// (pass-through fields plus one total per command family) and the Bytes batch.
//
// Command families are summed from the sparse `cmdstat_*` entries, so a
// command that was never executed contributes zero.  The pass-through fields
// are always present on a healthy server and their absence is an error.
func Aggregate(stats Stats, groups CommandGroups, db int) (count *types.MetricBatch, bytes *types.MetricBatch, err error) {
	count = types.NewMetricBatch(types.UnitCount, db)
	for _, pt := range passThrough {
		v, err := numericField(stats, pt.field)
		if err != nil {
			return nil, nil, err
		}
		count.Values[pt.metric] = v
	}

	keyspace := "db" + strconv.Itoa(db)
	items, err := nestedNumericField(stats, keyspace, keysField)
	if err != nil {
		return nil, nil, err
	}
	count.Values[currItemsMetric] = items

	for family, cmds := range groups {
		total, err := familyTotal(stats, cmds)
		if err != nil {
			return nil, nil, err
		}
		count.Values[family] = float64(total)
	}

	bytes = types.NewMetricBatch(types.UnitBytes, db)
	usedMemory, err := numericField(stats, usedMemoryField)
	if err != nil {
		return nil, nil, err
	}
	bytes.Values[bytesUsedForCacheMetric] = usedMemory

	return count, bytes, nil
}

// familyTotal sums the call counts of every command in cmds that has an
// entry in stats.
func familyTotal(stats Stats, cmds CommandSet) (int64, error) {
	var total int64
	for cmd := range cmds {
		key := commandStatPrefix + cmd
		if _, ok := stats[key]; !ok {
			continue
		}
		calls, err := nestedNumericField(stats, key, callsField)
		if err != nil {
			return 0, err
		}
		total += int64(calls)
	}
	return total, nil
}

func numericField(stats Stats, field string) (float64, error) {
	v, ok := stats[field]
	if !ok {
		return 0, &MissingFieldError{Field: field, Reason: "is missing"}
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, &MissingFieldError{Field: field, Reason: fmt.Sprintf("is not numeric: %v", v)}
	}
	return f, nil
}

func nestedNumericField(stats Stats, field, subField string) (float64, error) {
	v, ok := stats[field]
	if !ok {
		return 0, &MissingFieldError{Field: field, Reason: "is missing"}
	}
	nested, ok := v.(map[string]interface{})
	if !ok {
		return 0, &MissingFieldError{Field: field, Reason: fmt.Sprintf("is not a key/value list: %v", v)}
	}
	f, err := numericField(nested, subField)
	if mfe, ok := err.(*MissingFieldError); ok {
		mfe.Field = field + "." + subField
	}
	return f, err
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
