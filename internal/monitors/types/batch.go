package types

import (
	"sort"
	"strconv"

	"github.com/samber/lo"
)

// Unit is the unit tag attached to every value in a MetricBatch
type Unit string

// The units that batches are published with
const (
	UnitCount Unit = "Count"
	UnitBytes Unit = "Bytes"
)

// DBDimension is the dimension key that scopes a batch to a single Redis
// database index
const DBDimension = "db"

// MetricBatch is a set of named values that share a unit and a set of
// dimensions and are published together in a single request.
type MetricBatch struct {
	Unit       Unit
	Dimensions map[string]string
	Values     map[string]float64
}

// NewMetricBatch creates an empty batch for the given database index
func NewMetricBatch(unit Unit, db int) *MetricBatch {
	return &MetricBatch{
		Unit:       unit,
		Dimensions: DBDimensions(db),
		Values:     map[string]float64{},
	}
}

// DBDimensions returns the dimension set for a database index
func DBDimensions(db int) map[string]string {
	return map[string]string{DBDimension: strconv.Itoa(db)}
}

// Names returns the metric names in the batch in sorted order
func (b *MetricBatch) Names() []string {
	names := lo.Keys(b.Values)
	sort.Strings(names)
	return names
}
