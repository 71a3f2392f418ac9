// Package cloudwatch publishes metric batches to Amazon CloudWatch.  Each
// batch is sent in exactly one PutMetricData request and nothing is buffered
// between calls.
package cloudwatch

import (
	"context"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/signalfx/cw-redis-stats/internal/monitors/types"
	log "github.com/sirupsen/logrus"
)

// DefaultNamespace is the CloudWatch namespace the Redis metrics live under
const DefaultNamespace = "EC2/Redis"

var logger = log.WithFields(log.Fields{"component": "cloudwatch"})

// Writer sends metric batches to a single CloudWatch namespace in a single
// region
type Writer struct {
	client    cloudwatchiface.CloudWatchAPI
	namespace string
	region    string
	now       func() time.Time
}

// New creates a Writer for region.  SDK retries are disabled so a failed
// request surfaces immediately.
func New(p client.ConfigProvider, region, namespace string) *Writer {
	cw := cloudwatch.New(p, aws.NewConfig().WithRegion(region).WithMaxRetries(0))
	return NewWithClient(cw, region, namespace)
}

// NewWithClient wraps an existing CloudWatch client
func NewWithClient(c cloudwatchiface.CloudWatchAPI, region, namespace string) *Writer {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Writer{
		client:    c,
		namespace: namespace,
		region:    region,
		now:       time.Now,
	}
}

// Publish sends every value in the batch in one PutMetricData call
func (w *Writer) Publish(ctx context.Context, batch *types.MetricBatch) error {
	if len(batch.Values) == 0 {
		return errors.Errorf("refusing to publish empty %s batch", batch.Unit)
	}

	input := w.buildInput(batch)
	if err := input.Validate(); err != nil {
		return errors.Wrap(err, "invalid PutMetricData request")
	}

	if _, err := w.client.PutMetricDataWithContext(ctx, input); err != nil {
		return errors.Wrapf(err, "could not put %d %s metrics to CloudWatch namespace %s in %s",
			len(input.MetricData), batch.Unit, w.namespace, w.region)
	}

	logger.WithFields(log.Fields{
		"namespace":  w.namespace,
		"unit":       batch.Unit,
		"dimensions": batch.Dimensions,
		"count":      len(input.MetricData),
	}).Debug("Published metrics")

	return nil
}

func (w *Writer) buildInput(batch *types.MetricBatch) *cloudwatch.PutMetricDataInput {
	dims := lo.MapToSlice(batch.Dimensions, func(k, v string) *cloudwatch.Dimension {
		return &cloudwatch.Dimension{Name: aws.String(k), Value: aws.String(v)}
	})
	sort.Slice(dims, func(i, j int) bool {
		return aws.StringValue(dims[i].Name) < aws.StringValue(dims[j].Name)
	})
	ts := w.now()

	data := make([]*cloudwatch.MetricDatum, 0, len(batch.Values))
	for _, name := range batch.Names() {
		data = append(data, &cloudwatch.MetricDatum{
			MetricName: aws.String(name),
			Value:      aws.Float64(batch.Values[name]),
			Unit:       aws.String(string(batch.Unit)),
			Dimensions: dims,
			Timestamp:  aws.Time(ts),
		})
	}

	return &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(w.namespace),
		MetricData: data,
	}
}
