package observability

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// maxDatumsPerCall is the PutMetricData batch limit
const maxDatumsPerCall = 1000

// CloudWatchAPI is the subset of the CloudWatch client used here
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchRecorder buffers metric datums and ships them on Flush.
// Lambda handlers flush once per invocation.
type CloudWatchRecorder struct {
	client    CloudWatchAPI
	namespace string
	logger    *zap.Logger
	now       func() time.Time

	mu     sync.Mutex
	buffer []types.MetricDatum
}

// NewCloudWatchRecorder creates a buffering recorder
func NewCloudWatchRecorder(client CloudWatchAPI, namespace string, logger *zap.Logger) *CloudWatchRecorder {
	return &CloudWatchRecorder{
		client:    client,
		namespace: namespace,
		logger:    logger,
		now:       time.Now,
	}
}

func (r *CloudWatchRecorder) add(d types.MetricDatum) {
	if r.client == nil {
		return
	}
	r.mu.Lock()
	r.buffer = append(r.buffer, d)
	r.mu.Unlock()
}

func dimensions(pairs ...string) []types.Dimension {
	var dims []types.Dimension
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		dims = append(dims, types.Dimension{
			Name:  aws.String(pairs[i]),
			Value: aws.String(pairs[i+1]),
		})
	}
	return dims
}

// IncCounter records a count of one
func (r *CloudWatchRecorder) IncCounter(name string, labels ...string) {
	r.add(types.MetricDatum{
		MetricName: aws.String(name),
		Dimensions: dimensions("Label", strings.Join(labels, ",")),
		Value:      aws.Float64(1),
		Unit:       types.StandardUnitCount,
		Timestamp:  aws.Time(r.now()),
	})
}

// ObserveDuration records a latency in milliseconds
func (r *CloudWatchRecorder) ObserveDuration(name string, d time.Duration, labels ...string) {
	r.add(types.MetricDatum{
		MetricName: aws.String(name),
		Dimensions: dimensions("Label", strings.Join(labels, ",")),
		Value:      aws.Float64(float64(d.Milliseconds())),
		Unit:       types.StandardUnitMilliseconds,
		Timestamp:  aws.Time(r.now()),
	})
}

// RecordHTTPRequest records request count and latency per route
func (r *CloudWatchRecorder) RecordHTTPRequest(method, route, status string, d time.Duration) {
	ts := aws.Time(r.now())
	dims := dimensions("Method", method, "Route", route, "Status", status)
	r.add(types.MetricDatum{
		MetricName: aws.String("HTTPRequests"),
		Dimensions: dims,
		Value:      aws.Float64(1),
		Unit:       types.StandardUnitCount,
		Timestamp:  ts,
	})
	r.add(types.MetricDatum{
		MetricName: aws.String("HTTPLatency"),
		Dimensions: dimensions("Method", method, "Route", route),
		Value:      aws.Float64(float64(d.Milliseconds())),
		Unit:       types.StandardUnitMilliseconds,
		Timestamp:  ts,
	})
}

// Pending returns how many datums wait for the next flush
func (r *CloudWatchRecorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buffer)
}

// Flush sends everything buffered so far. Datums from a failed batch are dropped.
func (r *CloudWatchRecorder) Flush(ctx context.Context) error {
	r.mu.Lock()
	pending := r.buffer
	r.buffer = nil
	r.mu.Unlock()

	var failed int
	for start := 0; start < len(pending); start += maxDatumsPerCall {
		end := start + maxDatumsPerCall
		if end > len(pending) {
			end = len(pending)
		}
		_, err := r.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(r.namespace),
			MetricData: pending[start:end],
		})
		if err != nil {
			failed += end - start
			r.logger.Warn("Failed to send metrics",
				zap.Int("datums", end-start),
				zap.Error(err))
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to send %d of %d metric datums", failed, len(pending))
	}
	return nil
}
