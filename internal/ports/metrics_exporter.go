package ports

import "context"

// MetricsExporter mirrors live capture counters to an external metrics
// backend. Export failures are the exporter's problem; callers never block
// the capture path on it.
type MetricsExporter interface {
	RecordFlush(ctx context.Context, keystrokes, clicks int64)
	RecordFlushError(ctx context.Context)
	Close(ctx context.Context) error
}
