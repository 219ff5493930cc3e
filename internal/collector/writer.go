package collector

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/emiliopalmerini/focusd/internal/domain"
	"github.com/emiliopalmerini/focusd/internal/ports"
)

// Writer turns detached payloads into durable upserts. One failing subject
// never prevents the remaining counters in the same payload from being
// written; failed deltas are logged and dropped.
type Writer struct {
	minutes ports.MinuteStatRepository
	raws    ports.RawEventRepository
	metrics ports.MetricsExporter
	logger  *slog.Logger
}

func NewWriter(minutes ports.MinuteStatRepository, raws ports.RawEventRepository, metrics ports.MetricsExporter, logger *slog.Logger) *Writer {
	return &Writer{minutes: minutes, raws: raws, metrics: metrics, logger: logger}
}

// Write persists one payload. The accumulator detaches each delta exactly
// once, so the additive upserts never double count.
func (w *Writer) Write(ctx context.Context, p *Payload) {
	var keystrokes, clicks int64
	for _, st := range p.Stats {
		if err := w.minutes.Upsert(ctx, st); err != nil {
			w.logger.Error("minute upsert failed, dropping delta",
				slog.Int64("minute", st.Minute),
				slog.Int64("subject_id", st.SubjectID),
				slog.Any("error", err))
			w.metrics.RecordFlushError(ctx)
			continue
		}
		keystrokes += st.Keystrokes
		clicks += st.Clicks
	}

	ts := time.Unix(p.Minute, 0)
	if p.ClickOverflow {
		w.logger.Warn("click heatmap buffer capped", slog.Int64("minute", p.Minute), slog.Int("cap", ClickSampleCap))
	}
	if len(p.Keycodes) > 0 {
		w.appendRaw(ctx, ts, domain.RawKeycodeHistogram, p.Keycodes)
	}
	if len(p.ClickSamples) > 0 {
		w.appendRaw(ctx, ts, domain.RawClickPositions, p.ClickSamples)
	}
	if p.ContextSwitches > 0 {
		w.appendRaw(ctx, ts, domain.RawContextSwitches, map[string]int64{"count": p.ContextSwitches})
	}

	w.metrics.RecordFlush(ctx, keystrokes, clicks)
}

// AppendEvent records a single auxiliary raw event outside the minute cycle,
// such as system transitions and meeting boundaries.
func (w *Writer) AppendEvent(ctx context.Context, ts time.Time, typ domain.RawEventType, payload any) {
	w.appendRaw(ctx, ts, typ, payload)
}

func (w *Writer) appendRaw(ctx context.Context, ts time.Time, typ domain.RawEventType, payload any) {
	blob, err := json.Marshal(payload)
	if err != nil {
		w.logger.Error("marshal raw event payload failed", slog.String("type", string(typ)), slog.Any("error", err))
		return
	}
	ev := domain.RawEvent{
		ID:        uuid.NewString(),
		Timestamp: ts,
		Type:      typ,
		Payload:   blob,
	}
	if err := w.raws.Append(ctx, ev); err != nil {
		w.logger.Error("raw event append failed, dropping", slog.String("type", string(typ)), slog.Any("error", err))
	}
}
