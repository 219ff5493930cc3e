package collector

import (
	"context"
	"log/slog"
	"time"
)

const defaultFlushInterval = time.Second

// Scheduler drives persistence on a fixed cadence. Each tick snapshots the
// accumulator (idle accounting plus opportunistic boundary detach) and ships
// any ready payload to the writer. Stop performs exactly one final flush and
// only returns once it has completed.
type Scheduler struct {
	acc      *Accumulator
	writer   *Writer
	interval time.Duration
	logger   *slog.Logger

	payloads chan *Payload
	stop     chan struct{}
	done     chan struct{}
}

func NewScheduler(acc *Accumulator, writer *Writer, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		acc:      acc,
		writer:   writer,
		interval: defaultFlushInterval,
		logger:   logger,
		payloads: make(chan *Payload, 16),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Enqueue hands a payload detached on the capture path to the scheduler
// without blocking. A full queue means persistence is stuck; the delta is
// dropped rather than letting memory grow without bound.
func (s *Scheduler) Enqueue(p *Payload) {
	select {
	case s.payloads <- p:
	default:
		s.logger.Error("flush queue full, dropping minute payload", slog.Int64("minute", p.Minute))
	}
}

// Run loops until Stop is called or ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.finalFlush()
			return
		case <-s.stop:
			s.finalFlush()
			return
		case p := <-s.payloads:
			s.writer.Write(ctx, p)
		case now := <-ticker.C:
			if p := s.acc.Snapshot(now); p != nil {
				s.writer.Write(ctx, p)
			}
		}
	}
}

// Stop requests shutdown and blocks until the final flush has completed.
// Callers must disable the event source before calling this.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Scheduler) finalFlush() {
	ctx := context.Background()
	for {
		select {
		case p := <-s.payloads:
			s.writer.Write(ctx, p)
		default:
			if p := s.acc.Drain(); p != nil {
				s.writer.Write(ctx, p)
			}
			return
		}
	}
}
