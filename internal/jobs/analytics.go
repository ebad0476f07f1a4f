package jobs

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/cloo-solutions/folio/internal/logger"
	"github.com/cloo-solutions/folio/internal/service"
)

const (
	// DefaultQueueSize is the number of entries buffered before new ones are dropped.
	DefaultQueueSize = 64
	// DefaultWriteTimeout bounds a single sink write.
	DefaultWriteTimeout = 5 * time.Second
)

// AnalyticsDispatcher hands query logs to a sink on a background goroutine.
// Record never blocks: when the queue is full the entry is dropped.
type AnalyticsDispatcher struct {
	sink         service.AnalyticsSink
	queue        chan service.AnalyticsEntry
	writeTimeout time.Duration
	logger       *zap.Logger

	started  atomic.Bool
	stopOnce sync.Once
	stopChan chan struct{}
	doneChan chan struct{}

	written atomic.Int64
	dropped atomic.Int64
	failed  atomic.Int64
}

// NewAnalyticsDispatcher creates a new AnalyticsDispatcher instance
func NewAnalyticsDispatcher(sink service.AnalyticsSink, queueSize int, writeTimeout time.Duration, log *zap.Logger) *AnalyticsDispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &AnalyticsDispatcher{
		sink:         sink,
		queue:        make(chan service.AnalyticsEntry, queueSize),
		writeTimeout: writeTimeout,
		logger:       logger.OrNop(log),
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
	}
}

// Record implements service.AnalyticsRecorder.
func (d *AnalyticsDispatcher) Record(entry service.AnalyticsEntry) {
	select {
	case d.queue <- entry:
	default:
		d.dropped.Add(1)
		d.logger.Warn("analytics queue full, dropping entry", zap.String("entry_id", entry.ID))
	}
}

// Start runs the write loop until ctx is cancelled or Stop is called. Entries
// still queued at that point are written before Start returns.
func (d *AnalyticsDispatcher) Start(ctx context.Context) {
	d.started.Store(true)
	defer close(d.doneChan)

	d.logger.Info("analytics dispatcher started", zap.Int("queue_size", cap(d.queue)))

	for {
		select {
		case <-ctx.Done():
			d.drain(context.WithoutCancel(ctx))
			d.logger.Info("analytics dispatcher stopped: context cancelled")
			return
		case <-d.stopChan:
			d.drain(context.WithoutCancel(ctx))
			d.logger.Info("analytics dispatcher stopped: stop signal received")
			return
		case entry := <-d.queue:
			d.write(ctx, entry)
		}
	}
}

// Stop signals the write loop to finish and waits for it.
func (d *AnalyticsDispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stopChan) })
	if d.started.Load() {
		<-d.doneChan
	}
}

func (d *AnalyticsDispatcher) drain(ctx context.Context) {
	for {
		select {
		case entry := <-d.queue:
			d.write(ctx, entry)
		default:
			return
		}
	}
}

func (d *AnalyticsDispatcher) write(ctx context.Context, entry service.AnalyticsEntry) {
	ctx, cancel := context.WithTimeout(ctx, d.writeTimeout)
	defer cancel()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("analytics sink panicked: %v", r)
			}
		}()
		return d.sink.RecordQuery(ctx, entry)
	}()
	if err != nil {
		d.failed.Add(1)
		d.logger.Warn("failed to record query log", zap.String("entry_id", entry.ID), zap.Error(err))
		return
	}
	d.written.Add(1)
}

// Stats reports how many entries were written, dropped and failed so far.
func (d *AnalyticsDispatcher) Stats() (written, dropped, failed int64) {
	return d.written.Load(), d.dropped.Load(), d.failed.Load()
}
