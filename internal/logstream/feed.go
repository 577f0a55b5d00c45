package logstream

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hendrikb/pipeline-monitor/internal/entity"
)

// subscriberBuffer bounds how far a slow subscriber may lag before records
// are dropped for it. Dropping affects only that subscriber; the feed and
// the worker are never blocked.
const subscriberBuffer = 256

// Feed fans normalized records out to any number of live subscribers.
// Publishing and subscribing are independent of bulk replay: both paths go
// through Normalize, so a closed run reconstructs identically either way.
type Feed struct {
	mu     sync.Mutex
	subs   map[int]chan entity.LogRecord
	nextID int
	logger *slog.Logger
}

func NewFeed(logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{subs: make(map[int]chan entity.LogRecord), logger: logger}
}

// Publish normalizes rec and delivers it to every current subscriber in
// registration order.
func (f *Feed) Publish(rec entity.LogRecord) {
	rec = Normalize(rec)
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, ch := range f.subs {
		select {
		case ch <- rec:
		default:
			f.logger.Warn("feed.drop", "subscriber", id, "message", rec.Message)
		}
	}
}

// Subscribe returns a channel of live records. The channel is closed when
// ctx is cancelled; detaching never touches the publisher or the worker.
func (f *Feed) Subscribe(ctx context.Context) <-chan entity.LogRecord {
	ch := make(chan entity.LogRecord, subscriberBuffer)

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	f.mu.Unlock()
	f.logger.Debug("feed.subscribe", "subscriber", id)

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
		close(ch)
		f.logger.Debug("feed.unsubscribe", "subscriber", id)
	}()
	return ch
}

// Subscribers reports the current subscriber count.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
