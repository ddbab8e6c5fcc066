package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/materna-cli/materna/internal/config"
	"github.com/materna-cli/materna/internal/logging"
)

// QueuedNotification is a delivery waiting for another attempt.
type QueuedNotification struct {
	ID          string          `json:"id"`
	SinkName    string          `json:"sink_name"`
	URL         string          `json:"url"`
	ContentType string          `json:"content_type"`
	Body        json.RawMessage `json:"body"`
	CreatedAt   time.Time       `json:"created_at"`
	NextRetry   time.Time       `json:"next_retry"`
	Attempts    int             `json:"attempts"`
	MaxRetries  int             `json:"max_retries"`
	LastError   string          `json:"last_error,omitempty"`
}

// RetryQueue redelivers failed webhook payloads on an exponential
// backoff schedule. Entries live in memory only; a daemon restart drops
// them.
type RetryQueue struct {
	mu    sync.RWMutex
	queue []*QueuedNotification

	client   *HTTPClient
	interval time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool

	totalQueued int
	totalSent   int
	totalFailed int
}

// NewRetryQueue creates a queue that delivers through client.
func NewRetryQueue(client *HTTPClient) *RetryQueue {
	ctx, cancel := context.WithCancel(context.Background())
	return &RetryQueue{
		client:   client,
		interval: config.Global.RetryQueue.CheckInterval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins background processing. Safe to call more than once.
func (q *RetryQueue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return
	}
	q.running = true

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		ticker := time.NewTicker(q.interval)
		defer ticker.Stop()
		for {
			select {
			case <-q.ctx.Done():
				return
			case <-ticker.C:
				q.processQueue()
			}
		}
	}()
}

// Stop halts background processing and waits for it to finish.
func (q *RetryQueue) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.running = false
	q.mu.Unlock()

	q.cancel()
	q.wg.Wait()
}

// Enqueue adds a failed delivery for background retry.
func (q *RetryQueue) Enqueue(id, sinkName, url, contentType string, body []byte, maxRetries int) {
	q.EnqueueWithError(id, sinkName, url, contentType, body, maxRetries, nil)
}

// EnqueueWithError adds a failed delivery, keeping the error that
// caused it for later inspection.
func (q *RetryQueue) EnqueueWithError(id, sinkName, url, contentType string, body []byte, maxRetries int, cause error) {
	n := &QueuedNotification{
		ID:          id,
		SinkName:    sinkName,
		URL:         url,
		ContentType: contentType,
		Body:        body,
		CreatedAt:   time.Now(),
		NextRetry:   time.Now().Add(backoffDelay(0)),
		MaxRetries:  maxRetries,
	}
	if cause != nil {
		n.LastError = cause.Error()
	}

	q.mu.Lock()
	q.queue = append(q.queue, n)
	q.totalQueued++
	size := len(q.queue)
	q.mu.Unlock()

	logging.Info("notification queued for retry",
		logging.KeySink, sinkName,
		"queue_size", size,
		logging.KeyError, cause)
}

// processQueue redelivers every entry whose retry time has come.
func (q *RetryQueue) processQueue() {
	now := time.Now()

	q.mu.Lock()
	var due, waiting []*QueuedNotification
	for _, n := range q.queue {
		if n.NextRetry.After(now) {
			waiting = append(waiting, n)
		} else {
			due = append(due, n)
		}
	}
	q.queue = waiting
	q.mu.Unlock()

	for _, n := range due {
		q.redeliver(n)
	}
}

// redeliver makes one attempt, re-queueing with backoff until the
// entry's retry budget runs out.
func (q *RetryQueue) redeliver(n *QueuedNotification) {
	n.Attempts++

	result := q.client.Send(q.ctx, n.URL, n.ContentType, n.Body)
	if result.Error == nil {
		q.mu.Lock()
		q.totalSent++
		q.mu.Unlock()

		logging.Info("queued notification sent",
			logging.KeySink, n.SinkName,
			"attempts", n.Attempts,
			logging.KeyDuration, result.Duration.Milliseconds())
		return
	}

	n.LastError = result.Error.Error()

	if n.Attempts >= n.MaxRetries {
		q.mu.Lock()
		q.totalFailed++
		q.mu.Unlock()

		logging.Warn("notification dropped after max retries",
			logging.KeySink, n.SinkName,
			"attempts", n.Attempts,
			logging.KeyError, result.Error)
		return
	}

	n.NextRetry = time.Now().Add(backoffDelay(n.Attempts))

	q.mu.Lock()
	q.queue = append(q.queue, n)
	q.mu.Unlock()

	logging.DebugLog("notification re-queued",
		logging.KeySink, n.SinkName,
		"next_retry", n.NextRetry,
		"attempts", n.Attempts)
}

// backoffDelay returns the wait before the given attempt number, capped
// at the last schedule entry.
func backoffDelay(attempt int) time.Duration {
	schedule := config.Global.RetryQueue.BackoffSchedule
	if attempt >= len(schedule) {
		return schedule[len(schedule)-1]
	}
	return schedule[attempt]
}

// QueueStats summarizes queue activity.
type QueueStats struct {
	QueueSize   int `json:"queue_size"`
	TotalQueued int `json:"total_queued"`
	TotalSent   int `json:"total_sent"`
	TotalFailed int `json:"total_failed"`
}

// Stats returns current queue statistics.
func (q *RetryQueue) Stats() QueueStats {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return QueueStats{
		QueueSize:   len(q.queue),
		TotalQueued: q.totalQueued,
		TotalSent:   q.totalSent,
		TotalFailed: q.totalFailed,
	}
}

// Pending returns the number of queued deliveries.
func (q *RetryQueue) Pending() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.queue)
}

// Clear drops all queued deliveries.
func (q *RetryQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queue = nil
}
