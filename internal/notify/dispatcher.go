package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/materna-cli/materna/internal/config"
	"github.com/materna-cli/materna/internal/model"
	"github.com/materna-cli/materna/internal/storage"
)

// Dispatcher sends notifications to all enabled sinks.
type Dispatcher struct {
	sinkRepo   *storage.SinkRepo
	httpClient *HTTPClient
	retryQueue *RetryQueue
	debug      bool
}

// NewDispatcher creates a new notification dispatcher.
func NewDispatcher(sinkRepo *storage.SinkRepo) *Dispatcher {
	return &Dispatcher{
		sinkRepo:   sinkRepo,
		httpClient: NewHTTPClient(),
	}
}

// SetDebug enables or disables debug output.
func (d *Dispatcher) SetDebug(debug bool) {
	d.debug = debug
}

// SetRetryQueue installs a queue that retries failed deliveries in the
// background. Without one, failed sends are dropped after the inline
// HTTP retries.
func (d *Dispatcher) SetRetryQueue(q *RetryQueue) {
	d.retryQueue = q
}

// DispatchResult contains the result of dispatching to a single sink.
type DispatchResult struct {
	SinkName   string
	Success    bool
	StatusCode int
	Duration   time.Duration
	Error      error
}

// SendNotification sends a notification to all enabled sinks.
func (d *Dispatcher) SendNotification(ctx context.Context, n *model.Notification) []DispatchResult {
	sinks, err := d.sinkRepo.ListEnabled()
	if err != nil {
		return []DispatchResult{{
			SinkName: "all",
			Success:  false,
			Error:    fmt.Errorf("failed to list sinks: %w", err),
		}}
	}

	if len(sinks) == 0 {
		return nil // No sinks configured
	}

	// Send to all sinks concurrently
	var wg sync.WaitGroup
	results := make([]DispatchResult, len(sinks))

	for i, sink := range sinks {
		wg.Add(1)
		go func(idx int, s *model.Sink) {
			defer wg.Done()
			results[idx] = d.sendToSink(ctx, n, s)
		}(i, sink)
	}

	wg.Wait()
	return results
}

// sendToSink sends a notification to a single sink.
func (d *Dispatcher) sendToSink(ctx context.Context, n *model.Notification, sink *model.Sink) DispatchResult {
	result := DispatchResult{
		SinkName: sink.Name,
	}

	var formatter Formatter
	if sink.Type == model.SinkTypeGeneric && sink.Template != "" {
		formatter = NewGenericFormatter(sink.Template)
	} else {
		formatter = GetFormatter(sink.Type)
	}

	payload, err := formatter.Format(n)
	if err != nil {
		result.Error = fmt.Errorf("failed to format notification: %w", err)
		d.updateSinkStatus(sink.Name, result.Error)
		return result
	}

	sendResult := d.httpClient.Send(ctx, sink.URL, formatter.ContentType(), payload)

	result.StatusCode = sendResult.StatusCode
	result.Duration = sendResult.Duration
	result.Error = sendResult.Error
	result.Success = sendResult.Error == nil

	d.updateSinkStatus(sink.Name, sendResult.Error)

	if sendResult.Error != nil && d.retryQueue != nil && retryable(sendResult.StatusCode) {
		d.retryQueue.EnqueueWithError(uuid.NewString(), sink.Name, sink.URL,
			formatter.ContentType(), payload,
			len(config.Global.RetryQueue.BackoffSchedule), sendResult.Error)
	}

	return result
}

// retryable reports whether a failed delivery is worth queueing again.
// Client errors other than rate limiting are permanent.
func retryable(status int) bool {
	return status == 0 || status == 429 || status >= 500
}

// updateSinkStatus updates the last used timestamp and error for a sink.
func (d *Dispatcher) updateSinkStatus(name string, err error) {
	// Ignore errors from updating status - it's not critical
	_ = d.sinkRepo.UpdateLastUsed(name, err)
}

// SendToSingle sends a notification to a single sink by name.
func (d *Dispatcher) SendToSingle(ctx context.Context, n *model.Notification, sinkName string) DispatchResult {
	sink, err := d.sinkRepo.Get(sinkName)
	if err != nil {
		return DispatchResult{
			SinkName: sinkName,
			Success:  false,
			Error:    fmt.Errorf("sink not found: %w", err),
		}
	}

	return d.sendToSink(ctx, n, sink)
}

// TestSink sends a test notification to a specific sink.
func (d *Dispatcher) TestSink(ctx context.Context, sinkName string) DispatchResult {
	testNotification := model.NewNotification(
		model.KindWater,
		"Materna Test",
		"This is a test notification from Materna. If you see this, your sink is configured correctly!",
	).WithField("Sink", sinkName).WithField("Time", time.Now().Format("3:04 PM"))

	return d.SendToSingle(ctx, testNotification, sinkName)
}

// HasEnabledSinks returns true if there are any enabled sinks.
func (d *Dispatcher) HasEnabledSinks() bool {
	sinks, err := d.sinkRepo.ListEnabled()
	if err != nil {
		return false
	}
	return len(sinks) > 0
}

// CountEnabledSinks returns the number of enabled sinks.
func (d *Dispatcher) CountEnabledSinks() int {
	sinks, err := d.sinkRepo.ListEnabled()
	if err != nil {
		return 0
	}
	return len(sinks)
}
