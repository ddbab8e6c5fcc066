package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/materna-cli/materna/internal/model"
	"github.com/materna-cli/materna/internal/storage"
)

func setupTestDB(t *testing.T) *storage.DB {
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testNotification() *model.Notification {
	return model.NewNotification(model.KindWater, "Hydration", "Time for a glass of water").
		WithPriority(model.PriorityNormal).
		WithField("Today", "750ml / 1800ml")
}

// =============================================================================
// Formatter Tests
// =============================================================================

func TestGetFormatter(t *testing.T) {
	assert.IsType(t, &DiscordFormatter{}, GetFormatter(model.SinkTypeDiscord))
	assert.IsType(t, &SlackFormatter{}, GetFormatter(model.SinkTypeSlack))
	assert.IsType(t, &GenericFormatter{}, GetFormatter(model.SinkTypeGeneric))
	assert.IsType(t, &GenericFormatter{}, GetFormatter("unknown"))
}

func TestDiscordFormatterFormat(t *testing.T) {
	f := &DiscordFormatter{}
	payload, err := f.Format(testNotification())
	require.NoError(t, err)
	assert.Equal(t, "application/json", f.ContentType())

	var decoded struct {
		Embeds []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Color       int    `json:"color"`
			Fields      []struct {
				Name   string `json:"name"`
				Value  string `json:"value"`
				Inline bool   `json:"inline"`
			} `json:"fields"`
			Footer struct {
				Text string `json:"text"`
			} `json:"footer"`
		} `json:"embeds"`
	}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.Len(t, decoded.Embeds, 1)

	embed := decoded.Embeds[0]
	assert.Equal(t, "Hydration", embed.Title)
	assert.Equal(t, "Time for a glass of water", embed.Description)
	assert.Equal(t, model.ColorNormal, embed.Color)
	assert.Equal(t, "Materna Hydration", embed.Footer.Text)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "Today", embed.Fields[0].Name)
	assert.True(t, embed.Fields[0].Inline)
}

func TestSlackFormatterFormat(t *testing.T) {
	f := &SlackFormatter{}
	payload, err := f.Format(testNotification())
	require.NoError(t, err)
	assert.Equal(t, "application/json", f.ContentType())

	var decoded struct {
		Text   string `json:"text"`
		Blocks []struct {
			Type string `json:"type"`
		} `json:"blocks"`
		Attachments []struct {
			Color string `json:"color"`
		} `json:"attachments"`
	}
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Equal(t, "*Hydration*", decoded.Text)
	// header, message section, fields section, context
	require.Len(t, decoded.Blocks, 4)
	assert.Equal(t, "header", decoded.Blocks[0].Type)
	assert.Equal(t, "context", decoded.Blocks[3].Type)
	require.Len(t, decoded.Attachments, 1)
	assert.Equal(t, "#3498DB", decoded.Attachments[0].Color)
}

func TestGenericFormatterFormat(t *testing.T) {
	f := &GenericFormatter{}
	payload, err := f.Format(testNotification())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Equal(t, "water", decoded["kind"])
	assert.Equal(t, "Hydration", decoded["title"])
	assert.Equal(t, "Normal", decoded["priority"])
}

func TestGenericFormatterTemplate(t *testing.T) {
	f := NewGenericFormatter(`{"text": "{{.Title}}: {{.Message}}"}`)
	payload, err := f.Format(testNotification())
	require.NoError(t, err)
	assert.Equal(t, `{"text": "Hydration: Time for a glass of water"}`, string(payload))
}

func TestGenericFormatterBadTemplate(t *testing.T) {
	f := NewGenericFormatter(`{{.Title`)
	_, err := f.Format(testNotification())
	assert.Error(t, err)
}

func TestColorToHex(t *testing.T) {
	assert.Equal(t, "#ED4245", colorToHex(model.ColorUrgent))
	assert.Equal(t, "#000000", colorToHex(0))
}

// =============================================================================
// Dispatcher Tests
// =============================================================================

func TestDispatcherNoSinks(t *testing.T) {
	db := setupTestDB(t)
	dispatcher := NewDispatcher(storage.NewSinkRepo(db))

	results := dispatcher.SendNotification(context.Background(), testNotification())
	assert.Nil(t, results)
	assert.False(t, dispatcher.HasEnabledSinks())
	assert.Equal(t, 0, dispatcher.CountEnabledSinks())
}

func TestDispatcherSendsToEnabledSinks(t *testing.T) {
	var received atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.Add(1)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	db := setupTestDB(t)
	sinkRepo := storage.NewSinkRepo(db)
	require.NoError(t, sinkRepo.Create(model.NewSink("a", model.SinkTypeGeneric, server.URL)))
	require.NoError(t, sinkRepo.Create(model.NewSink("b", model.SinkTypeGeneric, server.URL)))

	disabled := model.NewSink("c", model.SinkTypeGeneric, server.URL)
	disabled.Enabled = false
	require.NoError(t, sinkRepo.Create(disabled))

	dispatcher := NewDispatcher(sinkRepo)
	results := dispatcher.SendNotification(context.Background(), testNotification())

	require.Len(t, results, 2)
	for _, result := range results {
		assert.True(t, result.Success)
		assert.Equal(t, http.StatusOK, result.StatusCode)
		assert.NoError(t, result.Error)
	}
	assert.Equal(t, int32(2), received.Load())

	// Delivery updates the sink status
	sink, err := sinkRepo.Get("a")
	require.NoError(t, err)
	assert.False(t, sink.LastUsed.IsZero())
	assert.Empty(t, sink.LastError)
}

func TestDispatcherRecordsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	db := setupTestDB(t)
	sinkRepo := storage.NewSinkRepo(db)
	require.NoError(t, sinkRepo.Create(model.NewSink("a", model.SinkTypeGeneric, server.URL)))

	dispatcher := NewDispatcher(sinkRepo)
	results := dispatcher.SendNotification(context.Background(), testNotification())

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, http.StatusNotFound, results[0].StatusCode)
	assert.Error(t, results[0].Error)

	sink, err := sinkRepo.Get("a")
	require.NoError(t, err)
	assert.NotEmpty(t, sink.LastError)
}

func TestDispatcherSendToSingleUnknownSink(t *testing.T) {
	db := setupTestDB(t)
	dispatcher := NewDispatcher(storage.NewSinkRepo(db))

	result := dispatcher.SendToSingle(context.Background(), testNotification(), "missing")
	assert.False(t, result.Success)
	assert.Error(t, result.Error)
	assert.Equal(t, "missing", result.SinkName)
}

func TestDispatcherTestSink(t *testing.T) {
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		body = buf
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	db := setupTestDB(t)
	sinkRepo := storage.NewSinkRepo(db)
	require.NoError(t, sinkRepo.Create(model.NewSink("phone", model.SinkTypeGeneric, server.URL)))

	dispatcher := NewDispatcher(sinkRepo)
	result := dispatcher.TestSink(context.Background(), "phone")

	assert.True(t, result.Success)
	assert.Equal(t, "phone", result.SinkName)
	assert.Contains(t, string(body), "Materna Test")
}

func TestDispatcherGenericTemplateSink(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		body = string(buf)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	db := setupTestDB(t)
	sinkRepo := storage.NewSinkRepo(db)
	sink := model.NewSink("ha", model.SinkTypeGeneric, server.URL)
	sink.Template = `{"msg": "{{.Title}}"}`
	require.NoError(t, sinkRepo.Create(sink))

	dispatcher := NewDispatcher(sinkRepo)
	results := dispatcher.SendNotification(context.Background(), testNotification())

	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Equal(t, `{"msg": "Hydration"}`, body)
}

// =============================================================================
// Retry Queue Tests
// =============================================================================

func TestRetryQueueDrainsReadyNotifications(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	q := NewRetryQueue(NewHTTPClient())
	q.Enqueue("n1", "phone", server.URL, "application/json", []byte(`{}`), 3)
	assert.Equal(t, 1, q.Pending())

	// Force the entry due and drain
	q.mu.Lock()
	q.queue[0].NextRetry = time.Now().Add(-time.Second)
	q.mu.Unlock()
	q.processQueue()

	assert.Equal(t, 0, q.Pending())
	assert.Equal(t, int32(1), calls.Load())

	stats := q.Stats()
	assert.Equal(t, 1, stats.TotalQueued)
	assert.Equal(t, 1, stats.TotalSent)
	assert.Equal(t, 0, stats.TotalFailed)
}

func TestRetryQueueGivesUpAfterMaxRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	q := NewRetryQueue(&HTTPClient{client: server.Client()})
	q.EnqueueWithError("n1", "phone", server.URL, "application/json", nil, 1, fmt.Errorf("initial failure"))

	q.mu.Lock()
	q.queue[0].NextRetry = time.Now().Add(-time.Second)
	q.mu.Unlock()
	q.processQueue()

	assert.Equal(t, 0, q.Pending())
	assert.Equal(t, 1, q.Stats().TotalFailed)
}

func TestRetryQueueClear(t *testing.T) {
	q := NewRetryQueue(NewHTTPClient())
	q.Enqueue("n1", "a", "http://localhost:1", "application/json", nil, 3)
	q.Enqueue("n2", "b", "http://localhost:1", "application/json", nil, 3)

	q.Clear()
	assert.Equal(t, 0, q.Pending())
}

func TestDispatcherQueuesRetryableFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	db := setupTestDB(t)
	sinkRepo := storage.NewSinkRepo(db)
	require.NoError(t, sinkRepo.Create(model.NewSink("flaky", model.SinkTypeGeneric, server.URL)))

	dispatcher := NewDispatcher(sinkRepo)
	dispatcher.httpClient = &HTTPClient{client: server.Client()} // no inline retries

	q := NewRetryQueue(dispatcher.httpClient)
	dispatcher.SetRetryQueue(q)

	results := dispatcher.SendNotification(context.Background(), testNotification())
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, 1, q.Pending())
}

func TestDispatcherDoesNotQueuePermanentFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	db := setupTestDB(t)
	sinkRepo := storage.NewSinkRepo(db)
	require.NoError(t, sinkRepo.Create(model.NewSink("gone", model.SinkTypeGeneric, server.URL)))

	dispatcher := NewDispatcher(sinkRepo)
	q := NewRetryQueue(NewHTTPClient())
	dispatcher.SetRetryQueue(q)

	dispatcher.SendNotification(context.Background(), testNotification())
	assert.Equal(t, 0, q.Pending())
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(0))
	assert.True(t, retryable(429))
	assert.True(t, retryable(500))
	assert.True(t, retryable(503))
	assert.False(t, retryable(400))
	assert.False(t, retryable(404))
}

// =============================================================================
// HTTPClient Tests
// =============================================================================

func TestHTTPClientSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Materna/1.0", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewHTTPClient()
	result := client.Send(context.Background(), server.URL, "application/json", []byte(`{}`))

	assert.NoError(t, result.Error)
	assert.Equal(t, http.StatusNoContent, result.StatusCode)
	assert.Equal(t, 1, result.Attempts)
}

func TestHTTPClientClientErrorNoRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewHTTPClient()
	result := client.Send(context.Background(), server.URL, "application/json", nil)

	assert.Error(t, result.Error)
	assert.Equal(t, http.StatusBadRequest, result.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPClientCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewHTTPClient()
	result := client.Send(ctx, server.URL, "application/json", nil)
	assert.Error(t, result.Error)
}
