package webhook

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shenikar/tourist_safety_system/internal/config"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(t *testing.T, url string) (*Worker, *[]time.Duration) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		WebhookURL:        url,
		WebhookSecret:     "secret",
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  100 * time.Millisecond,
	}
	w := NewWorker(nil, logger, cfg)

	var delays []time.Duration
	w.sleep = func(d time.Duration) { delays = append(delays, d) }
	return w, &delays
}

func TestProcessEvent_DeliversSignedPayload(t *testing.T) {
	payload := `{"type":"alert.created","userId":"u1"}`
	var gotSignature, gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotSignature = r.Header.Get("X-Webhook-Signature")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	worker, delays := newTestWorker(t, server.URL)

	ok := worker.processEvent(context.Background(), Event{Type: EventAlertCreated, UserID: "u1"}, payload)

	require.True(t, ok)
	assert.Equal(t, payload, gotBody)
	assert.Equal(t, generateHMACSHA256(payload, "secret"), gotSignature)
	assert.Empty(t, *delays)
}

func TestProcessEvent_RetriesWithBackoff(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	worker, delays := newTestWorker(t, server.URL)

	ok := worker.processEvent(context.Background(), Event{Type: EventAlertResolved}, `{}`)

	require.True(t, ok)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, *delays)
}

func TestProcessEvent_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	worker, delays := newTestWorker(t, server.URL)

	ok := worker.processEvent(context.Background(), Event{Type: EventLocationDanger}, `{}`)

	assert.False(t, ok)
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, *delays, 2)
}

func TestProcessEvent_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	worker, _ := newTestWorker(t, server.URL)
	ctx := context.Background()

	// 3 + 2 неудачные попытки открывают выключатель
	worker.processEvent(ctx, Event{}, `{}`)
	worker.processEvent(ctx, Event{}, `{}`)
	require.Equal(t, int32(5), calls.Load())

	ok := worker.processEvent(ctx, Event{}, `{}`)

	assert.False(t, ok)
	assert.Equal(t, int32(5), calls.Load())
}

func TestProcessEvent_NoURL(t *testing.T) {
	worker, _ := newTestWorker(t, "")

	assert.False(t, worker.processEvent(context.Background(), Event{}, `{}`))
}

func TestAlertEvent(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	alert := &models.Alert{UserID: "u1", Location: models.Location{Latitude: 12.3, Longitude: 76.6}}

	e := AlertEvent(EventAlertDispatched, alert, at)

	assert.Equal(t, EventAlertDispatched, e.Type)
	assert.Equal(t, "u1", e.UserID)
	assert.Equal(t, 12.3, e.Latitude)
	assert.Equal(t, at, e.Timestamp)
}
