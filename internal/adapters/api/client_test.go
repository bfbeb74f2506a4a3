package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/adapters/api"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/infrastructure/config"
)

const envelopeOK = `{"Success": true, "Time": "2024-05-01T10:00:00Z", "Data": {}}`

func newTestClient(t *testing.T, handler http.Handler, maxRetries int) *api.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.APIConfig{
		BaseURL:       server.URL,
		ClientVersion: "2.7.0.4123",
		DeviceToken:   "test-device",
		Timeout:       5 * time.Second,
		RateLimit:     config.RateLimitConfig{Requests: 100, Burst: 100},
		Retry:         config.RetryConfig{MaxAttempts: maxRetries, BackoffBase: time.Millisecond},
	}
	clock := shared.NewMockClock(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	return api.NewClient(cfg, clock)
}

func TestClient_RequestNoHeaderIncrementsPerRequest(t *testing.T) {
	var sequence []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sequence = append(sequence, r.Header.Get("PXFD-Request-No"))
		w.Write([]byte(envelopeOK))
	}), 0)

	require.NoError(t, client.StartGame(context.Background()))
	require.NoError(t, client.StartGame(context.Background()))
	require.NoError(t, client.StartGame(context.Background()))

	assert.Equal(t, []string{"1", "2", "3"}, sequence)
}

func TestClient_RetriesReuseTheRequestNo(t *testing.T) {
	var sequence []string
	var retries []string
	attempts := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sequence = append(sequence, r.Header.Get("PXFD-Request-No"))
		retries = append(retries, r.Header.Get("PXFD-Retry-No"))
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(envelopeOK))
	}), 2)

	require.NoError(t, client.StartGame(context.Background()))

	// The retried attempt carries the same sequence id with a bumped retry counter
	assert.Equal(t, []string{"1", "1"}, sequence)
	assert.Equal(t, []string{"0", "1"}, retries)
}
