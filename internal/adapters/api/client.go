package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/infrastructure/config"
)

const (
	loginPath       = "/api/v2/login"
	definitionsPath = "/api/v2/definitions"
	initDataPath    = "/api/v2/init-data"
	startGamePath   = "/api/v2/start-game"
	commandPath     = "/api/v2/command-processing/run-collection"

	clientInformation = `{"Store":"google_play","Version":"android"}`
)

// Client talks to the game server. One Client serves one device/session; the
// orchestrator drives it strictly sequentially.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	maxRetries  int
	backoffBase time.Duration
	clock       shared.Clock

	clientVersion string
	deviceToken   string

	// Session state filled in by Login
	playerID        int
	gameAccessToken string
	sessionID       string

	// Monotonically increasing per-request sequence id
	requestNo int
}

// NewClient creates a game API client from config.
// If clock is nil, uses RealClock for production.
func NewClient(cfg *config.APIConfig, clock shared.Clock) *Client {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	deviceToken := cfg.DeviceToken
	if deviceToken == "" {
		deviceToken = uuid.NewString()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter:   rate.NewLimiter(rate.Limit(cfg.RateLimit.Requests), cfg.RateLimit.Burst),
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		maxRetries:    cfg.Retry.MaxAttempts,
		backoffBase:   cfg.Retry.BackoffBase,
		clock:         clock,
		clientVersion: cfg.ClientVersion,
		deviceToken:   deviceToken,
	}
}

// DeviceToken returns the device identifier used for logins
func (c *Client) DeviceToken() string {
	return c.deviceToken
}

// Login performs a device login and stores the session material on the client
func (c *Client) Login(ctx context.Context, playerID int, rememberToken string) (*LoginData, error) {
	body := map[string]interface{}{
		"DeviceToken": c.deviceToken,
	}
	if playerID != 0 {
		body["PlayerId"] = playerID
	}
	if rememberToken != "" {
		body["RememberToken"] = rememberToken
	}

	raw, _, err := c.request(ctx, http.MethodPost, loginPath, body)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	var data LoginData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, shared.NewProtocolError("decode", fmt.Sprintf("malformed login payload: %v", err))
	}

	c.playerID = data.PlayerID
	c.gameAccessToken = data.GameAccessToken
	c.sessionID = data.SessionID
	return &data, nil
}

// GetDefinitions fetches the static game definitions payload
func (c *Client) GetDefinitions(ctx context.Context) (json.RawMessage, error) {
	raw, _, err := c.request(ctx, http.MethodGet, definitionsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch definitions: %w", err)
	}
	return raw, nil
}

// GetInitData fetches the full account snapshot
func (c *Client) GetInitData(ctx context.Context) (json.RawMessage, string, error) {
	raw, serverTime, err := c.request(ctx, http.MethodGet, initDataPath, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch init data: %w", err)
	}
	return raw, serverTime, nil
}

// StartGame announces the session to the server
func (c *Client) StartGame(ctx context.Context) error {
	if _, _, err := c.request(ctx, http.MethodPost, startGamePath, map[string]interface{}{}); err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}
	return nil
}

// SendCommandBatch posts a batch of game actions and decodes the pushed deltas
func (c *Client) SendCommandBatch(ctx context.Context, batch *CommandBatch) (*BatchResponse, error) {
	raw, serverTime, err := c.request(ctx, http.MethodPost, commandPath, batch)
	if err != nil {
		return nil, err
	}

	resp := &BatchResponse{Time: serverTime, RawData: raw}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &resp.Data); err != nil {
			return nil, shared.NewProtocolError("decode", fmt.Sprintf("malformed batch response data: %v", err))
		}
	}
	resp.Commands = resp.Data.Commands
	return resp, nil
}

// addJitter adds random jitter to a duration to avoid thundering herd.
// Returns a duration between 50% and 150% of the original value.
func addJitter(d time.Duration) time.Duration {
	jitter := 0.5 + rand.Float64()
	return time.Duration(float64(d) * jitter)
}

// request makes an HTTP round trip with rate limiting and exponential backoff
// retries, then unwraps the game server envelope. Returns the Data payload and
// server Time field.
func (c *Client) request(ctx context.Context, method, path string, body interface{}) (json.RawMessage, string, error) {
	url := c.baseURL + path

	var jsonBody []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		jsonBody = data
	}

	c.requestNo++

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, "", fmt.Errorf("rate limiter error: %w", err)
		}

		var reqBody io.Reader
		if jsonBody != nil {
			reqBody = bytes.NewReader(jsonBody)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create request: %w", err)
		}
		c.setHeaders(req, attempt)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Network error - retryable
			lastErr = &retryableError{message: fmt.Sprintf("network error: %v", err)}
			if attempt >= c.maxRetries {
				break
			}
			if ctx.Err() != nil {
				return nil, "", fmt.Errorf("context cancelled: %w", ctx.Err())
			}
			c.clock.Sleep(addJitter(c.backoffBase * time.Duration(1<<attempt)))
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, "", fmt.Errorf("failed to read response: %w", readErr)
		}

		// 429 and 5xx are retryable; everything else in 4xx is not
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			retryAfter := time.Duration(0)
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if seconds, err := strconv.Atoi(ra); err == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			}
			lastErr = &retryableError{
				message:    fmt.Sprintf("server error (%d)", resp.StatusCode),
				retryAfter: retryAfter,
			}
			if attempt >= c.maxRetries {
				break
			}
			if ctx.Err() != nil {
				return nil, "", fmt.Errorf("context cancelled: %w", ctx.Err())
			}
			delay := addJitter(c.backoffBase * time.Duration(1<<attempt))
			if retryAfter > 0 {
				delay = retryAfter
			}
			c.clock.Sleep(delay)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
		}

		return c.decodeEnvelope(respBody)
	}

	if lastErr != nil {
		return nil, "", fmt.Errorf("max retries exceeded: %w", lastErr)
	}
	return nil, "", fmt.Errorf("max retries exceeded")
}

// decodeEnvelope unwraps {Success, Time, Data, Error}. A Success:false response
// becomes a SessionExpiredError for stale sessions and a ProtocolError otherwise.
func (c *Client) decodeEnvelope(body []byte) (json.RawMessage, string, error) {
	var envelope serverEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, "", shared.NewProtocolError("decode", fmt.Sprintf("malformed response envelope: %v", err))
	}

	if !envelope.Success {
		message := "unknown server error"
		code := "unknown"
		if envelope.Error != nil {
			message = envelope.Error.Message
			code = envelope.Error.ErrorCode
		}
		if isSessionExpiryMessage(message, code) {
			return nil, "", shared.NewSessionExpiredError(message)
		}
		return nil, "", shared.NewProtocolError(code, message)
	}

	return envelope.Data, envelope.Time, nil
}

func isSessionExpiryMessage(message, code string) bool {
	lower := strings.ToLower(message)
	return code == "InvalidSession" ||
		strings.Contains(lower, "invalid or expired session") ||
		strings.Contains(lower, "session expired")
}

func (c *Client) setHeaders(req *http.Request, attempt int) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("PXFD-Request-Id", uuid.NewString())
	req.Header.Set("PXFD-Request-No", strconv.Itoa(c.requestNo))
	req.Header.Set("PXFD-Retry-No", strconv.Itoa(attempt))
	req.Header.Set("PXFD-Sent-At", c.clock.Now().Format("2006-01-02T15:04:05.000Z"))
	req.Header.Set("PXFD-Client-Information", clientInformation)
	req.Header.Set("PXFD-Client-Version", c.clientVersion)
	req.Header.Set("PXFD-Device-Token", c.deviceToken)
	if c.gameAccessToken != "" {
		req.Header.Set("PXFD-Game-Access-Token", c.gameAccessToken)
	}
	if c.playerID != 0 {
		req.Header.Set("PXFD-Player-Id", strconv.Itoa(c.playerID))
	}
	if c.sessionID != "" {
		req.Header.Set("PXFD-Session-Id", c.sessionID)
	}
}

// retryableError represents an error that should trigger a retry
type retryableError struct {
	message    string
	retryAfter time.Duration
}

func (e *retryableError) Error() string {
	return e.message
}
