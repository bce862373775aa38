package rooms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/phanicodella/talentsync/internal/config"
	"github.com/phanicodella/talentsync/internal/metrics"
	"github.com/phanicodella/talentsync/internal/retry"
)

// Room is the provisioned video room handle returned by the Daily API.
type Room struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ProvisioningError is returned when room creation exhausts its retries or
// hits a terminal fault. Session creation fails on it; nothing else does.
type ProvisioningError struct {
	Op  string
	Err error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("rooms: %s failed: %v", e.Op, e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

// apiError carries the upstream HTTP status so the retry predicate can
// classify it.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("daily API status %d: %s", e.Status, e.Body)
}

// Client talks to the Daily room-provisioning API. Create wraps its call in a
// bounded retry loop; Delete is strictly best-effort and never returns an
// error to the caller.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	apiKey          string
	roomExpiry      time.Duration
	maxParticipants int
	policy          retry.Policy
	logger          *zap.Logger
}

func NewClient(cfg config.DailyConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient:      &http.Client{Timeout: 15 * time.Second},
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:          cfg.APIKey,
		roomExpiry:      cfg.RoomExpiry,
		maxParticipants: cfg.MaxParticipants,
		policy: retry.Policy{
			MaxAttempts: 3,
			BaseDelay:   time.Second,
			Retryable:   retryableAPIError,
		},
		logger: logger,
	}
}

// SetRetryPolicy replaces the default policy. Tests use it to drop the
// backoff delay.
func (c *Client) SetRetryPolicy(p retry.Policy) {
	if p.Retryable == nil {
		p.Retryable = retryableAPIError
	}
	c.policy = p
}

// SetHTTPClient swaps the underlying transport, typically for httptest.
func (c *Client) SetHTTPClient(h *http.Client) { c.httpClient = h }

type roomProperties struct {
	StartAudioOff     bool  `json:"start_audio_off"`
	StartVideoOff     bool  `json:"start_video_off"`
	EnableChat        bool  `json:"enable_chat"`
	EnableKnocking    bool  `json:"enable_knocking"`
	EnableScreenshare bool  `json:"enable_screenshare"`
	MaxParticipants   int   `json:"max_participants"`
	Exp               int64 `json:"exp"`
}

type createRoomRequest struct {
	Name       string         `json:"name"`
	Privacy    string         `json:"privacy"`
	Properties roomProperties `json:"properties"`
}

// CreateRoom provisions a fresh interview room. On retry exhaustion or a
// terminal upstream fault it returns a ProvisioningError; the caller is
// expected to fail session creation on it.
func (c *Client) CreateRoom(ctx context.Context) (*Room, error) {
	if c.apiKey == "" {
		return nil, &ProvisioningError{Op: "create", Err: errors.New("DAILY_API_KEY not configured")}
	}

	name := fmt.Sprintf("interview-%d-%s", time.Now().Unix(), uuid.NewString()[:8])
	body := createRoomRequest{
		Name:    name,
		Privacy: "public",
		Properties: roomProperties{
			StartAudioOff:     true,
			StartVideoOff:     false,
			EnableChat:        false,
			EnableKnocking:    true,
			EnableScreenshare: false,
			MaxParticipants:   c.maxParticipants,
			Exp:               time.Now().Add(c.roomExpiry).Unix(),
		},
	}

	var room Room
	err := c.policy.Do(ctx, func() error {
		return c.do(ctx, http.MethodPost, "/rooms", body, &room)
	})
	if err != nil {
		c.logger.Error("room creation failed",
			zap.String("room", name),
			zap.Error(err))
		return nil, &ProvisioningError{Op: "create", Err: err}
	}

	c.logger.Info("room created", zap.String("room", room.Name), zap.String("url", room.URL))
	return &room, nil
}

// DeleteRoom tears down a room by name. Failures are logged and counted but
// never surfaced; a leaked room is a tolerated failure mode. A 404 from
// upstream means the room is already gone and does not count as a failure.
func (c *Client) DeleteRoom(ctx context.Context, name string) {
	if name == "" {
		c.logger.Warn("no room name provided for deletion")
		return
	}

	err := c.policy.Do(ctx, func() error {
		return c.do(ctx, http.MethodDelete, "/rooms/"+name, nil, nil)
	})
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			c.logger.Info("room already deleted", zap.String("room", name))
			return
		}
		metrics.RoomDeleteFailure()
		c.logger.Error("room deletion failed", zap.String("room", name), zap.Error(err))
		return
	}

	c.logger.Info("room deleted", zap.String("room", name))
}

// RoomStatus fetches the remote state of a room. A missing room yields an
// apiError with status 404 wrapped in the returned error.
func (c *Client) RoomStatus(ctx context.Context, name string) (*Room, error) {
	var room Room
	if err := c.do(ctx, http.MethodGet, "/rooms/"+name, nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &apiError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func retryableAPIError(err error) bool {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return retry.RetryableStatus(apiErr.Status)
	}
	// No upstream response to classify; treat as terminal.
	return false
}
