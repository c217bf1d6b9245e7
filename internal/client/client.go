package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Per-call timeouts. Connectivity tests get generous bounds because the
// server itself probes external systems before answering; the health probe
// stays short so the restart poll can retry once a second.
const (
	DefaultTimeout     = 10 * time.Second
	AITestTimeout      = 5 * time.Second
	MQTTTestTimeout    = 5 * time.Second
	RTSPTestTimeout    = 7 * time.Second
	CamerasTestTimeout = 10 * time.Second
	ReloadTimeout      = 5 * time.Second
	HealthTimeout      = 2 * time.Second
)

// IActionClient talks to the IAction camera-monitoring server. The API is
// unauthenticated HTTP/JSON; the server is the single source of truth for
// capture and detection state.
type IActionClient struct {
	HTTP   *resty.Client
	Config ClientConfig

	// stream has no client-level timeout; MJPEG feeds run until canceled.
	stream *resty.Client
}

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

func New(cfg ClientConfig) *IActionClient {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	r := resty.New()
	r.SetBaseURL(cfg.BaseURL)
	r.SetTimeout(cfg.Timeout)
	r.SetHeader("Content-Type", "application/json")
	r.SetHeader("Accept", "application/json")

	s := resty.New()
	s.SetBaseURL(cfg.BaseURL)
	s.SetDoNotParseResponse(true)

	return &IActionClient{
		HTTP:   r,
		Config: cfg,
		stream: s,
	}
}

// APIError is a non-2xx response with whatever explanation the server
// attached. Transport failures stay plain errors; this type only covers
// responses that arrived.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (HTTP %d): %s", e.StatusCode, e.Message)
}

// errorFromResponse extracts the backend's error message from a failed
// response, falling back to a generic status line when the body carries
// none. Structured failures are surfaced verbatim.
func errorFromResponse(resp *resty.Response) error {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		if body.Error != "" {
			msg = body.Error
		} else if body.Message != "" {
			msg = body.Message
		}
	}
	if msg == "" {
		msg = resp.Status()
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: msg}
}

// withTimeout derives the bounded context every call of this client runs
// under. A timeout converts into a client-side error; nothing is cancelable
// mid-flight otherwise.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, d)
}
