package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucasSch1/IAction/pkg/models"
)

// backend records every request the client issues against a scripted
// route table.
type backend struct {
	mu       sync.Mutex
	requests []recordedRequest
	routes   map[string]http.HandlerFunc // "METHOD /path"
}

type recordedRequest struct {
	Method string
	Path   string
	Body   []byte
}

func newBackend() *backend {
	return &backend{routes: map[string]http.HandlerFunc{}}
}

func (b *backend) on(method, path string, h http.HandlerFunc) {
	b.routes[method+" "+path] = h
}

func (b *backend) onJSON(method, path string, v any) {
	b.on(method, path, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(v)
	})
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.requests = append(b.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: body})
	b.mu.Unlock()

	if h, ok := b.routes[r.Method+" "+r.URL.Path]; ok {
		h(w, r)
		return
	}
	http.NotFound(w, r)
}

func (b *backend) hits(method, path string) []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []recordedRequest
	for _, req := range b.requests {
		if req.Method == method && req.Path == path {
			out = append(out, req)
		}
	}
	return out
}

func newTestClient(t *testing.T) (*backend, *IActionClient) {
	t.Helper()
	b := newBackend()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return b, New(ClientConfig{BaseURL: srv.URL})
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	c := New(ClientConfig{BaseURL: "http://localhost:5000/"})
	assert.Equal(t, "http://localhost:5000", c.Config.BaseURL)
	assert.Equal(t, DefaultTimeout, c.Config.Timeout)
}

func TestErrorFromResponse(t *testing.T) {
	b, c := newTestClient(t)

	t.Run("uses the error field", func(t *testing.T) {
		b.on(http.MethodGet, "/api/config", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"bad capture mode"}`))
		})
		_, err := c.GetPublicConfig(context.Background())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Contains(t, apiErr.Message, "bad capture mode")
	})

	t.Run("falls back to the status line", func(t *testing.T) {
		b.on(http.MethodGet, "/api/config", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		_, err := c.GetPublicConfig(context.Background())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	})
}

func TestStartCaptureRTSPMode(t *testing.T) {
	t.Run("refused without any url, before any start request", func(t *testing.T) {
		b, c := newTestClient(t)
		b.onJSON(http.MethodGet, "/api/config", models.PublicConfig{CaptureMode: "rtsp"})

		_, err := c.StartCapture(context.Background(), "")
		assert.ErrorIs(t, err, ErrNoRTSPURL)
		assert.Empty(t, b.hits(http.MethodPost, "/api/start_capture"))
	})

	t.Run("explicit url wins over the configured one", func(t *testing.T) {
		b, c := newTestClient(t)
		b.onJSON(http.MethodGet, "/api/config", models.PublicConfig{
			CaptureMode: "rtsp",
			RTSPURL:     "rtsp://configured.local/live",
		})
		b.onJSON(http.MethodPost, "/api/start_capture", models.StartCaptureResponse{
			Success: true, Message: "started",
		})

		result, err := c.StartCapture(context.Background(), "rtsp://override.local/live")
		require.NoError(t, err)
		assert.Equal(t, "started", result.Message)

		hits := b.hits(http.MethodPost, "/api/start_capture")
		require.Len(t, hits, 1)
		var req models.StartCaptureRequest
		require.NoError(t, json.Unmarshal(hits[0].Body, &req))
		assert.Equal(t, "rtsp", req.Type)
		assert.Equal(t, models.MainCameraID, req.Source)
		assert.Equal(t, "rtsp://override.local/live", req.RTSPURL)
	})

	t.Run("falls back to the configured url", func(t *testing.T) {
		b, c := newTestClient(t)
		b.onJSON(http.MethodGet, "/api/config", models.PublicConfig{
			CaptureMode: "rtsp",
			RTSPURL:     "rtsp://configured.local/live",
		})
		b.onJSON(http.MethodPost, "/api/start_capture", models.StartCaptureResponse{Success: true})

		_, err := c.StartCapture(context.Background(), "")
		require.NoError(t, err)

		hits := b.hits(http.MethodPost, "/api/start_capture")
		require.Len(t, hits, 1)
		var req models.StartCaptureRequest
		require.NoError(t, json.Unmarshal(hits[0].Body, &req))
		assert.Equal(t, "rtsp://configured.local/live", req.RTSPURL)
	})
}

func TestStartCaptureHAMode(t *testing.T) {
	// ha_polling starts need no url at all.
	b, c := newTestClient(t)
	b.onJSON(http.MethodGet, "/api/config", models.PublicConfig{CaptureMode: "ha_polling"})
	b.onJSON(http.MethodPost, "/api/start_capture", models.StartCaptureResponse{Success: true})

	_, err := c.StartCapture(context.Background(), "")
	require.NoError(t, err)

	hits := b.hits(http.MethodPost, "/api/start_capture")
	require.Len(t, hits, 1)
	var req models.StartCaptureRequest
	require.NoError(t, json.Unmarshal(hits[0].Body, &req))
	assert.Equal(t, "ha_polling", req.Type)
	assert.Empty(t, req.RTSPURL)
}

func TestStopCaptureBlanket(t *testing.T) {
	b, c := newTestClient(t)
	b.onJSON(http.MethodPost, "/api/stop_capture", models.StopCaptureResponse{
		Success: true, Message: "stopped",
	})

	_, err := c.StopCapture(context.Background(), "")
	require.NoError(t, err)

	hits := b.hits(http.MethodPost, "/api/stop_capture")
	require.Len(t, hits, 1)
	// An empty camera_id is omitted entirely: the blanket stop payload.
	assert.JSONEq(t, `{}`, string(hits[0].Body))
}

func TestCreateDetectionValidation(t *testing.T) {
	b, c := newTestClient(t)

	_, err := c.CreateDetection(context.Background(), models.DetectionPayload{Name: "Person"})
	assert.ErrorIs(t, err, ErrDetectionFields)

	_, err = c.CreateDetection(context.Background(), models.DetectionPayload{Phrase: "a person"})
	assert.ErrorIs(t, err, ErrDetectionFields)

	_, err = c.CreateDetection(context.Background(), models.DetectionPayload{
		Name: "Person", Phrase: "a person", WebhookURL: "not-a-url",
	})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDetectionFields)

	// None of the rejected payloads reached the server.
	assert.Empty(t, b.hits(http.MethodPost, "/api/detections"))
}

func TestUpdateDetectionEmptyPayload(t *testing.T) {
	b, c := newTestClient(t)
	_, err := c.UpdateDetection(context.Background(), "det-1", models.DetectionPayload{})
	assert.Error(t, err)
	assert.Empty(t, b.hits(http.MethodPatch, "/api/detections/det-1"))
}

func TestSaveAdminConfigEmbedsCameras(t *testing.T) {
	b, c := newTestClient(t)
	b.onJSON(http.MethodPost, "/api/admin/config", models.SaveConfigResponse{Success: true})

	cameras := []models.CameraDescriptor{{
		ID:      "camera_1",
		Name:    "Garage",
		Mode:    models.ModeRTSP,
		RTSPURL: "rtsp://cam.local/1",
	}}
	cfg := models.AdminConfig{models.KeyCaptureMode: "rtsp"}
	require.NoError(t, c.SaveAdminConfig(context.Background(), cfg, cameras))

	hits := b.hits(http.MethodPost, "/api/admin/config")
	require.Len(t, hits, 1)

	var posted map[string]string
	require.NoError(t, json.Unmarshal(hits[0].Body, &posted))
	assert.Equal(t, "rtsp", posted[models.KeyCaptureMode])

	// The camera list travels as one JSON-encoded field.
	var embedded []models.CameraDescriptor
	require.NoError(t, json.Unmarshal([]byte(posted[models.KeyAdditionalCameras]), &embedded))
	require.Len(t, embedded, 1)
	assert.Equal(t, "camera_1", embedded[0].ID)
}

func TestHealthy(t *testing.T) {
	b, c := newTestClient(t)
	assert.False(t, c.Healthy(context.Background()))

	b.onJSON(http.MethodGet, "/api/metrics", models.Metrics{})
	assert.True(t, c.Healthy(context.Background()))
}

func TestWaitHealthy(t *testing.T) {
	b, c := newTestClient(t)
	b.onJSON(http.MethodGet, "/api/metrics", models.Metrics{})

	// Already healthy: returns without sleeping the full budget.
	start := time.Now()
	require.NoError(t, c.WaitHealthy(context.Background(), 10*time.Second))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestWaitHealthyBudgetExceeded(t *testing.T) {
	_, c := newTestClient(t)
	// No /api/metrics route: every probe fails.
	err := c.WaitHealthy(context.Background(), 1500*time.Millisecond)
	assert.Error(t, err)
}

func TestGetCaptureStatusShapes(t *testing.T) {
	t.Run("per-camera map", func(t *testing.T) {
		b, c := newTestClient(t)
		b.onJSON(http.MethodGet, "/api/capture_status", models.CaptureStatus{
			Cameras: map[string]models.CaptureState{
				models.MainCameraID: {IsCapturing: true},
			},
		})
		st, err := c.GetCaptureStatus(context.Background())
		require.NoError(t, err)
		assert.True(t, st.MainCapturing())
	})

	t.Run("legacy top-level boolean", func(t *testing.T) {
		b, c := newTestClient(t)
		b.on(http.MethodGet, "/api/capture_status", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"is_capturing": true}`))
		})
		st, err := c.GetCaptureStatus(context.Background())
		require.NoError(t, err)
		assert.True(t, st.MainCapturing())
	})
}
