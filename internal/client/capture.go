package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/LucasSch1/IAction/pkg/models"
)

// ErrNoRTSPURL means the server is in rtsp mode without a configured URL.
// The start call is refused client-side before any network request.
var ErrNoRTSPURL = errors.New("capture mode is rtsp but no RTSP URL is configured")

// GetPublicConfig fetches the non-admin configuration subset.
func (c *IActionClient) GetPublicConfig(ctx context.Context) (*models.PublicConfig, error) {
	ctx, cancel := withTimeout(ctx, c.Config.Timeout)
	defer cancel()

	var cfg models.PublicConfig
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetResult(&cfg).
		Get("/api/config")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errorFromResponse(resp)
	}
	return &cfg, nil
}

// GetMetrics fetches the lightweight performance metrics.
func (c *IActionClient) GetMetrics(ctx context.Context) (*models.Metrics, error) {
	ctx, cancel := withTimeout(ctx, HealthTimeout)
	defer cancel()

	var m models.Metrics
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetResult(&m).
		Get("/api/metrics")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errorFromResponse(resp)
	}
	return &m, nil
}

// GetCaptureStatus fetches the authoritative capture state.
func (c *IActionClient) GetCaptureStatus(ctx context.Context) (*models.CaptureStatus, error) {
	ctx, cancel := withTimeout(ctx, HealthTimeout)
	defer cancel()

	var st models.CaptureStatus
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetResult(&st).
		Get("/api/capture_status")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errorFromResponse(resp)
	}
	return &st, nil
}

// GetStatus fetches the per-camera analysis status.
func (c *IActionClient) GetStatus(ctx context.Context) (*models.AnalysisStatus, error) {
	ctx, cancel := withTimeout(ctx, c.Config.Timeout)
	defer cancel()

	var st models.AnalysisStatus
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetResult(&st).
		Get("/api/status")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errorFromResponse(resp)
	}
	return &st, nil
}

// StartCapture starts the main camera. It first reads the server's public
// config to learn the capture mode, refuses an rtsp start when no URL is
// known anywhere, then posts the mode-appropriate payload.
func (c *IActionClient) StartCapture(ctx context.Context, rtspURL string) (*models.StartCaptureResponse, error) {
	cfg, err := c.GetPublicConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading capture mode: %w", err)
	}

	req := models.StartCaptureRequest{
		Type:   cfg.CaptureMode,
		Source: models.MainCameraID,
	}

	if cfg.CaptureMode == string(models.ModeRTSP) {
		url := rtspURL
		if url == "" {
			url = cfg.RTSPURL
		}
		if url == "" {
			return nil, ErrNoRTSPURL
		}
		req.RTSPURL = url
	}

	ctx, cancel := withTimeout(ctx, c.Config.Timeout)
	defer cancel()

	var result models.StartCaptureResponse
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/api/start_capture")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errorFromResponse(resp)
	}
	return &result, nil
}

// StopCapture stops one camera, or every capture when cameraID is empty.
func (c *IActionClient) StopCapture(ctx context.Context, cameraID string) (*models.StopCaptureResponse, error) {
	ctx, cancel := withTimeout(ctx, c.Config.Timeout)
	defer cancel()

	var result models.StopCaptureResponse
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetBody(models.StopCaptureRequest{CameraID: cameraID}).
		SetResult(&result).
		Post("/api/stop_capture")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errorFromResponse(resp)
	}
	return &result, nil
}
