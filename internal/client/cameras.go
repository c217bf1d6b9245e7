package client

import (
	"context"
	"fmt"

	"github.com/LucasSch1/IAction/pkg/models"
)

// AvailableCamera is one entry of GET /api/cameras, the server-side
// inventory of RTSP sources it knows how to open.
type AvailableCamera struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	URL        string `json:"url,omitempty"`
	TestStatus string `json:"test_status,omitempty"`
}

type cameraListResponse struct {
	Success bool              `json:"success"`
	Cameras []AvailableCamera `json:"cameras"`
	Count   int               `json:"count"`
	Error   string            `json:"error"`
}

// ListCameras fetches the server's camera inventory.
func (c *IActionClient) ListCameras(ctx context.Context) ([]AvailableCamera, error) {
	ctx, cancel := withTimeout(ctx, c.Config.Timeout)
	defer cancel()

	var result cameraListResponse
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/api/cameras")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errorFromResponse(resp)
	}
	return result.Cameras, nil
}

// RefreshCameras forces the server to rebuild its camera inventory.
func (c *IActionClient) RefreshCameras(ctx context.Context) ([]AvailableCamera, error) {
	ctx, cancel := withTimeout(ctx, c.Config.Timeout)
	defer cancel()

	var result cameraListResponse
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetResult(&result).
		Post("/api/cameras/refresh")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errorFromResponse(resp)
	}
	return result.Cameras, nil
}

// TestMultiple probes every camera in the list without starting anything.
// The 10s bound covers the server testing each source in turn.
func (c *IActionClient) TestMultiple(ctx context.Context, cameras []models.CameraDescriptor) ([]models.CameraResult, error) {
	ctx, cancel := withTimeout(ctx, CamerasTestTimeout)
	defer cancel()

	var result models.MultiCameraResponse
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetBody(models.MultiCameraRequest{Cameras: cameras}).
		SetResult(&result).
		Post("/api/admin/cameras/test_multiple")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errorFromResponse(resp)
	}
	if !result.Success && result.Error != "" {
		return nil, fmt.Errorf("camera test failed: %s", result.Error)
	}
	return result.Results, nil
}

// StartMultiple starts every camera in the list. The response is an ordered
// per-camera result sequence; individual failures do not fail the call.
func (c *IActionClient) StartMultiple(ctx context.Context, cameras []models.CameraDescriptor) (*models.MultiCameraResponse, error) {
	ctx, cancel := withTimeout(ctx, CamerasTestTimeout)
	defer cancel()

	var result models.MultiCameraResponse
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetBody(models.MultiCameraRequest{Cameras: cameras}).
		SetResult(&result).
		Post("/api/admin/cameras/start_multiple")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errorFromResponse(resp)
	}
	if !result.Success && result.Error != "" {
		return nil, fmt.Errorf("start failed: %s", result.Error)
	}
	return &result, nil
}

// ApplyInterval posts a single camera's analysis-interval override,
// independent of the main config save flow.
func (c *IActionClient) ApplyInterval(ctx context.Context, cameraID string, interval float64) (*models.IntervalResponse, error) {
	ctx, cancel := withTimeout(ctx, c.Config.Timeout)
	defer cancel()

	var result models.IntervalResponse
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetBody(models.IntervalRequest{CameraID: cameraID, Interval: interval}).
		SetResult(&result).
		Post("/api/camera/interval")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errorFromResponse(resp)
	}
	if !result.Success && result.Error != "" {
		return nil, fmt.Errorf("interval rejected: %s", result.Error)
	}
	return &result, nil
}
