package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LucasSch1/IAction/pkg/models"
)

// GetAdminConfig fetches the flat configuration mapping from the admin API.
func (c *IActionClient) GetAdminConfig(ctx context.Context) (models.AdminConfig, error) {
	ctx, cancel := withTimeout(ctx, c.Config.Timeout)
	defer cancel()

	var cfg models.AdminConfig
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetResult(&cfg).
		Get("/api/admin/config")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errorFromResponse(resp)
	}
	return cfg, nil
}

// SaveAdminConfig posts the full configuration mapping. Additional camera
// descriptors ride along in a single JSON-encoded field, the same shape the
// admin form submits.
func (c *IActionClient) SaveAdminConfig(ctx context.Context, cfg models.AdminConfig, cameras []models.CameraDescriptor) error {
	if cameras != nil {
		encoded, err := json.Marshal(cameras)
		if err != nil {
			return fmt.Errorf("encoding additional cameras: %w", err)
		}
		cfg[models.KeyAdditionalCameras] = string(encoded)
	}

	ctx, cancel := withTimeout(ctx, c.Config.Timeout)
	defer cancel()

	var result models.SaveConfigResponse
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetBody(cfg).
		SetResult(&result).
		Post("/api/admin/config")

	if err != nil {
		return err
	}
	if resp.IsError() {
		return errorFromResponse(resp)
	}
	if !result.Success && result.Error != "" {
		return fmt.Errorf("save rejected: %s", result.Error)
	}
	return nil
}

// HotReload asks the server to re-read its configuration without a restart.
// Bounded to 5s; on failure the caller should warn that a manual restart
// may be required.
func (c *IActionClient) HotReload(ctx context.Context) (*models.ReloadResponse, error) {
	ctx, cancel := withTimeout(ctx, ReloadTimeout)
	defer cancel()

	var result models.ReloadResponse
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetResult(&result).
		Post("/api/admin/reload")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errorFromResponse(resp)
	}
	if !result.Success {
		if result.Error != "" {
			return nil, fmt.Errorf("reload failed: %s", result.Error)
		}
		return nil, fmt.Errorf("reload failed")
	}
	return &result, nil
}

// Restart asks the server to restart itself. Only the HTTP status matters;
// the process exits right after answering, so callers follow up with
// WaitHealthy.
func (c *IActionClient) Restart(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, c.Config.Timeout)
	defer cancel()

	resp, err := c.HTTP.R().
		SetContext(ctx).
		Post("/api/admin/restart")

	if err != nil {
		return err
	}
	if resp.IsError() {
		return errorFromResponse(resp)
	}
	return nil
}

// Shutdown stops the server process. The endpoint only accepts requests
// from localhost.
func (c *IActionClient) Shutdown(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, c.Config.Timeout)
	defer cancel()

	resp, err := c.HTTP.R().
		SetContext(ctx).
		Post("/api/admin/shutdown")

	if err != nil {
		return err
	}
	if resp.IsError() {
		return errorFromResponse(resp)
	}
	return nil
}

// Healthy probes /api/metrics as a liveness check with a 2s bound.
func (c *IActionClient) Healthy(ctx context.Context) bool {
	ctx, cancel := withTimeout(ctx, HealthTimeout)
	defer cancel()

	resp, err := c.HTTP.R().
		SetContext(ctx).
		Get("/api/metrics")

	return err == nil && !resp.IsError()
}

// WaitHealthy polls the health probe once a second until the server answers
// or the budget runs out. This is the recovery half of the restart flow.
func (c *IActionClient) WaitHealthy(ctx context.Context, budget time.Duration) error {
	deadline := time.Now().Add(budget)
	for {
		if c.Healthy(ctx) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("server did not come back within %s", budget)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

// TestAI runs the AI backend connectivity test.
func (c *IActionClient) TestAI(ctx context.Context) (*models.AITestResult, error) {
	ctx, cancel := withTimeout(ctx, AITestTimeout)
	defer cancel()

	var result models.AITestResult
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/api/admin/ai_test")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errorFromResponse(resp)
	}
	return &result, nil
}

// TestMQTT runs the broker connectivity test via the server.
func (c *IActionClient) TestMQTT(ctx context.Context) (*models.MQTTTestResult, error) {
	ctx, cancel := withTimeout(ctx, MQTTTestTimeout)
	defer cancel()

	var result models.MQTTTestResult
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/api/admin/mqtt_test")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errorFromResponse(resp)
	}
	return &result, nil
}

// TestRTSP tests an RTSP source via the server. An empty url falls back to
// the server's configured DEFAULT_RTSP_URL.
func (c *IActionClient) TestRTSP(ctx context.Context, url string) (*models.RTSPTestResult, error) {
	ctx, cancel := withTimeout(ctx, RTSPTestTimeout)
	defer cancel()

	body := map[string]string{}
	if url != "" {
		body["url"] = url
	}

	var result models.RTSPTestResult
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post("/api/admin/rtsp_test")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errorFromResponse(resp)
	}
	return &result, nil
}
