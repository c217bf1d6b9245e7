package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LucasSch1/IAction/internal/validate"
	"github.com/LucasSch1/IAction/pkg/models"
)

// ErrDetectionFields means create was attempted without both a name and a
// phrase. Checked client-side; no request is issued.
var ErrDetectionFields = errors.New("detection requires both a name and a phrase")

// GetDetections fetches the configured detections. The local list is only a
// cache; callers refresh it after every mutation.
func (c *IActionClient) GetDetections(ctx context.Context) ([]models.Detection, error) {
	ctx, cancel := withTimeout(ctx, c.Config.Timeout)
	defer cancel()

	var detections []models.Detection
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetResult(&detections).
		Get("/api/detections")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errorFromResponse(resp)
	}
	return detections, nil
}

// CreateDetection adds a detection rule. Name and phrase are mandatory; the
// webhook URL is optional but must be http(s) when present.
func (c *IActionClient) CreateDetection(ctx context.Context, p models.DetectionPayload) (*models.DetectionMutationResponse, error) {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Phrase) == "" {
		return nil, ErrDetectionFields
	}
	if err := validate.Webhook(p.WebhookURL); err != nil {
		return nil, fmt.Errorf("webhook_url: %w", err)
	}

	ctx, cancel := withTimeout(ctx, c.Config.Timeout)
	defer cancel()

	var result models.DetectionMutationResponse
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetBody(p).
		SetResult(&result).
		Post("/api/detections")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errorFromResponse(resp)
	}
	return &result, nil
}

// UpdateDetection patches an existing detection. At least one field must be
// set; empty fields are left untouched server-side.
func (c *IActionClient) UpdateDetection(ctx context.Context, id string, p models.DetectionPayload) (*models.DetectionMutationResponse, error) {
	if p.Name == "" && p.Phrase == "" && p.WebhookURL == "" {
		return nil, errors.New("nothing to update")
	}
	if err := validate.Webhook(p.WebhookURL); err != nil {
		return nil, fmt.Errorf("webhook_url: %w", err)
	}

	ctx, cancel := withTimeout(ctx, c.Config.Timeout)
	defer cancel()

	var result models.DetectionMutationResponse
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetBody(p).
		SetResult(&result).
		Patch("/api/detections/" + id)

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errorFromResponse(resp)
	}
	return &result, nil
}

// DeleteDetection removes a detection by id.
func (c *IActionClient) DeleteDetection(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, c.Config.Timeout)
	defer cancel()

	resp, err := c.HTTP.R().
		SetContext(ctx).
		Delete("/api/detections/" + id)

	if err != nil {
		return err
	}
	if resp.IsError() {
		return errorFromResponse(resp)
	}
	return nil
}
