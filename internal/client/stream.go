package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strconv"
	"time"
)

// StreamURL returns the MJPEG feed URL for a camera, with a cache-buster
// query so intermediaries never serve a stale stream.
func (c *IActionClient) StreamURL(cameraID string) string {
	return fmt.Sprintf("%s/video_feed/%s?t=%s",
		c.Config.BaseURL, cameraID, strconv.FormatInt(time.Now().UnixNano(), 10))
}

// Snapshot grabs a single JPEG frame from a camera's MJPEG feed.
func (c *IActionClient) Snapshot(ctx context.Context, cameraID string) ([]byte, error) {
	var frame []byte
	err := c.ReadStream(ctx, cameraID, func(b []byte) bool {
		frame = b
		return false
	})
	if err != nil {
		return nil, err
	}
	if len(frame) == 0 {
		return nil, errors.New("no frame received")
	}
	return frame, nil
}

// ReadStream consumes the multipart/x-mixed-replace feed for a camera and
// hands each JPEG frame to fn. Reading stops when fn returns false, the
// context is canceled, or the server closes the stream.
func (c *IActionClient) ReadStream(ctx context.Context, cameraID string, fn func(frame []byte) bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// The stream runs until canceled, so it goes through the untimed client.
	resp, err := c.stream.R().
		SetContext(ctx).
		Get(c.StreamURL(cameraID))

	if err != nil {
		return err
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Message: resp.Status()}
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header().Get("Content-Type"))
	if err != nil {
		return fmt.Errorf("parsing stream content type: %w", err)
	}
	if mediaType != "multipart/x-mixed-replace" {
		return fmt.Errorf("unexpected stream content type %q", mediaType)
	}
	boundary := params["boundary"]
	if boundary == "" {
		return errors.New("stream response missing multipart boundary")
	}

	reader := multipart.NewReader(body, boundary)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		part, err := reader.NextPart()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			// A canceled context surfaces as a read error on the body.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("reading stream part: %w", err)
		}

		frame, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("reading frame: %w", err)
		}

		if !fn(frame) {
			return nil
		}
	}
}
