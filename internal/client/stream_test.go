package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mjpegServer(t *testing.T, frames [][]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/video_feed/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
		flusher := w.(http.Flusher)
		for _, frame := range frames {
			fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\n\r\n")
			w.Write(frame)
			fmt.Fprint(w, "\r\n")
			flusher.Flush()
		}
		fmt.Fprint(w, "--frame--\r\n")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStreamURLCacheBuster(t *testing.T) {
	c := New(ClientConfig{BaseURL: "http://localhost:5000"})
	a := c.StreamURL("main")
	b := c.StreamURL("main")
	assert.Contains(t, a, "/video_feed/main?t=")
	assert.NotEqual(t, a, b)
}

func TestReadStream(t *testing.T) {
	frames := [][]byte{[]byte("jpeg-one"), []byte("jpeg-two"), []byte("jpeg-three")}
	srv := mjpegServer(t, frames)
	c := New(ClientConfig{BaseURL: srv.URL})

	var got [][]byte
	err := c.ReadStream(context.Background(), "main", func(frame []byte) bool {
		got = append(got, frame)
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, frames, got)
}

func TestReadStreamStopsWhenCallbackDeclines(t *testing.T) {
	srv := mjpegServer(t, [][]byte{[]byte("one"), []byte("two"), []byte("three")})
	c := New(ClientConfig{BaseURL: srv.URL})

	count := 0
	err := c.ReadStream(context.Background(), "main", func(frame []byte) bool {
		count++
		return count < 2
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSnapshotTakesFirstFrame(t *testing.T) {
	srv := mjpegServer(t, [][]byte{[]byte("first"), []byte("second")})
	c := New(ClientConfig{BaseURL: srv.URL})

	frame, err := c.Snapshot(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), frame)
}

func TestReadStreamRejectsWrongContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html>not a stream</html>")
	}))
	t.Cleanup(srv.Close)
	c := New(ClientConfig{BaseURL: srv.URL})

	err := c.ReadStream(context.Background(), "main", func([]byte) bool { return true })
	assert.ErrorContains(t, err, "content type")
}

func TestReadStreamErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such camera", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	c := New(ClientConfig{BaseURL: srv.URL})

	err := c.ReadStream(context.Background(), "main", func([]byte) bool { return true })
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
