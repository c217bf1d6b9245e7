package poll

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucasSch1/IAction/internal/client"
	"github.com/LucasSch1/IAction/pkg/models"
)

// fakeServer is a minimal backend whose capture state tests flip at will.
type fakeServer struct {
	mu          sync.Mutex
	capturing   bool
	metricsDown bool
	statusDown  bool
}

func (f *fakeServer) setCapturing(v bool) {
	f.mu.Lock()
	f.capturing = v
	f.mu.Unlock()
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		f.mu.Lock()
		down := f.metricsDown
		f.mu.Unlock()
		if down {
			http.Error(w, `{"error":"unavailable"}`, http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(models.Metrics{
			LastAnalysisDuration: 0.5,
			AnalysisTotalFPS:     1.8,
		})
	})
	mux.HandleFunc("/api/capture_status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		f.mu.Lock()
		capturing, down := f.capturing, f.statusDown
		f.mu.Unlock()
		if down {
			http.Error(w, `{"error":"unavailable"}`, http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(models.CaptureStatus{
			Cameras: map[string]models.CaptureState{
				models.MainCameraID: {IsCapturing: capturing, CameraActive: capturing},
			},
		})
	})
	return mux
}

type edgeRecorder struct {
	started int
	stopped int
}

func newTestPoller(t *testing.T) (*fakeServer, *Poller, *edgeRecorder) {
	t.Helper()
	fake := &fakeServer{}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	rec := &edgeRecorder{}
	api := client.New(client.ClientConfig{BaseURL: srv.URL})
	p := New(api, nil, Events{
		OnStarted: func() { rec.started++ },
		OnStopped: func() { rec.stopped++ },
	})
	return fake, p, rec
}

func TestTickObservesState(t *testing.T) {
	fake, p, _ := newTestPoller(t)
	fake.setCapturing(true)

	snap := p.Tick(nil)
	assert.True(t, snap.Reachable)
	assert.True(t, snap.StatusKnown)
	assert.True(t, snap.IsCapturing)
	assert.Equal(t, 1.8, snap.Metrics.AnalysisTotalFPS)
	require.Contains(t, snap.Cameras, models.MainCameraID)
}

// The baseline is "not capturing", so a first tick that reports an active
// capture is a real off-to-on edge.
func TestFirstTickFiresStartEdge(t *testing.T) {
	fake, p, rec := newTestPoller(t)
	fake.setCapturing(true)

	p.Tick(nil)
	assert.Equal(t, 1, rec.started)
	assert.Equal(t, 0, rec.stopped)
}

func TestEdgesFireOnlyOnTransitions(t *testing.T) {
	fake, p, rec := newTestPoller(t)

	// Steady off: no edges.
	p.Tick(nil)
	p.Tick(nil)
	assert.Equal(t, 0, rec.started)
	assert.Equal(t, 0, rec.stopped)

	// off -> on fires once, steady on fires nothing more.
	fake.setCapturing(true)
	p.Tick(nil)
	p.Tick(nil)
	assert.Equal(t, 1, rec.started)

	// on -> off.
	fake.setCapturing(false)
	p.Tick(nil)
	assert.Equal(t, 1, rec.stopped)
}

// A failed fetch is swallowed and does not fabricate an edge; the last known
// state survives the outage.
func TestFailuresAreSwallowed(t *testing.T) {
	fake, p, rec := newTestPoller(t)
	fake.setCapturing(true)
	p.Tick(nil)
	require.Equal(t, 1, rec.started)

	fake.mu.Lock()
	fake.metricsDown = true
	fake.statusDown = true
	fake.mu.Unlock()

	snap := p.Tick(nil)
	assert.False(t, snap.Reachable)
	assert.False(t, snap.StatusKnown)
	assert.Equal(t, 1, rec.started)
	assert.Equal(t, 0, rec.stopped)

	// Recovery reports the same state: still no new edges.
	fake.mu.Lock()
	fake.metricsDown = false
	fake.statusDown = false
	fake.mu.Unlock()

	p.Tick(nil)
	assert.Equal(t, 1, rec.started)
	assert.Equal(t, 0, rec.stopped)
}

func TestTickPartialFailure(t *testing.T) {
	fake, p, _ := newTestPoller(t)
	fake.mu.Lock()
	fake.metricsDown = true
	fake.mu.Unlock()

	snap := p.Tick(nil)
	assert.False(t, snap.Reachable)
	assert.True(t, snap.StatusKnown)
}

func TestFormatFPS(t *testing.T) {
	assert.Equal(t, "2.00", FormatFPS(0.5))
	assert.Equal(t, "0.00", FormatFPS(0))
	assert.Equal(t, "0.00", FormatFPS(-1))
	assert.Equal(t, "0.00", FormatFPS(math.NaN()))
	assert.Equal(t, "0.00", FormatFPS(math.Inf(1)))
}

func TestSafeFloat(t *testing.T) {
	assert.Equal(t, 1.5, SafeFloat(1.5))
	assert.Equal(t, 0.0, SafeFloat(math.NaN()))
	assert.Equal(t, 0.0, SafeFloat(math.Inf(-1)))
}
