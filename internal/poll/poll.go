// Package poll implements the 1 Hz status-reconciliation loop. The server
// is the source of truth; the loop mirrors its capture state and metrics
// into whatever view is attached (terminal dashboard, exporter, logs).
package poll

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/LucasSch1/IAction/internal/client"
	"github.com/LucasSch1/IAction/pkg/models"
	"go.uber.org/zap"
)

// DefaultInterval matches the fixed one-second tick of the status loop.
const DefaultInterval = time.Second

// Snapshot is the state observed during one tick. The two fetches are
// independent: Reachable covers metrics, StatusKnown covers capture status.
type Snapshot struct {
	Reachable   bool
	Metrics     models.Metrics
	StatusKnown bool
	IsCapturing bool
	Cameras     map[string]models.CaptureState
	At          time.Time
}

// Events are the edge-transition callbacks. Started/Stopped fire only when
// the capture boolean actually flips between two known states, never on
// every tick, so attached views are not churned redundantly.
type Events struct {
	OnTick    func(Snapshot)
	OnStarted func()
	OnStopped func()
}

// Poller drives the reconciliation loop. Failures of either fetch are
// swallowed at debug level; the loop never stops on transient errors.
type Poller struct {
	client   *client.IActionClient
	interval time.Duration
	logger   *zap.Logger
	events   Events

	// lastCapturing starts false, like a fresh page: a first poll that
	// reports an active capture is a real off-to-on edge.
	lastCapturing bool
}

func New(c *client.IActionClient, logger *zap.Logger, events Events) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		client:   c,
		interval: DefaultInterval,
		logger:   logger,
		events:   events,
	}
}

// SetInterval overrides the tick interval. Tests shrink it.
func (p *Poller) SetInterval(d time.Duration) {
	if d > 0 {
		p.interval = d
	}
}

// Run ticks until the context is canceled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick performs one reconciliation pass and returns what it observed.
func (p *Poller) Tick(ctx context.Context) Snapshot {
	snap := Snapshot{At: time.Now()}

	if m, err := p.client.GetMetrics(ctx); err != nil {
		p.logger.Debug("metrics fetch failed", zap.Error(err))
	} else {
		snap.Reachable = true
		snap.Metrics = *m
	}

	if st, err := p.client.GetCaptureStatus(ctx); err != nil {
		p.logger.Debug("capture status fetch failed", zap.Error(err))
	} else {
		snap.StatusKnown = true
		snap.IsCapturing = st.MainCapturing()
		snap.Cameras = st.Cameras
		p.reconcile(snap.IsCapturing)
	}

	if p.events.OnTick != nil {
		p.events.OnTick(snap)
	}
	return snap
}

// reconcile diffs the reported capture boolean against the last known one
// and fires the matching edge callback.
func (p *Poller) reconcile(capturing bool) {
	if capturing == p.lastCapturing {
		return
	}
	p.lastCapturing = capturing
	if capturing {
		p.logger.Debug("capture started")
		if p.events.OnStarted != nil {
			p.events.OnStarted()
		}
	} else {
		p.logger.Debug("capture stopped")
		if p.events.OnStopped != nil {
			p.events.OnStopped()
		}
	}
}

// FormatFPS renders an analysis rate derived from a duration: 1/duration
// when positive and finite, otherwise "0.00".
func FormatFPS(duration float64) string {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", 1.0/duration)
}

// SafeFloat passes a numeric field through, defaulting non-finite values
// to 0 so displays never show NaN.
func SafeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
