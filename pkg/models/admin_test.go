package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAITestResultBadge(t *testing.T) {
	state, title := AITestResult{Success: true, APIMode: "ollama", CurrentModel: "llava"}.Badge()
	assert.Equal(t, BadgeOK, state)
	assert.Equal(t, "ollama (llava)", title)

	state, title = AITestResult{Error: "connection refused"}.Badge()
	assert.Equal(t, BadgeError, state)
	assert.Equal(t, "connection refused", title)

	state, _ = AITestResult{}.Badge()
	assert.Equal(t, BadgeError, state)
}

func TestMQTTTestResultBadge(t *testing.T) {
	ok := MQTTTestResult{
		Success: true,
		Status:  MQTTStatus{Connected: true, Broker: "mqtt.local", Port: 1883},
	}
	state, title := ok.Badge()
	assert.Equal(t, BadgeOK, state)
	assert.Contains(t, title, "mqtt.local:1883")

	// A successful test reporting a disconnected broker is still an error.
	disconnected := MQTTTestResult{
		Success: true,
		Status:  MQTTStatus{Connected: false, Broker: "mqtt.local", Port: 1883},
	}
	state, _ = disconnected.Badge()
	assert.Equal(t, BadgeError, state)
}

func TestRTSPTestResultBadge(t *testing.T) {
	tests := []struct {
		name   string
		result RTSPTestResult
		want   BadgeState
	}{
		{name: "online", result: RTSPTestResult{Success: true, Status: "online", URL: "rtsp://cam/1"}, want: BadgeOK},
		{name: "not configured", result: RTSPTestResult{Success: true, Status: "not_configured"}, want: BadgeInfo},
		{name: "offline", result: RTSPTestResult{Success: true, Status: "offline", URL: "rtsp://cam/1"}, want: BadgeError},
		{name: "unknown status", result: RTSPTestResult{Success: true, Status: "weird"}, want: BadgeError},
		{name: "failed", result: RTSPTestResult{Error: "timeout"}, want: BadgeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, _ := tt.result.Badge()
			assert.Equal(t, tt.want, state)
		})
	}
}

func TestCaptureStatusMainCapturing(t *testing.T) {
	// Per-camera map wins over the top-level boolean.
	st := CaptureStatus{
		IsCapturing: false,
		Cameras:     map[string]CaptureState{MainCameraID: {IsCapturing: true}},
	}
	assert.True(t, st.MainCapturing())

	// Legacy flat shape.
	assert.True(t, CaptureStatus{IsCapturing: true}.MainCapturing())
	assert.False(t, CaptureStatus{}.MainCapturing())
}

func TestMetricsDerivedFPS(t *testing.T) {
	assert.Equal(t, 2.0, Metrics{LastAnalysisDuration: 0.5}.DerivedFPS())
	assert.Equal(t, 0.0, Metrics{}.DerivedFPS())
	assert.Equal(t, 0.0, Metrics{LastAnalysisDuration: -1}.DerivedFPS())
}
