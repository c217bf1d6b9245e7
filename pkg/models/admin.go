package models

import "fmt"

// BadgeState is the small set of visual states a connectivity test can
// resolve to. The CLI renders them as colored markers, the dashboard as
// styled badges.
type BadgeState string

const (
	BadgeOK      BadgeState = "ok"
	BadgeError   BadgeState = "error"
	BadgeInfo    BadgeState = "info"
	BadgeLoading BadgeState = "loading"
	BadgeIdle    BadgeState = "idle"
)

// AITestResult wraps GET /api/admin/ai_test.
type AITestResult struct {
	Success      bool   `json:"success"`
	APIMode      string `json:"api_mode"`
	CurrentModel string `json:"current_model"`
	Error        string `json:"error"`
}

// Badge interprets the result into a badge state and explanatory title.
func (r AITestResult) Badge() (BadgeState, string) {
	if !r.Success {
		if r.Error != "" {
			return BadgeError, r.Error
		}
		return BadgeError, "AI backend unreachable"
	}
	return BadgeOK, fmt.Sprintf("%s (%s)", r.APIMode, r.CurrentModel)
}

// MQTTStatus is the nested status object of GET /api/admin/mqtt_test.
type MQTTStatus struct {
	Connected   bool   `json:"connected"`
	Broker      string `json:"broker"`
	Port        int    `json:"port"`
	TopicPrefix string `json:"topic_prefix"`
}

// MQTTTestResult wraps GET /api/admin/mqtt_test.
type MQTTTestResult struct {
	Success bool       `json:"success"`
	Status  MQTTStatus `json:"status"`
	Error   string     `json:"error"`
}

// Badge interprets the result. A reachable server reporting a disconnected
// broker is an error, not info: the test exists to verify the broker.
func (r MQTTTestResult) Badge() (BadgeState, string) {
	if !r.Success {
		if r.Error != "" {
			return BadgeError, r.Error
		}
		return BadgeError, "MQTT test failed"
	}
	if !r.Status.Connected {
		return BadgeError, fmt.Sprintf("not connected to %s:%d", r.Status.Broker, r.Status.Port)
	}
	return BadgeOK, fmt.Sprintf("connected to %s:%d", r.Status.Broker, r.Status.Port)
}

// RTSPTestResult wraps POST /api/admin/rtsp_test. Status is one of
// online, offline, not_configured or error.
type RTSPTestResult struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	URL     string `json:"url"`
	Error   string `json:"error"`
}

func (r RTSPTestResult) Badge() (BadgeState, string) {
	if !r.Success {
		if r.Error != "" {
			return BadgeError, r.Error
		}
		return BadgeError, "RTSP test failed"
	}
	switch r.Status {
	case "online":
		return BadgeOK, fmt.Sprintf("stream online: %s", r.URL)
	case "not_configured":
		return BadgeInfo, "no RTSP URL configured"
	case "offline":
		return BadgeError, fmt.Sprintf("stream offline: %s", r.URL)
	default:
		return BadgeError, fmt.Sprintf("status %q: %s", r.Status, r.URL)
	}
}
