package models

// MainCameraID is the reserved id of the implicit main camera. User-defined
// descriptors are never allowed to claim it.
const MainCameraID = "main"

// CameraMode selects how the server sources frames for a camera.
type CameraMode string

const (
	ModeRTSP      CameraMode = "rtsp"
	ModeHAPolling CameraMode = "ha_polling"
)

// CameraDescriptor describes one camera as posted to the multi-camera
// endpoints and as persisted in the local cameras file. Mode-specific fields
// are omitted when empty so an RTSP camera carries no HA noise and vice versa.
type CameraDescriptor struct {
	ID               string     `json:"id" yaml:"id"`
	Name             string     `json:"name" yaml:"name"`
	Mode             CameraMode `json:"mode" yaml:"mode"`
	RTSPURL          string     `json:"rtsp_url,omitempty" yaml:"rtsp_url,omitempty"`
	RTSPUsername     string     `json:"rtsp_username,omitempty" yaml:"rtsp_username,omitempty"`
	RTSPPassword     string     `json:"rtsp_password,omitempty" yaml:"rtsp_password,omitempty"`
	HAEntity         string     `json:"ha_entity,omitempty" yaml:"ha_entity,omitempty"`
	HAAttr           string     `json:"ha_attr,omitempty" yaml:"ha_attr,omitempty"`
	HAInterval       float64    `json:"ha_interval,omitempty" yaml:"ha_interval,omitempty"`
	AnalysisInterval float64    `json:"analysis_interval,omitempty" yaml:"analysis_interval,omitempty"`
}

// CameraResult is one entry of the ordered per-camera result sequence
// returned by test_multiple and start_multiple. The "status" field only
// appears on test results ("online", "offline", "not_configured", ...).
type CameraResult struct {
	CameraID   string `json:"camera_id"`
	CameraName string `json:"camera_name,omitempty"`
	Success    bool   `json:"success"`
	Status     string `json:"status,omitempty"`
	Message    string `json:"message"`
	URL        string `json:"url,omitempty"`
}

// MultiCameraRequest is the body for test_multiple and start_multiple.
type MultiCameraRequest struct {
	Cameras []CameraDescriptor `json:"cameras"`
}

// MultiCameraResponse wraps both multi-camera endpoints.
type MultiCameraResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Results []CameraResult `json:"results"`
	Error   string         `json:"error,omitempty"`
}

// IntervalRequest is the body for POST /api/camera/interval, the per-camera
// analysis-interval override that bypasses the main config save flow.
type IntervalRequest struct {
	CameraID string  `json:"camera_id"`
	Interval float64 `json:"interval"`
}

// IntervalResponse wraps POST /api/camera/interval.
type IntervalResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}
