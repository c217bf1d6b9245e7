package models

import "math"

// CaptureState is the per-camera slice of GET /api/capture_status.
type CaptureState struct {
	IsCapturing  bool `json:"is_capturing"`
	CameraActive bool `json:"camera_active"`
}

// CaptureStatus wraps GET /api/capture_status. Older server builds returned
// a bare top-level is_capturing for the main camera; current ones return the
// per-camera map. Both shapes decode into this struct.
type CaptureStatus struct {
	IsCapturing   bool                    `json:"is_capturing"`
	Cameras       map[string]CaptureState `json:"cameras"`
	ActiveCameras int                     `json:"active_cameras"`
}

// MainCapturing reports whether the main camera is capturing, whichever
// response shape the server used.
func (s CaptureStatus) MainCapturing() bool {
	if st, ok := s.Cameras[MainCameraID]; ok {
		return st.IsCapturing
	}
	return s.IsCapturing
}

// Metrics is the lightweight performance payload of GET /api/metrics. The
// endpoint doubles as the liveness probe: any 200 means the server is up.
type Metrics struct {
	LastAnalysisTime      float64 `json:"last_analysis_time"`
	LastAnalysisDuration  float64 `json:"last_analysis_duration"`
	AnalysisFPS           float64 `json:"analysis_fps"`
	AnalysisTotalInterval float64 `json:"analysis_total_interval"`
	AnalysisTotalFPS      float64 `json:"analysis_total_fps"`
	Timestamp             float64 `json:"timestamp"`
}

// DerivedFPS computes the analysis rate from the last duration, 0 when the
// duration is zero, negative or non-finite.
func (m Metrics) DerivedFPS() float64 {
	if m.LastAnalysisDuration <= 0 || math.IsNaN(m.LastAnalysisDuration) || math.IsInf(m.LastAnalysisDuration, 0) {
		return 0
	}
	return 1.0 / m.LastAnalysisDuration
}

// StartCaptureRequest is the body for POST /api/start_capture.
type StartCaptureRequest struct {
	Type    string `json:"type"`
	Source  string `json:"source"`
	RTSPURL string `json:"rtsp_url,omitempty"`
}

// StartCaptureResponse wraps POST /api/start_capture. Camera carries
// whatever descriptor the server resolved; its shape is not stable.
type StartCaptureResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Camera  map[string]any `json:"camera"`
	Error   string         `json:"error"`
}

// StopCaptureRequest is the body for POST /api/stop_capture. An empty
// CameraID stops every capture at once.
type StopCaptureRequest struct {
	CameraID string `json:"camera_id,omitempty"`
}

// StopCaptureResponse wraps POST /api/stop_capture.
type StopCaptureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// CameraAnalysisStatus is the per-camera slice of GET /api/status.
type CameraAnalysisStatus struct {
	LastAnalysisTime     float64 `json:"last_analysis_time"`
	LastAnalysisDuration float64 `json:"last_analysis_duration"`
	AnalysisInProgress   bool    `json:"analysis_in_progress"`
	IsCapturing          bool    `json:"is_capturing"`
}

// AnalysisStatus wraps GET /api/status.
type AnalysisStatus struct {
	Cameras       map[string]CameraAnalysisStatus `json:"cameras"`
	ActiveCameras int                             `json:"active_cameras"`
}
