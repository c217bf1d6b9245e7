package models

// PublicConfig is the subset of server configuration exposed on GET /api/config.
// The capture commands read it before starting anything so they can refuse
// an RTSP start when no URL is configured.
type PublicConfig struct {
	RTSPURL        string  `json:"rtsp_url"`
	CaptureMode    string  `json:"capture_mode"` // "rtsp" or "ha_polling"
	HABaseURL      string  `json:"ha_base_url"`
	HAEntityID     string  `json:"ha_entity_id"`
	HAImageAttr    string  `json:"ha_image_attr"`
	HAPollInterval float64 `json:"ha_poll_interval"`
}

// AdminConfig is the flat key/value mapping round-tripped through
// GET/POST /api/admin/config. The server persists it as its .env file,
// so every value travels as a string.
type AdminConfig map[string]string

// Keys the client validates or fills in before saving. The server accepts
// arbitrary keys; these are the ones it documents defaults for.
const (
	KeyAIAPIMode           = "AI_API_MODE"
	KeyAITimeout           = "AI_TIMEOUT"
	KeyLogLevel            = "LOG_LEVEL"
	KeyOpenAIModel         = "OPENAI_MODEL"
	KeyLMStudioURL         = "LMSTUDIO_URL"
	KeyOllamaURL           = "OLLAMA_URL"
	KeyMQTTBroker          = "MQTT_BROKER"
	KeyMQTTPort            = "MQTT_PORT"
	KeyCaptureMode         = "CAPTURE_MODE"
	KeyDefaultRTSPURL      = "DEFAULT_RTSP_URL"
	KeyHABaseURL           = "HA_BASE_URL"
	KeyHAToken             = "HA_TOKEN"
	KeyHAEntityID          = "HA_ENTITY_ID"
	KeyHAPollInterval      = "HA_POLL_INTERVAL"
	KeyMinAnalysisInterval = "MIN_ANALYSIS_INTERVAL"
	KeyAdditionalCameras   = "ADDITIONAL_CAMERAS"
)

// SaveConfigResponse wraps POST /api/admin/config.
type SaveConfigResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// ReloadResponse wraps POST /api/admin/reload. Status is a loose map of
// per-service reload outcomes (log_level, ai_reloaded, mqtt_reloaded, ...).
type ReloadResponse struct {
	Success bool           `json:"success"`
	Status  map[string]any `json:"status"`
	Error   string         `json:"error"`
}

// RestartResponse wraps POST /api/admin/restart. Only the HTTP status
// really matters; the server goes away right after answering.
type RestartResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}
