package validate

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/LucasSch1/IAction/pkg/models"
)

// Analysis interval bounds, in seconds. Enforced both on the per-camera
// override and on MIN_ANALYSIS_INTERVAL in the admin config.
const (
	IntervalMin = 0.1
	IntervalMax = 60.0
)

// ParseNumber parses a user-supplied number, accepting a comma as the
// decimal separator ("1,5" reads as 1.5).
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}

// NumberInRange parses s and checks it against an inclusive range.
func NumberInRange(s string, min, max float64) (float64, error) {
	v, err := ParseNumber(s)
	if err != nil {
		return 0, err
	}
	if v < min || v > max {
		return 0, fmt.Errorf("value %g out of range [%g, %g]", v, min, max)
	}
	return v, nil
}

// Interval validates an analysis interval in seconds.
func Interval(s string) (float64, error) {
	return NumberInRange(s, IntervalMin, IntervalMax)
}

// HTTPURL checks that s is a well-formed http or https URL with a host.
func HTTPURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http:// or https://, got %q", s)
	}
	if u.Host == "" {
		return fmt.Errorf("URL missing host: %q", s)
	}
	return nil
}

// RTSPURL checks that s is a well-formed rtsp URL with a host.
func RTSPURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if u.Scheme != "rtsp" {
		return fmt.Errorf("URL must use rtsp://, got %q", s)
	}
	if u.Host == "" {
		return fmt.Errorf("URL missing host: %q", s)
	}
	return nil
}

// AdminConfig checks a configuration before it is posted to the server.
// Missing required fields are advisory: they come back as warnings and do
// not block the save. Malformed values on fields that are in play for the
// configured modes are hard errors, as is an invalid Ollama URL regardless
// of mode. Fields belonging to an inactive mode are skipped, the same way
// the admin form only validates visible inputs.
func AdminConfig(cfg models.AdminConfig) (warnings []string, err error) {
	required := []string{models.KeyAIAPIMode, models.KeyMQTTBroker, models.KeyCaptureMode}
	for _, key := range required {
		if strings.TrimSpace(cfg[key]) == "" {
			warnings = append(warnings, fmt.Sprintf("%s is empty", key))
		}
	}

	// Hard block: Ollama URL must parse whenever set.
	if v := strings.TrimSpace(cfg[models.KeyOllamaURL]); v != "" {
		if uerr := HTTPURL(v); uerr != nil {
			return warnings, fmt.Errorf("%s: %w", models.KeyOllamaURL, uerr)
		}
	}

	aiMode := strings.TrimSpace(cfg[models.KeyAIAPIMode])
	if aiMode == "lmstudio" {
		if v := strings.TrimSpace(cfg[models.KeyLMStudioURL]); v != "" {
			if uerr := HTTPURL(v); uerr != nil {
				return warnings, fmt.Errorf("%s: %w", models.KeyLMStudioURL, uerr)
			}
		}
	}

	if v := strings.TrimSpace(cfg[models.KeyAITimeout]); v != "" {
		if _, nerr := NumberInRange(v, 1, 300); nerr != nil {
			return warnings, fmt.Errorf("%s: %w", models.KeyAITimeout, nerr)
		}
	}
	if v := strings.TrimSpace(cfg[models.KeyMQTTPort]); v != "" {
		if _, nerr := NumberInRange(v, 1, 65535); nerr != nil {
			return warnings, fmt.Errorf("%s: %w", models.KeyMQTTPort, nerr)
		}
	}
	if v := strings.TrimSpace(cfg[models.KeyMinAnalysisInterval]); v != "" {
		if _, nerr := Interval(v); nerr != nil {
			return warnings, fmt.Errorf("%s: %w", models.KeyMinAnalysisInterval, nerr)
		}
	}

	switch strings.TrimSpace(cfg[models.KeyCaptureMode]) {
	case "rtsp", "":
		if v := strings.TrimSpace(cfg[models.KeyDefaultRTSPURL]); v != "" {
			if uerr := RTSPURL(v); uerr != nil {
				return warnings, fmt.Errorf("%s: %w", models.KeyDefaultRTSPURL, uerr)
			}
		} else {
			warnings = append(warnings, fmt.Sprintf("%s is empty", models.KeyDefaultRTSPURL))
		}
	case "ha_polling":
		if v := strings.TrimSpace(cfg[models.KeyHABaseURL]); v != "" {
			if uerr := HTTPURL(v); uerr != nil {
				return warnings, fmt.Errorf("%s: %w", models.KeyHABaseURL, uerr)
			}
		} else {
			warnings = append(warnings, fmt.Sprintf("%s is empty", models.KeyHABaseURL))
		}
		if v := strings.TrimSpace(cfg[models.KeyHAPollInterval]); v != "" {
			if _, nerr := NumberInRange(v, 0.1, 3600); nerr != nil {
				return warnings, fmt.Errorf("%s: %w", models.KeyHAPollInterval, nerr)
			}
		}
	}

	return warnings, nil
}

// Camera checks a camera descriptor before it is stored or posted.
func Camera(d models.CameraDescriptor) error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("camera id is empty")
	}
	if d.ID == models.MainCameraID {
		return fmt.Errorf("camera id %q is reserved", models.MainCameraID)
	}
	switch d.Mode {
	case models.ModeRTSP:
		if d.RTSPURL == "" {
			return fmt.Errorf("camera %s: rtsp_url is required in rtsp mode", d.ID)
		}
		if err := RTSPURL(d.RTSPURL); err != nil {
			return fmt.Errorf("camera %s: %w", d.ID, err)
		}
	case models.ModeHAPolling:
		if d.HAEntity == "" {
			return fmt.Errorf("camera %s: ha_entity is required in ha_polling mode", d.ID)
		}
	default:
		return fmt.Errorf("camera %s: unknown mode %q", d.ID, d.Mode)
	}
	if d.AnalysisInterval != 0 && (d.AnalysisInterval < IntervalMin || d.AnalysisInterval > IntervalMax) {
		return fmt.Errorf("camera %s: analysis_interval %g out of range [%g, %g]", d.ID, d.AnalysisInterval, IntervalMin, IntervalMax)
	}
	return nil
}

// Webhook checks an optional detection webhook URL. Empty is fine.
func Webhook(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return HTTPURL(s)
}
