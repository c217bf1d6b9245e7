package models

// Detection is one configured phrase/webhook rule the server matches
// against analysis results. The id is assigned server-side; the client
// never invents one.
type Detection struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phrase     string `json:"phrase"`
	WebhookURL string `json:"webhook_url,omitempty"`
}

// DetectionPayload is the body for POST /api/detections and
// PATCH /api/detections/{id}. Fields left empty on update are not touched.
type DetectionPayload struct {
	Name       string `json:"name,omitempty"`
	Phrase     string `json:"phrase,omitempty"`
	WebhookURL string `json:"webhook_url,omitempty"`
}

// DetectionMutationResponse wraps the detection create/update/delete
// endpoints. The server is inconsistent about which of status/success it
// sets, so failure is judged on the HTTP code plus the error field.
type DetectionMutationResponse struct {
	ID        string     `json:"id,omitempty"`
	Status    string     `json:"status,omitempty"`
	Success   bool       `json:"success,omitempty"`
	Detection *Detection `json:"detection,omitempty"`
	Error     string     `json:"error,omitempty"`
}
