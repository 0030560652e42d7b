package response

// StandardApiResponse is the envelope for middleware-level responses. Domain
// controllers shape their own payloads; this envelope is for the cross-cutting
// layers (auth, rate limiting) that reject before a controller runs.
type StandardApiResponse struct {
	Status     string      `json:"status"`           // "success" or "error"
	StatusCode int         `json:"status_code"`      // HTTP status code
	Message    string      `json:"message"`          // Human-readable message
	Data       interface{} `json:"data,omitempty"`   // Payload for success
	Errors     interface{} `json:"errors,omitempty"` // Validation or error details
}
