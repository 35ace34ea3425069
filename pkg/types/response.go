package types

// SuccessEnvelope wraps every 2xx body served by the monitor API.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError carries the error code shared with the CLI exit codes. RequestID
// echoes the X-Request-Id header so operators can find the matching log line.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
