package api

// ErrorResponse is the body for singular failures (401, 403, 404, 500).
type ErrorResponse struct {
	Message string `json:"message"`
	// Error is present only on the generic failure path, where the original
	// contract includes an (empty) error object alongside the message.
	Error *struct{} `json:"error,omitempty"`
}

// ValidationErrorResponse is the body for rejected writes (400). Errors
// holds every field failure from the attempt, in field order.
type ValidationErrorResponse struct {
	Errors []string `json:"errors"`
}
