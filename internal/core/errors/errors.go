package errors

const (
	HttpInternalError        = "internal_error"
	HttpInvalidJsonError     = "invalid_json"
	HttpInvalidRequestError  = "invalid_request"
	HttpNotFoundError        = "not_found"
	HttpUnauthorizedError    = "unauthorized"
	HttpRecordingFailedError = "recording_failed"
	HttpReadFailedError      = "read_failed"
	HttpUploadFailedError    = "upload_failed"
)

// ErrorResponse is the JSON error body returned by all API endpoints.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
