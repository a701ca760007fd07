// Package dto defines the wire shapes shared by all API responses.
package dto

// APIError is the error body every non-2xx response carries.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NotFoundError reports a missing resource.
func NotFoundError(resource string) APIError {
	return APIError{Code: "not_found", Message: resource + " not found"}
}

// BadRequestError reports a malformed request.
func BadRequestError(message string) APIError {
	return APIError{Code: "bad_request", Message: message}
}

// ValidationError reports a feed that failed schema validation.
func ValidationError(message string) APIError {
	return APIError{Code: "validation_error", Message: message}
}

// InternalError reports a server-side failure without leaking detail.
func InternalError() APIError {
	return APIError{Code: "internal_error", Message: "an internal error occurred"}
}
