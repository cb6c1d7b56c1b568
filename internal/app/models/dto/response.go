package dto

import "time"

// APIResponse is the envelope for every API response
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewSuccessResponse wraps data in a successful envelope
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewPartialResponse carries committed data together with the error that
// stopped the workflow after the commit.
func NewPartialResponse(data interface{}, errorDetail *ErrorDetail) APIResponse {
	return APIResponse{
		Success:   false,
		Data:      data,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}
