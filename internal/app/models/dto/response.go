package dto

// APIResponse is the standard success envelope for API endpoints.
type APIResponse struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the standard error envelope for API endpoints.
type ErrorResponse struct {
	Error string `json:"error" example:"Invalid stage value"`
}

// NewAPIResponse creates a success envelope around data.
func NewAPIResponse(data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error envelope with the given message.
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}
