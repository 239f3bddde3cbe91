package dto

// ErrorResponse is the uniform error body for all endpoints
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// MessageResponse carries a simple confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}
