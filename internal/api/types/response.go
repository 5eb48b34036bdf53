// internal/api/types/response.go
package types

// APIResponse is the JSON envelope every endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// OK wraps a payload in a success envelope.
func OK(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// OKMessage wraps a payload and a human-readable message in a success
// envelope.
func OKMessage(data interface{}, message string) APIResponse {
	return APIResponse{Success: true, Data: data, Message: message}
}

// Fail builds a failure envelope with a message only.
func Fail(message string) APIResponse {
	return APIResponse{Success: false, Message: message}
}
