package models

// Response is the uniform envelope for every API reply.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details string      `json:"details,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// Fail wraps an error message in a failure envelope.
func Fail(msg string) Response {
	return Response{Success: false, Error: msg}
}

// FailWithDetails includes the underlying cause. Handlers only attach details
// in development mode.
func FailWithDetails(msg, details string) Response {
	return Response{Success: false, Error: msg, Details: details}
}
