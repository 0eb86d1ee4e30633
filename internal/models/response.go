package models

// APIResponse is the envelope every endpoint answers with. Exactly one of
// Data or Error is set; Errors carries per-field validation messages.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data}
}

func NewErrorResponse(message string) APIResponse {
	return APIResponse{Error: message}
}

func NewValidationErrorResponse(fields map[string]string) APIResponse {
	return APIResponse{Error: "Validation failed", Errors: fields}
}

// MessageResponse is the payload for operations that only confirm success,
// such as deleting a post or an account.
type MessageResponse struct {
	Msg string `json:"msg"`
}

func NewMessageResponse(msg string) APIResponse {
	return NewSuccessResponse(MessageResponse{Msg: msg})
}
