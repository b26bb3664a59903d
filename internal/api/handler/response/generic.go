package response

type APIError struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}
