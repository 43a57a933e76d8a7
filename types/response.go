package types

// ApiResponse is the uniform envelope every endpoint returns.
type ApiResponse struct {
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Data    interface{} `json:"data,omitempty"`
}
