package dto

// ErrorResponse cuerpo de error HTTP. Code es el mismo código estable de ItemFailure.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
