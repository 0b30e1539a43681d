package dto

// DataResponse envoltorio de respuestas exitosas: {"ok": true, "data": ...}.
type DataResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
