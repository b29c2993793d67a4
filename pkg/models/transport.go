package models

// AnalyzeRequest is the JSON body of POST /analyze.
type AnalyzeRequest struct {
	Path string `json:"path" binding:"required"`
}

// BatchRequest is the JSON body of POST /batch.
type BatchRequest struct {
	Directory string `json:"directory" binding:"required"`
}

// ErrorResponse is the uniform error payload of the HTTP surface.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
