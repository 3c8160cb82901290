package dto

// MsgResponse is the {msg} body used by the admin console endpoints
type MsgResponse struct {
	Msg string `json:"msg" example:"Admin created successfully"`
}

// MessageResponse is the {message} body used by the notes endpoints
type MessageResponse struct {
	Message string `json:"message" example:"Note deleted successfully"`
}

// HealthResponse is returned by the health probe
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"postgres"`
}
