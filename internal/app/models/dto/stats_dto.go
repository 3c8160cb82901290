package dto

// StatsResponse holds aggregate counts for the admin dashboard
type StatsResponse struct {
	Subjects       int64 `json:"subjects" example:"4"`
	Topics         int64 `json:"topics" example:"20"`
	Contents       int64 `json:"contents" example:"85"`
	Notes          int64 `json:"notes" example:"12"`
	TotalDownloads int64 `json:"totalDownloads" example:"340"`
}
