package recording

// ListRecordingsRequest represents query parameters for listing recordings
type ListRecordingsRequest struct {
	TaskType string `query:"task_type" validate:"omitempty,oneof=photo script conversation"`
	Status   string `query:"status" validate:"omitempty,oneof=uploaded processing completed failed"`
	Page     int    `query:"page" validate:"min=1"`
	PageSize int    `query:"page_size" validate:"min=1,max=100"`
}

// StatsRequest represents query parameters for the speech dashboard
type StatsRequest struct {
	Days int `query:"days" validate:"min=0,max=365"`
}
