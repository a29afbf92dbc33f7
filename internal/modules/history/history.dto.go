package history

import (
	"time"
)

// HistoryResponse represents an archived intern record
// @Description Archived snapshot of a finished intern
type HistoryResponse struct {
	ID              string    `json:"id"`
	InternID        string    `json:"intern_id"`
	InternName      string    `json:"intern_name"`
	Abbreviation    string    `json:"abbreviation"`
	SchoolName      string    `json:"school_name"`
	ShiftName       string    `json:"shift_name,omitempty"`
	ShiftTime       string    `json:"shift_time,omitempty"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	RequiredSeconds int64     `json:"required_seconds"`
	TotalSeconds    int64     `json:"total_seconds"`
	Status          string    `json:"status"`
	ArchivedAt      time.Time `json:"archived_at"`
} // @name HistoryResponse

// ListHistoryResponse wraps a list of archived records
type ListHistoryResponse struct {
	Records []HistoryResponse `json:"records"`
	Total   int               `json:"total"`
} // @name ListHistoryResponse

// ArchiveResponse reports the outcome of a forced archival
type ArchiveResponse struct {
	ArchivedCount int `json:"archived_count"`
} // @name ArchiveResponse

// CleanupResponse reports how many expired records were purged
type CleanupResponse struct {
	DeletedCount int64 `json:"deleted_count"`
} // @name CleanupResponse
