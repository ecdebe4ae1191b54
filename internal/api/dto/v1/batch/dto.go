package batch

import (
	"time"

	"github.com/enrichhq/enrichctl/internal/export"
	"github.com/enrichhq/enrichctl/internal/jobs"
	"github.com/enrichhq/enrichctl/internal/notice"
)

// Response is a batch as returned by the job status service.
type Response struct {
	ID           string    `json:"id"`
	FileName     string    `json:"file_name"`
	Status       string    `json:"status"`
	Total        int       `json:"total"`
	Completed    int       `json:"completed"`
	CreatedAt    time.Time `json:"created_at"`
	SuccessRate  float64   `json:"success_rate"`
	EmailHitRate float64   `json:"email_hit_rate"`
	PhoneHitRate float64   `json:"phone_hit_rate"`
	EmailsFound  int       `json:"emails_found"`
	PhonesFound  int       `json:"phones_found"`
}

// ExportRequest is the dashboard's export request body
type ExportRequest struct {
	Targets          []string `json:"targets" binding:"required,min=1"`
	Destination      string   `json:"destination" binding:"required"`
	FilenameOverride string   `json:"filename,omitempty"`
}

// ListQuery holds the dashboard's job list query parameters
type ListQuery struct {
	Search    string `form:"search"`
	Status    string `form:"status"`
	SortBy    string `form:"sort"`
	Direction string `form:"dir"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ListResponse is one page of the dashboard job view
type ListResponse struct {
	Page        jobs.Page       `json:"page"`
	Filter      jobs.Filter     `json:"filter"`
	Sort        jobs.Sort       `json:"sort"`
	RefreshedAt time.Time       `json:"refreshedAt"`
	Notices     []notice.Notice `json:"notices,omitempty"`
}

// ExportResponse reports an export action. RemainingSelection holds the
// ids that failed and stay selected.
type ExportResponse struct {
	Outcome            export.Outcome `json:"outcome"`
	RemainingSelection []string       `json:"remainingSelection"`
	Notice             notice.Notice  `json:"notice"`
}

// DestinationsResponse lists the registered export destinations
type DestinationsResponse struct {
	Destinations []string `json:"destinations"`
}
