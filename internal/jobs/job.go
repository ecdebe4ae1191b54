package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state reported by the job service.
type Status string

const (
	StatusPending            Status = "pending"
	StatusProcessing         Status = "processing"
	StatusCompleted          Status = "completed"
	StatusFailed             Status = "failed"
	StatusCreditInsufficient Status = "credit_insufficient"

	// StatusUnknown is only a display state for values the job service
	// sends that this client does not recognise.
	StatusUnknown Status = "unknown"
)

var knownStatuses = map[Status]string{
	StatusPending:            "Pending",
	StatusProcessing:         "Processing",
	StatusCompleted:          "Completed",
	StatusFailed:             "Failed",
	StatusCreditInsufficient: "Insufficient credits",
}

// Known reports whether s is one of the statuses the job service defines.
func (s Status) Known() bool {
	_, ok := knownStatuses[s]
	return ok
}

// Display returns the status to show, mapping anything unrecognised to
// StatusUnknown.
func (s Status) Display() Status {
	if s.Known() {
		return s
	}
	return StatusUnknown
}

// Label is the human readable form of the status.
func (s Status) Label() string {
	if label, ok := knownStatuses[s]; ok {
		return label
	}
	return "Unknown"
}

// Job is a read-only snapshot of an enrichment batch.
type Job struct {
	ID           string    `json:"id"`
	FileName     string    `json:"fileName"`
	Status       Status    `json:"status"`
	Total        int       `json:"total"`
	Completed    int       `json:"completed"`
	CreatedAt    time.Time `json:"createdAt"`
	SuccessRate  float64   `json:"successRate"`
	EmailHitRate float64   `json:"emailHitRate"`
	PhoneHitRate float64   `json:"phoneHitRate"`
	EmailsFound  int       `json:"emailsFound"`
	PhonesFound  int       `json:"phonesFound"`
}

// Progress returns the completed share of the batch in percent.
func (j Job) Progress() float64 {
	if j.Total <= 0 {
		return 0
	}
	p := float64(j.Completed) / float64(j.Total) * 100
	if p > 100 {
		return 100
	}
	return p
}

// Source provides job snapshots. Implementations may poll or receive pushes.
type Source interface {
	ListJobs(ctx context.Context) ([]Job, error)
}

// StatusAll is the filter value that matches every status.
const StatusAll = "all"

// ParseStatus parses a status filter value. Empty means StatusAll.
func ParseStatus(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" || v == StatusAll {
		return StatusAll, nil
	}
	if Status(v).Known() {
		return v, nil
	}
	return "", fmt.Errorf("unknown status filter %q", value)
}
