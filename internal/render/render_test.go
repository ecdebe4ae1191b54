package render

import (
	"strings"
	"testing"
	"time"

	"github.com/enrichhq/enrichctl/internal/export"
	"github.com/enrichhq/enrichctl/internal/jobs"

	"github.com/stretchr/testify/assert"
)

func TestStatusBadgeUnknown(t *testing.T) {
	assert.Contains(t, StatusBadge("archived"), "Unknown")
	assert.Contains(t, StatusBadge(jobs.StatusCreditInsufficient), "Insufficient credits")
}

func TestJobsPage(t *testing.T) {
	page := jobs.Paginate([]jobs.Job{
		{ID: "b-1", FileName: "leads.csv", Status: jobs.StatusCompleted, Total: 10, Completed: 10, CreatedAt: time.Now()},
		{ID: "b-2", FileName: "odd.csv", Status: "mystery", CreatedAt: time.Now()},
	}, 1, 10)

	out := JobsPage(page, export.NewSelection("b-1"))
	assert.Contains(t, out, "leads.csv")
	assert.Contains(t, out, "[x]")
	assert.Contains(t, out, "Unknown")
	assert.Contains(t, out, "Page 1 of 1")
}

func TestJobsPageEmpty(t *testing.T) {
	out := JobsPage(jobs.Paginate(nil, 1, 10), nil)
	assert.Contains(t, out, "No batches match")
}

func TestMaskSecret(t *testing.T) {
	secret := strings.Repeat("a1", 32)
	assert.Equal(t, "a1a1…a1a1", MaskSecret(secret))
	assert.Equal(t, "•••", MaskSecret("abc"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestOutcome(t *testing.T) {
	out := Outcome(export.Outcome{
		Destination: export.DestinationCSV,
		Succeeded:   []string{"j1"},
		Failed:      []export.Failure{{ID: "j2", Reason: "timeout"}},
	})
	assert.Contains(t, out, "WARNING")
	assert.Contains(t, out, "j2: timeout")
}
