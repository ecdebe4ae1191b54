package mapper

import (
	"github.com/enrichhq/enrichctl/internal/api/dto/v1/batch"
	"github.com/enrichhq/enrichctl/internal/jobs"
)

// JobFromResponse converts a job service batch to a Job. Status values are
// carried as-is; unknown ones are handled at display time.
func JobFromResponse(r batch.Response) jobs.Job {
	return jobs.Job{
		ID:           r.ID,
		FileName:     r.FileName,
		Status:       jobs.Status(r.Status),
		Total:        r.Total,
		Completed:    r.Completed,
		CreatedAt:    r.CreatedAt,
		SuccessRate:  r.SuccessRate,
		EmailHitRate: r.EmailHitRate,
		PhoneHitRate: r.PhoneHitRate,
		EmailsFound:  r.EmailsFound,
		PhonesFound:  r.PhonesFound,
	}
}

// JobsFromResponses converts a slice of batches
func JobsFromResponses(rs []batch.Response) []jobs.Job {
	result := make([]jobs.Job, len(rs))
	for i, r := range rs {
		result[i] = JobFromResponse(r)
	}
	return result
}
