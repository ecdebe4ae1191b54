package export

import (
	"github.com/enrichhq/enrichctl/internal/notice"
)

// Failure records why one target of an export did not go through.
type Failure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Outcome aggregates per-target results of an export.
type Outcome struct {
	Destination Destination `json:"destination"`
	Succeeded   []string    `json:"succeeded"`
	Failed      []Failure   `json:"failed"`
}

func (o Outcome) FailedIDs() []string {
	ids := make([]string, 0, len(o.Failed))
	for _, f := range o.Failed {
		ids = append(ids, f.ID)
	}
	return ids
}

// Notice summarises the outcome for the user.
func (o Outcome) Notice() notice.Notice {
	switch {
	case len(o.Failed) == 0:
		return notice.Info("Exported %d job(s) to %s", len(o.Succeeded), o.Destination)
	case len(o.Succeeded) == 0:
		return notice.Error("Export to %s failed for all %d job(s)", o.Destination, len(o.Failed))
	default:
		return notice.Warning("Exported %d job(s) to %s, %d failed and are still selected",
			len(o.Succeeded), o.Destination, len(o.Failed))
	}
}
