package jobs

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultPageSize is used when no page size is configured.
const DefaultPageSize = 10

// SortField names the Job field the view is ordered by.
type SortField string

const (
	SortCreatedAt   SortField = "created_at"
	SortFileName    SortField = "file_name"
	SortStatus      SortField = "status"
	SortTotal       SortField = "total"
	SortCompleted   SortField = "completed"
	SortSuccessRate SortField = "success_rate"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Filter selects jobs by status and free-text search.
type Filter struct {
	SearchText string `json:"searchText"`
	Status     string `json:"statusFilter"`
}

// Sort orders the view.
type Sort struct {
	Field     SortField `json:"field"`
	Direction Direction `json:"direction"`
}

// DefaultSort shows the newest jobs first.
var DefaultSort = Sort{Field: SortCreatedAt, Direction: Desc}

// compare returns <0, 0, >0 for a against b in ascending order.
type compareFunc func(a, b Job) int

var comparators = map[SortField]compareFunc{
	SortCreatedAt: func(a, b Job) int { return a.CreatedAt.Compare(b.CreatedAt) },
	SortFileName: func(a, b Job) int {
		return strings.Compare(strings.ToLower(a.FileName), strings.ToLower(b.FileName))
	},
	SortStatus:      func(a, b Job) int { return strings.Compare(string(a.Status), string(b.Status)) },
	SortTotal:       func(a, b Job) int { return compareInts(a.Total, b.Total) },
	SortCompleted:   func(a, b Job) int { return compareInts(a.Completed, b.Completed) },
	SortSuccessRate: func(a, b Job) int { return compareFloats(a.SuccessRate, b.SuccessRate) },
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func ParseSortField(value string) (SortField, error) {
	f := SortField(strings.ToLower(strings.TrimSpace(value)))
	if f == "" {
		return DefaultSort.Field, nil
	}
	if _, ok := comparators[f]; !ok {
		return "", fmt.Errorf("unknown sort field %q", value)
	}
	return f, nil
}

func ParseDirection(value string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(value))) {
	case "":
		return DefaultSort.Direction, nil
	case Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", value)
}

// Matches reports whether job passes the filter.
func (f Filter) Matches(job Job) bool {
	if f.Status != "" && f.Status != StatusAll && f.Status != string(job.Status) {
		return false
	}
	search := strings.ToLower(strings.TrimSpace(f.SearchText))
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(job.FileName), search) ||
		strings.Contains(strings.ToLower(job.ID), search)
}

// Apply filters and sorts jobs into a new slice. The input is not modified.
// Equal elements keep their input order in both directions.
func Apply(jobs []Job, filter Filter, s Sort) []Job {
	out := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if filter.Matches(j) {
			out = append(out, j)
		}
	}

	cmp, ok := comparators[s.Field]
	if !ok {
		return out
	}
	desc := s.Direction == Desc
	sort.SliceStable(out, func(i, k int) bool {
		c := cmp(out[i], out[k])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// Page is one slice of a filtered and sorted view.
type Page struct {
	Items      []Job `json:"items"`
	Number     int   `json:"page"`
	Size       int   `json:"pageSize"`
	TotalItems int   `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

// TotalPages returns max(1, ceil(n/size)).
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (n + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage keeps page inside [1, TotalPages(n, size)].
func ClampPage(page, n, size int) int {
	if page < 1 {
		return 1
	}
	if last := TotalPages(n, size); page > last {
		return last
	}
	return page
}

// Paginate returns the requested page of items, clamping the page number.
func Paginate(items []Job, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	n := len(items)
	page = ClampPage(page, n, size)

	start := (page - 1) * size
	end := start + size
	if end > n {
		end = n
	}

	pageItems := make([]Job, end-start)
	copy(pageItems, items[start:end])

	return Page{
		Items:      pageItems,
		Number:     page,
		Size:       size,
		TotalItems: n,
		TotalPages: TotalPages(n, size),
	}
}
