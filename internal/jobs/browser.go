package jobs

// Browser keeps the filter, sort and page the user is looking at. Changing
// the filter or the sort always returns to page 1.
type Browser struct {
	filter   Filter
	sort     Sort
	page     int
	pageSize int
}

func NewBrowser(pageSize int) *Browser {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Browser{
		filter:   Filter{Status: StatusAll},
		sort:     DefaultSort,
		page:     1,
		pageSize: pageSize,
	}
}

func (b *Browser) Filter() Filter { return b.filter }
func (b *Browser) Sort() Sort     { return b.sort }
func (b *Browser) Page() int      { return b.page }
func (b *Browser) PageSize() int  { return b.pageSize }

func (b *Browser) SetFilter(f Filter) {
	if f.Status == "" {
		f.Status = StatusAll
	}
	b.filter = f
	b.page = 1
}

func (b *Browser) SetSort(s Sort) {
	b.sort = s
	b.page = 1
}

// SetPage moves to page, clamped against the current result of jobs.
func (b *Browser) SetPage(page int, jobs []Job) {
	n := len(Apply(jobs, b.filter, b.sort))
	b.page = ClampPage(page, n, b.pageSize)
}

// View recomputes the visible page from jobs. The stored page is clamped
// if the data shrank underneath it.
func (b *Browser) View(jobs []Job) Page {
	p := Paginate(Apply(jobs, b.filter, b.sort), b.page, b.pageSize)
	b.page = p.Number
	return p
}
