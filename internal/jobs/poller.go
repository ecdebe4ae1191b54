package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/enrichhq/enrichctl/internal/logging"

	"github.com/robfig/cron/v3"
)

// DefaultRefreshSchedule refreshes the snapshot every 15 seconds.
const DefaultRefreshSchedule = "@every 15s"

// Snapshot is the last job list fetched from the source.
type Snapshot struct {
	Jobs        []Job     `json:"jobs"`
	RefreshedAt time.Time `json:"refreshedAt"`
	Err         error     `json:"-"`
}

// Stale reports whether the last refresh failed.
func (s Snapshot) Stale() bool {
	return s.Err != nil
}

// Poller keeps a job snapshot fresh on a cron schedule.
type Poller struct {
	source  Source
	cron    *cron.Cron
	logger  *logging.Logger
	timeout time.Duration

	// refreshMu serializes refreshes so a slow one cannot overwrite a newer
	// snapshot.
	refreshMu sync.Mutex

	mu       sync.RWMutex
	snapshot Snapshot
}

func NewPoller(source Source, logger *logging.Logger) *Poller {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Poller{
		source:  source,
		cron:    cron.New(),
		logger:  logger,
		timeout: time.Minute,
	}
}

// Start refreshes once immediately and then on schedule.
func (p *Poller) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}

	if _, err := p.cron.AddFunc(schedule, func() {
		p.refresh()
	}); err != nil {
		return err
	}

	p.refresh()
	p.cron.Start()
	p.logger.Info("Job snapshot poller started (%s)", schedule)
	return nil
}

func (p *Poller) Stop() {
	<-p.cron.Stop().Done()
	p.logger.Info("Job snapshot poller stopped")
}

// Refresh fetches a new snapshot right away. Concurrent calls run one
// after another.
func (p *Poller) Refresh(ctx context.Context) Snapshot {
	p.refreshMu.Lock()
	defer p.refreshMu.Unlock()

	jobs, err := p.source.ListJobs(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.logger.Warn("Job refresh failed, keeping previous snapshot: %v", err)
		p.snapshot.Err = err
		return p.snapshot
	}
	p.snapshot = Snapshot{Jobs: jobs, RefreshedAt: time.Now()}
	return p.snapshot
}

func (p *Poller) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	p.Refresh(ctx)
}

// Snapshot returns the current snapshot.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// ListJobs lets the poller stand in for a Source using its cached data.
func (p *Poller) ListJobs(ctx context.Context) ([]Job, error) {
	s := p.Snapshot()
	if s.RefreshedAt.IsZero() && s.Err != nil {
		return nil, s.Err
	}
	return s.Jobs, nil
}

// Find returns the job with id from the current snapshot.
func (p *Poller) Find(id string) (Job, bool) {
	return FindByID(p.Snapshot().Jobs, id)
}

// FindByID looks a job up by id.
func FindByID(jobs []Job, id string) (Job, bool) {
	for _, j := range jobs {
		if j.ID == id {
			return j, true
		}
	}
	return Job{}, false
}
