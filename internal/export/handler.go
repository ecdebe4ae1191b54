package export

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/enrichhq/enrichctl/internal/jobs"
)

// Authority is the remote export and integration service.
type Authority interface {
	ExportFile(ctx context.Context, jobID, format, filename string) error
	PushIntegration(ctx context.Context, jobID, integration string) error
}

// Target is one job within a request, handed to a Handler.
type Target struct {
	Job              jobs.Job
	FilenameOverride string
	Bulk             bool
}

// Handler delivers a single job to one destination.
type Handler interface {
	Kind() Kind
	Deliver(ctx context.Context, target Target) error
}

type fileHandler struct {
	authority Authority
	format    string
	ext       string
}

func (h fileHandler) Kind() Kind { return KindFile }

func (h fileHandler) Deliver(ctx context.Context, target Target) error {
	return h.authority.ExportFile(ctx, target.Job.ID, h.format, h.Filename(target))
}

// Filename picks the output name: the override when given (suffixed with
// the job id in bulk exports so names don't collide), otherwise the
// upload's base name with an _enriched suffix.
func (h fileHandler) Filename(target Target) string {
	if target.FilenameOverride != "" {
		base := strings.TrimSuffix(target.FilenameOverride, "."+h.ext)
		if target.Bulk {
			base = base + "_" + target.Job.ID
		}
		return base + "." + h.ext
	}

	base := strings.TrimSuffix(filepath.Base(target.Job.FileName), filepath.Ext(target.Job.FileName))
	if base == "" || base == "." {
		base = target.Job.ID
	}
	return base + "_enriched." + h.ext
}

type integrationHandler struct {
	authority   Authority
	integration string
}

func (h integrationHandler) Kind() Kind { return KindIntegration }

func (h integrationHandler) Deliver(ctx context.Context, target Target) error {
	return h.authority.PushIntegration(ctx, target.Job.ID, h.integration)
}

// Registry maps destinations to handlers. New destinations are added with
// Register and never change existing entries.
type Registry struct {
	mu       sync.RWMutex
	handlers map[Destination]Handler
}

func NewEmptyRegistry() *Registry {
	return &Registry{handlers: make(map[Destination]Handler)}
}

// NewRegistry returns a registry with the built-in file formats and
// integration pushes wired to authority.
func NewRegistry(authority Authority) *Registry {
	r := NewEmptyRegistry()
	r.mustRegister(DestinationCSV, fileHandler{authority: authority, format: "csv", ext: "csv"})
	r.mustRegister(DestinationExcel, fileHandler{authority: authority, format: "xlsx", ext: "xlsx"})
	r.mustRegister(DestinationJSON, fileHandler{authority: authority, format: "json", ext: "json"})
	r.mustRegister(DestinationCRM, integrationHandler{authority: authority, integration: "crm"})
	r.mustRegister(DestinationSequencer, integrationHandler{authority: authority, integration: "sequencer"})
	r.mustRegister(DestinationAutomation, integrationHandler{authority: authority, integration: "automation"})
	return r
}

// Register adds a destination. Registering an existing destination fails.
func (r *Registry) Register(d Destination, h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[d]; exists {
		return fmt.Errorf("destination %q already registered", d)
	}
	r.handlers[d] = h
	return nil
}

func (r *Registry) mustRegister(d Destination, h Handler) {
	if err := r.Register(d, h); err != nil {
		panic(err)
	}
}

// Lookup returns the handler for d.
func (r *Registry) Lookup(d Destination) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[d]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownDestination, d,
			strings.Join(sortedDestinations(r.handlers), ", "))
	}
	return h, nil
}

// Destinations lists registered destinations in name order.
func (r *Registry) Destinations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedDestinations(r.handlers)
}
