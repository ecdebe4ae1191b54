package export

import (
	"context"
	"fmt"

	"github.com/enrichhq/enrichctl/internal/jobs"
	"github.com/enrichhq/enrichctl/internal/logging"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const tracerName = "github.com/enrichhq/enrichctl/internal/export"

// JobLookup resolves job ids against the current job snapshot.
type JobLookup interface {
	Find(id string) (jobs.Job, bool)
}

// SliceLookup is a JobLookup over a fixed job list.
type SliceLookup []jobs.Job

func (s SliceLookup) Find(id string) (jobs.Job, bool) {
	return jobs.FindByID(s, id)
}

// Options tune an Orchestrator.
type Options struct {
	// IntegrationRPS paces integration pushes. Zero or less disables pacing.
	IntegrationRPS float64
	Logger         *logging.Logger
}

// Orchestrator turns export requests into destination calls.
type Orchestrator struct {
	registry *Registry
	lookup   JobLookup
	limiter  *rate.Limiter
	tracer   trace.Tracer
	logger   *logging.Logger
}

func NewOrchestrator(registry *Registry, lookup JobLookup, opts Options) *Orchestrator {
	limit := rate.Inf
	if opts.IntegrationRPS > 0 {
		limit = rate.Limit(opts.IntegrationRPS)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Orchestrator{
		registry: registry,
		lookup:   lookup,
		limiter:  rate.NewLimiter(limit, 1),
		tracer:   otel.Tracer(tracerName),
		logger:   logger,
	}
}

// Export runs req. Validation and precondition failures return an error
// before any destination call. A single-target export returns the
// destination error as is. A multi-target export calls the destination for
// every target in order, never stops early, and reports failures in the
// Outcome with a nil error.
func (o *Orchestrator) Export(ctx context.Context, req Request) (Outcome, error) {
	if err := req.Validate(); err != nil {
		return Outcome{}, err
	}

	handler, err := o.registry.Lookup(req.Destination)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	targets, err := o.resolve(req.Targets)
	if err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{
		Destination: req.Destination,
		Succeeded:   []string{},
		Failed:      []Failure{},
	}
	bulk := len(targets) > 1

	ctx, span := o.tracer.Start(ctx, "export.Export", trace.WithAttributes(
		attribute.String("export.destination", string(req.Destination)),
		attribute.Int("export.targets", len(targets)),
	))
	defer span.End()

	for _, job := range targets {
		target := Target{Job: job, FilenameOverride: req.FilenameOverride, Bulk: bulk}
		if err := o.deliver(ctx, handler, req.Destination, target); err != nil {
			o.logger.Warn("Export of job %s to %s failed: %v", job.ID, req.Destination, err)
			outcome.Failed = append(outcome.Failed, Failure{ID: job.ID, Reason: err.Error()})
			if !bulk {
				span.SetStatus(codes.Error, err.Error())
				return outcome, err
			}
			continue
		}
		o.logger.Info("Exported job %s to %s", job.ID, req.Destination)
		outcome.Succeeded = append(outcome.Succeeded, job.ID)
	}

	if len(outcome.Failed) > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d of %d targets failed", len(outcome.Failed), len(targets)))
	}
	return outcome, nil
}

func (o *Orchestrator) resolve(ids []string) ([]jobs.Job, error) {
	targets := make([]jobs.Job, 0, len(ids))
	for _, id := range ids {
		job, ok := o.lookup.Find(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		if job.Status != jobs.StatusCompleted {
			return nil, fmt.Errorf("%w: %s (%s) is %s", ErrJobNotCompleted, job.FileName, job.ID, job.Status.Display())
		}
		targets = append(targets, job)
	}
	return targets, nil
}

func (o *Orchestrator) deliver(ctx context.Context, h Handler, d Destination, target Target) error {
	ctx, span := o.tracer.Start(ctx, "export.Deliver", trace.WithAttributes(
		attribute.String("export.destination", string(d)),
		attribute.String("export.kind", string(h.Kind())),
		attribute.String("job.id", target.Job.ID),
	))
	defer span.End()

	if h.Kind() == KindIntegration {
		if err := o.limiter.Wait(ctx); err != nil {
			span.RecordError(err)
			return fmt.Errorf("waiting for integration rate limit: %w", err)
		}
	}

	if err := h.Deliver(ctx, target); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
