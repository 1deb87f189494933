package compile

import (
	"context"
	"errors"
	"time"

	"go.trai.ch/bsp/internal/core/domain"
	"go.trai.ch/bsp/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Orchestrator answers a compile request for a batch of build targets.
type Orchestrator struct {
	resolver     ports.TargetResolver
	dispatcher   *Dispatcher
	trees        ports.TreeStore
	outputPrefix string
	tracer       ports.Tracer
	metrics      ports.Metrics
	logger       ports.Logger

	now func() time.Time
}

// NewOrchestrator creates a new Orchestrator writing outputs under outputPrefix.
func NewOrchestrator(
	resolver ports.TargetResolver,
	dispatcher *Dispatcher,
	trees ports.TreeStore,
	outputPrefix string,
	tracer ports.Tracer,
	metrics ports.Metrics,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		resolver:     resolver,
		dispatcher:   dispatcher,
		trees:        trees,
		outputPrefix: outputPrefix,
		tracer:       tracer,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// Compile resolves every requested identifier, compiles the build targets concurrently,
// merges their outputs and writes the merged tree once when it is not empty.
//
// The caller always receives a result. Resolution, expansion, merge and write failures are
// fatal to the request: the result carries ERROR and the error names the cause. Backend
// failures only show in the status.
func (o *Orchestrator) Compile(ctx context.Context, params domain.CompileParams) (*domain.CompileResult, error) {
	ctx, span := o.tracer.Start(ctx, "compile", ports.WithAttribute("bsp.targets", len(params.Targets)))
	defer span.End()

	start := o.now()
	fail := func(err error) (*domain.CompileResult, error) {
		span.RecordError(err)
		o.metrics.ObserveCompile(domain.StatusError, o.now().Sub(start))
		return &domain.CompileResult{OriginID: params.OriginID, StatusCode: domain.StatusError}, err
	}

	buildTargets, err := o.resolve(ctx, params.Targets)
	if err != nil {
		return fail(err)
	}

	planned := make([]string, len(buildTargets))
	for i, bt := range buildTargets {
		planned[i] = bt.ID.URI
	}
	o.tracer.EmitPlan(ctx, planned)

	results := make([]*domain.TargetCompileResult, len(buildTargets))
	errs := make([]error, len(buildTargets))
	var g errgroup.Group
	for i, bt := range buildTargets {
		g.Go(func() error {
			results[i], errs[i] = o.dispatcher.Compile(ctx, bt, params)
			return nil
		})
	}
	_ = g.Wait()

	if err := errors.Join(errs...); err != nil {
		return fail(err)
	}

	statuses := make([]domain.StatusCode, len(results))
	trees := make([]domain.OutputTree, len(results))
	for i, r := range results {
		statuses[i] = r.Status
		trees[i] = r.Tree
	}

	merged, err := o.trees.Merge(ctx, trees...)
	if err != nil {
		if errors.Is(err, domain.ErrMergeConflict) {
			o.metrics.IncMergeConflict("batch")
		}
		return fail(zerr.Wrap(err, "failed to merge build target outputs"))
	}

	if !merged.IsEmpty() {
		span.SetAttribute("bsp.output_digest", string(merged.Digest()))
		if err := o.trees.Write(ctx, merged, o.outputPrefix); err != nil {
			return fail(errors.Join(domain.ErrTreeWriteFailed, zerr.With(err, "prefix", o.outputPrefix)))
		}
	}

	status := domain.WorstStatus(statuses...)
	span.SetAttribute("bsp.status", status.String())
	o.metrics.ObserveCompile(status, o.now().Sub(start))
	return &domain.CompileResult{OriginID: params.OriginID, StatusCode: status}, nil
}

// resolve resolves identifiers concurrently. The first failure aborts the batch.
func (o *Orchestrator) resolve(
	ctx context.Context,
	ids []domain.BuildTargetIdentifier,
) ([]*domain.BuildTarget, error) {
	out := make([]*domain.BuildTarget, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			bt, err := o.resolver.Resolve(gctx, id)
			if err != nil {
				return errors.Join(
					domain.ErrTargetResolutionFailed,
					zerr.With(zerr.Wrap(err, id.URI), "target", id.URI),
				)
			}
			out[i] = bt
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
