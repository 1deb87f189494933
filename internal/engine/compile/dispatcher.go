// Package compile implements compile requests: per build target dispatch to the applicable
// backends and the batch orchestration across build targets.
package compile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/bsp/internal/core/domain"
	"go.trai.ch/bsp/internal/core/ports"
	"go.trai.ch/bsp/internal/engine/registry"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Dispatcher compiles a single build target with every backend that applies to it.
// It holds no per-request state and may be used concurrently.
type Dispatcher struct {
	resolver ports.TargetResolver
	registry *registry.Registry
	notifier ports.Notifier
	trees    ports.TreeStore
	tracer   ports.Tracer
	metrics  ports.Metrics
	logger   ports.Logger

	newTaskID func() string
	now       func() time.Time
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(
	resolver ports.TargetResolver,
	reg *registry.Registry,
	notifier ports.Notifier,
	trees ports.TreeStore,
	tracer ports.Tracer,
	metrics ports.Metrics,
	logger ports.Logger,
) *Dispatcher {
	return &Dispatcher{
		resolver:  resolver,
		registry:  reg,
		notifier:  notifier,
		trees:     trees,
		tracer:    tracer,
		metrics:   metrics,
		logger:    logger,
		newTaskID: newTaskID,
		now:       time.Now,
	}
}

// WithTaskIDs replaces the TaskID generator. Used for testing.
func (d *Dispatcher) WithTaskIDs(fn func() string) *Dispatcher {
	d.newTaskID = fn
	return d
}

// WithClock replaces the clock used for event times. Used for testing.
func (d *Dispatcher) WithClock(fn func() time.Time) *Dispatcher {
	d.now = fn
	return d
}

func newTaskID() string {
	id := uuid.New()
	return fmt.Sprintf("%x", id[:])
}

// Compile compiles bt.
//
// A TaskStart notification is pushed before any backend runs and exactly one TaskFinish with
// the same TaskID follows once every backend has returned. Backends run concurrently and a
// failing backend never stops its siblings; it only turns the aggregate status into ERROR.
// Cancelling ctx does not reach backends that are already running.
// When the backend output trees collide the target fails with domain.ErrMergeConflict.
func (d *Dispatcher) Compile(
	ctx context.Context,
	bt *domain.BuildTarget,
	params domain.CompileParams,
) (*domain.TargetCompileResult, error) {
	uri := bt.ID.URI
	ctx, span := d.tracer.Start(ctx, uri, ports.WithAttribute("bsp.target", uri))
	defer span.End()

	start := d.now()

	targets, err := d.resolver.Targets(ctx, bt)
	if err != nil {
		err = errors.Join(domain.ErrTargetExpansionFailed, zerr.With(zerr.Wrap(err, uri), "target", uri))
		span.RecordError(err)
		d.metrics.ObserveTarget(domain.StatusError, d.now().Sub(start))
		return nil, err
	}

	groups := d.registry.Classify(targets)
	span.SetAttribute("bsp.backends", len(groups))

	taskID := domain.TaskID{ID: d.newTaskID()}
	d.notify(ctx, domain.TaskStartParams{
		TaskID:    taskID,
		EventTime: domain.EventTime(d.now()),
		Message:   "Compiling " + uri,
		DataKind:  domain.DataKindCompileTask,
		Data:      domain.CompileTask{Target: bt.ID},
	})

	// In-flight backends run to completion even when the caller goes away.
	bctx := context.WithoutCancel(ctx)
	results := make([]domain.BackendResult, len(groups))
	var g errgroup.Group
	for i, group := range groups {
		g.Go(func() error {
			results[i] = d.invoke(bctx, bt, group, params.Arguments)
			return nil
		})
	}
	_ = g.Wait()

	statuses := make([]domain.StatusCode, len(results))
	trees := make([]domain.OutputTree, len(results))
	for i, r := range results {
		statuses[i] = r.Status
		trees[i] = r.Tree
	}
	status := domain.WorstStatus(statuses...)

	elapsed := d.now().Sub(start)
	millis := elapsed.Milliseconds()
	d.notify(ctx, domain.TaskFinishParams{
		TaskID:    taskID,
		EventTime: domain.EventTime(d.now()),
		Message:   fmt.Sprintf("Compiled %s: %s", uri, status),
		Status:    status,
		DataKind:  domain.DataKindCompileReport,
		Data: domain.CompileReport{
			Target:   bt.ID,
			OriginID: params.OriginID,
			Time:     &millis,
		},
	})

	merged, err := d.trees.Merge(ctx, trees...)
	if err != nil {
		if errors.Is(err, domain.ErrMergeConflict) {
			d.metrics.IncMergeConflict("target")
		}
		err = zerr.With(zerr.Wrap(err, "failed to merge backend outputs"), "target", uri)
		span.RecordError(err)
		d.metrics.ObserveTarget(domain.StatusError, elapsed)
		return nil, err
	}

	span.SetAttribute("bsp.status", status.String())
	d.metrics.ObserveTarget(status, elapsed)
	return &domain.TargetCompileResult{Status: status, Tree: merged}, nil
}

// invoke runs one backend. Errors are folded into an ERROR result with an empty tree.
// Arguments are carried on the request only; backends do not receive them on their command line.
func (d *Dispatcher) invoke(
	ctx context.Context,
	bt *domain.BuildTarget,
	group registry.Group,
	arguments []string,
) domain.BackendResult {
	name := group.Backend.Name()
	ctx, span := d.tracer.Start(ctx, name,
		ports.WithAttribute("bsp.backend", name),
		ports.WithAttribute("bsp.field_sets", len(group.FieldSets)),
	)
	defer span.End()

	start := d.now()
	res, err := group.Backend.Compile(ctx, domain.BackendRequest{
		Target:    bt,
		FieldSets: group.FieldSets,
		Arguments: arguments,
	})
	if err == nil && res == nil {
		err = zerr.New("backend returned no result")
	}

	out := domain.BackendResult{Status: domain.StatusError, Tree: domain.EmptyTree()}
	if err != nil {
		err = errors.Join(
			domain.ErrBackendInvocationFailed,
			zerr.With(zerr.With(zerr.Wrap(err, name), "backend", name), "target", bt.ID.URI),
		)
		span.RecordError(err)
		d.logger.Error(err)
	} else {
		out = *res
	}

	span.SetAttribute("bsp.status", out.Status.String())
	d.metrics.ObserveBackend(name, out.Status, d.now().Sub(start))
	return out
}

// notify pushes n to the client. Delivery failures are logged and never change the outcome.
func (d *Dispatcher) notify(ctx context.Context, n domain.Notification) {
	if err := d.notifier.Notify(ctx, n); err != nil {
		d.logger.Warn(fmt.Sprintf("%s: %s: %v", domain.ErrNotificationDeliveryFailed, n.Method(), err))
	}
}
