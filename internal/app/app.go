// Package app implements the application layer for bsp.
package app

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.trai.ch/bsp/internal/adapters/cas"
	"go.trai.ch/bsp/internal/adapters/metrics"
	"go.trai.ch/bsp/internal/adapters/notify"
	"go.trai.ch/bsp/internal/adapters/shell"
	"go.trai.ch/bsp/internal/adapters/targets"
	"go.trai.ch/bsp/internal/adapters/telemetry"
	"go.trai.ch/bsp/internal/adapters/telemetry/progrock"
	"go.trai.ch/bsp/internal/core/domain"
	"go.trai.ch/bsp/internal/core/ports"
	"go.trai.ch/bsp/internal/engine/compile"
	"go.trai.ch/bsp/internal/engine/registry"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	inputs       ports.InputResolver
	backends     *shell.Factory
	tracer       ports.Tracer
	notifier     *notify.Log
	progress     *progrock.Recorder
	metrics      *metrics.PrometheusRecorder
	workDir      string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	inputs ports.InputResolver,
	backends *shell.Factory,
	tracer ports.Tracer,
	notifier *notify.Log,
	progress *progrock.Recorder,
	recorder *metrics.PrometheusRecorder,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		inputs:       inputs,
		backends:     backends,
		tracer:       tracer,
		notifier:     notifier,
		progress:     progress,
		metrics:      recorder,
		workDir:      ".",
	}
}

// WithWorkDir sets the directory the configuration is searched from.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// CompileOptions configuration for the Compile method.
type CompileOptions struct {
	// OriginID is echoed in the result and in every compile report when set.
	OriginID string
	// Arguments are carried to the backends with every request.
	Arguments []string
	// Progress renders task progress to stderr.
	Progress bool
	// NATSURL publishes task notifications to the NATS server at the URL when set.
	NATSURL string
	// NATSSubject is the subject prefix for NATS notifications.
	NATSSubject string
	// MetricsOut writes Prometheus metrics to the file when set.
	MetricsOut string
	// Trace logs every span with its duration.
	Trace bool
}

// Compile compiles the build targets named by ids.
//
// A result is returned whenever the request reached the orchestrator, also when err is set.
func (a *App) Compile(ctx context.Context, ids []string, opts CompileOptions) (*domain.CompileResult, error) {
	ws, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if len(ids) == 0 {
		return nil, domain.ErrNoTargetsSpecified
	}

	store, err := cas.NewStore(ws.Root)
	if err != nil {
		return nil, err
	}

	reg, err := registry.New(a.backends.Backends(ws, store)...)
	if err != nil {
		return nil, err
	}

	notifier, closeNotifier, err := a.notifiers(opts)
	if err != nil {
		return nil, err
	}
	defer closeNotifier()

	if opts.Trace {
		tp := telemetry.NewProvider(telemetry.NewLogProcessor(a.logger))
		otel.SetTracerProvider(tp)
		defer func() { _ = tp.Shutdown(ctx) }()
	}

	var recorder ports.Metrics = metrics.NoopRecorder{}
	if opts.MetricsOut != "" {
		recorder = a.metrics
		defer func() {
			if err := a.metrics.WriteTextfile(opts.MetricsOut); err != nil {
				a.logger.Error(err)
			}
		}()
	}

	resolver := targets.NewResolver(ws, a.inputs)
	dispatcher := compile.NewDispatcher(resolver, reg, notifier, store, a.tracer, recorder, a.logger)
	orchestrator := compile.NewOrchestrator(resolver, dispatcher, store, ws.OutputPrefix, a.tracer, recorder,
		a.logger)

	params := domain.CompileParams{Arguments: opts.Arguments}
	if opts.OriginID != "" {
		origin := opts.OriginID
		params.OriginID = &origin
	}
	for _, id := range ids {
		params.Targets = append(params.Targets, domain.BuildTargetIdentifier{URI: id})
	}

	res, err := orchestrator.Compile(ctx, params)
	if err != nil {
		return res, errors.Join(domain.ErrCompileFailed, err)
	}
	return res, nil
}

// notifiers assembles the notification sinks selected by opts.
func (a *App) notifiers(opts CompileOptions) (ports.Notifier, func(), error) {
	sinks := notify.Multi{a.notifier}
	var closers []func() error

	if opts.Progress {
		sinks = append(sinks, a.progress)
		closers = append(closers, a.progress.Close)
	}

	if opts.NATSURL != "" {
		n, err := notify.DialNATS(opts.NATSURL, opts.NATSSubject)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, n)
		closers = append(closers, n.Close)
	}

	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				a.logger.Warn(fmt.Sprintf("failed to close notifier: %v", err))
			}
		}
	}
	return sinks, closeAll, nil
}

// BuildTargetInfo describes one addressable build target.
type BuildTargetInfo struct {
	ID          domain.BuildTargetIdentifier `json:"id"`
	DisplayName string                       `json:"displayName,omitempty"`
	Backends    []string                     `json:"backends"`
}

// TargetsOptions configuration for the Targets method.
type TargetsOptions struct {
	// Backend keeps only the targets the named backend applies to when set.
	Backend string
}

// Targets lists the declared build targets followed by the concrete targets, with the names of
// the backends applicable to each.
func (a *App) Targets(_ context.Context, opts TargetsOptions) ([]BuildTargetInfo, error) {
	ws, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	reg, err := registry.New(a.backends.Backends(ws, nil)...)
	if err != nil {
		return nil, err
	}
	if opts.Backend != "" {
		if _, err := reg.Lookup(opts.Backend); err != nil {
			return nil, err
		}
	}

	backendsOf := func(addrs []domain.InternedString) []string {
		names := make(map[string]struct{})
		for _, addr := range addrs {
			t, ok := ws.Target(addr)
			if !ok {
				continue
			}
			for _, b := range reg.Applicable(t) {
				names[b.Name()] = struct{}{}
			}
		}
		out := make([]string, 0, len(names))
		return append(out, slices.Sorted(maps.Keys(names))...)
	}

	infos := make([]BuildTargetInfo, 0, len(ws.BuildTargets)+len(ws.Targets))
	for _, id := range ws.BuildTargetIDs() {
		bt := ws.BuildTargets[id]
		infos = append(infos, BuildTargetInfo{ID: id, DisplayName: bt.DisplayName, Backends: backendsOf(bt.Addresses)})
	}

	addrs := slices.SortedFunc(maps.Keys(ws.Targets), func(x, y domain.InternedString) int {
		return strings.Compare(x.String(), y.String())
	})
	for _, addr := range addrs {
		id := domain.BuildTargetIdentifier{URI: addr.String()}
		if _, declared := ws.BuildTargets[id]; declared {
			continue
		}
		infos = append(infos, BuildTargetInfo{ID: id, Backends: backendsOf([]domain.InternedString{addr})})
	}

	if opts.Backend != "" {
		infos = slices.DeleteFunc(infos, func(info BuildTargetInfo) bool {
			return !slices.Contains(info.Backends, opts.Backend)
		})
	}
	return infos, nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Output bool
	Store  bool
}

// Clean removes compile outputs and the content store based on the provided options.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	ws, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	var errs error

	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	if options.Output {
		remove(filepath.Join(ws.Root, ws.OutputPrefix), "compile outputs")
	}

	if options.Store {
		remove(filepath.Join(ws.Root, domain.DefaultCASPath()), "content store")
	}

	return errs
}
