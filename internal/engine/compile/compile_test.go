package compile_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/bsp/internal/core/domain"
	"go.trai.ch/bsp/internal/core/ports"
	"go.trai.ch/bsp/internal/core/ports/mocks"
	"go.trai.ch/bsp/internal/engine/compile"
	"go.trai.ch/bsp/internal/engine/registry"
	"go.uber.org/mock/gomock"
)

type compileTestMocks struct {
	ctrl     *gomock.Controller
	resolver *mocks.MockTargetResolver
	notifier *mocks.MockNotifier
	trees    *mocks.MockTreeStore
	tracer   *mocks.MockTracer
	metrics  *mocks.MockMetrics
	logger   *mocks.MockLogger

	mu     sync.Mutex
	events []string
	sent   []domain.Notification
}

// record appends an ordering event.
func (m *compileTestMocks) record(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *compileTestMocks) notifications() []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Notification(nil), m.sent...)
}

// setupCompileTest creates the mocks shared by dispatcher and orchestrator tests.
// Tracing, metrics and notification delivery are permissive; trees merge for real.
func setupCompileTest(t *testing.T) *compileTestMocks {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := &compileTestMocks{
		ctrl:     ctrl,
		resolver: mocks.NewMockTargetResolver(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
		trees:    mocks.NewMockTreeStore(ctrl),
		tracer:   mocks.NewMockTracer(ctrl),
		metrics:  mocks.NewMockMetrics(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}

	mockSpan := mocks.NewMockSpan(ctrl)
	mockSpan.EXPECT().End().AnyTimes()
	mockSpan.EXPECT().RecordError(gomock.Any()).AnyTimes()
	mockSpan.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()

	m.tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, mockSpan
		},
	).AnyTimes()
	m.tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any()).AnyTimes()

	m.metrics.EXPECT().ObserveBackend(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	m.metrics.EXPECT().ObserveTarget(gomock.Any(), gomock.Any()).AnyTimes()
	m.metrics.EXPECT().ObserveCompile(gomock.Any(), gomock.Any()).AnyTimes()
	m.metrics.EXPECT().IncMergeConflict(gomock.Any()).AnyTimes()

	m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, n domain.Notification) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.sent = append(m.sent, n)
			m.events = append(m.events, n.Method())
			return nil
		},
	).AnyTimes()

	m.trees.EXPECT().Merge(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, trees ...domain.OutputTree) (domain.OutputTree, error) {
			return domain.MergeTrees(trees...)
		},
	).AnyTimes()

	return m
}

func (m *compileTestMocks) dispatcher(t *testing.T, backends ...ports.Backend) *compile.Dispatcher {
	t.Helper()
	return m.dispatcherWithNotifier(t, m.notifier, backends...)
}

func (m *compileTestMocks) dispatcherWithNotifier(
	t *testing.T,
	notifier ports.Notifier,
	backends ...ports.Backend,
) *compile.Dispatcher {
	t.Helper()
	reg, err := registry.New(backends...)
	require.NoError(t, err)

	var mu sync.Mutex
	n := 0
	return compile.NewDispatcher(m.resolver, reg, notifier, m.trees, m.tracer, m.metrics, m.logger).
		WithTaskIDs(func() string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return string(rune('a'+n-1)) + "0000000000000000000000000000000"
		})
}

// expectTargets makes the resolver expand the build target with the given targets.
func (m *compileTestMocks) expectTargets(bt *domain.BuildTarget, targets ...*domain.Target) {
	m.resolver.EXPECT().Targets(gomock.Any(), bt).Return(targets, nil)
}

func buildTarget(uri string, addrs ...string) *domain.BuildTarget {
	return &domain.BuildTarget{
		ID:        domain.BuildTargetIdentifier{URI: uri},
		Addresses: domain.NewInternedStrings(addrs),
	}
}

func target(addr, kind string, sources ...string) *domain.Target {
	return &domain.Target{
		Address: domain.NewInternedString(addr),
		Kind:    domain.NewInternedString(kind),
		Sources: domain.NewInternedStrings(sources),
	}
}

// kindBackend returns a mock backend that applies to targets of kind.
// Compile expectations are left to the test.
func kindBackend(ctrl *gomock.Controller, name, kind string) *mocks.MockBackend {
	b := mocks.NewMockBackend(ctrl)
	b.EXPECT().Name().Return(name).AnyTimes()
	b.EXPECT().Applicable(gomock.Any()).DoAndReturn(func(t *domain.Target) bool {
		return t.Kind.String() == kind
	}).AnyTimes()
	b.EXPECT().Extract(gomock.Any()).DoAndReturn(func(t *domain.Target) domain.FieldSet {
		return domain.NewSourceFieldSet(t)
	}).AnyTimes()
	return b
}

func tree(t *testing.T, files map[string]string) domain.OutputTree {
	t.Helper()
	entries := make(map[string]domain.FileEntry, len(files))
	for p, content := range files {
		entries[p] = domain.FileEntry{Digest: domain.DigestOf([]byte(content)), Size: int64(len(content))}
	}
	out, err := domain.NewOutputTree(entries)
	require.NoError(t, err)
	return out
}

// requireTaskPairs asserts one TaskStart and one TaskFinish per target, sharing a TaskID.
func requireTaskPairs(t *testing.T, sent []domain.Notification, targets ...string) {
	t.Helper()
	starts := map[string]domain.TaskStartParams{}
	finishes := map[string]domain.TaskFinishParams{}
	for _, n := range sent {
		switch p := n.(type) {
		case domain.TaskStartParams:
			_, dup := starts[p.Data.Target.URI]
			require.False(t, dup, "duplicate TaskStart for %s", p.Data.Target.URI)
			starts[p.Data.Target.URI] = p
		case domain.TaskFinishParams:
			_, dup := finishes[p.Data.Target.URI]
			require.False(t, dup, "duplicate TaskFinish for %s", p.Data.Target.URI)
			finishes[p.Data.Target.URI] = p
		}
	}
	require.Len(t, starts, len(targets))
	require.Len(t, finishes, len(targets))
	for _, uri := range targets {
		start, ok := starts[uri]
		require.True(t, ok, "missing TaskStart for %s", uri)
		finish, ok := finishes[uri]
		require.True(t, ok, "missing TaskFinish for %s", uri)
		require.Equal(t, start.TaskID, finish.TaskID)
		require.Equal(t, domain.DataKindCompileTask, start.DataKind)
		require.Equal(t, domain.DataKindCompileReport, finish.DataKind)
		require.Zero(t, finish.Data.Errors)
		require.Zero(t, finish.Data.Warnings)
	}
}
