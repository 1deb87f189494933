package metrics_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bsp/internal/adapters/metrics"
	"go.trai.ch/bsp/internal/core/domain"
)

func TestPrometheusRecorder_Counts(t *testing.T) {
	pr := metrics.NewPrometheusRecorder(nil)

	pr.ObserveBackend("javac", domain.StatusOK, 150*time.Millisecond)
	pr.ObserveBackend("javac", domain.StatusError, 10*time.Millisecond)
	pr.ObserveBackend("scalac", domain.StatusOK, time.Second)
	pr.ObserveTarget(domain.StatusError, time.Second)
	pr.ObserveCompile(domain.StatusError, 2*time.Second)
	pr.IncMergeConflict("target")
	pr.IncMergeConflict("target")

	expected := `
# HELP bsp_backend_results_total Backend compile invocations by status
# TYPE bsp_backend_results_total counter
bsp_backend_results_total{backend="javac",status="ERROR"} 1
bsp_backend_results_total{backend="javac",status="OK"} 1
bsp_backend_results_total{backend="scalac",status="OK"} 1
# HELP bsp_merge_conflicts_total Output tree merge conflicts by scope
# TYPE bsp_merge_conflicts_total counter
bsp_merge_conflicts_total{scope="target"} 2
`
	require.NoError(t, testutil.GatherAndCompare(pr.Registry(), strings.NewReader(expected),
		"bsp_backend_results_total", "bsp_merge_conflicts_total"))

	count, err := testutil.GatherAndCount(pr.Registry(), "bsp_backend_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(pr.Registry(), "bsp_compile_results_total", "bsp_target_results_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := metrics.NewPrometheusRecorder(nil)
	pr.ObserveCompile(domain.StatusOK, time.Second)

	path := filepath.Join(t.TempDir(), "bsp.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `bsp_compile_results_total{status="OK"} 1`)
}

func TestPrometheusRecorder_WriteTextfileError(t *testing.T) {
	pr := metrics.NewPrometheusRecorder(nil)

	err := pr.WriteTextfile(filepath.Join(t.TempDir(), "missing", "bsp.prom"))
	require.Error(t, err)
}

func TestNoopRecorder(_ *testing.T) {
	var r metrics.NoopRecorder
	r.ObserveBackend("javac", domain.StatusOK, time.Second)
	r.ObserveTarget(domain.StatusOK, time.Second)
	r.ObserveCompile(domain.StatusOK, time.Second)
	r.IncMergeConflict("batch")
}
