package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bsp/cmd/bsp/commands"
	"go.trai.ch/bsp/internal/app"
	"go.trai.ch/bsp/internal/build"
	"go.trai.ch/bsp/internal/core/domain"
)

type mockApp struct {
	compileFunc func(ctx context.Context, targets []string, opts app.CompileOptions) (*domain.CompileResult, error)
	targetsFunc func(ctx context.Context, opts app.TargetsOptions) ([]app.BuildTargetInfo, error)
	cleanFunc   func(ctx context.Context, opts app.CleanOptions) error
}

func (m *mockApp) Compile(
	ctx context.Context, targets []string, opts app.CompileOptions,
) (*domain.CompileResult, error) {
	if m.compileFunc != nil {
		return m.compileFunc(ctx, targets, opts)
	}
	return &domain.CompileResult{StatusCode: domain.StatusOK}, nil
}

func (m *mockApp) Targets(ctx context.Context, opts app.TargetsOptions) ([]app.BuildTargetInfo, error) {
	if m.targetsFunc != nil {
		return m.targetsFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockApp) Clean(ctx context.Context, opts app.CleanOptions) error {
	if m.cleanFunc != nil {
		return m.cleanFunc(ctx, opts)
	}
	return nil
}

type jsonLogger struct {
	enabled bool
}

func (l *jsonLogger) SetJSON(enable bool) {
	l.enabled = enable
}

func TestCommands_Compile(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var capturedOpts app.CompileOptions
		var capturedTargets []string

		mock := &mockApp{
			compileFunc: func(_ context.Context, targets []string, opts app.CompileOptions) (*domain.CompileResult, error) {
				capturedOpts = opts
				capturedTargets = targets
				origin := opts.OriginID
				return &domain.CompileResult{OriginID: &origin, StatusCode: domain.StatusOK}, nil
			},
		}

		cli := commands.New(mock, nil)
		out := new(bytes.Buffer)
		cli.SetOutput(out, new(bytes.Buffer))
		cli.SetArgs([]string{
			"compile", "//:a", "//:b",
			"--origin-id", "origin-1",
			"--arg", "-Xlint", "--arg", "-g",
			"--progress",
			"--nats-url", "nats://localhost:4222",
			"--metrics-out", "bsp.prom",
			"--trace",
		})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, []string{"//:a", "//:b"}, capturedTargets)
		assert.Equal(t, app.CompileOptions{
			OriginID:    "origin-1",
			Arguments:   []string{"-Xlint", "-g"},
			Progress:    true,
			NATSURL:     "nats://localhost:4222",
			NATSSubject: "bsp",
			MetricsOut:  "bsp.prom",
			Trace:       true,
		}, capturedOpts)

		var res map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &res))
		assert.Equal(t, map[string]any{"originId": "origin-1", "statusCode": float64(1)}, res)
	})

	t.Run("error status fails the command", func(t *testing.T) {
		mock := &mockApp{
			compileFunc: func(context.Context, []string, app.CompileOptions) (*domain.CompileResult, error) {
				return &domain.CompileResult{StatusCode: domain.StatusError}, nil
			},
		}

		cli := commands.New(mock, nil)
		out := new(bytes.Buffer)
		cli.SetOutput(out, new(bytes.Buffer))
		cli.SetArgs([]string{"compile", "//:a"})

		err := cli.Execute(context.Background())
		require.ErrorIs(t, err, domain.ErrCompileFailed)
		assert.JSONEq(t, `{"statusCode": 2}`, out.String())
	})

	t.Run("prints the result of a failed request", func(t *testing.T) {
		mock := &mockApp{
			compileFunc: func(context.Context, []string, app.CompileOptions) (*domain.CompileResult, error) {
				return &domain.CompileResult{StatusCode: domain.StatusError},
					errors.Join(domain.ErrCompileFailed, errors.New("simulated error"))
			},
		}

		cli := commands.New(mock, nil)
		out := new(bytes.Buffer)
		cli.SetOutput(out, new(bytes.Buffer))
		cli.SetArgs([]string{"compile", "//:a"})

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
		assert.JSONEq(t, `{"statusCode": 2}`, out.String())
	})

	t.Run("shows usage when no targets provided", func(t *testing.T) {
		mock := &mockApp{
			compileFunc: func(context.Context, []string, app.CompileOptions) (*domain.CompileResult, error) {
				panic("should not be called")
			},
		}

		cli := commands.New(mock, nil)
		buf := new(bytes.Buffer)
		cli.SetOutput(buf, buf)
		cli.SetArgs([]string{"compile"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Contains(t, buf.String(), "Usage:")
	})
}

func TestCommands_JSONLogs(t *testing.T) {
	log := &jsonLogger{}
	cli := commands.New(&mockApp{}, log)
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"compile", "//:a", "--json-logs"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, log.enabled)
}

func TestCommands_Targets(t *testing.T) {
	var captured app.TargetsOptions
	mock := &mockApp{
		targetsFunc: func(_ context.Context, opts app.TargetsOptions) ([]app.BuildTargetInfo, error) {
			captured = opts
			return []app.BuildTargetInfo{{
				ID:          domain.BuildTargetIdentifier{URI: "//:lib"},
				DisplayName: "lib",
				Backends:    []string{"javac", "scalac"},
			}}, nil
		},
	}

	cli := commands.New(mock, nil)
	out := new(bytes.Buffer)
	cli.SetOutput(out, new(bytes.Buffer))
	cli.SetArgs([]string{"targets", "--backend", "javac"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, app.TargetsOptions{Backend: "javac"}, captured)
	assert.JSONEq(t, `{"targets": [{"id": {"uri": "//:lib"}, "displayName": "lib", "backends": ["javac", "scalac"]}]}`,
		out.String())
}

func TestCommands_Clean(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want app.CleanOptions
	}{
		{name: "default cleans everything", args: []string{"clean"}, want: app.CleanOptions{Output: true, Store: true}},
		{name: "output only", args: []string{"clean", "--output"}, want: app.CleanOptions{Output: true}},
		{name: "store only", args: []string{"clean", "-s"}, want: app.CleanOptions{Store: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got app.CleanOptions
			mock := &mockApp{
				cleanFunc: func(_ context.Context, opts app.CleanOptions) error {
					got = opts
					return nil
				},
			}

			cli := commands.New(mock, nil)
			cli.SetArgs(tt.args)
			require.NoError(t, cli.Execute(context.Background()))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommands_Version(t *testing.T) {
	cli := commands.New(&mockApp{}, nil)

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, buf.String(), "bsp version "+build.Version)
}
