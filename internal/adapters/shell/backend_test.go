package shell_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bsp/internal/adapters/cas"
	"go.trai.ch/bsp/internal/adapters/fs"
	"go.trai.ch/bsp/internal/adapters/shell"
	"go.trai.ch/bsp/internal/core/domain"
	"go.trai.ch/bsp/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type backendFixture struct {
	root   string
	store  *cas.Store
	logger *mocks.MockLogger
}

func setupBackend(t *testing.T, files map[string]string) *backendFixture {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
		require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	}
	store, err := cas.NewStore(root)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	return &backendFixture{root: root, store: store, logger: mocks.NewMockLogger(ctrl)}
}

func (f *backendFixture) backend(name string, cmd []string, env map[string]string) *shell.Backend {
	spec := domain.BackendSpec{
		Name:        name,
		Kinds:       domain.NewInternedStrings([]string{"java_source"}),
		Command:     cmd,
		Environment: env,
	}
	return shell.NewBackend(spec, f.root, f.store, fs.NewWalker(), f.logger)
}

func javaRequest(uri string, sources ...string) domain.BackendRequest {
	target := &domain.Target{
		Address: domain.NewInternedString("src/java:lib"),
		Kind:    domain.NewInternedString("java_source"),
		Sources: domain.NewInternedStrings(sources),
	}
	return domain.BackendRequest{
		Target: &domain.BuildTarget{
			ID:        domain.BuildTargetIdentifier{URI: uri},
			Addresses: []domain.InternedString{target.Address},
		},
		FieldSets: []domain.FieldSet{domain.NewSourceFieldSet(target)},
	}
}

func TestBackend_Applicable(t *testing.T) {
	f := setupBackend(t, nil)
	b := f.backend("javac", []string{"javac"}, nil)

	assert.Equal(t, "javac", b.Name())
	assert.True(t, b.Applicable(&domain.Target{Kind: domain.NewInternedString("java_source")}))
	assert.False(t, b.Applicable(&domain.Target{Kind: domain.NewInternedString("scala_source")}))

	target := &domain.Target{
		Address: domain.NewInternedString("src/java:lib"),
		Kind:    domain.NewInternedString("java_source"),
		Sources: domain.NewInternedStrings([]string{"A.java"}),
	}
	set, ok := b.Extract(target).(*domain.SourceFieldSet)
	require.True(t, ok)
	assert.Equal(t, []string{"A.java"}, set.Sources())
}

func TestBackend_CompileCapturesOutputs(t *testing.T) {
	f := setupBackend(t, map[string]string{
		"src/java/A.java": "class A {}",
		"src/java/B.java": "class B {}",
	})
	f.logger.EXPECT().Info("javac: compiled 2 files")

	b := f.backend("javac", []string{
		"sh", "-c",
		`mkdir -p {out}/classes && for f in "$@"; do cp "$f" "{out}/classes/$(basename "$f" .java).class"; done; ` +
			`printf '#!/bin/sh\n' > {out}/run && chmod +x {out}/run; echo "compiled $# files"`,
		"sh", "{sources}",
	}, nil)

	res, err := b.Compile(context.Background(), javaRequest("//:lib", "src/java/B.java", "src/java/A.java"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOK, res.Status)
	assert.Equal(t, []string{"javac/classes/A.class", "javac/classes/B.class", "javac/run"}, res.Tree.Paths())

	entry, ok := res.Tree.Entry("javac/classes/A.class")
	require.True(t, ok)
	assert.False(t, entry.Executable)
	data, err := f.store.Get(context.Background(), entry.Digest)
	require.NoError(t, err)
	assert.Equal(t, "class A {}", string(data))

	run, ok := res.Tree.Entry("javac/run")
	require.True(t, ok)
	assert.True(t, run.Executable)
}

func TestBackend_CompileCombinesFieldSets(t *testing.T) {
	f := setupBackend(t, map[string]string{
		"a/A.java": "class A {}",
		"b/B.java": "class B {}",
	})
	f.logger.EXPECT().Info("javac: a/A.java b/B.java").Times(1)

	b := f.backend("javac", []string{"sh", "-c", `echo "$@"`, "sh", "{sources}"}, nil)

	req := javaRequest("//:app", "b/B.java")
	a := &domain.Target{
		Address: domain.NewInternedString("a:lib"),
		Kind:    domain.NewInternedString("java_source"),
		Sources: domain.NewInternedStrings([]string{"a/A.java"}),
	}
	req.FieldSets = append(req.FieldSets, domain.NewSourceFieldSet(a))

	res, err := b.Compile(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOK, res.Status)
}

func TestBackend_CompileWithoutOutputs(t *testing.T) {
	f := setupBackend(t, nil)
	b := f.backend("noop", []string{"true"}, nil)

	res, err := b.Compile(context.Background(), javaRequest("//:lib"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOK, res.Status)
	assert.True(t, res.Tree.IsEmpty())
}

func TestBackend_CompileNonZeroExit(t *testing.T) {
	f := setupBackend(t, nil)
	f.logger.EXPECT().Warn("javac: A.java:1: error: ';' expected")

	b := f.backend("javac", []string{
		"sh", "-c", `touch {out}/partial.class; echo "A.java:1: error: ';' expected" >&2; exit 3`,
	}, nil)

	res, err := b.Compile(context.Background(), javaRequest("//:lib"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, res.Status)
	assert.True(t, res.Tree.IsEmpty())
}

func TestBackend_CompileCommandNotFound(t *testing.T) {
	f := setupBackend(t, nil)
	b := f.backend("ghost", []string{"nonexistent-compiler-xyz123"}, nil)

	_, err := b.Compile(context.Background(), javaRequest("//:lib"))
	require.ErrorIs(t, err, domain.ErrCommandFailed)
}

func TestBackend_CompileEnvironment(t *testing.T) {
	f := setupBackend(t, nil)
	f.logger.EXPECT().Info("javac: -Xmx1g //:lib")

	b := f.backend("javac", []string{"sh", "-c", `echo "$JAVA_TOOL_OPTIONS $BSP_TARGET"`},
		map[string]string{"JAVA_TOOL_OPTIONS": "-Xmx1g"})

	res, err := b.Compile(context.Background(), javaRequest("//:lib"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOK, res.Status)
}

func TestBackend_CompileFragmentedOutput(t *testing.T) {
	f := setupBackend(t, nil)
	f.logger.EXPECT().Info("javac: part1part2")
	f.logger.EXPECT().Info("javac: tail")

	b := f.backend("javac", []string{"sh", "-c", "printf part1; sleep 0.1; echo part2; printf tail"}, nil)

	_, err := b.Compile(context.Background(), javaRequest("//:lib"))
	require.NoError(t, err)
}

func TestBackend_RunsInWorkspaceRoot(t *testing.T) {
	f := setupBackend(t, map[string]string{"marker.txt": "here"})
	f.logger.EXPECT().Info("cat: here")

	b := f.backend("cat", []string{"cat", "marker.txt"}, nil)

	res, err := b.Compile(context.Background(), javaRequest("//:lib"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOK, res.Status)
}

func TestFactory_Backends(t *testing.T) {
	ctrl := gomock.NewController(t)
	ws := domain.NewWorkspace(t.TempDir())
	ws.Backends = []domain.BackendSpec{
		{Name: "javac", Kinds: domain.NewInternedStrings([]string{"java_source"}), Command: []string{"javac"}},
		{Name: "scalac", Kinds: domain.NewInternedStrings([]string{"scala_source"}), Command: []string{"scalac"}},
	}

	backends := shell.NewFactory(fs.NewWalker(), mocks.NewMockLogger(ctrl)).
		Backends(ws, mocks.NewMockBlobStore(ctrl))
	require.Len(t, backends, 2)
	assert.Equal(t, "javac", backends[0].Name())
	assert.Equal(t, "scalac", backends[1].Name())
}
