// Package shell provides command backends that run a configured compiler as a subprocess.
package shell

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/bsp/internal/adapters/fs"
	"go.trai.ch/bsp/internal/core/domain"
	"go.trai.ch/bsp/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// OutPlaceholder is replaced by the directory the command writes its outputs to.
	OutPlaceholder = "{out}"
	// SourcesPlaceholder, as a whole argument, is replaced by every source file of the request.
	SourcesPlaceholder = "{sources}"
)

var _ ports.Backend = (*Backend)(nil)

// Backend implements ports.Backend by running the command of a domain.BackendSpec.
//
// The command runs in the workspace root with a fresh output directory. Every regular file the
// command leaves in that directory is stored in the blob store and returned as the output tree,
// placed under the backend name.
type Backend struct {
	spec   domain.BackendSpec
	root   string
	blobs  ports.BlobStore
	walker *fs.Walker
	logger ports.Logger
}

// NewBackend creates a command backend for spec running in the workspace root.
func NewBackend(spec domain.BackendSpec, root string, blobs ports.BlobStore, walker *fs.Walker,
	logger ports.Logger,
) *Backend {
	return &Backend{
		spec:   spec,
		root:   root,
		blobs:  blobs,
		walker: walker,
		logger: logger,
	}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return b.spec.Name
}

// Applicable reports whether the target kind is one of the backend kinds.
func (b *Backend) Applicable(target *domain.Target) bool {
	return slices.Contains(b.spec.Kinds, target.Kind)
}

// Extract returns the source field set of target.
func (b *Backend) Extract(target *domain.Target) domain.FieldSet {
	return domain.NewSourceFieldSet(target)
}

// Compile runs the command once with the sources of every field set of the request combined.
// A command exiting non-zero yields StatusError. Failing to start the command is an error.
func (b *Backend) Compile(ctx context.Context, req domain.BackendRequest) (*domain.BackendResult, error) {
	if len(b.spec.Command) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidBackend, "missing cmd"), "backend", b.spec.Name)
	}

	outDir, err := os.MkdirTemp("", "bsp-"+b.spec.Name+"-")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create output directory")
	}
	defer func() { _ = os.RemoveAll(outDir) }()

	args := expandCommand(b.spec.Command, outDir, collectSources(req.FieldSets))
	env := resolveEnvironment(os.Environ(), b.spec.Environment)
	env = append(env, "BSP_OUT="+outDir, "BSP_TARGET="+req.Target.ID.URI)

	exitCode, err := b.run(ctx, args, env)
	if err != nil {
		return nil, err
	}
	if exitCode != 0 {
		return &domain.BackendResult{Status: domain.StatusError, Tree: domain.EmptyTree()}, nil
	}

	tree, err := b.capture(ctx, outDir)
	if err != nil {
		return nil, err
	}
	return &domain.BackendResult{Status: domain.StatusOK, Tree: tree}, nil
}

// run executes args and returns the exit code of a command that started.
func (b *Backend) run(ctx context.Context, args, env []string) (int, error) {
	name := args[0]

	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args[1:]...) //nolint:gosec // configured command
	cmd.Args[0] = name
	cmd.Dir = b.root
	cmd.Env = env

	stdout := newLogWriter(b.spec.Name, b.logger.Info)
	stderr := newLogWriter(b.spec.Name, b.logger.Warn)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	stdout.Flush()
	stderr.Flush()

	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode(), nil
	}
	return -1, errors.Join(domain.ErrCommandFailed,
		zerr.With(zerr.With(zerr.Wrap(err, name), "backend", b.spec.Name), "command", strings.Join(args, " ")))
}

// capture stores every file below outDir and returns them as a tree under the backend name.
func (b *Backend) capture(ctx context.Context, outDir string) (domain.OutputTree, error) {
	entries := make(map[string]domain.FileEntry)
	for rel, err := range b.walker.WalkFiles(outDir, nil) {
		if err != nil {
			return domain.OutputTree{}, zerr.Wrap(err, "failed to walk output directory")
		}

		path := filepath.Join(outDir, filepath.FromSlash(rel))
		info, err := os.Stat(path)
		if err != nil {
			return domain.OutputTree{}, zerr.With(zerr.Wrap(err, "failed to stat output"), "path", rel)
		}
		//nolint:gosec // path is below the output directory
		data, err := os.ReadFile(path)
		if err != nil {
			return domain.OutputTree{}, zerr.With(zerr.Wrap(err, "failed to read output"), "path", rel)
		}
		digest, err := b.blobs.Put(ctx, data)
		if err != nil {
			return domain.OutputTree{}, err
		}
		entries[rel] = domain.FileEntry{
			Digest:     digest,
			Size:       int64(len(data)),
			Executable: info.Mode()&0o111 != 0,
		}
	}

	tree, err := domain.NewOutputTree(entries)
	if err != nil {
		return domain.OutputTree{}, err
	}
	return tree.WithPrefix(b.spec.Name)
}

// collectSources returns the sorted, unique source files of the field sets.
func collectSources(fieldSets []domain.FieldSet) []string {
	var sources []string
	for _, set := range fieldSets {
		if sfs, ok := set.(*domain.SourceFieldSet); ok {
			sources = append(sources, sfs.Sources()...)
		}
	}
	slices.Sort(sources)
	return slices.Compact(sources)
}

// expandCommand substitutes the placeholders of command.
func expandCommand(command []string, outDir string, sources []string) []string {
	args := make([]string, 0, len(command)+len(sources))
	for _, arg := range command {
		if arg == SourcesPlaceholder {
			args = append(args, sources...)
			continue
		}
		args = append(args, strings.ReplaceAll(arg, OutPlaceholder, outDir))
	}
	return args
}
