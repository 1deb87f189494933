// Package cas implements the content addressable store for compile outputs.
//
// Blobs are stored under <root>/.bsp/cas/<first two digest chars>/<digest>. Output trees
// reference blobs by digest and are materialized into the workspace on Write.
package cas

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/bsp/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.BlobStore and ports.TreeStore on the local filesystem.
type Store struct {
	root string
	dir  string
}

// NewStore creates a Store for the workspace rooted at root.
func NewStore(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve workspace root")
	}
	return &Store{
		root: abs,
		dir:  filepath.Join(abs, domain.DefaultCASPath()),
	}, nil
}

// Dir returns the directory holding the blobs.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) blobPath(d domain.Digest) string {
	name := string(d)
	if len(name) < 2 {
		return filepath.Join(s.dir, name)
	}
	return filepath.Join(s.dir, name[:2], name)
}

// Put stores data and returns its digest.
func (s *Store) Put(_ context.Context, data []byte) (domain.Digest, error) {
	digest := domain.DigestOf(data)
	path := s.blobPath(digest)

	if _, err := os.Stat(path); err == nil {
		return digest, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrBlobWriteFailed.Error()), "digest", string(digest))
	}

	// Write to a temporary file and rename so readers never observe partial blobs.
	tmp, err := os.CreateTemp(dir, string(digest)+".tmp-*")
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrBlobWriteFailed.Error()), "digest", string(digest))
	}
	tmpName := tmp.Name()
	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmpName)
		return "", zerr.With(zerr.Wrap(err, domain.ErrBlobWriteFailed.Error()), "digest", string(digest))
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return "", zerr.With(zerr.Wrap(err, domain.ErrBlobWriteFailed.Error()), "digest", string(digest))
	}
	return digest, nil
}

// Get returns the content stored under digest.
func (s *Store) Get(_ context.Context, digest domain.Digest) ([]byte, error) {
	//nolint:gosec // Path is built from the store directory and a digest
	data, err := os.ReadFile(s.blobPath(digest))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrBlobNotFound, string(digest)), "digest", string(digest))
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrBlobReadFailed.Error()), "digest", string(digest))
	}
	if got := domain.DigestOf(data); got != digest {
		return nil, zerr.With(
			zerr.With(zerr.Wrap(domain.ErrBlobReadFailed, "blob content does not match its digest"), "digest", string(digest)),
			"actual", string(got),
		)
	}
	return data, nil
}

// Merge combines trees. See domain.MergeTrees.
func (s *Store) Merge(_ context.Context, trees ...domain.OutputTree) (domain.OutputTree, error) {
	return domain.MergeTrees(trees...)
}

// Write materializes tree under the workspace-relative directory prefix.
// Existing files at the tree's paths are replaced; other files under prefix are left alone.
func (s *Store) Write(ctx context.Context, tree domain.OutputTree, prefix string) error {
	if !filepath.IsLocal(prefix) {
		return zerr.With(zerr.Wrap(domain.ErrTreeWriteFailed, "output prefix escapes the workspace"), "prefix", prefix)
	}
	dest := filepath.Join(s.root, prefix)

	for _, p := range tree.Paths() {
		if err := ctx.Err(); err != nil {
			return errors.Join(domain.ErrTreeWriteFailed, err)
		}
		entry, _ := tree.Entry(p)
		if err := s.writeFile(ctx, filepath.Join(dest, filepath.FromSlash(p)), entry); err != nil {
			return errors.Join(domain.ErrTreeWriteFailed, zerr.With(zerr.Wrap(err, p), "path", p))
		}
	}
	return nil
}

func (s *Store) writeFile(ctx context.Context, path string, entry domain.FileEntry) error {
	data, err := s.Get(ctx, entry.Digest)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return err
	}

	perm := os.FileMode(domain.FilePerm)
	if entry.Executable {
		perm = domain.ExecFilePerm
	}
	// Remove first so a read-only file from an earlier write does not block the update.
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, data, perm)
}
