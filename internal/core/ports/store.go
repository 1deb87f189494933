package ports

import (
	"context"

	"go.trai.ch/bsp/internal/core/domain"
)

// BlobStore stores file contents by digest.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BlobStore interface {
	// Put stores data and returns its digest. Storing the same content twice is a no-op.
	Put(ctx context.Context, data []byte) (domain.Digest, error)

	// Get returns the content stored under digest, or domain.ErrBlobNotFound.
	Get(ctx context.Context, digest domain.Digest) ([]byte, error)
}

// TreeStore merges output trees and materializes them into the workspace.
type TreeStore interface {
	// Merge combines trees without mutating them. Colliding paths fail with domain.ErrMergeConflict.
	Merge(ctx context.Context, trees ...domain.OutputTree) (domain.OutputTree, error)

	// Write materializes tree under the workspace-relative directory prefix.
	Write(ctx context.Context, tree domain.OutputTree, prefix string) error
}
