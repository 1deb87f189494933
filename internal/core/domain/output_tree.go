package domain

import (
	"encoding/binary"
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// Digest is the content address of a blob or a tree: a 16 character hex XXHash.
type Digest string

// DigestOf computes the Digest of the given content.
func DigestOf(data []byte) Digest {
	return Digest(fmt.Sprintf("%016x", xxhash.Sum64(data)))
}

// FileEntry is one file of an OutputTree.
type FileEntry struct {
	Digest     Digest `json:"digest"`
	Size       int64  `json:"size"`
	Executable bool   `json:"executable,omitzero"`
}

// OutputTree is an immutable, content-addressed directory of compiled artifacts.
// Paths are slash separated and relative to the tree root.
type OutputTree struct {
	entries map[string]FileEntry
	digest  Digest
}

var emptyTreeDigest = computeTreeDigest(nil)

// EmptyTree returns the tree without entries.
func EmptyTree() OutputTree {
	return OutputTree{digest: emptyTreeDigest}
}

// NewOutputTree builds a tree from path -> entry pairs.
// The map is copied. Paths are cleaned; absolute paths, paths escaping the root, and a file
// that is also used as a directory are rejected.
func NewOutputTree(entries map[string]FileEntry) (OutputTree, error) {
	cleaned := make(map[string]FileEntry, len(entries))
	for p, e := range entries {
		cp, err := cleanTreePath(p)
		if err != nil {
			return OutputTree{}, err
		}
		if prev, ok := cleaned[cp]; ok && prev != e {
			return OutputTree{}, zerr.With(zerr.Wrap(ErrInvalidTreePath, "duplicate path"), "path", cp)
		}
		cleaned[cp] = e
	}
	if p, ok := firstDirectoryConflict(cleaned); ok {
		return OutputTree{}, zerr.With(zerr.Wrap(ErrInvalidTreePath, "file used as directory"), "path", p)
	}
	return newTree(cleaned), nil
}

func newTree(entries map[string]FileEntry) OutputTree {
	if len(entries) == 0 {
		return EmptyTree()
	}
	return OutputTree{entries: entries, digest: computeTreeDigest(entries)}
}

func cleanTreePath(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	if p == "" || path.IsAbs(p) {
		return "", zerr.With(zerr.Wrap(ErrInvalidTreePath, "empty or absolute path"), "path", p)
	}
	cp := path.Clean(p)
	if cp == "." || cp == ".." || strings.HasPrefix(cp, "../") {
		return "", zerr.With(zerr.Wrap(ErrInvalidTreePath, "path escapes tree root"), "path", p)
	}
	return cp, nil
}

// IsEmpty reports whether the tree has no entries.
func (t OutputTree) IsEmpty() bool {
	return len(t.entries) == 0
}

// Len returns the number of files in the tree.
func (t OutputTree) Len() int {
	return len(t.entries)
}

// Digest returns the content address of the tree.
func (t OutputTree) Digest() Digest {
	if t.digest == "" {
		return emptyTreeDigest
	}
	return t.digest
}

// Paths returns the file paths in lexical order.
func (t OutputTree) Paths() []string {
	return slices.Sorted(maps.Keys(t.entries))
}

// Entry returns the entry stored at p.
func (t OutputTree) Entry(p string) (FileEntry, bool) {
	e, ok := t.entries[p]
	return e, ok
}

// Entries returns a copy of the path -> entry pairs.
func (t OutputTree) Entries() map[string]FileEntry {
	return maps.Clone(t.entries)
}

// WithPrefix returns a new tree with every path placed under prefix.
func (t OutputTree) WithPrefix(prefix string) (OutputTree, error) {
	if t.IsEmpty() {
		return EmptyTree(), nil
	}
	root, err := cleanTreePath(prefix)
	if err != nil {
		return OutputTree{}, err
	}
	out := make(map[string]FileEntry, len(t.entries))
	for p, e := range t.entries {
		out[root+"/"+p] = e
	}
	return newTree(out), nil
}

// MergeTrees combines trees into a new tree without modifying any input.
//
// Merging is associative and commutative, and merging identical content is idempotent.
// When two trees store different content at the same path, or one tree's file is another
// tree's directory, MergeTrees fails with ErrMergeConflict naming the lexically smallest
// conflicting path, so the failure does not depend on argument order.
func MergeTrees(trees ...OutputTree) (OutputTree, error) {
	switch len(trees) {
	case 0:
		return EmptyTree(), nil
	case 1:
		return trees[0], nil
	}

	merged := make(map[string]FileEntry)
	var conflicts []string
	for _, t := range trees {
		for p, e := range t.entries {
			if prev, ok := merged[p]; ok && prev != e {
				conflicts = append(conflicts, p)
				continue
			}
			merged[p] = e
		}
	}
	if p, ok := firstDirectoryConflict(merged); ok {
		conflicts = append(conflicts, p)
	}

	if len(conflicts) > 0 {
		p := slices.Min(conflicts)
		return OutputTree{}, zerr.With(zerr.Wrap(ErrMergeConflict, p), "path", p)
	}
	return newTree(merged), nil
}

// firstDirectoryConflict returns the smallest path that is a file in entries while also being a
// parent directory of another entry.
func firstDirectoryConflict(entries map[string]FileEntry) (string, bool) {
	var found []string
	for p := range entries {
		for dir := path.Dir(p); dir != "."; dir = path.Dir(dir) {
			if _, ok := entries[dir]; ok {
				found = append(found, dir)
			}
		}
	}
	if len(found) == 0 {
		return "", false
	}
	return slices.Min(found), true
}

func computeTreeDigest(entries map[string]FileEntry) Digest {
	h := xxhash.New()
	for _, p := range slices.Sorted(maps.Keys(entries)) {
		e := entries[p]
		_, _ = h.WriteString(p)
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(string(e.Digest))
		_, _ = h.Write([]byte{0})
		_ = binary.Write(h, binary.LittleEndian, e.Size)
		if e.Executable {
			_, _ = h.Write([]byte{1})
		} else {
			_, _ = h.Write([]byte{0})
		}
	}
	return Digest(fmt.Sprintf("%016x", h.Sum64()))
}
