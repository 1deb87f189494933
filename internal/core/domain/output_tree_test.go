package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bsp/internal/core/domain"
	"go.trai.ch/zerr"
)

func entry(content string) domain.FileEntry {
	return domain.FileEntry{Digest: domain.DigestOf([]byte(content)), Size: int64(len(content))}
}

func mustTree(t *testing.T, entries map[string]domain.FileEntry) domain.OutputTree {
	t.Helper()
	tree, err := domain.NewOutputTree(entries)
	require.NoError(t, err)
	return tree
}

func TestNewOutputTree(t *testing.T) {
	t.Run("cleans paths", func(t *testing.T) {
		tree := mustTree(t, map[string]domain.FileEntry{"./classes/A.class": entry("a")})
		assert.Equal(t, []string{"classes/A.class"}, tree.Paths())
	})

	t.Run("copies input", func(t *testing.T) {
		in := map[string]domain.FileEntry{"A.class": entry("a")}
		tree := mustTree(t, in)
		in["B.class"] = entry("b")
		assert.Equal(t, 1, tree.Len())
	})

	for name, p := range map[string]string{
		"empty":    "",
		"absolute": "/etc/passwd",
		"escaping": "../A.class",
		"root":     ".",
	} {
		t.Run("rejects "+name, func(t *testing.T) {
			_, err := domain.NewOutputTree(map[string]domain.FileEntry{p: entry("a")})
			assert.ErrorIs(t, err, domain.ErrInvalidTreePath)
		})
	}

	t.Run("rejects file used as directory", func(t *testing.T) {
		_, err := domain.NewOutputTree(map[string]domain.FileEntry{
			"classes":         entry("a"),
			"classes/A.class": entry("b"),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidTreePath)
	})
}

func TestOutputTree_Digest(t *testing.T) {
	a := mustTree(t, map[string]domain.FileEntry{"A.class": entry("a"), "B.class": entry("b")})
	b := mustTree(t, map[string]domain.FileEntry{"B.class": entry("b"), "A.class": entry("a")})
	c := mustTree(t, map[string]domain.FileEntry{"A.class": entry("a"), "B.class": entry("c")})

	assert.Equal(t, a.Digest(), b.Digest())
	assert.NotEqual(t, a.Digest(), c.Digest())
	assert.Equal(t, domain.EmptyTree().Digest(), domain.OutputTree{}.Digest())
	assert.Len(t, string(a.Digest()), 16)
}

func TestOutputTree_WithPrefix(t *testing.T) {
	tree := mustTree(t, map[string]domain.FileEntry{"A.class": entry("a")})

	prefixed, err := tree.WithPrefix("javac")
	require.NoError(t, err)
	assert.Equal(t, []string{"javac/A.class"}, prefixed.Paths())
	assert.Equal(t, []string{"A.class"}, tree.Paths())

	empty, err := domain.EmptyTree().WithPrefix("javac")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	_, err = tree.WithPrefix("../out")
	assert.ErrorIs(t, err, domain.ErrInvalidTreePath)
}

func TestMergeTrees(t *testing.T) {
	x := mustTree(t, map[string]domain.FileEntry{"javac/A.class": entry("a")})
	y := mustTree(t, map[string]domain.FileEntry{"scalac/B.class": entry("b")})
	z := mustTree(t, map[string]domain.FileEntry{"resources/app.conf": entry("conf")})

	t.Run("no trees", func(t *testing.T) {
		got, err := domain.MergeTrees()
		require.NoError(t, err)
		assert.True(t, got.IsEmpty())
	})

	t.Run("associative", func(t *testing.T) {
		xy, err := domain.MergeTrees(x, y)
		require.NoError(t, err)
		left, err := domain.MergeTrees(xy, z)
		require.NoError(t, err)

		yz, err := domain.MergeTrees(y, z)
		require.NoError(t, err)
		right, err := domain.MergeTrees(x, yz)
		require.NoError(t, err)

		assert.Equal(t, left.Digest(), right.Digest())
		assert.Equal(t, 3, left.Len())
	})

	t.Run("commutative", func(t *testing.T) {
		xy, err := domain.MergeTrees(x, y)
		require.NoError(t, err)
		yx, err := domain.MergeTrees(y, x)
		require.NoError(t, err)
		assert.Equal(t, xy.Digest(), yx.Digest())
	})

	t.Run("idempotent", func(t *testing.T) {
		xx, err := domain.MergeTrees(x, x)
		require.NoError(t, err)
		assert.Equal(t, x.Digest(), xx.Digest())
	})

	t.Run("empty is identity", func(t *testing.T) {
		got, err := domain.MergeTrees(domain.EmptyTree(), x, domain.EmptyTree())
		require.NoError(t, err)
		assert.Equal(t, x.Digest(), got.Digest())
	})

	t.Run("does not mutate inputs", func(t *testing.T) {
		before := x.Entries()
		_, err := domain.MergeTrees(x, y)
		require.NoError(t, err)
		assert.Equal(t, before, x.Entries())
		assert.Equal(t, 1, y.Len())
	})
}

func TestMergeTrees_Conflict(t *testing.T) {
	a := mustTree(t, map[string]domain.FileEntry{"out/A.class": entry("a1"), "out/Z.class": entry("z1")})
	b := mustTree(t, map[string]domain.FileEntry{"out/A.class": entry("a2"), "out/Z.class": entry("z2")})

	_, errAB := domain.MergeTrees(a, b)
	_, errBA := domain.MergeTrees(b, a)
	require.ErrorIs(t, errAB, domain.ErrMergeConflict)
	require.ErrorIs(t, errBA, domain.ErrMergeConflict)

	var zAB, zBA *zerr.Error
	require.True(t, errors.As(errAB, &zAB))
	require.True(t, errors.As(errBA, &zBA))
	assert.Equal(t, "out/A.class", zAB.Metadata()["path"])
	assert.Equal(t, zAB.Metadata()["path"], zBA.Metadata()["path"])
}

func TestMergeTrees_FileDirectoryConflict(t *testing.T) {
	file := mustTree(t, map[string]domain.FileEntry{"out": entry("binary")})
	dir := mustTree(t, map[string]domain.FileEntry{"out/A.class": entry("a")})

	_, err := domain.MergeTrees(dir, file)
	require.ErrorIs(t, err, domain.ErrMergeConflict)

	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr))
	assert.Equal(t, "out", zErr.Metadata()["path"])
}
