package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openguard/openguard/internal/core"
)

func TestMergeCorrections_EmptyCorrectedListKeepsOriginals(t *testing.T) {
	originals := []core.SourceFile{
		{Filename: "a.go", Content: "package a"},
		{Filename: "b.go", Content: "package b"},
	}

	got := MergeCorrections(nil, originals)

	require.Len(t, got, 2)
	for i, f := range got {
		assert.Equal(t, originals[i].Filename, f.Filename)
		assert.Equal(t, originals[i].Content, f.Content)
	}
}

func TestMergeCorrections_SubstitutesCorrectedContent(t *testing.T) {
	originals := []core.SourceFile{
		{Filename: "a.go", Content: "old a"},
		{Filename: "b.go", Content: "old b"},
	}
	corrected := []core.ModelFile{{Filename: "b.go", Content: "new b"}}

	got := MergeCorrections(corrected, originals)

	require.Len(t, got, 2)
	assert.Equal(t, "old a", got[0].Content)
	assert.Equal(t, "new b", got[1].Content)
}

func TestMergeCorrections_IgnoresUnknownFiles(t *testing.T) {
	originals := []core.SourceFile{{Filename: "a.go", Content: "old a"}}
	corrected := []core.ModelFile{
		{Filename: "a.go", Content: "new a"},
		{Filename: "phantom.go", Content: "should never appear"},
	}

	got := MergeCorrections(corrected, originals)

	require.Len(t, got, 1, "output file set must be exactly the original file set")
	assert.Equal(t, "a.go", got[0].Filename)
	assert.Equal(t, "new a", got[0].Content)
}

func TestMergeCorrections_DuplicateFilenamesLastWriteWins(t *testing.T) {
	originals := []core.SourceFile{{Filename: "a.go", Content: "old"}}
	corrected := []core.ModelFile{
		{Filename: "a.go", Content: "first"},
		{Filename: "a.go", Content: "second"},
	}

	got := MergeCorrections(corrected, originals)

	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Content)
}

func TestMergeCorrections_PreservesOrderAndLength(t *testing.T) {
	originals := []core.SourceFile{
		{Filename: "z.go", Content: "z"},
		{Filename: "m.go", Content: "m"},
		{Filename: "a.go", Content: "a"},
	}
	corrected := []core.ModelFile{{Filename: "m.go", Content: "fixed m"}}

	got := MergeCorrections(corrected, originals)

	require.Len(t, got, len(originals))
	for i := range originals {
		assert.Equal(t, originals[i].Filename, got[i].Filename)
	}
}
