package manifest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleManifest() Manifest {
	return Manifest{
		{Filename: "a.gif", Description: "A ten-char description.", Tags: []string{"x"}},
		{Filename: "b.gif", Description: "Another fine description.", Tags: []string{"y", "z"}},
	}
}

func TestAppendSortsCaseInsensitively(t *testing.T) {
	m := Manifest{
		{Filename: "Banana.gif", Description: "Banana dance gif here.", Tags: []string{"banana"}},
		{Filename: "cricket.gif", Description: "Cricket the street priest.", Tags: []string{"cricket"}},
	}

	next, err := Append(m, Record{Filename: "apple.gif", Description: "Apple of my eye gif.", Tags: []string{"apple"}})
	require.NoError(t, err)

	require.Len(t, next, 3)
	assert.Equal(t, "apple.gif", next[0].Filename)
	assert.Equal(t, "Banana.gif", next[1].Filename)
	assert.Equal(t, "cricket.gif", next[2].Filename)
}

func TestAppendDuplicateLeavesManifestUnchanged(t *testing.T) {
	m := sampleManifest()

	next, err := Append(m, Record{Filename: "a.gif", Description: "Would shadow the original.", Tags: []string{"dup"}})
	require.Error(t, err)
	assert.Nil(t, next)

	var dup *DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "a.gif", dup.Filename)

	// Original untouched.
	assert.Equal(t, sampleManifest(), m)
}

func TestAppendDuplicateIsCaseSensitive(t *testing.T) {
	m := sampleManifest()

	// "A.gif" differs from "a.gif" by case only; the duplicate check matches
	// the source behavior and lets it through.
	next, err := Append(m, Record{Filename: "A.gif", Description: "Upper-case sibling entry.", Tags: []string{"dup"}})
	require.NoError(t, err)
	assert.Len(t, next, 3)
}

func TestAppendDoesNotMutateReceiver(t *testing.T) {
	m := sampleManifest()
	_, err := Append(m, Record{Filename: "0first.gif", Description: "Sorts before everything.", Tags: []string{"t"}})
	require.NoError(t, err)
	assert.Equal(t, sampleManifest(), m)
}

func TestContains(t *testing.T) {
	m := sampleManifest()
	assert.True(t, m.Contains("a.gif"))
	assert.False(t, m.Contains("A.gif"))
	assert.False(t, m.Contains("missing.gif"))
}

func TestDedupe(t *testing.T) {
	m := Manifest{
		{Filename: "a.gif", Description: "First occurrence wins here.", Tags: []string{"x"}},
		{Filename: "b.gif", Description: "Unique entry in between.", Tags: []string{"y"}},
		{Filename: "a.gif", Description: "Second occurrence dropped.", Tags: []string{"z"}},
	}

	out := m.Dedupe()
	require.Len(t, out, 2)
	assert.Equal(t, "First occurrence wins here.", out[0].Description)
	assert.Equal(t, "b.gif", out[1].Filename)
	// Receiver untouched.
	assert.Len(t, m, 3)
}
