package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "gifs", "index.json"))
}

func TestLoadCreatesEmptyManifestWhenAbsent(t *testing.T) {
	s := tempStore(t)

	m, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, m)

	// The empty manifest was persisted as an empty JSON array.
	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", "{not json"},
		{"not a sequence", `{"filename":"a.gif"}`},
		{"null", "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tempStore(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
			require.NoError(t, os.WriteFile(s.Path(), []byte(tt.content), 0o644))

			_, err := s.Load()
			require.Error(t, err)
			var malformed *MalformedError
			assert.True(t, errors.As(err, &malformed), "expected MalformedError, got %T", err)
		})
	}
}

func TestPersistRoundTrip(t *testing.T) {
	s := tempStore(t)
	m := sampleManifest()

	require.NoError(t, s.Persist(m))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, m, loaded)
}

func TestPersistIsIdempotent(t *testing.T) {
	s := tempStore(t)
	m := sampleManifest()

	require.NoError(t, s.Persist(m))
	first, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	loaded, err := s.Load()
	require.NoError(t, err)
	require.NoError(t, s.Persist(loaded))

	second, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, first, second, "persist(load(persist(M))) must be byte-identical")
}

func TestPersistFormatting(t *testing.T) {
	s := tempStore(t)
	m := Manifest{{Filename: "a.gif", Description: "A ten-char description.", Tags: []string{"x"}}}

	require.NoError(t, s.Persist(m))
	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "[\n  {\n"), "expected 2-space indentation, got:\n%s", out)
	assert.True(t, strings.HasSuffix(out, "]\n"), "expected trailing newline")
	// Stable key order: filename, description, tags.
	fi := strings.Index(out, `"filename"`)
	di := strings.Index(out, `"description"`)
	ti := strings.Index(out, `"tags"`)
	assert.True(t, fi < di && di < ti, "key order not stable: %s", out)
}

func TestPersistSortedOnAppendStaysSorted(t *testing.T) {
	s := tempStore(t)

	m := Manifest{}
	for _, name := range []string{"Zebra.gif", "apple.gif", "Mantis.gif"} {
		var err error
		m, err = Append(m, Record{Filename: name, Description: "Sorted by lower-cased name.", Tags: []string{"t"}})
		require.NoError(t, err)
	}
	require.NoError(t, s.Persist(m))

	loaded, err := s.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, "apple.gif", loaded[0].Filename)
	assert.Equal(t, "Mantis.gif", loaded[1].Filename)
	assert.Equal(t, "Zebra.gif", loaded[2].Filename)
}
