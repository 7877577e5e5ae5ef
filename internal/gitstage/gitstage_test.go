package gitstage

import (
	"os"
	"path/filepath"
	"testing"

	git "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.User.Name = "Test Operator"
	cfg.User.Email = "operator@example.com"
	require.NoError(t, repo.SetConfig(cfg))
	return dir, repo
}

func TestStageAndCommit(t *testing.T) {
	dir, repo := initRepo(t)

	gifsDir := filepath.Join(dir, "gifs")
	require.NoError(t, os.MkdirAll(gifsDir, 0o755))
	assetPath := filepath.Join(gifsDir, "a.gif")
	manifestPath := filepath.Join(gifsDir, "index.json")
	require.NoError(t, os.WriteFile(assetPath, []byte("GIF89a"), 0o644))
	require.NoError(t, os.WriteFile(manifestPath, []byte("[]\n"), 0o644))

	err := New(dir, "Add new GIF: ").StageAndCommit(assetPath, manifestPath)
	require.NoError(t, err)

	head, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, "Add new GIF: a.gif", commit.Message)

	// Both files are in the commit tree.
	tree, err := commit.Tree()
	require.NoError(t, err)
	for _, want := range []string{"gifs/a.gif", "gifs/index.json"} {
		_, err := tree.FindEntry(want)
		assert.NoError(t, err, "expected %s in commit tree", want)
	}
}

func TestStageAndCommitOutsideRepo(t *testing.T) {
	// No repository anywhere under the temp dir; both go-git and the CLI
	// fallback must fail and surface an error.
	dir := t.TempDir()
	path := filepath.Join(dir, "a.gif")
	require.NoError(t, os.WriteFile(path, []byte("GIF89a"), 0o644))

	err := New(dir, "Add new GIF: ").StageAndCommit(path, path)
	assert.Error(t, err)
}

func TestRelToRoot(t *testing.T) {
	root := t.TempDir()

	rel, err := relToRoot(root, filepath.Join(root, "gifs", "a.gif"))
	require.NoError(t, err)
	assert.Equal(t, "gifs/a.gif", rel)

	_, err = relToRoot(root, filepath.Join(root, "..", "outside.gif"))
	assert.Error(t, err)
}
