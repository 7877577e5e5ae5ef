// Package gitstage stages and commits ingest artifacts (the asset and the
// updated manifest) to the local git repository. It is a reporting-only
// collaborator: failures here never roll back the manifest.
package gitstage

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"

	"github.com/bilbywilby/IASIP-gifs/pkg/logger"
)

// Stager commits files in the repository containing dir.
type Stager struct {
	dir           string
	messagePrefix string
}

// New returns a stager rooted at dir. messagePrefix is prepended to the
// asset filename to form the commit message.
func New(dir, messagePrefix string) *Stager {
	return &Stager{dir: dir, messagePrefix: messagePrefix}
}

// StageAndCommit adds the given paths and commits them with a message naming
// the asset. go-git is preferred; when it cannot complete (no repo signature,
// detached state) the git CLI is used as a fallback, matching how the rest of
// the toolchain behaves on operator machines.
func (s *Stager) StageAndCommit(assetPath, manifestPath string) error {
	message := s.messagePrefix + filepath.Base(assetPath)

	if err := s.commitGoGit(message, assetPath, manifestPath); err == nil {
		return nil
	} else {
		logger.Debug("go-git commit failed, trying git CLI", logger.Err(err))
	}

	return s.commitCLI(message, assetPath, manifestPath)
}

func (s *Stager) commitGoGit(message string, paths ...string) error {
	repo, err := git.PlainOpenWithOptions(s.dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}

	root := wt.Filesystem.Root()
	for _, p := range paths {
		rel, err := relToRoot(root, p)
		if err != nil {
			return err
		}
		if _, err := wt.Add(rel); err != nil {
			return fmt.Errorf("stage %s: %w", rel, err)
		}
	}

	hash, err := wt.Commit(message, &git.CommitOptions{})
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	logger.Info("committed", logger.String("sha", hash.String()), logger.String("message", message))
	return nil
}

func (s *Stager) commitCLI(message string, paths ...string) error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git CLI not available: %w", err)
	}
	for _, p := range paths {
		if out, err := s.runGit("add", p); err != nil {
			return fmt.Errorf("git add %s: %w: %s", p, err, out)
		}
	}
	if out, err := s.runGit("commit", "-m", message); err != nil {
		return fmt.Errorf("git commit: %w: %s (ensure 'git init' has been run and your user identity is configured)", err, out)
	}
	logger.Info("committed via git CLI", logger.String("message", message))
	return nil
}

func (s *Stager) runGit(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = s.dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return strings.TrimSpace(stderr.String()), err
}

func relToRoot(root, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside the repository worktree", path)
	}
	return filepath.ToSlash(rel), nil
}
