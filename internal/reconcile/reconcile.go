// Package reconcile repairs drift between the manifest and the asset
// directory by creating placeholder files for entries whose asset is missing.
// The pass is best-effort: bad entries are reported, never fatal, and the
// manifest itself is never modified.
package reconcile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bilbywilby/IASIP-gifs/pkg/logger"
	"github.com/bilbywilby/IASIP-gifs/pkg/manifest"
)

// MinimalGIF is a well-formed 1x1 transparent GIF89a, the smallest payload a
// GIF decoder will accept. Default placeholder content.
var MinimalGIF = []byte{
	'G', 'I', 'F', '8', '9', 'a',
	0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00,
	0xff, 0xff, 0xff, 0x00, 0x00, 0x00,
	0x21, 0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00,
	0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00,
	0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

// FillStrategy produces the content of a newly created placeholder.
type FillStrategy interface {
	Name() string
	Fill(path string) error
}

// MinimalFill writes the minimal valid GIF payload.
type MinimalFill struct{}

func (MinimalFill) Name() string { return "minimal-gif" }

func (MinimalFill) Fill(path string) error {
	return os.WriteFile(path, MinimalGIF, 0o644)
}

// TouchFill creates a zero-length file.
type TouchFill struct{}

func (TouchFill) Name() string { return "touch" }

func (TouchFill) Fill(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

// Report summarizes one reconciliation pass.
type Report struct {
	Created   []string          `json:"created"`
	Skipped   []string          `json:"skipped"`
	Malformed []manifest.Record `json:"malformed,omitempty"`
}

// Engine creates missing placeholder assets for manifest entries.
type Engine struct {
	gifsDir string
	fill    FillStrategy
}

// New returns an engine writing placeholders into gifsDir using fill.
func New(gifsDir string, fill FillStrategy) *Engine {
	return &Engine{gifsDir: gifsDir, fill: fill}
}

// Reconcile walks the manifest and creates a placeholder for every entry
// without an on-disk asset. Entries failing the basic shape check are
// collected as malformed and the pass continues. Running twice over an
// unchanged manifest creates nothing the second time.
func (e *Engine) Reconcile(m manifest.Manifest) (*Report, error) {
	if err := os.MkdirAll(e.gifsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create gifs directory %s: %w", e.gifsDir, err)
	}

	report := &Report{Created: []string{}, Skipped: []string{}}
	for _, rec := range m {
		if !wellFormedFilename(rec.Filename) {
			logger.Warn("entry missing a valid filename, skipping",
				logger.String("filename", rec.Filename))
			report.Malformed = append(report.Malformed, rec)
			continue
		}

		path := filepath.Join(e.gifsDir, rec.Filename)
		if _, err := os.Stat(path); err == nil {
			report.Skipped = append(report.Skipped, rec.Filename)
			continue
		}

		if err := e.fill.Fill(path); err != nil {
			logger.Error("failed to create placeholder",
				logger.String("filename", rec.Filename),
				logger.Err(err))
			report.Malformed = append(report.Malformed, rec)
			continue
		}
		logger.Info("created placeholder",
			logger.String("filename", rec.Filename),
			logger.String("strategy", e.fill.Name()))
		report.Created = append(report.Created, rec.Filename)
	}
	return report, nil
}

// wellFormedFilename is the basic shape check: non-empty, carries the asset
// extension, and names a file directly inside the gifs directory.
func wellFormedFilename(name string) bool {
	if name == "" || !strings.HasSuffix(name, manifest.AssetExt) {
		return false
	}
	return filepath.Base(name) == name
}
