package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bilbywilby/IASIP-gifs/internal/reconcile"
)

const fiveRecordManifest = `[
  {"filename": "a.gif", "description": "A ten-char description.", "tags": ["x"]},
  {"filename": "b.gif", "description": "A ten-char description.", "tags": ["x"]},
  {"filename": "c.gif", "description": "A ten-char description.", "tags": ["x"]},
  {"filename": "d.gif", "description": "A ten-char description.", "tags": ["x"]},
  {"filename": "e.gif", "description": "A ten-char description.", "tags": ["x"]}
]
`

func TestReconcileCreatesMissing(t *testing.T) {
	dir := t.TempDir()
	gifsDir := filepath.Join(dir, "gifs")
	if err := os.MkdirAll(gifsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	manifestPath := filepath.Join(gifsDir, "index.json")
	if err := os.WriteFile(manifestPath, []byte(fiveRecordManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	// 3 of 5 assets already exist.
	for _, name := range []string{"a.gif", "c.gif", "e.gif"} {
		if err := os.WriteFile(filepath.Join(gifsDir, name), []byte("GIF89a"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	out, err := execRoot(t, []string{"reconcile", "--manifest", manifestPath, "--gifs-dir", gifsDir})
	if err != nil {
		t.Fatalf("reconcile failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "2 created, 3 skipped") {
		t.Errorf("unexpected summary: %s", out)
	}

	data, err := os.ReadFile(filepath.Join(gifsDir, "b.gif"))
	if err != nil {
		t.Fatalf("placeholder not created: %v", err)
	}
	if string(data[:6]) != "GIF89a" {
		t.Errorf("placeholder is not a GIF: %q", data)
	}
}

func TestReconcileTouchFlag(t *testing.T) {
	dir := t.TempDir()
	gifsDir := filepath.Join(dir, "gifs")
	manifestPath := filepath.Join(dir, "index.json")
	one := `[{"filename": "a.gif", "description": "A ten-char description.", "tags": ["x"]}]`
	if err := os.WriteFile(manifestPath, []byte(one), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execRoot(t, []string{"reconcile", "--manifest", manifestPath, "--gifs-dir", gifsDir, "--touch"})
	if err != nil {
		t.Fatalf("reconcile --touch failed: %v\n%s", err, out)
	}

	st, err := os.Stat(filepath.Join(gifsDir, "a.gif"))
	if err != nil {
		t.Fatalf("placeholder not created: %v", err)
	}
	if st.Size() != 0 {
		t.Errorf("expected empty placeholder, got %d bytes", st.Size())
	}
}

func TestReconcileSecondRunCreatesNothing(t *testing.T) {
	dir := t.TempDir()
	gifsDir := filepath.Join(dir, "gifs")
	manifestPath := filepath.Join(dir, "index.json")
	if err := os.WriteFile(manifestPath, []byte(fiveRecordManifest), 0o644); err != nil {
		t.Fatal(err)
	}

	// Reset the sticky --touch flag from other tests.
	if err := reconcileCmd.Flags().Set("touch", "false"); err != nil {
		t.Fatal(err)
	}

	if _, err := execRoot(t, []string{"reconcile", "--manifest", manifestPath, "--gifs-dir", gifsDir}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	out, err := execRoot(t, []string{"reconcile", "--manifest", manifestPath, "--gifs-dir", gifsDir})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !strings.Contains(out, "0 created, 5 skipped") {
		t.Errorf("second run should create nothing: %s", out)
	}

	// Placeholders carry the minimal payload.
	data, err := os.ReadFile(filepath.Join(gifsDir, "a.gif"))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != len(reconcile.MinimalGIF) {
		t.Errorf("placeholder size = %d, expected %d", len(data), len(reconcile.MinimalGIF))
	}
}
