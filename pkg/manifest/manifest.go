// Package manifest owns the gifs/index.json source of truth: the ordered
// collection of GIF records and the load-append-persist transaction that is
// the only way it changes on disk.
package manifest

import (
	"fmt"
	"sort"
	"strings"
)

// AssetExt is the extension every manifest filename must carry.
const AssetExt = ".gif"

// Record is one manifest entry describing a single GIF asset.
type Record struct {
	Filename    string   `json:"filename"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Manifest is the ordered collection of records, sorted by lower-cased filename.
type Manifest []Record

// DuplicateKeyError reports an append whose filename already exists.
type DuplicateKeyError struct {
	Filename string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("filename %q already exists in manifest", e.Filename)
}

// MalformedError reports manifest content that is not a valid JSON array of records.
type MalformedError struct {
	Path string
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed manifest %s: %v", e.Path, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Contains reports whether a record with exactly this filename exists.
// Matching is case-sensitive, mirroring the duplicate check on append.
func (m Manifest) Contains(filename string) bool {
	for _, r := range m {
		if r.Filename == filename {
			return true
		}
	}
	return false
}

// Append returns a new manifest with the record inserted and the whole
// collection re-sorted. The receiver is not modified. Fails with
// *DuplicateKeyError when the filename is already present.
func Append(m Manifest, r Record) (Manifest, error) {
	if m.Contains(r.Filename) {
		return nil, &DuplicateKeyError{Filename: r.Filename}
	}
	next := make(Manifest, 0, len(m)+1)
	next = append(next, m...)
	next = append(next, r)
	next.Sort()
	return next, nil
}

// Sort orders records by case-insensitive filename, in place.
func (m Manifest) Sort() {
	sort.SliceStable(m, func(i, j int) bool {
		return strings.ToLower(m[i].Filename) < strings.ToLower(m[j].Filename)
	})
}

// Dedupe returns a manifest with exact-filename duplicates collapsed to their
// first occurrence, preserving order. The receiver is not modified.
func (m Manifest) Dedupe() Manifest {
	seen := make(map[string]struct{}, len(m))
	out := make(Manifest, 0, len(m))
	for _, r := range m {
		if _, ok := seen[r.Filename]; ok {
			continue
		}
		seen[r.Filename] = struct{}{}
		out = append(out, r)
	}
	return out
}
