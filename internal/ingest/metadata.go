package ingest

import (
	"fmt"
	"strings"
)

// Description length bounds, matching the schema constraints. Applied eagerly
// here to fail before the schema pass; the SchemaValidator stays the
// authority.
const (
	DescriptionMinLen = 10
	DescriptionMaxLen = 200
)

// CheckDescription applies the eager length bounds.
func CheckDescription(desc string) error {
	if n := len(desc); n < DescriptionMinLen || n > DescriptionMaxLen {
		return fmt.Errorf("description must be between %d and %d characters, got %d",
			DescriptionMinLen, DescriptionMaxLen, n)
	}
	return nil
}

// ParseTags splits a comma-separated tag string the way the interactive
// prompt does: lower-cased, trimmed, empty entries dropped.
func ParseTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(strings.ToLower(raw), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// StaticSource supplies pre-collected metadata (e.g. from command flags).
// Collect applies the same eager checks the interactive prompt enforces
// through its retry loop.
type StaticSource struct {
	Description string
	Tags        []string
}

func (s StaticSource) Collect(string) (Metadata, error) {
	desc := strings.TrimSpace(s.Description)
	if err := CheckDescription(desc); err != nil {
		return Metadata{}, err
	}

	var tags []string
	for _, t := range s.Tags {
		if t = strings.TrimSpace(strings.ToLower(t)); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return Metadata{}, fmt.Errorf("at least one tag is required")
	}

	return Metadata{Description: desc, Tags: tags}, nil
}
