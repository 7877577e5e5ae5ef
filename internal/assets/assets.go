// Package assets holds resources compiled into the gifdex binary.
package assets

import (
	"embed"
	"sort"
	"strings"
)

//go:embed embedded_schemas
var schemaFS embed.FS

// DefaultSchemaName is the embedded schema used when no --schema override is given.
const DefaultSchemaName = "gif-schema-v1.0.0"

// GetSchema returns the embedded schema bytes by name (e.g. "gif-schema-v1.0.0").
func GetSchema(name string) ([]byte, bool) {
	data, err := schemaFS.ReadFile("embedded_schemas/" + name + ".json")
	return data, err == nil
}

// SchemaNames lists the embedded schemas, sorted.
func SchemaNames() []string {
	entries, err := schemaFS.ReadDir("embedded_schemas")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}
