package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/oxhq/lqlroute/internal/schema"
)

// schemaFile is the on-disk shape a --schema flag points at: either an
// explicit list of path/type descriptors, or a representative sample
// metadata document to infer types from. If both are present, the
// descriptors are used and the metadata sample is ignored.
type schemaFile struct {
	Fields   []schema.Descriptor `json:"fields,omitempty"`
	Metadata map[string]any      `json:"metadata,omitempty"`
}

func loadSchema(path string) (*schema.Schema, error) {
	if path == "" {
		return schema.New(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file %s: %w", path, err)
	}

	var sf schemaFile
	if err := json.Unmarshal(raw, &sf); err != nil {
		return nil, fmt.Errorf("parsing schema file %s: %w", path, err)
	}

	if len(sf.Fields) > 0 {
		return schema.FromDescriptors(sf.Fields), nil
	}
	return schema.FromSamples("metadata", sf.Metadata), nil
}
