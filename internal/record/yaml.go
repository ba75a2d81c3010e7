package record

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File reads records from a YAML file, e.g.
//
//	records:
//	  - shapeType: Cube
//	    key: "1"
//	    length: "10"
//	    width: "5"
//	    depth: "5"
type File struct {
	Path string
}

type fileDoc struct {
	Records yaml.Node `yaml:"records"`
}

// Fetch reads and parses the file on every call.
func (f File) Fetch(ctx context.Context) ([]ShapeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML decodes a records document. A bare top-level list is accepted too.
// An empty or null records key means no records.
func ParseYAML(data []byte) ([]ShapeRecord, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err == nil && doc.Records.Kind != 0 {
		var recs []ShapeRecord
		if err := doc.Records.Decode(&recs); err != nil {
			return nil, fmt.Errorf("record: yaml: records: %w", err)
		}
		return recs, nil
	}
	var list []ShapeRecord
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("record: yaml: %w", err)
	}
	return list, nil
}
