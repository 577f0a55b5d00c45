package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/hendrikb/pipeline-monitor/internal/entity"
)

// BuildRawItemsSchema returns the JSON-Schema the raw-items feed is checked
// against: an array of objects with optional free-text fields. Extra keys
// are tolerated; this is a shape check, not an enforcement gate.
func BuildRawItemsSchema() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":     map[string]any{"type": "string"},
				"category": map[string]any{"type": "string"},
				"price":    map[string]any{"type": "string"},
				"tag":      map[string]any{"type": "string"},
				"date":     map[string]any{"type": "string"},
			},
		},
	}
}

// ValidateRawItems validates data against the raw-items schema.
func ValidateRawItems(data []byte) error {
	b, err := json.Marshal(BuildRawItemsSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("rawitems.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("rawitems.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("raw items do not match schema: %w", err)
	}
	return nil
}

// LoadRawItems reads the OCR result store. A missing file or a payload that
// is not a JSON array yields an empty batch; a schema mismatch is logged
// and decoding proceeds best-effort, mirroring how the log side tolerates
// malformed records.
func (r *Reconciler) LoadRawItems(path string) ([]entity.RawItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read items store: %w", err)
	}

	if err := ValidateRawItems(data); err != nil {
		r.logger.Warn("reconcile.items.schema", "path", path, "error", err)
	}

	var items []entity.RawItem
	if err := json.Unmarshal(data, &items); err != nil {
		r.logger.Warn("reconcile.items.decode", "path", path, "error", err)
		return nil, nil
	}
	return items, nil
}
