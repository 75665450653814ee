package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var visitPayloadSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"id":              map[string]interface{}{"type": "string"},
		"workerName":      map[string]interface{}{"type": "string"},
		"workerPhone":     map[string]interface{}{"type": "string"},
		"clientName":      map[string]interface{}{"type": "string"},
		"clientType":      map[string]interface{}{"type": "string"},
		"clientPhone":     map[string]interface{}{"type": "string"},
		"clientEmail":     map[string]interface{}{"type": "string"},
		"address":         map[string]interface{}{"type": "string"},
		"landmark":        map[string]interface{}{"type": "string"},
		"requirements":    map[string]interface{}{"type": "string"},
		"budget":          map[string]interface{}{"type": "number"},
		"status":          map[string]interface{}{"type": "string"},
		"followUpAt":      map[string]interface{}{"type": []interface{}{"string", "null"}},
		"rejectionReason": map[string]interface{}{"type": "string"},
		"latitude":        map[string]interface{}{"type": []interface{}{"number", "null"}},
		"longitude":       map[string]interface{}{"type": []interface{}{"number", "null"}},
		"photoUrl":        map[string]interface{}{"type": "string"},
	},
	"required":             []interface{}{"clientName", "workerName", "status"},
	"additionalProperties": false,
}

// ValidatePayloadShape rejects malformed or mistyped JSON bodies before any
// field-level rules run.
func ValidatePayloadShape(payload map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(visitPayloadSchema)
	documentLoader := gojsonschema.NewGoLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("invalid payload: %s", strings.Join(errs, "; "))
	}

	return nil
}
