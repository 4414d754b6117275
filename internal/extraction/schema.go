package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildExtractionJSONSchema returns a JSON-Schema (draft 2020-12 subset)
// mirroring the shape the prompt asks the model for. It is advisory:
// decoded output that fails validation is logged, never rejected.
func BuildExtractionJSONSchema() map[string]any {
	strOrNull := map[string]any{"type": []string{"string", "null"}}
	numOrNull := map[string]any{"type": []string{"number", "null"}}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"merchant": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":    strOrNull,
					"branch":  strOrNull,
					"address": strOrNull,
					"phone":   strOrNull,
					"tax_id":  strOrNull,
				},
			},
			"transaction": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"date":           strOrNull,
					"time":           strOrNull,
					"invoice_number": strOrNull,
					"order_number":   strOrNull,
					"terminal":       strOrNull,
				},
			},
			"items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":        map[string]any{"type": "string"},
						"quantity":    numOrNull,
						"unit_price":  numOrNull,
						"total_price": numOrNull,
					},
					"required": []string{"name"},
				},
			},
			"totals": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"subtotal":      numOrNull,
					"tax":           numOrNull,
					"vat_amount":    numOrNull,
					"vatable_sales": numOrNull,
					"total":         numOrNull,
					"currency":      strOrNull,
				},
			},
			"payment": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"method":             strOrNull,
					"card_last4":         strOrNull,
					"authorization_code": strOrNull,
					"reference_number":   strOrNull,
					"status":             strOrNull,
				},
			},
			"lines": map[string]any{
				"type":  []string{"array", "null"},
				"items": map[string]any{"type": "string"},
			},
			"full_text": map[string]any{"type": "string"},
		},
	}
}

// ValidateAgainstSchema validates data against the extraction schema.
func ValidateAgainstSchema(data []byte) error {
	b, err := json.Marshal(BuildExtractionJSONSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
