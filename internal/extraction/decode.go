package extraction

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/yachiey/ocr-final/internal/entity"
)

// parseStage attempts to recover a JSON object from the raw model text.
// Stages are pure: each gets the original text and either yields an object
// or an error, with no shared state between attempts.
type parseStage func(string) (map[string]any, error)

var parseStages = []parseStage{parseFenced, parseBraceSpan}

// Decode recovers a structured extraction from the model's raw text. It
// tolerates markdown fences, prose wrapping, and malformed JSON; when no
// stage yields an object it synthesizes a fallback shape whose FullText is
// the raw input verbatim. Decode never fails; the second return reports
// whether the fallback was taken.
func Decode(raw string) (*entity.Extraction, bool) {
	for _, stage := range parseStages {
		if m, err := stage(raw); err == nil {
			return fromMap(m), false
		}
	}
	return &entity.Extraction{
		Items:    []entity.Item{},
		Lines:    []string{},
		FullText: raw,
	}, true
}

// parseFenced strips a leading/trailing markdown code fence and parses the
// remainder strictly.
func parseFenced(raw string) (map[string]any, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return parseObject(strings.TrimSpace(s))
}

// parseBraceSpan extracts the first '{' through the last '}' and parses
// that span strictly. Handles prose-wrapped JSON.
func parseBraceSpan(raw string) (map[string]any, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, errors.New("no json object span")
	}
	return parseObject(raw[start : end+1])
}

func parseObject(s string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("json is not an object")
	}
	return m, nil
}

// fromMap builds the typed extraction from a decoded object, coercing
// leniently: money fields accept numbers or numeric strings and become
// null otherwise; unknown keys are ignored.
func fromMap(m map[string]any) *entity.Extraction {
	ext := &entity.Extraction{Items: []entity.Item{}}

	if mm, ok := m["merchant"].(map[string]any); ok {
		ext.Merchant = entity.Merchant{
			Name:    optString(mm, "name"),
			Branch:  optString(mm, "branch"),
			Address: optString(mm, "address"),
			Phone:   optString(mm, "phone"),
			TaxID:   optString(mm, "tax_id"),
		}
	}

	if tm, ok := m["transaction"].(map[string]any); ok {
		ext.Transaction = entity.Transaction{
			Date:          optString(tm, "date"),
			Time:          optString(tm, "time"),
			InvoiceNumber: optString(tm, "invoice_number"),
			OrderNumber:   optString(tm, "order_number"),
			Terminal:      optString(tm, "terminal"),
		}
	}

	if arr, ok := m["items"].([]any); ok {
		for _, v := range arr {
			im, ok := v.(map[string]any)
			if !ok {
				continue
			}
			ext.Items = append(ext.Items, entity.Item{
				Name:       stringOr(im, "name", ""),
				Quantity:   optNumber(im, "quantity"),
				UnitPrice:  optNumber(im, "unit_price"),
				TotalPrice: optNumber(im, "total_price"),
			})
		}
	}

	if tm, ok := m["totals"].(map[string]any); ok {
		ext.Totals = entity.Totals{
			Subtotal:     optNumber(tm, "subtotal"),
			Tax:          optNumber(tm, "tax"),
			VATAmount:    optNumber(tm, "vat_amount"),
			VATableSales: optNumber(tm, "vatable_sales"),
			Total:        optNumber(tm, "total"),
			Currency:     stringOr(tm, "currency", ""),
		}
	}

	if pm, ok := m["payment"].(map[string]any); ok {
		ext.Payment = entity.Payment{
			Method:            optString(pm, "method"),
			CardLast4:         optString(pm, "card_last4"),
			AuthorizationCode: optString(pm, "authorization_code"),
			ReferenceNumber:   optString(pm, "reference_number"),
			Status:            optString(pm, "status"),
		}
	}

	// A present "lines" key yields a non-nil slice even when empty; the
	// reconciler relies on that to tell "empty" apart from "absent".
	if lv, ok := m["lines"]; ok {
		if arr, ok := lv.([]any); ok {
			lines := make([]string, 0, len(arr))
			for _, v := range arr {
				if s, ok := v.(string); ok {
					lines = append(lines, s)
				}
			}
			ext.Lines = lines
		}
	}

	ext.FullText = stringOr(m, "full_text", "")
	return ext
}

func optString(m map[string]any, key string) *string {
	if s, ok := m[key].(string); ok {
		return &s
	}
	return nil
}

func stringOr(m map[string]any, key, def string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return def
}

// optNumber returns a finite number or nil. Numeric strings are coerced;
// NaN and infinities are rejected.
func optNumber(m map[string]any, key string) *float64 {
	switch v := m[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return &v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return &f
	}
	return nil
}
