// ABOUTME: Normalizes arbitrary news/trend JSON into writing prompts
// ABOUTME: Accepts a bare array or an object wrapping items/data arrays

package inspiration

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultCategory labels items whose payload carries no category.
const DefaultCategory = "Trending"

// Prompt is one inspiration entry shown beside the composer.
type Prompt struct {
	Headline string `json:"headline"`
	Category string `json:"category"`
}

// Normalize decodes payload and maps every usable item to a Prompt.
// Items without a headline, and entries that are not objects, are dropped.
// A payload that is valid JSON but has no recognizable list yields an empty
// slice; invalid JSON is an error.
func Normalize(payload []byte) ([]Prompt, error) {
	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decoding inspiration payload: %w", err)
	}

	var items []any
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		if list, ok := v["items"].([]any); ok {
			items = list
		}
		// data wins over items when both are present
		if list, ok := v["data"].([]any); ok {
			items = list
		}
	}

	prompts := make([]Prompt, 0, len(items))
	for _, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}

		headline := strings.TrimSpace(firstText(record, "headline", "title", "text"))
		if headline == "" {
			continue
		}

		category := strings.TrimSpace(firstText(record, "category", "section", "topic"))
		if category == "" {
			category = DefaultCategory
		}

		prompts = append(prompts, Prompt{Headline: headline, Category: category})
	}

	return prompts, nil
}

// firstText returns the first of keys whose value is truthy, rendered as
// text. Empty strings, zero, false and null are skipped.
func firstText(record map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := text(record[key]); s != "" {
			return s
		}
	}
	return ""
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if !t {
			return ""
		}
		return "true"
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		// Objects and arrays are truthy but have no useful text form
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
