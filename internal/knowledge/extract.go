package knowledge

import (
	"fmt"
	"strings"
)

// textFields is the probe order for record-shaped passages.
var textFields = []string{"text", "content", "answer", "body", "message"}

// ExtractText returns the passage text carried by a raw source item. Strings
// are trimmed. Records use the first non-empty field in textFields. Any other
// shape yields "".
func ExtractText(item any) string {
	switch v := item.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		for _, field := range textFields {
			if s := stringify(v[field]); s != "" {
				return strings.TrimSpace(s)
			}
		}
	case map[string]string:
		for _, field := range textFields {
			if s := v[field]; s != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// ExtractAll extracts passage text from every item, dropping empty results.
func ExtractAll(items []any) []string {
	passages := make([]string, 0, len(items))
	for _, item := range items {
		if text := ExtractText(item); text != "" {
			passages = append(passages, text)
		}
	}
	return passages
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		if !s {
			return ""
		}
	}
	return fmt.Sprint(v)
}
