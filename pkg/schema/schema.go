package schema

import (
	"reflect"
	"strings"
)

// Operation describes one method of a view for documentation generators:
// the resolved serializers, success status and response shape, plus any
// documentation overrides applied from Docs.
type Operation struct {
	Method    string
	Status    int
	Request   string
	Response  string
	List      bool
	Paginated bool
	// Minimal marks operations whose success body is the bare status
	// object rather than a data envelope.
	Minimal bool

	OperationID string
	Summary     string
	Description string
	Deprecated  bool
	CodeSamples []CodeSample
}

// TypeName renders a compact name for a serializer or payload value,
// dropping package paths from generic type parameters.
func TypeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "nil"
	}
	return compactTypeName(t.String())
}

// compactTypeName removes import paths so
// serializer.JSON[github.com/me/restkit/internal/store.Transaction]
// reads serializer.JSON[store.Transaction].
func compactTypeName(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		out = append(out, s[i])
		if s[i] != '/' {
			continue
		}
		j := len(out) - 2
		for j >= 0 && !strings.ContainsRune("[,( ", rune(out[j])) {
			j--
		}
		out = out[:j+1]
	}
	return string(out)
}

// ResponseSchema wraps a data schema in the standard success envelope.
func ResponseSchema(data map[string]any) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status": map[string]any{"type": "string", "example": "success"},
			"data":   data,
		},
	}
}

// PageSchema wraps an item schema in the page-number paginated envelope.
func PageSchema(item map[string]any) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status":   map[string]any{"type": "string", "example": "success"},
			"data":     arraySchema(item),
			"count":    map[string]any{"type": "integer"},
			"next":     nullableString("uri"),
			"previous": nullableString("uri"),
		},
	}
}

// CursorPageSchema wraps an item schema in the cursor paginated envelope.
func CursorPageSchema(item map[string]any) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status":          map[string]any{"type": "string", "example": "success"},
			"data":            arraySchema(item),
			"next_cursor":     nullableString(""),
			"previous_cursor": nullableString(""),
		},
	}
}

// MinimalSchema is the bare success body emitted by delete and action
// endpoints.
func MinimalSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status": map[string]any{"type": "string", "example": "success"},
		},
	}
}

// FailureSchema is the failure envelope: a message or a field name to
// messages map under data.
func FailureSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status": map[string]any{"type": "string", "example": "failure"},
			"data":   map[string]any{},
		},
	}
}

func arraySchema(item map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": item}
}

func nullableString(format string) map[string]any {
	s := map[string]any{"type": "string", "nullable": true}
	if format != "" {
		s["format"] = format
	}
	return s
}
