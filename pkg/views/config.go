package views

import (
	"fmt"
	"net/http"

	"github.com/me/restkit/pkg/serializer"
)

// ConfigError reports a view configuration that cannot serve one of its
// methods. Constructors return it so misconfiguration fails at
// registration, not at request time.
type ConfigError struct {
	Method string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("view config: %s: %s", e.Method, e.Reason)
}

// MethodConfig overrides the serializers for one HTTP method. Set
// Serializer to use one serializer for both roles, or Request and Response
// to split them. Request alone covers both roles.
type MethodConfig[T any] struct {
	Serializer serializer.Serializer[T]
	Request    serializer.Serializer[T]
	Response   serializer.Serializer[T]
}

// Config selects serializers and success statuses per HTTP method.
// Methods without an entry fall back to Default; statuses fall back to the
// conventional code for the method.
type Config[T any] struct {
	Default  serializer.Serializer[T]
	Methods  map[string]MethodConfig[T]
	Statuses map[string]int
}

// binding is the resolved dispatch entry for one method.
type binding[T any] struct {
	request  serializer.Serializer[T]
	response serializer.Serializer[T]
	status   int
}

// conventionalStatuses are the method defaults applied when neither the
// config nor the view overrides them.
var conventionalStatuses = map[string]int{
	http.MethodGet:    http.StatusOK,
	http.MethodPost:   http.StatusCreated,
	http.MethodPut:    http.StatusOK,
	http.MethodPatch:  http.StatusOK,
	http.MethodDelete: http.StatusNoContent,
}

// resolve builds the dispatch table for the methods a view serves.
// viewStatuses carries per-view status defaults that sit between the
// config's explicit overrides and the conventional codes.
func (c Config[T]) resolve(methods []string, viewStatuses map[string]int) (map[string]binding[T], error) {
	table := make(map[string]binding[T], len(methods))
	for _, m := range methods {
		b := binding[T]{request: c.Default, response: c.Default}

		if mc, ok := c.Methods[m]; ok {
			switch {
			case mc.Serializer != nil && (mc.Request != nil || mc.Response != nil):
				return nil, &ConfigError{Method: m, Reason: "Serializer and Request/Response are mutually exclusive"}
			case mc.Serializer != nil:
				b.request, b.response = mc.Serializer, mc.Serializer
			case mc.Request != nil:
				b.request, b.response = mc.Request, mc.Request
				if mc.Response != nil {
					b.response = mc.Response
				}
			case mc.Response != nil:
				return nil, &ConfigError{Method: m, Reason: "Response without Request"}
			default:
				return nil, &ConfigError{Method: m, Reason: "empty method entry"}
			}
		}
		if b.request == nil || b.response == nil {
			return nil, &ConfigError{Method: m, Reason: "no serializer configured"}
		}

		if s, ok := c.Statuses[m]; ok {
			b.status = s
		} else if s, ok := viewStatuses[m]; ok {
			b.status = s
		} else if s, ok := conventionalStatuses[m]; ok {
			b.status = s
		} else {
			b.status = http.StatusOK
		}
		table[m] = b
	}
	return table, nil
}
