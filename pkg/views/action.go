package views

import (
	"context"
	"net/http"

	"github.com/me/restkit/pkg/envelope"
)

// Runner executes the command behind a POST action endpoint. It may
// mutate v before the response serializer runs.
type Runner[T any] interface {
	Run(ctx context.Context, v *T) error
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc[T any] func(ctx context.Context, v *T) error

func (f RunnerFunc[T]) Run(ctx context.Context, v *T) error { return f(ctx, v) }

// ActionView serves POST for a command that creates no resource. Success
// is a 200 with the bare status body. A response serializer whose encoding
// is a map contributes its keys alongside the status.
type ActionView[T any] struct {
	bind binding[T]
	run  Runner[T]
}

func NewAction[T any](cfg Config[T], run Runner[T]) (*ActionView[T], error) {
	table, err := cfg.resolve([]string{http.MethodPost},
		map[string]int{http.MethodPost: http.StatusOK})
	if err != nil {
		return nil, err
	}
	return &ActionView[T]{bind: table[http.MethodPost], run: run}, nil
}

func (v *ActionView[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondMethodNotAllowed(w, r)
		return
	}
	var val T
	if err := v.bind.request.Decode(r, &val); err != nil {
		respondErr(w, err)
		return
	}
	if err := v.run.Run(r.Context(), &val); err != nil {
		respondErr(w, err)
		return
	}

	out, err := v.bind.response.Encode(val)
	if err != nil {
		respondErr(w, err)
		return
	}
	body := envelope.Minimal()
	if m, ok := out.(map[string]any); ok {
		for k, mv := range m {
			if k == "status" {
				continue
			}
			body[k] = mv
		}
	}
	envelope.WriteJSON(w, v.bind.status, body)
}
