package views

import (
	"net/http"

	"github.com/me/restkit/pkg/schema"
)

// Describe reports the operations a view serves, with the serializers and
// status resolved from its configuration.

func (v *ListView[T]) Describe() []schema.Operation {
	return []schema.Operation{{
		Method:    http.MethodGet,
		Status:    v.bind.status,
		Request:   schema.TypeName(v.bind.request),
		Response:  schema.TypeName(v.bind.response),
		List:      true,
		Paginated: v.pg != nil && (v.pg.Page != nil || v.pg.Cursor != nil),
	}}
}

func (v *CreateView[T]) Describe() []schema.Operation {
	return []schema.Operation{{
		Method:   http.MethodPost,
		Status:   v.bind.status,
		Request:  schema.TypeName(v.bind.request),
		Response: schema.TypeName(v.bind.response),
	}}
}

func (v *RetrieveView[T]) Describe() []schema.Operation {
	return []schema.Operation{{
		Method:   http.MethodGet,
		Status:   v.bind.status,
		Request:  schema.TypeName(v.bind.request),
		Response: schema.TypeName(v.bind.response),
	}}
}

func (v *UpdateView[T]) Describe() []schema.Operation {
	ops := make([]schema.Operation, 0, len(v.binds))
	for _, m := range []string{http.MethodPut, http.MethodPatch} {
		b, ok := v.binds[m]
		if !ok {
			continue
		}
		ops = append(ops, schema.Operation{
			Method:   m,
			Status:   b.status,
			Request:  schema.TypeName(b.request),
			Response: schema.TypeName(b.response),
		})
	}
	return ops
}

func (v *DestroyView[T]) Describe() []schema.Operation {
	return []schema.Operation{{
		Method:  http.MethodDelete,
		Status:  v.bind.status,
		Request: schema.TypeName(v.bind.request),
		Minimal: true,
	}}
}

func (v *ActionView[T]) Describe() []schema.Operation {
	return []schema.Operation{{
		Method:  http.MethodPost,
		Status:  v.bind.status,
		Request: schema.TypeName(v.bind.request),
		Minimal: true,
	}}
}
