package views

import (
	"context"
	"net/http"
)

type ctxKey string

const ctxKeyResource ctxKey = "resource"

// Descriptor identifies the single resource a request created, updated,
// retrieved or deleted.
type Descriptor struct {
	Resource   string
	ResourceID string
}

// Identifiable is the capability instances implement to be tagged on the
// request. ResourceKey may return an empty string when the instance has a
// name but no stable identifier.
type Identifiable interface {
	ResourceName() string
	ResourceKey() string
}

// WithResource installs a descriptor holder on the request context.
// Handlers below fill it through TagResource; middleware above reads it
// back through ResourceFromContext after the handler returns.
func WithResource(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ctxKeyResource, &Descriptor{})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ResourceFromContext extracts the tagged resource. ok is false when
// nothing was tagged or the holder was never installed.
func ResourceFromContext(ctx context.Context) (Descriptor, bool) {
	d, ok := ctx.Value(ctxKeyResource).(*Descriptor)
	if !ok || d.Resource == "" {
		return Descriptor{}, false
	}
	return *d, true
}

// TagResource records the identity of instance when it implements
// Identifiable. A missing capability or holder is a no-op; tagging never
// fails a request.
func TagResource(ctx context.Context, instance any) {
	ident, ok := instance.(Identifiable)
	if !ok {
		return
	}
	d, ok := ctx.Value(ctxKeyResource).(*Descriptor)
	if !ok {
		return
	}
	d.Resource = ident.ResourceName()
	d.ResourceID = ident.ResourceKey()
}
