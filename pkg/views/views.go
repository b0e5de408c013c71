package views

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/me/restkit/pkg/envelope"
	"github.com/me/restkit/pkg/pagination"
	"github.com/me/restkit/pkg/serializer"
)

// Getter loads a single instance by its route identifier. A nil instance
// with a nil error, or an error matching ErrNotFound, is a missing record.
type Getter[T any] interface {
	Get(ctx context.Context, id string) (*T, error)
}

// Lister loads the candidate collection for a list view.
type Lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

// Creator persists a new instance. It may mutate v, assigning identifiers
// or timestamps, before the response is encoded.
type Creator[T any] interface {
	Create(ctx context.Context, v *T) error
}

// Updater persists changes to the instance addressed by id.
type Updater[T any] interface {
	Update(ctx context.Context, id string, v *T) error
}

// Destroyer removes an instance.
type Destroyer[T any] interface {
	Delete(ctx context.Context, v *T) error
}

// Repository bundles the collaborators of a full CRUD resource.
type Repository[T any] interface {
	Getter[T]
	Lister[T]
	Creator[T]
	Updater[T]
	Destroyer[T]
}

// Collection bundles the collaborators of a list and create surface.
type Collection[T any] interface {
	Lister[T]
	Creator[T]
}

// Paginators selects the pagination applied to a list view. Nil disables
// pagination. With both strategies configured, requests pick one via the
// pagination query parameter; otherwise the configured strategy applies.
type Paginators[T any] struct {
	Page    *pagination.PageNumber[T]
	Cursor  *pagination.Cursor[T]
	Default string
}

// strategy resolves the effective strategy for a request, or "" when the
// view is unpaginated.
func (p *Paginators[T]) strategy(r *http.Request) string {
	if p == nil || (p.Page == nil && p.Cursor == nil) {
		return ""
	}
	def := p.Default
	if def == "" {
		def = pagination.StrategyPage
		if p.Page == nil {
			def = pagination.StrategyCursor
		}
	}
	s := pagination.StrategyFromRequest(r, def)
	if s == pagination.StrategyCursor && p.Cursor == nil {
		return pagination.StrategyPage
	}
	if s == pagination.StrategyPage && p.Page == nil {
		return pagination.StrategyCursor
	}
	return s
}

// ListView serves GET over a collection.
type ListView[T any] struct {
	bind binding[T]
	src  Lister[T]
	pg   *Paginators[T]
}

// NewList builds a list view. pg may be nil for an unpaginated view.
func NewList[T any](cfg Config[T], src Lister[T], pg *Paginators[T]) (*ListView[T], error) {
	table, err := cfg.resolve([]string{http.MethodGet}, nil)
	if err != nil {
		return nil, err
	}
	return &ListView[T]{bind: table[http.MethodGet], src: src, pg: pg}, nil
}

func (v *ListView[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w, r)
		return
	}
	items, err := v.src.List(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}

	switch v.pg.strategy(r) {
	case pagination.StrategyCursor:
		res := v.pg.Cursor.Paginate(items, r)
		data, err := encodeAll(v.bind.response, res.Items)
		if err != nil {
			respondErr(w, err)
			return
		}
		if !res.Paginated {
			envelope.Write(w, v.bind.status, data)
			return
		}
		envelope.WriteJSON(w, v.bind.status, envelope.CursorPage{
			Status:         envelope.StatusSuccess,
			Data:           data,
			NextCursor:     res.NextCursor,
			PreviousCursor: res.PreviousCursor,
		})
	case pagination.StrategyPage:
		res := v.pg.Page.Paginate(items, r)
		data, err := encodeAll(v.bind.response, res.Items)
		if err != nil {
			respondErr(w, err)
			return
		}
		if !res.Paginated {
			envelope.Write(w, v.bind.status, data)
			return
		}
		envelope.WriteJSON(w, v.bind.status, envelope.Page{
			Status:   envelope.StatusSuccess,
			Data:     data,
			Count:    res.Count,
			Next:     res.Next,
			Previous: res.Previous,
		})
	default:
		data, err := encodeAll(v.bind.response, items)
		if err != nil {
			respondErr(w, err)
			return
		}
		envelope.Write(w, v.bind.status, data)
	}
}

// CreateView serves POST, creating one instance.
type CreateView[T any] struct {
	bind binding[T]
	src  Creator[T]
}

func NewCreate[T any](cfg Config[T], src Creator[T]) (*CreateView[T], error) {
	table, err := cfg.resolve([]string{http.MethodPost}, nil)
	if err != nil {
		return nil, err
	}
	return &CreateView[T]{bind: table[http.MethodPost], src: src}, nil
}

func (v *CreateView[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondMethodNotAllowed(w, r)
		return
	}
	var val T
	if err := v.bind.request.Decode(r, &val); err != nil {
		respondErr(w, err)
		return
	}
	if err := v.src.Create(r.Context(), &val); err != nil {
		respondErr(w, err)
		return
	}
	TagResource(r.Context(), &val)

	out, err := v.bind.response.Encode(val)
	if err != nil {
		respondErr(w, err)
		return
	}
	if m, ok := out.(map[string]any); ok {
		if loc, ok := m["url"].(string); ok && loc != "" {
			w.Header().Set("Location", loc)
		}
	}
	envelope.Write(w, v.bind.status, out)
}

// RetrieveView serves GET for a single instance.
type RetrieveView[T any] struct {
	bind binding[T]
	src  Getter[T]
}

func NewRetrieve[T any](cfg Config[T], src Getter[T]) (*RetrieveView[T], error) {
	table, err := cfg.resolve([]string{http.MethodGet}, nil)
	if err != nil {
		return nil, err
	}
	return &RetrieveView[T]{bind: table[http.MethodGet], src: src}, nil
}

func (v *RetrieveView[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w, r)
		return
	}
	inst, err := fetchInstance(v.src, r)
	if err != nil {
		respondErr(w, err)
		return
	}
	TagResource(r.Context(), inst)

	out, err := v.bind.response.Encode(*inst)
	if err != nil {
		respondErr(w, err)
		return
	}
	envelope.Write(w, v.bind.status, out)
}

// UpdateView serves PUT for full and PATCH for partial updates. PATCH
// decodes over the stored instance so absent fields keep their values;
// PUT decodes into a fresh value.
type UpdateView[T any] struct {
	binds map[string]binding[T]
	get   Getter[T]
	src   Updater[T]
}

func NewUpdate[T any](cfg Config[T], get Getter[T], src Updater[T]) (*UpdateView[T], error) {
	table, err := cfg.resolve([]string{http.MethodPut, http.MethodPatch}, nil)
	if err != nil {
		return nil, err
	}
	return &UpdateView[T]{binds: table, get: get, src: src}, nil
}

func (v *UpdateView[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, ok := v.binds[r.Method]
	if !ok {
		respondMethodNotAllowed(w, r)
		return
	}
	inst, err := fetchInstance(v.get, r)
	if err != nil {
		respondErr(w, err)
		return
	}
	TagResource(r.Context(), inst)

	var target T
	if r.Method == http.MethodPatch {
		target = *inst
	}
	if err := b.request.Decode(r, &target); err != nil {
		respondErr(w, err)
		return
	}
	if err := v.src.Update(r.Context(), chi.URLParam(r, "id"), &target); err != nil {
		respondErr(w, err)
		return
	}

	out, err := b.response.Encode(target)
	if err != nil {
		respondErr(w, err)
		return
	}
	envelope.Write(w, b.status, out)
}

// DestroyView serves DELETE. It defaults to 200 so the success body can be
// written; configure Statuses to 204 to drop the body instead.
type DestroyView[T any] struct {
	bind binding[T]
	get  Getter[T]
	src  Destroyer[T]
}

func NewDestroy[T any](cfg Config[T], get Getter[T], src Destroyer[T]) (*DestroyView[T], error) {
	table, err := cfg.resolve([]string{http.MethodDelete},
		map[string]int{http.MethodDelete: http.StatusOK})
	if err != nil {
		return nil, err
	}
	return &DestroyView[T]{bind: table[http.MethodDelete], get: get, src: src}, nil
}

func (v *DestroyView[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		respondMethodNotAllowed(w, r)
		return
	}
	inst, err := fetchInstance(v.get, r)
	if err != nil {
		respondErr(w, err)
		return
	}
	TagResource(r.Context(), inst)

	if err := v.src.Delete(r.Context(), inst); err != nil {
		respondErr(w, err)
		return
	}
	envelope.WriteMinimal(w, v.bind.status)
}

// Resource holds the views a Mount call constructed, so callers can reach
// their Describe output after registration. Views a registration did not
// build are nil.
type Resource[T any] struct {
	List     *ListView[T]
	Create   *CreateView[T]
	Retrieve *RetrieveView[T]
	Update   *UpdateView[T]
	Destroy  *DestroyView[T]
}

// Mount registers the full CRUD surface for a resource: list and create on
// path, retrieve, update and destroy on path/{id}.
func Mount[T any](r chi.Router, path string, cfg Config[T], repo Repository[T], pg *Paginators[T]) (*Resource[T], error) {
	res, err := MountList(r, path, cfg, repo, pg)
	if err != nil {
		return nil, err
	}
	res.Retrieve, err = NewRetrieve(cfg, repo)
	if err != nil {
		return nil, err
	}
	res.Update, err = NewUpdate(cfg, repo, repo)
	if err != nil {
		return nil, err
	}
	res.Destroy, err = NewDestroy(cfg, repo, repo)
	if err != nil {
		return nil, err
	}

	r.Route(path+"/{id}", func(r chi.Router) {
		r.Get("/", res.Retrieve.ServeHTTP)
		r.Put("/", res.Update.ServeHTTP)
		r.Patch("/", res.Update.ServeHTTP)
		r.Delete("/", res.Destroy.ServeHTTP)
	})
	return res, nil
}

// MountList registers the collection surface only: list and create on path.
func MountList[T any](r chi.Router, path string, cfg Config[T], src Collection[T], pg *Paginators[T]) (*Resource[T], error) {
	list, err := NewList(cfg, src, pg)
	if err != nil {
		return nil, err
	}
	create, err := NewCreate(cfg, src)
	if err != nil {
		return nil, err
	}

	r.Route(path, func(r chi.Router) {
		r.Get("/", list.ServeHTTP)
		r.Post("/", create.ServeHTTP)
	})
	return &Resource[T]{List: list, Create: create}, nil
}

// fetchInstance loads the routed instance, folding a nil result into
// ErrNotFound.
func fetchInstance[T any](src Getter[T], r *http.Request) (*T, error) {
	inst, err := src.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, ErrNotFound
	}
	return inst, nil
}

// encodeAll encodes every item. The slice is always non-nil so empty
// collections emit [] rather than null.
func encodeAll[T any](s serializer.Serializer[T], items []T) ([]any, error) {
	out := make([]any, 0, len(items))
	for _, it := range items {
		v, err := s.Encode(it)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func respondMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	envelope.WriteError(w, http.StatusMethodNotAllowed,
		fmt.Sprintf("Method %q not allowed.", r.Method))
}
