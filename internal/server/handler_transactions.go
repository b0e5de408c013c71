package server

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/me/restkit/internal/store"
	"github.com/me/restkit/pkg/pagination"
	"github.com/me/restkit/pkg/serializer"
	"github.com/me/restkit/pkg/views"
)

// transactionSource adapts the store's transaction methods. Ledger entries
// are immutable, so only list, create and retrieve are wired; anything else
// on the routes is answered with 405.
type transactionSource struct {
	store store.Store
}

func (t transactionSource) Get(ctx context.Context, id string) (*store.Transaction, error) {
	return t.store.GetTransaction(ctx, id)
}

func (t transactionSource) List(ctx context.Context) ([]store.Transaction, error) {
	return t.store.ListTransactions(ctx)
}

// Create writes the entry and moves the account balance. ID and creation
// time are server-assigned.
func (t transactionSource) Create(ctx context.Context, v *store.Transaction) error {
	v.ID = ""
	v.Created = serializer.Timestamp{}
	return t.store.CreateTransaction(ctx, v)
}

func (s *Server) mountTransactions(r chi.Router) error {
	cfg := views.Config[store.Transaction]{
		Default: serializer.JSON[store.Transaction]{Validate: validateTransaction},
	}
	src := transactionSource{s.store}
	pg := paginators(s.config, transactionKey, pagination.StrategyCursor)

	list, err := views.NewList(cfg, src, pg)
	if err != nil {
		return err
	}
	create, err := views.NewCreate(cfg, src)
	if err != nil {
		return err
	}
	retrieve, err := views.NewRetrieve(cfg, src)
	if err != nil {
		return err
	}

	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", list.ServeHTTP)
		r.Post("/", create.ServeHTTP)
		r.Get("/{id}", retrieve.ServeHTTP)
	})

	ops := list.Describe()
	ops = append(ops, create.Describe()...)
	s.describe("/api/v1/transactions", "Transaction listing and entry", "TransactionListView", ops)
	s.describe("/api/v1/transactions/{id}", "Single transaction detail", "TransactionView", retrieve.Describe())
	return nil
}

func transactionKey(t store.Transaction) pagination.Key {
	return pagination.Key{Time: t.Created.Time, ID: t.ID}
}

func validateTransaction(t *store.Transaction) error {
	vErr := &serializer.ValidationError{}
	if t.Account == "" {
		vErr.Add("account", "This field is required.")
	}
	if t.Kind != store.KindCredit && t.Kind != store.KindDebit {
		vErr.Add("kind", "Must be credit or debit.")
	}
	if t.Amount <= 0 {
		vErr.Add("amount", "Must be a positive integer.")
	}
	if len(vErr.Fields) > 0 {
		return vErr
	}
	return nil
}
