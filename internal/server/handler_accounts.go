package server

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/me/restkit/internal/store"
	"github.com/me/restkit/pkg/pagination"
	"github.com/me/restkit/pkg/serializer"
	"github.com/me/restkit/pkg/views"
)

// accountRepo adapts the store's account methods to the view collaborator
// interfaces.
type accountRepo struct {
	store store.Store
}

func (a accountRepo) Get(ctx context.Context, id string) (*store.Account, error) {
	return a.store.GetAccount(ctx, id)
}

func (a accountRepo) List(ctx context.Context) ([]store.Account, error) {
	return a.store.ListAccounts(ctx)
}

// Create persists a new account. ID, balance and creation time are
// server-assigned; client-supplied values are dropped.
func (a accountRepo) Create(ctx context.Context, v *store.Account) error {
	v.ID = ""
	v.Balance = 0
	v.Created = serializer.Timestamp{}
	return a.store.CreateAccount(ctx, v)
}

func (a accountRepo) Update(ctx context.Context, id string, v *store.Account) error {
	return a.store.UpdateAccount(ctx, id, v)
}

func (a accountRepo) Delete(ctx context.Context, v *store.Account) error {
	return a.store.DeleteAccount(ctx, v.ID)
}

func (s *Server) mountAccounts(r chi.Router) error {
	cfg := views.Config[store.Account]{
		Default: serializer.JSON[store.Account]{Validate: validateAccount},
	}
	pg := paginators(s.config, accountKey, pagination.StrategyPage)

	res, err := views.Mount(r, "/accounts", cfg, accountRepo{s.store}, pg)
	if err != nil {
		return err
	}

	ops := res.List.Describe()
	ops = append(ops, res.Create.Describe()...)
	s.describe("/api/v1/accounts", "Account management", "AccountListView", ops)

	ops = res.Retrieve.Describe()
	ops = append(ops, res.Update.Describe()...)
	ops = append(ops, res.Destroy.Describe()...)
	s.describe("/api/v1/accounts/{id}", "Single account operations", "AccountView", ops)
	return nil
}

func accountKey(a store.Account) pagination.Key {
	return pagination.Key{Time: a.Created.Time, ID: a.ID}
}

// validateAccount rejects accounts without a name or with a malformed
// currency code. Empty currency is allowed; the store defaults it.
func validateAccount(a *store.Account) error {
	vErr := &serializer.ValidationError{}
	if a.Name == "" {
		vErr.Add("name", "This field is required.")
	}
	if a.Currency != "" && !validCurrency(a.Currency) {
		vErr.Add("currency", "Must be a 3-letter uppercase code.")
	}
	if len(vErr.Fields) > 0 {
		return vErr
	}
	return nil
}

func validCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}
