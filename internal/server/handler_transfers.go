package server

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/me/restkit/internal/store"
	"github.com/me/restkit/pkg/serializer"
	"github.com/me/restkit/pkg/views"
)

// transfer is the request payload of the transfer command. The entries the
// store wrote are carried back out through the response transform.
type transfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
	Memo   string `json:"memo"`

	debit  *store.Transaction
	credit *store.Transaction
}

func (s *Server) mountTransfers(r chi.Router) error {
	cfg := views.Config[transfer]{
		Default: serializer.JSON[transfer]{
			Validate:  validateTransfer,
			Transform: transferResult,
		},
	}
	action, err := views.NewAction(cfg, views.RunnerFunc[transfer](s.runTransfer))
	if err != nil {
		return err
	}

	r.Post("/transfers", action.ServeHTTP)

	s.describe("/api/v1/transfers", "Move funds between two accounts", "TransferView", action.Describe())
	return nil
}

func (s *Server) runTransfer(ctx context.Context, t *transfer) error {
	debit, credit, err := s.store.Transfer(ctx, t.From, t.To, t.Amount, t.Memo)
	if err != nil {
		return err
	}
	t.debit, t.credit = debit, credit
	return nil
}

// transferResult contributes the written entry IDs to the success body.
func transferResult(t transfer) (any, error) {
	if t.debit == nil || t.credit == nil {
		return nil, nil
	}
	return map[string]any{
		"debit":  t.debit.ID,
		"credit": t.credit.ID,
	}, nil
}

func validateTransfer(t *transfer) error {
	vErr := &serializer.ValidationError{}
	if t.From == "" {
		vErr.Add("from", "This field is required.")
	}
	if t.To == "" {
		vErr.Add("to", "This field is required.")
	}
	if t.Amount <= 0 {
		vErr.Add("amount", "Must be a positive integer.")
	}
	if len(vErr.Fields) > 0 {
		return vErr
	}
	return nil
}
