package store

import (
	"context"

	"github.com/me/restkit/pkg/serializer"
)

// Transaction kinds. A credit raises the account balance, a debit lowers it.
const (
	KindCredit = "credit"
	KindDebit  = "debit"
)

// Account is a ledger account holding a balance in minor currency units.
type Account struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Currency string               `json:"currency"`
	Balance  int64                `json:"balance"`
	Metadata serializer.Metadata  `json:"metadata"`
	Created  serializer.Timestamp `json:"created"`
	Updated  serializer.Timestamp `json:"updated"`
}

func (a Account) ResourceName() string { return "account" }
func (a Account) ResourceKey() string  { return a.ID }

// Transaction is an immutable ledger entry against one account.
type Transaction struct {
	ID       string               `json:"id"`
	Account  string               `json:"account"`
	Kind     string               `json:"kind"`
	Amount   int64                `json:"amount"`
	Memo     string               `json:"memo"`
	Metadata serializer.Metadata  `json:"metadata"`
	Created  serializer.Timestamp `json:"created"`
}

func (t Transaction) ResourceName() string { return "transaction" }
func (t Transaction) ResourceKey() string  { return t.ID }

// Store defines the persistence layer for ledger entities.
type Store interface {
	// Account CRUD. Get returns (nil, nil) for a missing account;
	// Update and Delete report a missing account as not found.
	CreateAccount(ctx context.Context, a *Account) error
	GetAccount(ctx context.Context, id string) (*Account, error)
	ListAccounts(ctx context.Context) ([]Account, error)
	UpdateAccount(ctx context.Context, id string, a *Account) error
	DeleteAccount(ctx context.Context, id string) error

	// Transaction operations. Entries are immutable once written; creating
	// one adjusts the account balance in the same database transaction.
	CreateTransaction(ctx context.Context, t *Transaction) error
	GetTransaction(ctx context.Context, id string) (*Transaction, error)
	ListTransactions(ctx context.Context) ([]Transaction, error)

	// Transfer atomically moves amount between two accounts, writing the
	// debit and credit entries that record it.
	Transfer(ctx context.Context, from, to string, amount int64, memo string) (debit, credit *Transaction, err error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
