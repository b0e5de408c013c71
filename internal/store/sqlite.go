package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/me/restkit/pkg/serializer"
	"github.com/me/restkit/pkg/views"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a Store.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// --- Account CRUD ---

func (s *SQLiteStore) CreateAccount(ctx context.Context, a *Account) error {
	if a.ID == "" {
		a.ID = "acc_" + uuid.New().String()
	}
	if a.Currency == "" {
		a.Currency = "USD"
	}
	now := time.Now().UTC()
	if a.Created.IsZero() {
		a.Created = serializer.Timestamp{Time: now}
	}
	a.Updated = serializer.Timestamp{Time: now}
	s.logger.Debug("sql", "op", "insert", "table", "accounts", "id", a.ID)

	metadataJSON, err := json.Marshal(a.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, currency, balance, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Currency, a.Balance, string(metadataJSON),
		a.Created.UTC().Format(time.RFC3339Nano), a.Updated.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (s *SQLiteStore) GetAccount(ctx context.Context, id string) (*Account, error) {
	s.logger.Debug("sql", "op", "select", "table", "accounts", "id", id)
	return scanAccount(s.db.QueryRowContext(ctx,
		`SELECT id, name, currency, balance, metadata, created_at, updated_at
		 FROM accounts WHERE id = ?`, id))
}

func (s *SQLiteStore) ListAccounts(ctx context.Context) ([]Account, error) {
	s.logger.Debug("sql", "op", "list", "table", "accounts")

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, currency, balance, metadata, created_at, updated_at
		 FROM accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

// UpdateAccount writes the mutable fields of a. Balance and creation time
// only change through transactions, so the stored values are read back into
// a for the caller's response.
func (s *SQLiteStore) UpdateAccount(ctx context.Context, id string, a *Account) error {
	s.logger.Debug("sql", "op", "update", "table", "accounts", "id", id)

	if a.Currency == "" {
		a.Currency = "USD"
	}
	a.ID = id
	a.Updated = serializer.Timestamp{Time: time.Now().UTC()}

	metadataJSON, err := json.Marshal(a.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET name=?, currency=?, metadata=?, updated_at=? WHERE id=?`,
		a.Name, a.Currency, string(metadataJSON), a.Updated.UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return &views.NotFoundError{Message: fmt.Sprintf("Account %s not found.", id)}
	}

	var balance int64
	var createdAt string
	if err := s.db.QueryRowContext(ctx,
		`SELECT balance, created_at FROM accounts WHERE id = ?`, id,
	).Scan(&balance, &createdAt); err != nil {
		return err
	}
	a.Balance = balance
	a.Created = parseTimestamp(createdAt)
	return nil
}

func (s *SQLiteStore) DeleteAccount(ctx context.Context, id string) error {
	s.logger.Debug("sql", "op", "delete", "table", "accounts", "id", id)

	var entries int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE account_id = ?`, id,
	).Scan(&entries); err != nil {
		return err
	}
	if entries > 0 {
		return serializer.NewValidationError("account",
			fmt.Sprintf("Account has %d transactions and cannot be deleted.", entries))
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return &views.NotFoundError{Message: fmt.Sprintf("Account %s not found.", id)}
	}
	return nil
}

// --- Transaction operations ---

// CreateTransaction writes the entry and applies it to the account balance
// atomically. A debit that would take the balance below zero is rejected.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, t *Transaction) error {
	if t.ID == "" {
		t.ID = "txn_" + uuid.New().String()
	}
	if t.Created.IsZero() {
		t.Created = serializer.Timestamp{Time: time.Now().UTC()}
	}
	s.logger.Debug("sql", "op", "insert", "table", "transactions", "id", t.ID)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.applyEntry(ctx, tx, t); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	s.logger.Debug("sql", "op", "select", "table", "transactions", "id", id)
	return scanTransaction(s.db.QueryRowContext(ctx,
		`SELECT id, account_id, kind, amount, memo, metadata, created_at
		 FROM transactions WHERE id = ?`, id))
}

func (s *SQLiteStore) ListTransactions(ctx context.Context) ([]Transaction, error) {
	s.logger.Debug("sql", "op", "list", "table", "transactions")

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, account_id, kind, amount, memo, metadata, created_at
		 FROM transactions ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *t)
	}
	return entries, rows.Err()
}

// Transfer moves amount between two accounts, writing the debit and credit
// entries in one database transaction so the books stay balanced.
func (s *SQLiteStore) Transfer(ctx context.Context, from, to string, amount int64, memo string) (*Transaction, *Transaction, error) {
	s.logger.Debug("sql", "op", "transfer", "from", from, "to", to, "amount", amount)

	if amount <= 0 {
		return nil, nil, serializer.NewValidationError("amount", "Must be a positive integer.")
	}
	if from == to {
		return nil, nil, serializer.NewValidationError("to", "Cannot transfer to the same account.")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var fromCurrency, toCurrency string
	var fromBalance int64
	err = tx.QueryRowContext(ctx, `SELECT currency, balance FROM accounts WHERE id = ?`, from).
		Scan(&fromCurrency, &fromBalance)
	if err == sql.ErrNoRows {
		return nil, nil, serializer.NewValidationError("from", "No such account.")
	}
	if err != nil {
		return nil, nil, err
	}
	err = tx.QueryRowContext(ctx, `SELECT currency FROM accounts WHERE id = ?`, to).
		Scan(&toCurrency)
	if err == sql.ErrNoRows {
		return nil, nil, serializer.NewValidationError("to", "No such account.")
	}
	if err != nil {
		return nil, nil, err
	}
	if fromCurrency != toCurrency {
		return nil, nil, serializer.NewValidationError("to",
			fmt.Sprintf("Currency mismatch: %s vs %s.", fromCurrency, toCurrency))
	}
	if fromBalance < amount {
		return nil, nil, serializer.NewValidationError("amount", "Insufficient funds.")
	}

	now := serializer.Timestamp{Time: time.Now().UTC()}
	debit := &Transaction{
		ID:      "txn_" + uuid.New().String(),
		Account: from,
		Kind:    KindDebit,
		Amount:  amount,
		Memo:    memo,
		Created: now,
	}
	credit := &Transaction{
		ID:      "txn_" + uuid.New().String(),
		Account: to,
		Kind:    KindCredit,
		Amount:  amount,
		Memo:    memo,
		Created: now,
	}
	if err := s.applyEntry(ctx, tx, debit); err != nil {
		return nil, nil, err
	}
	if err := s.applyEntry(ctx, tx, credit); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return debit, credit, nil
}

// applyEntry inserts t and moves the account balance inside the caller's
// database transaction.
func (s *SQLiteStore) applyEntry(ctx context.Context, tx *sql.Tx, t *Transaction) error {
	var delta int64
	switch t.Kind {
	case KindCredit:
		delta = t.Amount
	case KindDebit:
		delta = -t.Amount
	default:
		return serializer.NewValidationError("kind", "Must be credit or debit.")
	}
	if t.Amount <= 0 {
		return serializer.NewValidationError("amount", "Must be a positive integer.")
	}

	var balance int64
	err := tx.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE id = ?`, t.Account).
		Scan(&balance)
	if err == sql.ErrNoRows {
		return serializer.NewValidationError("account", "No such account.")
	}
	if err != nil {
		return err
	}
	if balance+delta < 0 {
		return serializer.NewValidationError("amount", "Insufficient funds.")
	}

	metadataJSON, err := json.Marshal(t.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, account_id, kind, amount, memo, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Account, t.Kind, t.Amount, t.Memo, string(metadataJSON),
		t.Created.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + ?, updated_at = ? WHERE id = ?`,
		delta, time.Now().UTC().Format(time.RFC3339Nano), t.Account,
	)
	return err
}

// --- scan helpers ---

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*Account, error) {
	var a Account
	var metadataJSON, createdAt, updatedAt string

	err := row.Scan(&a.ID, &a.Name, &a.Currency, &a.Balance, &metadataJSON, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	json.Unmarshal([]byte(metadataJSON), &a.Metadata)
	a.Created = parseTimestamp(createdAt)
	a.Updated = parseTimestamp(updatedAt)
	return &a, nil
}

func scanTransaction(row scanner) (*Transaction, error) {
	var t Transaction
	var metadataJSON, createdAt string

	err := row.Scan(&t.ID, &t.Account, &t.Kind, &t.Amount, &t.Memo, &metadataJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	json.Unmarshal([]byte(metadataJSON), &t.Metadata)
	t.Created = parseTimestamp(createdAt)
	return &t, nil
}

func parseTimestamp(s string) serializer.Timestamp {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return serializer.Timestamp{Time: t}
}
