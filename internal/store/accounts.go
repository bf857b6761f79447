package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/prospectorhq/prospector/internal/model"
)

var accountColumns = []string{"id", "name", "domain", "website", "industry", "size_hint", "summary", "created_at", "updated_at"}

// AccountRepo handles database operations for the accounts table
type AccountRepo struct{ *Repo }

// NewAccountRepo creates a new AccountRepo
func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{NewRepo(db)} }

// Create inserts a new account. The caller supplies ID, Name, Domain,
// and Website; timestamps are set here. A duplicate domain wraps
// ErrAlreadyExists.
func (r *AccountRepo) Create(ctx context.Context, a *model.Account) error {
	if _, err := uuid.Parse(a.ID); err != nil {
		return fmt.Errorf("invalid account ID format: %w", err)
	}
	if a.Name == "" {
		return fmt.Errorf("account name cannot be empty")
	}
	if a.Domain == "" {
		return fmt.Errorf("account domain cannot be empty")
	}

	now := time.Now().UTC().Truncate(time.Second)
	q := r.SQ.Insert("accounts").
		Columns(accountColumns...).
		Values(a.ID, a.Name, a.Domain, a.Website, a.Industry, a.SizeHint, a.Summary,
			now.Format(time.RFC3339), now.Format(time.RFC3339))

	sqlStr, args, _ := q.ToSql()
	if _, err := r.DB.ExecContext(ctx, sqlStr, args...); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("account with domain %s: %w", a.Domain, ErrAlreadyExists)
		}
		return fmt.Errorf("insert account: %w", err)
	}

	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*model.Account, error) {
	account, err := r.getWhere(ctx, sq.Eq{"id": id})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

// GetByDomain retrieves an account by its normalized domain
func (r *AccountRepo) GetByDomain(ctx context.Context, domain string) (*model.Account, error) {
	account, err := r.getWhere(ctx, sq.Eq{"domain": domain})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account with domain %s: %w", domain, ErrNotFound)
		}
		return nil, fmt.Errorf("get account by domain: %w", err)
	}
	return account, nil
}

func (r *AccountRepo) getWhere(ctx context.Context, pred sq.Eq) (*model.Account, error) {
	q := r.SQ.Select(accountColumns...).From("accounts").Where(pred)
	sqlStr, args, _ := q.ToSql()
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)

	var a model.Account
	var created, updated string
	if err := row.Scan(&a.ID, &a.Name, &a.Domain, &a.Website, &a.Industry, &a.SizeHint, &a.Summary, &created, &updated); err != nil {
		return nil, err
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339, created)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &a, nil
}

// List returns all accounts, newest first
func (r *AccountRepo) List(ctx context.Context) ([]model.Account, error) {
	q := r.SQ.Select(accountColumns...).From("accounts").OrderBy("created_at DESC", "rowid DESC")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	accounts := make([]model.Account, 0)
	for rows.Next() {
		var a model.Account
		var created, updated string
		if err := rows.Scan(&a.ID, &a.Name, &a.Domain, &a.Website, &a.Industry, &a.SizeHint, &a.Summary, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.CreatedAt, _ = time.Parse(time.RFC3339, created)
		a.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// UpdateProfileTx sets the generated profile fields within a transaction
func (r *AccountRepo) UpdateProfileTx(ctx context.Context, tx *sql.Tx, accountID, summary, industry string) error {
	now := time.Now().UTC().Truncate(time.Second)
	q := r.SQ.Update("accounts").
		Set("summary", summary).
		Set("industry", industry).
		Set("updated_at", now.Format(time.RFC3339)).
		Where(sq.Eq{"id": accountID})

	sqlStr, args, _ := q.ToSql()
	result, err := tx.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("update account profile: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account profile rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("account %s: %w", accountID, ErrNotFound)
	}
	return nil
}

// Delete removes an account; owned records cascade
func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	q := r.SQ.Delete("accounts").Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	result, err := r.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete account rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	return nil
}
