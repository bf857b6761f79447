package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/prospectorhq/prospector/internal/model"
)

// AssetRepo handles database operations for the assets table
type AssetRepo struct{ *Repo }

// NewAssetRepo creates a new AssetRepo
func NewAssetRepo(db *sql.DB) *AssetRepo { return &AssetRepo{NewRepo(db)} }

// Upsert writes the account's asset row for the kind. One row per
// (account, kind); regeneration replaces it.
func (r *AssetRepo) Upsert(ctx context.Context, a *model.Asset) error {
	if _, err := uuid.Parse(a.ID); err != nil {
		return fmt.Errorf("invalid asset ID format: %w", err)
	}
	if _, err := uuid.Parse(a.AccountID); err != nil {
		return fmt.Errorf("invalid account ID format: %w", err)
	}
	if !model.ValidAssetKind(a.Kind) {
		return fmt.Errorf("invalid asset kind: %s", a.Kind)
	}

	now := time.Now().UTC().Truncate(time.Second)
	q := r.SQ.Insert("assets").
		Columns("id", "account_id", "kind", "path", "created_at").
		Values(a.ID, a.AccountID, string(a.Kind), a.Path, now.Format(time.RFC3339)).
		Suffix("ON CONFLICT(account_id, kind) DO UPDATE SET id = excluded.id, path = excluded.path, created_at = excluded.created_at")

	sqlStr, args, _ := q.ToSql()
	if _, err := r.DB.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("upsert asset: %w", err)
	}

	a.CreatedAt = now
	return nil
}

// GetByAccountAndKind retrieves the account's asset of the given kind
func (r *AssetRepo) GetByAccountAndKind(ctx context.Context, accountID string, kind model.AssetKind) (*model.Asset, error) {
	q := r.SQ.Select("id", "account_id", "kind", "path", "created_at").
		From("assets").
		Where(sq.Eq{"account_id": accountID, "kind": string(kind)})

	sqlStr, args, _ := q.ToSql()
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)

	var a model.Asset
	var kindStr, created string
	if err := row.Scan(&a.ID, &a.AccountID, &kindStr, &a.Path, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s asset for account %s: %w", kind, accountID, ErrNotFound)
		}
		return nil, fmt.Errorf("get asset: %w", err)
	}
	a.Kind = model.AssetKind(kindStr)
	a.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &a, nil
}

// ListByAccount returns the account's assets in kind order
func (r *AssetRepo) ListByAccount(ctx context.Context, accountID string) ([]model.Asset, error) {
	q := r.SQ.Select("id", "account_id", "kind", "path", "created_at").
		From("assets").
		Where(sq.Eq{"account_id": accountID}).
		OrderBy("kind")

	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	assets := make([]model.Asset, 0)
	for rows.Next() {
		var a model.Asset
		var kind, created string
		if err := rows.Scan(&a.ID, &a.AccountID, &kind, &a.Path, &created); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		a.Kind = model.AssetKind(kind)
		a.CreatedAt, _ = time.Parse(time.RFC3339, created)
		assets = append(assets, a)
	}
	return assets, rows.Err()
}
