package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/prospectorhq/prospector/internal/model"
)

var sourceColumns = []string{"id", "account_id", "url", "title", "raw_text", "status", "error", "fetched_at"}

// SourceRepo handles database operations for the sources table
type SourceRepo struct{ *Repo }

// NewSourceRepo creates a new SourceRepo
func NewSourceRepo(db *sql.DB) *SourceRepo { return &SourceRepo{NewRepo(db)} }

// ReplaceForAccountTx swaps the account's source set within a
// transaction. Each research run records a fresh set.
func (r *SourceRepo) ReplaceForAccountTx(ctx context.Context, tx *sql.Tx, accountID string, sources []model.Source) error {
	delQ := r.SQ.Delete("sources").Where(sq.Eq{"account_id": accountID})
	sqlStr, args, _ := delQ.ToSql()
	if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("delete sources: %w", err)
	}

	for _, src := range sources {
		var fetchedAt any
		if src.FetchedAt != nil {
			fetchedAt = src.FetchedAt.UTC().Format(time.RFC3339)
		}

		q := r.SQ.Insert("sources").
			Columns(sourceColumns...).
			Values(src.ID, accountID, src.URL, src.Title, src.RawText, string(src.Status), src.Error, fetchedAt)
		sqlStr, args, _ := q.ToSql()
		if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
			return fmt.Errorf("insert source %s: %w", src.URL, err)
		}
	}
	return nil
}

// ListByAccount returns the account's sources in capture order
func (r *SourceRepo) ListByAccount(ctx context.Context, accountID string) ([]model.Source, error) {
	q := r.SQ.Select(sourceColumns...).From("sources").Where(sq.Eq{"account_id": accountID}).OrderBy("rowid")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sources := make([]model.Source, 0)
	for rows.Next() {
		var src model.Source
		var status string
		var fetchedAt sql.NullString
		if err := rows.Scan(&src.ID, &src.AccountID, &src.URL, &src.Title, &src.RawText, &status, &src.Error, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		src.Status = model.SourceStatus(status)
		if fetchedAt.Valid {
			if t, err := time.Parse(time.RFC3339, fetchedAt.String); err == nil {
				src.FetchedAt = &t
			}
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}
