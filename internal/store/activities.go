package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/prospectorhq/prospector/internal/model"
)

// ActivityRepo handles database operations for the activities table
type ActivityRepo struct{ *Repo }

// NewActivityRepo creates a new ActivityRepo
func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{NewRepo(db)} }

// Create appends an activity to the account's timeline
func (r *ActivityRepo) Create(ctx context.Context, a *model.Activity) error {
	if _, err := uuid.Parse(a.ID); err != nil {
		return fmt.Errorf("invalid activity ID format: %w", err)
	}
	if _, err := uuid.Parse(a.AccountID); err != nil {
		return fmt.Errorf("invalid account ID format: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	q := r.SQ.Insert("activities").
		Columns("id", "account_id", "kind", "content", "created_at").
		Values(a.ID, a.AccountID, string(a.Kind), a.Content, now.Format(time.RFC3339))

	sqlStr, args, _ := q.ToSql()
	if _, err := r.DB.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}

	a.CreatedAt = now
	return nil
}

// ListByAccount returns the account's activities, newest first
func (r *ActivityRepo) ListByAccount(ctx context.Context, accountID string) ([]model.Activity, error) {
	q := r.SQ.Select("id", "account_id", "kind", "content", "created_at").
		From("activities").
		Where(sq.Eq{"account_id": accountID}).
		OrderBy("created_at DESC", "rowid DESC")

	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	activities := make([]model.Activity, 0)
	for rows.Next() {
		var a model.Activity
		var kind, created string
		if err := rows.Scan(&a.ID, &a.AccountID, &kind, &a.Content, &created); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Kind = model.ActivityKind(kind)
		a.CreatedAt, _ = time.Parse(time.RFC3339, created)
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
