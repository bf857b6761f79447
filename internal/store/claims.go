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

var claimColumns = []string{"id", "account_id", "position", "text", "source_url", "evidence_quote", "confidence", "tier", "created_at"}

// ClaimRepo handles database operations for the claims table
type ClaimRepo struct{ *Repo }

// NewClaimRepo creates a new ClaimRepo
func NewClaimRepo(db *sql.DB) *ClaimRepo { return &ClaimRepo{NewRepo(db)} }

// ReplaceForAccountTx swaps the account's claim set within a
// transaction, preserving aggregation order via the position column.
// Claims without IDs get fresh ones.
func (r *ClaimRepo) ReplaceForAccountTx(ctx context.Context, tx *sql.Tx, accountID string, claims []model.Claim) error {
	delQ := r.SQ.Delete("claims").Where(sq.Eq{"account_id": accountID})
	sqlStr, args, _ := delQ.ToSql()
	if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("delete claims: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second).Format(time.RFC3339)
	for i, claim := range claims {
		id := claim.ID
		if id == "" {
			id = uuid.NewString()
		}

		q := r.SQ.Insert("claims").
			Columns(claimColumns...).
			Values(id, accountID, i, claim.Text, claim.SourceURL, claim.EvidenceQuote, claim.Confidence, string(claim.Tier), now)
		sqlStr, args, _ := q.ToSql()
		if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
			return fmt.Errorf("insert claim %d: %w", i, err)
		}
	}
	return nil
}

// ListByAccount returns the account's claims in aggregation order
func (r *ClaimRepo) ListByAccount(ctx context.Context, accountID string) ([]model.Claim, error) {
	q := r.SQ.Select(claimColumns...).From("claims").Where(sq.Eq{"account_id": accountID}).OrderBy("position")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer func() { _ = rows.Close() }()

	claims := make([]model.Claim, 0)
	for rows.Next() {
		var c model.Claim
		var position int
		var tier, created string
		if err := rows.Scan(&c.ID, &c.AccountID, &position, &c.Text, &c.SourceURL, &c.EvidenceQuote, &c.Confidence, &tier, &created); err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		c.Tier = model.ConfidenceTier(tier)
		c.CreatedAt, _ = time.Parse(time.RFC3339, created)
		claims = append(claims, c)
	}
	return claims, rows.Err()
}
