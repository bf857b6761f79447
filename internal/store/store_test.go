package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/prospectorhq/prospector/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "prospector.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestAccount(t *testing.T, s *Store) *model.Account {
	t.Helper()
	account := &model.Account{
		ID:      uuid.NewString(),
		Name:    "Stripe",
		Domain:  "stripe.com",
		Website: "https://stripe.com",
	}
	if err := s.Accounts.Create(context.Background(), account); err != nil {
		t.Fatalf("Create account failed: %v", err)
	}
	return account
}

func TestOpen_AppliesMigrations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "prospector.db")

	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	_ = s.Close()

	// Reopening must not re-apply migrations
	s2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer func() { _ = s2.Close() }()

	var n int
	if err := s2.DB.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatalf("Query schema_migrations failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 applied migration, got %d", n)
	}
}

func TestAccountRepo_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	account := newTestAccount(t, s)

	got, err := s.Accounts.GetByID(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Stripe" || got.Domain != "stripe.com" || got.Website != "https://stripe.com" {
		t.Errorf("Unexpected account: %+v", got)
	}
	if !got.CreatedAt.Equal(account.CreatedAt) {
		t.Errorf("CreatedAt mismatch: %v vs %v", got.CreatedAt, account.CreatedAt)
	}

	byDomain, err := s.Accounts.GetByDomain(context.Background(), "stripe.com")
	if err != nil {
		t.Fatalf("GetByDomain failed: %v", err)
	}
	if byDomain.ID != account.ID {
		t.Errorf("Expected account %s, got %s", account.ID, byDomain.ID)
	}
}

func TestAccountRepo_Create_DuplicateDomain(t *testing.T) {
	s := newTestStore(t)
	newTestAccount(t, s)

	dup := &model.Account{
		ID:      uuid.NewString(),
		Name:    "Stripe Again",
		Domain:  "stripe.com",
		Website: "https://www.stripe.com",
	}
	err := s.Accounts.Create(context.Background(), dup)
	if err == nil {
		t.Fatal("Expected error for duplicate domain")
	}
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}
}

func TestAccountRepo_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Accounts.GetByID(context.Background(), uuid.NewString())
	if err == nil {
		t.Fatal("Expected error for missing account")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestAccountRepo_List(t *testing.T) {
	s := newTestStore(t)

	accounts, err := s.Accounts.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if accounts == nil || len(accounts) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", accounts)
	}

	first := newTestAccount(t, s)
	second := &model.Account{
		ID:      uuid.NewString(),
		Name:    "Notion",
		Domain:  "notion.so",
		Website: "https://notion.so",
	}
	if err := s.Accounts.Create(context.Background(), second); err != nil {
		t.Fatalf("Create second account failed: %v", err)
	}

	accounts, err = s.Accounts.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("Expected 2 accounts, got %d", len(accounts))
	}
	// Newest first
	if accounts[0].ID != second.ID || accounts[1].ID != first.ID {
		t.Errorf("Unexpected order: %s, %s", accounts[0].Name, accounts[1].Name)
	}
}

func TestAccountRepo_UpdateProfile(t *testing.T) {
	s := newTestStore(t)
	account := newTestAccount(t, s)

	err := s.WithTx(context.Background(), func(tx *sql.Tx) error {
		return s.Accounts.UpdateProfileTx(context.Background(), tx, account.ID, "Payments infrastructure for the internet.", "fintech")
	})
	if err != nil {
		t.Fatalf("UpdateProfileTx failed: %v", err)
	}

	got, err := s.Accounts.GetByID(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Summary != "Payments infrastructure for the internet." {
		t.Errorf("Unexpected summary: %q", got.Summary)
	}
	if got.Industry != "fintech" {
		t.Errorf("Unexpected industry: %q", got.Industry)
	}
}

func TestClaimRepo_ReplaceForAccount(t *testing.T) {
	s := newTestStore(t)
	account := newTestAccount(t, s)
	ctx := context.Background()

	firstSet := []model.Claim{
		{Text: "Stripe operates in 46 countries", SourceURL: "https://stripe.com/about", Confidence: 0.6, Tier: model.TierMedium},
		{Text: "Stripe processes billions annually", Confidence: 0.2, Tier: model.TierUnsourced},
		{Text: "Founded in 2010", SourceURL: "https://stripe.com/about", EvidenceQuote: "since 2010", Confidence: 0.9, Tier: model.TierHigh},
	}
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		return s.Claims.ReplaceForAccountTx(ctx, tx, account.ID, firstSet)
	})
	if err != nil {
		t.Fatalf("ReplaceForAccountTx failed: %v", err)
	}

	claims, err := s.Claims.ListByAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("ListByAccount failed: %v", err)
	}
	if len(claims) != 3 {
		t.Fatalf("Expected 3 claims, got %d", len(claims))
	}
	// Aggregation order survives the round trip
	for i, claim := range claims {
		if claim.Text != firstSet[i].Text {
			t.Errorf("Claim %d: expected %q, got %q", i, firstSet[i].Text, claim.Text)
		}
		if claim.ID == "" {
			t.Errorf("Claim %d: expected generated ID", i)
		}
	}
	if claims[2].Tier != model.TierHigh || claims[2].Confidence != 0.9 {
		t.Errorf("Unexpected scored claim: %+v", claims[2])
	}

	// Regeneration replaces the whole set
	secondSet := []model.Claim{
		{Text: "Stripe runs on AWS", SourceURL: "https://stripe.com/blog", Confidence: 0.6, Tier: model.TierMedium},
	}
	err = s.WithTx(ctx, func(tx *sql.Tx) error {
		return s.Claims.ReplaceForAccountTx(ctx, tx, account.ID, secondSet)
	})
	if err != nil {
		t.Fatalf("Second ReplaceForAccountTx failed: %v", err)
	}

	claims, err = s.Claims.ListByAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("ListByAccount failed: %v", err)
	}
	if len(claims) != 1 || claims[0].Text != "Stripe runs on AWS" {
		t.Errorf("Expected replaced claim set, got %+v", claims)
	}
}

func TestSourceRepo_ReplaceForAccount(t *testing.T) {
	s := newTestStore(t)
	account := newTestAccount(t, s)
	ctx := context.Background()

	fetchedAt := time.Now().UTC().Truncate(time.Second)
	sources := []model.Source{
		{
			ID:        uuid.NewString(),
			AccountID: account.ID,
			URL:       "https://stripe.com",
			Title:     "Stripe",
			RawText:   "Payments infrastructure for the internet.",
			Status:    model.SourceStatusOK,
			FetchedAt: &fetchedAt,
		},
		{
			ID:        uuid.NewString(),
			AccountID: account.ID,
			URL:       "https://stripe.com/about",
			Status:    model.SourceStatusFailed,
			Error:     "unexpected status: 404 404 Not Found",
		},
	}
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		return s.Sources.ReplaceForAccountTx(ctx, tx, account.ID, sources)
	})
	if err != nil {
		t.Fatalf("ReplaceForAccountTx failed: %v", err)
	}

	got, err := s.Sources.ListByAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("ListByAccount failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(got))
	}
	if got[0].Status != model.SourceStatusOK || got[0].FetchedAt == nil {
		t.Errorf("Unexpected first source: %+v", got[0])
	}
	if !got[0].FetchedAt.Equal(fetchedAt) {
		t.Errorf("FetchedAt mismatch: %v vs %v", got[0].FetchedAt, fetchedAt)
	}
	if got[1].Status != model.SourceStatusFailed || got[1].FetchedAt != nil {
		t.Errorf("Unexpected second source: %+v", got[1])
	}
	if got[1].Error == "" {
		t.Error("Expected failure detail on failed source")
	}
}

func TestAssetRepo_Upsert(t *testing.T) {
	s := newTestStore(t)
	account := newTestAccount(t, s)
	ctx := context.Background()

	asset := &model.Asset{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		Kind:      model.AssetKindEmail,
		Path:      "assets/" + account.ID + "/email.txt",
	}
	if err := s.Assets.Upsert(ctx, asset); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// Regenerating the same kind replaces the row
	replacement := &model.Asset{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		Kind:      model.AssetKindEmail,
		Path:      "assets/" + account.ID + "/email.txt",
	}
	if err := s.Assets.Upsert(ctx, replacement); err != nil {
		t.Fatalf("Second Upsert failed: %v", err)
	}

	assets, err := s.Assets.ListByAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("ListByAccount failed: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("Expected 1 asset after upsert, got %d", len(assets))
	}
	if assets[0].ID != replacement.ID {
		t.Errorf("Expected replacement row %s, got %s", replacement.ID, assets[0].ID)
	}

	got, err := s.Assets.GetByAccountAndKind(ctx, account.ID, model.AssetKindEmail)
	if err != nil {
		t.Fatalf("GetByAccountAndKind failed: %v", err)
	}
	if got.Kind != model.AssetKindEmail {
		t.Errorf("Unexpected kind: %s", got.Kind)
	}

	_, err = s.Assets.GetByAccountAndKind(ctx, account.ID, model.AssetKindLanding)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing kind, got %v", err)
	}
}

func TestActivityRepo_CreateAndList(t *testing.T) {
	s := newTestStore(t)
	account := newTestAccount(t, s)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		activity := &model.Activity{
			ID:        uuid.NewString(),
			AccountID: account.ID,
			Kind:      model.ActivityKindCallSummary,
			Content:   fmt.Sprintf(`{"summary": "call %d"}`, i),
		}
		if err := s.Activities.Create(ctx, activity); err != nil {
			t.Fatalf("Create activity failed: %v", err)
		}
	}

	activities, err := s.Activities.ListByAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("ListByAccount failed: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("Expected 2 activities, got %d", len(activities))
	}
	// Newest first
	if activities[0].Content != `{"summary": "call 1"}` {
		t.Errorf("Unexpected order: %s", activities[0].Content)
	}
}

func TestAccountRepo_Delete_Cascades(t *testing.T) {
	s := newTestStore(t)
	account := newTestAccount(t, s)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		return s.Claims.ReplaceForAccountTx(ctx, tx, account.ID, []model.Claim{
			{Text: "Stripe builds payment APIs", Confidence: 0.2, Tier: model.TierUnsourced},
		})
	})
	if err != nil {
		t.Fatalf("ReplaceForAccountTx failed: %v", err)
	}

	activity := &model.Activity{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		Kind:      model.ActivityKindNote,
		Content:   `{"note": "intro call booked"}`,
	}
	if err := s.Activities.Create(ctx, activity); err != nil {
		t.Fatalf("Create activity failed: %v", err)
	}

	if err := s.Accounts.Delete(ctx, account.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := s.Accounts.GetByID(ctx, account.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	claims, err := s.Claims.ListByAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("ListByAccount failed: %v", err)
	}
	if len(claims) != 0 {
		t.Errorf("Expected claims to cascade, got %d", len(claims))
	}

	activities, err := s.Activities.ListByAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("ListByAccount failed: %v", err)
	}
	if len(activities) != 0 {
		t.Errorf("Expected activities to cascade, got %d", len(activities))
	}
}

func TestAccountRepo_Delete_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.Accounts.Delete(context.Background(), uuid.NewString())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStore_WithTx_RollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	account := newTestAccount(t, s)
	ctx := context.Background()

	wantErr := errors.New("boom")
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.Claims.ReplaceForAccountTx(ctx, tx, account.ID, []model.Claim{
			{Text: "should not persist", Confidence: 0.2, Tier: model.TierUnsourced},
		}); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Expected wrapped error, got %v", err)
	}

	claims, err := s.Claims.ListByAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("ListByAccount failed: %v", err)
	}
	if len(claims) != 0 {
		t.Errorf("Expected rollback to discard claims, got %d", len(claims))
	}
}
