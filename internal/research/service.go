// Package research runs the capture-and-profile pipeline for an
// account: plan URLs, fetch sources, extract claim candidates, aggregate
// them into scored claims, and persist the result. Claim extraction
// degrades to a heuristic sentence extractor when no LLM provider is
// configured or the provider fails; a profile run never fails because of
// the provider.
package research

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/prospectorhq/prospector/internal/fetch"
	"github.com/prospectorhq/prospector/internal/llm"
	"github.com/prospectorhq/prospector/internal/model"
	"github.com/prospectorhq/prospector/internal/provenance"
	"github.com/prospectorhq/prospector/internal/store"
)

// ErrNoSources means profile generation was asked for an account with no
// successfully fetched source text to work from.
var ErrNoSources = errors.New("no fetched sources available")

const fallbackSummaryMaxChars = 240

// Service orchestrates prospect capture and profile generation.
type Service struct {
	store      *store.Store
	fetcher    *fetch.Fetcher
	provider   llm.Provider // nil disables LLM extraction
	aggregator *provenance.Aggregator

	maxSources     int
	coverageTarget float64
}

// NewService wires the research pipeline. provider may be nil, in which
// case every run uses heuristic extraction.
func NewService(st *store.Store, fetcher *fetch.Fetcher, provider llm.Provider, cfg *model.Config) *Service {
	maxSources := cfg.Fetch.MaxSources
	if maxSources <= 0 {
		maxSources = 3
	}
	target := cfg.Research.CoverageTarget
	if target <= 0 {
		target = 0.70
	}
	return &Service{
		store:          st,
		fetcher:        fetcher,
		provider:       provider,
		aggregator:     provenance.NewAggregator(),
		maxSources:     maxSources,
		coverageTarget: target,
	}
}

// Capture creates an account for a prospect website and fetches its
// planned source URLs. A domain that already has an account surfaces as
// store.ErrAlreadyExists. Individual fetch failures are recorded as
// failed source rows, not returned as errors.
func (s *Service) Capture(ctx context.Context, name, website string, extraURLs []string) (*model.Account, []model.Source, error) {
	domain, err := fetch.Domain(website)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid website: %w", err)
	}
	planned := fetch.PlanURLs(website, extraURLs, s.maxSources)
	if len(planned) == 0 {
		return nil, nil, errors.New("no fetchable URLs")
	}
	if strings.TrimSpace(name) == "" {
		name = domain
	}

	account := &model.Account{
		ID:      uuid.NewString(),
		Name:    name,
		Domain:  domain,
		Website: planned[0],
	}
	if err := s.store.Accounts.Create(ctx, account); err != nil {
		return nil, nil, err
	}

	sources := s.fetchSources(ctx, account.ID, planned)
	err = s.store.WithTx(ctx, func(tx *sql.Tx) error {
		return s.store.Sources.ReplaceForAccountTx(ctx, tx, account.ID, sources)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("persist sources: %w", err)
	}
	return account, sources, nil
}

// RefreshSources refetches the account's planned URLs, keeping any extra
// URLs captured earlier, and replaces its source rows.
func (s *Service) RefreshSources(ctx context.Context, account *model.Account) ([]model.Source, error) {
	existing, err := s.store.Sources.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	extras := make([]string, 0, len(existing))
	for _, source := range existing {
		extras = append(extras, source.URL)
	}

	planned := fetch.PlanURLs(account.Website, extras, s.maxSources)
	sources := s.fetchSources(ctx, account.ID, planned)
	err = s.store.WithTx(ctx, func(tx *sql.Tx) error {
		return s.store.Sources.ReplaceForAccountTx(ctx, tx, account.ID, sources)
	})
	if err != nil {
		return nil, fmt.Errorf("persist sources: %w", err)
	}
	return sources, nil
}

func (s *Service) fetchSources(ctx context.Context, accountID string, urls []string) []model.Source {
	results := s.fetcher.FetchAll(ctx, urls)
	sources := make([]model.Source, 0, len(results))
	for _, result := range results {
		source := model.Source{
			ID:        uuid.NewString(),
			AccountID: accountID,
			URL:       result.URL,
		}
		if result.Err != nil {
			source.Status = model.SourceStatusFailed
			source.Error = result.Err.Error()
			log.Printf("WARN (Research): fetch %s failed: %v", result.URL, result.Err)
		} else {
			fetchedAt := result.Page.FetchedAt.UTC().Truncate(time.Second)
			source.Status = model.SourceStatusOK
			source.Title = result.Page.Title
			source.RawText = result.Page.Text
			source.FetchedAt = &fetchedAt
		}
		sources = append(sources, source)
	}
	return sources
}

// GenerateProfile runs claim extraction over the account's fetched
// sources, replaces its claim set with the aggregated result, and
// updates the account's summary and industry.
func (s *Service) GenerateProfile(ctx context.Context, accountID string) (*model.ProfileResult, error) {
	account, err := s.store.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	all, err := s.store.Sources.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	sources := usableSources(all)
	if len(sources) == 0 {
		return nil, fmt.Errorf("account %s: %w", accountID, ErrNoSources)
	}

	draft, modelName := s.extractDraft(ctx, account, sources)
	prov := s.aggregator.Aggregate(draft.Claims)

	summary := strings.TrimSpace(draft.Summary)
	if summary == "" {
		summary = fallbackSummary(sources)
	}
	industry := strings.TrimSpace(draft.Industry)
	if industry == "" {
		industry = account.Industry
	}

	err = s.store.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.store.Claims.ReplaceForAccountTx(ctx, tx, accountID, prov.Claims); err != nil {
			return err
		}
		return s.store.Accounts.UpdateProfileTx(ctx, tx, accountID, summary, industry)
	})
	if err != nil {
		return nil, fmt.Errorf("persist profile: %w", err)
	}

	updated, err := s.store.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	claims, err := s.store.Claims.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &model.ProfileResult{
		Account:     *updated,
		Claims:      claims,
		Coverage:    prov.Coverage,
		Skipped:     prov.Skipped,
		CoverageMet: prov.Coverage >= s.coverageTarget,
		LLMModel:    modelName,
	}, nil
}

// Research runs the full capture-and-profile cycle for one prospect. A
// domain captured earlier is refreshed instead of recreated, so batch
// runs are safe to repeat.
func (s *Service) Research(ctx context.Context, name, website string) (*model.ProfileResult, error) {
	account, _, err := s.Capture(ctx, name, website, nil)
	if err != nil {
		if !errors.Is(err, store.ErrAlreadyExists) {
			return nil, err
		}
		domain, derr := fetch.Domain(website)
		if derr != nil {
			return nil, fmt.Errorf("invalid website: %w", derr)
		}
		account, err = s.store.Accounts.GetByDomain(ctx, domain)
		if err != nil {
			return nil, err
		}
		if _, err := s.RefreshSources(ctx, account); err != nil {
			return nil, err
		}
	}
	return s.GenerateProfile(ctx, account.ID)
}

// SummarizeTranscript distills a call transcript into a structured
// summary and appends it to the account's activity log.
func (s *Service) SummarizeTranscript(ctx context.Context, accountID, transcript string) (*model.Activity, error) {
	if _, err := s.store.Accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, errors.New("transcript is empty")
	}

	summary := s.summarize(ctx, transcript)
	content, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("encode summary: %w", err)
	}

	activity := &model.Activity{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Kind:      model.ActivityKindCallSummary,
		Content:   string(content),
	}
	if err := s.store.Activities.Create(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// extractDraft asks the configured provider for a profile draft,
// degrading to heuristic extraction when no provider is set or the call
// fails. The returned model name is empty when the heuristic ran.
func (s *Service) extractDraft(ctx context.Context, account *model.Account, sources []model.Source) (*model.ProfileDraft, string) {
	if s.provider == nil {
		return &model.ProfileDraft{Claims: heuristicCandidates(sources)}, ""
	}

	resp, err := s.provider.Complete(ctx, llm.Request{
		System: profileSystemPrompt,
		Prompt: buildProfilePrompt(account, sources),
	})
	if err != nil {
		log.Printf("WARN (Research): %s completion failed, using heuristic extraction: %v", s.provider.Name(), err)
		return &model.ProfileDraft{Claims: heuristicCandidates(sources)}, ""
	}

	draft, err := parseProfileJSON(resp.Text)
	if err != nil {
		log.Printf("WARN (Research): %s returned an unparseable profile, using heuristic extraction: %v", s.provider.Name(), err)
		return &model.ProfileDraft{Claims: heuristicCandidates(sources)}, ""
	}
	return draft, resp.Model
}

func (s *Service) summarize(ctx context.Context, transcript string) *model.MeetingSummary {
	if s.provider == nil {
		return fallbackMeetingSummary(transcript)
	}

	resp, err := s.provider.Complete(ctx, llm.Request{
		System: profileSystemPrompt,
		Prompt: buildTranscriptPrompt(transcript),
	})
	if err != nil {
		log.Printf("WARN (Research): %s completion failed for transcript, using extract summary: %v", s.provider.Name(), err)
		return fallbackMeetingSummary(transcript)
	}

	summary, err := parseMeetingJSON(resp.Text)
	if err != nil {
		log.Printf("WARN (Research): %s returned an unparseable meeting summary, using extract summary: %v", s.provider.Name(), err)
		return fallbackMeetingSummary(transcript)
	}
	return summary
}

func usableSources(sources []model.Source) []model.Source {
	usable := make([]model.Source, 0, len(sources))
	for _, source := range sources {
		if source.Status == model.SourceStatusOK && strings.TrimSpace(source.RawText) != "" {
			usable = append(usable, source)
		}
	}
	return usable
}

// fallbackSummary lifts the opening of the first fetched page when the
// extractor produced no summary of its own.
func fallbackSummary(sources []model.Source) string {
	text := strings.TrimSpace(sources[0].RawText)
	if utf8.RuneCountInString(text) <= fallbackSummaryMaxChars {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:fallbackSummaryMaxChars])) + "..."
}
