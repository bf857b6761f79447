package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/prospectorhq/prospector/internal/fetch"
	"github.com/prospectorhq/prospector/internal/llm"
	"github.com/prospectorhq/prospector/internal/model"
	"github.com/prospectorhq/prospector/internal/research"
	"github.com/prospectorhq/prospector/internal/store"
	"github.com/prospectorhq/prospector/internal/worker"
)

var (
	dbPath          string
	batchFile       string
	concurrency     int
	researchTimeout time.Duration
	llmProvider     string
	llmModel        string
)

// researchCmd represents the research command
var researchCmd = &cobra.Command{
	Use:   "research [name] <website>",
	Short: "Capture a prospect and generate its sourced profile",
	Long: `Research captures a prospect's public pages and generates an account
profile from them:
- Fetch the website plus any extra URLs captured earlier
- Extract claims about the company, each with source URL and quote
- Aggregate, dedupe, and persist the claim set with its coverage

An existing account for the same domain is refreshed, not duplicated.

Example:
  prospector research "Stripe" https://stripe.com
  prospector research https://stripe.com
  prospector research --file prospects.txt --concurrency 4
  prospector research "Stripe" https://stripe.com --llm-provider openai`,
	Args: cobra.MaximumNArgs(2),
	RunE: runResearch,
}

func init() {
	rootCmd.AddCommand(researchCmd)

	researchCmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path (default from config)")
	researchCmd.Flags().StringVar(&batchFile, "file", "", "batch input file, one \"Name,website\" per line")
	researchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "batch research workers (default from config)")
	researchCmd.Flags().DurationVar(&researchTimeout, "timeout", 5*time.Minute, "overall research timeout")

	// LLM flags
	researchCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama; default from config)")
	researchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (default from config)")
}

func runResearch(cmd *cobra.Command, args []string) error {
	if batchFile == "" && len(args) == 0 {
		return fmt.Errorf("a website argument or --file is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if err := applyLLMFlags(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), researchTimeout)
	defer cancel()

	svc, st, err := newResearchService(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if batchFile != "" {
		return runResearchBatch(ctx, cfg, svc)
	}

	name, website := splitProspectArgs(args)
	if verbose {
		fmt.Fprintf(os.Stderr, "Researching: %s\n", website)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", researchTimeout)
		fmt.Fprintln(os.Stderr)
	}

	result, err := svc.Research(ctx, name, website)
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}

	printProfile(result)
	return nil
}

func runResearchBatch(ctx context.Context, cfg *model.Config, svc *research.Service) error {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Prospector Batch Research\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", batchFile)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Database:     %s\n", cfg.Store.Path)
	fmt.Fprintf(os.Stderr, "\n")

	processor := worker.NewBatchProcessor(svc, cfg.Concurrency.Workers)

	fmt.Fprintf(os.Stderr, "⚙️  Reading prospects from file...\n")
	results, err := processor.ProcessFile(ctx, batchFile)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded %d prospects\n", len(results))
	fmt.Fprintf(os.Stderr, "\n")

	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Prospect.Website, result.Error)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (%d claims, %.0f%% sourced)\n",
			result.Profile.Account.Name, len(result.Profile.Claims), result.Profile.Coverage*100)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d prospects\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// splitProspectArgs interprets one positional arg as a website and two
// as name plus website.
func splitProspectArgs(args []string) (name, website string) {
	if len(args) == 2 {
		return args[0], args[1]
	}
	return "", args[0]
}

// newResearchService opens the store and wires the research stack over
// it. The caller owns closing the returned store.
func newResearchService(ctx context.Context, cfg *model.Config) (*research.Service, *store.Store, error) {
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open store %s: %w", cfg.Store.Path, err)
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg))
	if err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("configure LLM provider: %w", err)
	}
	if provider != nil && !provider.IsAvailable(ctx) {
		fmt.Fprintf(os.Stderr, "Warning: %s provider not reachable, heuristic extraction will be used\n", provider.Name())
	}

	return research.NewService(st, fetch.FromConfig(cfg), provider, cfg), st, nil
}

// applyLLMFlags folds the LLM flag values into cfg and resolves API
// keys from the environment.
func applyLLMFlags(cfg *model.Config) error {
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}

	switch strings.ToLower(cfg.LLM.Provider) {
	case "":
		// LLM disabled, heuristic extraction only
	case "openai":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return nil
}

// printProfile writes the researched profile to stdout, one claim per
// line with its sourcing marker.
func printProfile(result *model.ProfileResult) {
	account := result.Account

	fmt.Printf("\n%s (%s)\n", account.Name, account.Domain)
	if account.Summary != "" {
		fmt.Printf("  %s\n", account.Summary)
	}
	if account.Industry != "" {
		fmt.Printf("  Industry: %s\n", account.Industry)
	}
	fmt.Println()

	if len(result.Claims) == 0 {
		fmt.Println("  No claims extracted.")
	}
	for _, claim := range result.Claims {
		marker := "✗"
		if claim.SourceURL != "" {
			marker = "✓"
		}
		fmt.Printf("  %s [%.2f] %s\n", marker, claim.Confidence, claim.Text)
		if claim.SourceURL != "" {
			fmt.Printf("      %s\n", claim.SourceURL)
		}
	}

	fmt.Println()
	fmt.Printf("  Coverage: %.0f%% sourced", result.Coverage*100)
	if result.CoverageMet {
		fmt.Println(" (target met)")
	} else {
		fmt.Println(" (below target)")
	}
	if result.Skipped > 0 {
		fmt.Printf("  Skipped: %d empty claims\n", result.Skipped)
	}
	if result.LLMModel != "" {
		fmt.Printf("  Extractor: %s\n", result.LLMModel)
	} else {
		fmt.Println("  Extractor: heuristic fallback")
	}
	fmt.Println()
}
