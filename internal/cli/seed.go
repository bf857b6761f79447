package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/prospectorhq/prospector/internal/store"
	"github.com/prospectorhq/prospector/internal/worker"
)

var (
	skipResearch bool
	seedTimeout  time.Duration
)

// seedProspects are the demo companies inserted by the seed command.
var seedProspects = []worker.Prospect{
	{Name: "Stripe", Website: "https://stripe.com"},
	{Name: "Shopify", Website: "https://shopify.com"},
	{Name: "Notion", Website: "https://notion.so"},
	{Name: "Figma", Website: "https://figma.com"},
	{Name: "Airtable", Website: "https://airtable.com"},
}

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo prospects",
	Long: `Seed captures five well-known companies through the regular research
path, giving a fresh install something to explore:
Stripe, Shopify, Notion, Figma, and Airtable.

Already-captured domains are skipped, so seeding is safe to repeat.

Example:
  prospector seed
  prospector seed --skip-research
  prospector seed --db ./data/prospector.db --llm-provider openai`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().BoolVar(&skipResearch, "skip-research", false, "capture accounts and sources only, skip profile generation")
	seedCmd.Flags().DurationVar(&seedTimeout, "timeout", 10*time.Minute, "total seeding timeout")
	// dbPath and the LLM flags are defined in research.go and shared here
	seedCmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path (default from config)")
	seedCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama; default from config)")
	seedCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (default from config)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	if err := applyLLMFlags(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	svc, st, err := newResearchService(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	fmt.Fprintf(os.Stderr, "Seeding %d demo prospects into %s\n\n", len(seedProspects), cfg.Store.Path)

	if skipResearch {
		for _, prospect := range seedProspects {
			account, sources, err := svc.Capture(ctx, prospect.Name, prospect.Website, nil)
			if err != nil {
				if errors.Is(err, store.ErrAlreadyExists) {
					fmt.Fprintf(os.Stderr, "- %s: already captured\n", prospect.Name)
					continue
				}
				fmt.Fprintf(os.Stderr, "✗ %s: %v\n", prospect.Name, err)
				continue
			}
			fmt.Fprintf(os.Stderr, "✓ %s: %d sources (%s)\n", prospect.Name, len(sources), account.Domain)
		}
		fmt.Fprintf(os.Stderr, "\nSeed complete. Run profile generation with: prospector research <name> <website>\n")
		return nil
	}

	processor := worker.NewBatchProcessor(svc, cfg.Concurrency.Workers)
	results := processor.ProcessProspects(ctx, seedProspects)

	for _, result := range results {
		if result.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Prospect.Name, result.Error)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ %s (%d claims, %.0f%% sourced)\n",
			result.Profile.Account.Name, len(result.Profile.Claims), result.Profile.Coverage*100)
	}

	fmt.Fprintf(os.Stderr, "\nSeed complete.\n")
	return nil
}
