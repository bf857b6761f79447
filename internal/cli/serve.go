package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/prospectorhq/prospector/internal/api"
	"github.com/prospectorhq/prospector/internal/render"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Prospector HTTP API server",
	Long: `Serve starts the HTTP API for the full research workflow:
- Capture prospects and fetch their public pages
- Generate sourced account profiles
- Render and download outreach assets

The server shuts down gracefully on SIGINT or SIGTERM.

Example:
  prospector serve
  prospector serve --addr :9090 --db ./data/prospector.db
  prospector serve --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	// dbPath and the LLM flags are defined in research.go and shared here
	serveCmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path (default from config)")
	serveCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama; default from config)")
	serveCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	if err := applyLLMFlags(cfg); err != nil {
		return err
	}

	svc, st, err := newResearchService(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	renderer, err := render.FromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.NewRouter(st, svc, renderer),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdownSignal:
		log.Printf("Received %s, initiating graceful shutdown...", sig)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Println("Server gracefully stopped")
	return nil
}
