package classifico

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundprediction/classifico/pkg/config"
	"github.com/soundprediction/classifico/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the classifico HTTP server",
	Long: `Start the classifico HTTP server to provide REST API access to the
classification engine.

The server provides endpoints for:
- Classifying single subjects and batches
- Recording accepted classifications into the usage priors
- Health checks

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "localhost", "Server host")
	serveCmd.Flags().Int("port", 8080, "Server port")
	serveCmd.Flags().String("mode", "release", "Server mode (debug, release, test)")

	serveCmd.Flags().String("store-driver", "yaml", "Taxonomy store driver (yaml, badger, neo4j)")
	serveCmd.Flags().String("store-path", "./taxonomy.yaml", "Taxonomy file or data directory")
	serveCmd.Flags().Int64("root-id", 1, "Taxonomy root node id")

	serveCmd.Flags().String("embedding-provider", "", "Embedding provider (openai, embedeverything)")
	serveCmd.Flags().String("embedding-model", "", "Embedding model")

	serveCmd.Flags().String("nlp-model", "", "LLM model for the oracles")
	serveCmd.Flags().String("nlp-base-url", "", "LLM base URL")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	overrideConfigWithFlags(cmd, cfg)

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}

	log := buildLogger(cfg)

	client, store, err := buildClassifier(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize classifier: %w", err)
	}
	defer client.Close()

	srv := server.New(cfg, client, store, log)
	srv.Setup()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		log.Info("server stopped gracefully")
		return nil
	}
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode, _ = cmd.Flags().GetString("mode")
	}

	if cmd.Flags().Changed("store-driver") {
		cfg.Store.Driver, _ = cmd.Flags().GetString("store-driver")
	}
	if cmd.Flags().Changed("store-path") {
		cfg.Store.Path, _ = cmd.Flags().GetString("store-path")
	}
	if cmd.Flags().Changed("root-id") {
		cfg.Store.RootID, _ = cmd.Flags().GetInt64("root-id")
	}

	if cmd.Flags().Changed("embedding-provider") {
		cfg.Embedding.Provider, _ = cmd.Flags().GetString("embedding-provider")
	}
	if cmd.Flags().Changed("embedding-model") {
		cfg.Embedding.Model, _ = cmd.Flags().GetString("embedding-model")
	}

	if cmd.Flags().Changed("nlp-model") {
		m := cfg.NLP.Models["default"]
		m.Model, _ = cmd.Flags().GetString("nlp-model")
		cfg.NLP.Models["default"] = m
	}
	if cmd.Flags().Changed("nlp-base-url") {
		m := cfg.NLP.Models["default"]
		m.BaseURL, _ = cmd.Flags().GetString("nlp-base-url")
		cfg.NLP.Models["default"] = m
	}
}
