package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-recommender/internal/api"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/infrastructure/repositories"
	"recipe-recommender/internal/pkg/common"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "recipe-recommender",
		Short: "Yippee! recipe generation and recommendation service",
		Long: `recipe-recommender generates Yippee! noodle recipes from user preferences,
ranks stored base recipes for the same preferences, and keeps per-user
profiles (saved recipes, disliked ingredients, cooking history).`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("recipe-recommender version %s (built %s)\n", version, buildTime)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	})

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert base recipes from a JSON file",
		RunE:  runSeed,
	}
	seedCmd.Flags().StringP("file", "f", "", "JSON array of base recipes")
	_ = seedCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(seedCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup 載入設定並初始化 logger
func setup() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer common.Sync()

	common.LogInfo(common.MsgStarting,
		zap.String("version", version),
		zap.String("env", cfg.App.Env),
		zap.Bool("debug", cfg.App.Debug),
		zap.String("openrouter_api_key", config.MaskAPIKey(cfg.OpenRouter.APIKey)),
		zap.String("openrouter_model", cfg.OpenRouter.Model),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := api.NewServices(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.SetupRouter(cfg, svc),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		common.LogInfo("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			svc.Close(context.Background())
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	common.LogInfo(common.MsgShuttingDown)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}
	svc.Close(shutdownCtx)

	common.LogInfo(common.MsgServerExited)
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")

	cfg, err := setup()
	if err != nil {
		return err
	}
	defer common.Sync()

	if cfg.UseMemoryStore() {
		return fmt.Errorf("seeding requires MONGODB_URI; the in-memory store is not persistent")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	stores, err := api.OpenStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer stores.Close(context.Background())

	n, err := repositories.ImportBaseRecipes(ctx, stores.BaseRecipes, f)
	if err != nil {
		return err
	}
	common.LogInfo("Base recipes seeded", zap.Int("count", n), zap.String("file", path))
	return nil
}
