package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"bannercraft/internal/adapter/repo"
	"bannercraft/internal/auth"
	"bannercraft/internal/http/handlers"
	httpapi "bannercraft/internal/http/httpapi"
	"bannercraft/internal/infra"
	"bannercraft/internal/infra/credentials"
	"bannercraft/internal/services"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	if cfg.AutoMigrate {
		if err := infra.Migrate(ctx, dbpool, logger); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	sqlRunner := infra.NewSQLRunner(dbpool, logger)
	users := repo.NewUserRepository(sqlRunner)
	banners := repo.NewBannerRepository(sqlRunner)
	history := repo.NewHistoryRepository(sqlRunner)

	keys := credentials.NewStore(sqlRunner)
	openAIKey, err := keys.Resolve(ctx, credentials.ProviderOpenAI, cfg.OpenAIAPIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read stored openai key")
	}
	// An explicit HORDE_API_KEY wins, then a stored key, then the anonymous key.
	hordeKey, err := keys.Resolve(ctx, credentials.ProviderHorde, os.Getenv("HORDE_API_KEY"))
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read stored horde key")
	}
	if hordeKey == "" {
		hordeKey = cfg.HordeAPIKey
	}

	providers, err := newProviders(cfg, openAIKey, hordeKey, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure providers")
	}
	store, staticDir, err := newAssetStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure image store")
	}

	tokens := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	app := &handlers.App{
		Auth:         services.NewAuthService(users, tokens, logger),
		Profiles:     services.NewProfileService(users, cfg.AvatarBaseURL),
		Banners:      services.NewBannerService(banners, history),
		Generator:    services.NewGenerationService(providers.builder, providers.synth, store, banners, logger).WithTimeout(cfg.GenerateTimeout),
		Logger:       logger,
		MaxBodyBytes: cfg.MaxBodyBytes,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Tokens:          tokens,
		Logger:          logger,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		StaticDir:       staticDir,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().
			Str("prompt_strategy", cfg.PromptStrategy).
			Str("image_strategy", cfg.ImageStrategy).
			Str("image_store", cfg.ImageStore).
			Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
