package main

import (
	"context"
	"fmt"

	"bannercraft/internal/infra"
	"bannercraft/internal/providers/image"
	"bannercraft/internal/providers/openai"
	"bannercraft/internal/providers/prompt"
	"bannercraft/internal/services"
	"bannercraft/internal/storage"
)

type providerSet struct {
	builder prompt.Builder
	synth   image.Synthesizer
}

// newProviders picks the prompt builder and image synthesizer named by the
// configured strategies. The OpenAI client is only built when a strategy
// needs it.
func newProviders(cfg *infra.Config, openAIKey, hordeKey string, logger infra.Logger) (providerSet, error) {
	var set providerSet

	var client *openai.Client
	if cfg.PromptStrategy == infra.PromptStrategyDelegated || cfg.ImageStrategy == infra.ImageStrategyHosted {
		c, err := openai.NewClient(openai.Options{
			Flavor:     cfg.OpenAIFlavor,
			APIKey:     openAIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			APIVersion: cfg.OpenAIAPIVersion,
			ChatModel:  cfg.OpenAIChatModel,
			ImageModel: cfg.OpenAIImageModel,
			Logger:     logger,
		})
		if err != nil {
			return set, err
		}
		if !c.HasCredentials() {
			logger.Warn().Msg("openai api key not configured; generation calls will fail")
		}
		client = c
	}

	switch cfg.PromptStrategy {
	case infra.PromptStrategyDelegated:
		set.builder = prompt.NewOpenAIBuilder(client)
	case infra.PromptStrategyTemplate:
		set.builder = prompt.NewTemplateBuilder()
	default:
		return set, fmt.Errorf("unsupported prompt strategy %q", cfg.PromptStrategy)
	}

	switch cfg.ImageStrategy {
	case infra.ImageStrategyHosted:
		set.synth = image.NewHostedSynthesizer(client)
	case infra.ImageStrategyHorde:
		set.synth = image.NewHordeSynthesizer(image.HordeOptions{
			APIKey:       hordeKey,
			BaseURL:      cfg.HordeBaseURL,
			PollInterval: cfg.HordePollInterval,
			MaxWait:      cfg.HordeMaxWait,
			RPS:          cfg.HordeRPS,
			Logger:       logger,
		})
	default:
		return set, fmt.Errorf("unsupported image strategy %q", cfg.ImageStrategy)
	}
	return set, nil
}

// newAssetStore returns the offloader for IMAGE_STORE and, for the file
// store, the directory to serve under /static. The inline store returns a nil
// offloader so data URIs are persisted as-is.
func newAssetStore(ctx context.Context, cfg *infra.Config) (services.ImageOffloader, string, error) {
	switch cfg.ImageStore {
	case infra.ImageStoreInline:
		return nil, "", nil
	case infra.ImageStoreFile:
		fs, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
		if err != nil {
			return nil, "", err
		}
		return storage.NewOffloader(fs), fs.BasePath(), nil
	case infra.ImageStoreS3:
		s3, err := storage.NewS3Store(ctx, storage.S3Options{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, "", err
		}
		return storage.NewOffloader(s3), "", nil
	default:
		return nil, "", fmt.Errorf("unsupported image store %q", cfg.ImageStore)
	}
}
