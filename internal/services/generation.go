package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bannercraft/internal/domain"
	"bannercraft/internal/infra"
	"bannercraft/internal/providers/image"
	"bannercraft/internal/providers/prompt"
)

// GenerateInput is the creative brief of one banner.
type GenerateInput struct {
	Theme    string
	Products []string
	Offer    string
	Colors   []string
}

// GenerateResult is what the caller gets back.
type GenerateResult struct {
	Prompt   string
	ImageURL string
}

// ImageOffloader replaces inline image payloads with stored asset URLs.
type ImageOffloader interface {
	Offload(ctx context.Context, ref string) (string, error)
}

// GenerationService runs validate, build prompt, synthesize, persist.
type GenerationService struct {
	builder   prompt.Builder
	synth     image.Synthesizer
	offloader ImageOffloader
	recorder  domain.GenerationRecorder
	logger    infra.Logger
	timeout   time.Duration
}

// NewGenerationService wires the workflow. offloader may be nil, in which
// case image references are stored as returned.
func NewGenerationService(builder prompt.Builder, synth image.Synthesizer, offloader ImageOffloader, recorder domain.GenerationRecorder, logger infra.Logger) *GenerationService {
	return &GenerationService{
		builder:   builder,
		synth:     synth,
		offloader: offloader,
		recorder:  recorder,
		logger:    logger,
	}
}

// WithTimeout bounds every Generate call. Zero leaves the caller's context
// untouched.
func (s *GenerationService) WithTimeout(d time.Duration) *GenerationService {
	s.timeout = d
	return s
}

// Generate produces one banner. Nothing is persisted unless both the prompt
// and the image succeed.
func (s *GenerationService) Generate(ctx context.Context, userID string, in GenerateInput) (*GenerateResult, error) {
	req, err := validateGenerateInput(in)
	if err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.builder.Build(ctx, req)
	if err != nil {
		return nil, stageError(ctx, "build prompt", err)
	}
	ref, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		return nil, stageError(ctx, "synthesize image", err)
	}
	if ref == "" {
		return nil, fmt.Errorf("synthesize image: %w", domain.ErrNoImage)
	}

	if s.offloader != nil {
		stored, err := s.offloader.Offload(ctx, ref)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("image offload failed, keeping inline reference")
		} else {
			ref = stored
		}
	}

	gen := &domain.Generation{
		History: domain.HistoryEntry{
			UserID:   userID,
			Prompt:   text,
			ImageURL: ref,
		},
		Banner: domain.Banner{
			UserID:        userID,
			Name:          req.Theme + " Banner",
			ImageURL:      ref,
			Theme:         req.Theme,
			IsAIGenerated: true,
			Width:         domain.DefaultBannerWidth,
			Height:        domain.DefaultBannerHeight,
		},
	}
	if err := s.recorder.RecordGeneration(ctx, gen); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("generation_id", gen.ID).
		Dur("took", time.Since(start)).
		Msg("banner generated")
	return &GenerateResult{Prompt: text, ImageURL: ref}, nil
}

// stageError tags failures caused by an expired deadline with
// domain.ErrTimeout.
func stageError(ctx context.Context, stage string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, domain.ErrTimeout) {
		return fmt.Errorf("%s: %w: %w", stage, domain.ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w", stage, err)
}

func validateGenerateInput(in GenerateInput) (prompt.Request, error) {
	req := prompt.Request{
		Theme:    strings.TrimSpace(in.Theme),
		Products: nonBlank(in.Products),
		Offer:    strings.TrimSpace(in.Offer),
		Colors:   nonBlank(in.Colors),
	}
	switch {
	case req.Theme == "":
		return req, domain.NewValidationError("theme", "theme is required")
	case len(req.Products) == 0:
		return req, domain.NewValidationError("products", "at least one product is required")
	case req.Offer == "":
		return req, domain.NewValidationError("offer", "offer is required")
	case len(req.Colors) == 0:
		return req, domain.NewValidationError("colors", "at least one color is required")
	}
	return req, nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
