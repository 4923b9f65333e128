package image

import (
	"context"
	"strings"

	"bannercraft/internal/domain"
	"bannercraft/internal/providers/openai"
)

// ImageClient is the subset of the OpenAI client HostedSynthesizer uses.
type ImageClient interface {
	GenerateImages(ctx context.Context, req openai.ImageRequest) ([]openai.Image, error)
}

// HostedSynthesizer makes a single synchronous images/generations call.
type HostedSynthesizer struct {
	client  ImageClient
	size    string
	style   string
	quality string
}

func NewHostedSynthesizer(client ImageClient) *HostedSynthesizer {
	return &HostedSynthesizer{
		client:  client,
		size:    "1024x1024",
		style:   "vivid",
		quality: "standard",
	}
}

func (h *HostedSynthesizer) Synthesize(ctx context.Context, prompt string) (string, error) {
	images, err := h.client.GenerateImages(ctx, openai.ImageRequest{
		Prompt:  prompt,
		N:       1,
		Size:    h.size,
		Style:   h.style,
		Quality: h.quality,
	})
	if err != nil {
		return "", err
	}
	if len(images) == 0 {
		return "", &domain.UpstreamError{Service: "openai", Op: "images", Detail: "empty result"}
	}
	if url := strings.TrimSpace(images[0].URL); url != "" {
		return url, nil
	}
	if b64 := strings.TrimSpace(images[0].B64JSON); b64 != "" {
		return DataURIPrefix + b64, nil
	}
	return "", &domain.UpstreamError{Service: "openai", Op: "images", Detail: "image without url"}
}

var _ Synthesizer = (*HostedSynthesizer)(nil)
