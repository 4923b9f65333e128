package image

import (
	"context"
	"errors"
	"testing"

	"bannercraft/internal/domain"
	"bannercraft/internal/providers/openai"
)

type stubImageClient struct {
	images  []openai.Image
	err     error
	calls   int
	lastReq openai.ImageRequest
}

func (s *stubImageClient) GenerateImages(ctx context.Context, req openai.ImageRequest) ([]openai.Image, error) {
	s.calls++
	s.lastReq = req
	return s.images, s.err
}

func TestHostedSynthesizerReturnsURL(t *testing.T) {
	client := &stubImageClient{images: []openai.Image{{URL: "https://cdn/banner.png"}}}
	ref, err := NewHostedSynthesizer(client).Synthesize(context.Background(), "a banner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref != "https://cdn/banner.png" {
		t.Fatalf("ref = %q", ref)
	}
	want := openai.ImageRequest{Prompt: "a banner", N: 1, Size: "1024x1024", Style: "vivid", Quality: "standard"}
	if client.lastReq != want {
		t.Fatalf("request = %#v, want %#v", client.lastReq, want)
	}
}

func TestHostedSynthesizerFallsBackToB64(t *testing.T) {
	client := &stubImageClient{images: []openai.Image{{B64JSON: "iVBORw0KGgo="}}}
	ref, err := NewHostedSynthesizer(client).Synthesize(context.Background(), "p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref != DataURIPrefix+"iVBORw0KGgo=" {
		t.Fatalf("ref = %q", ref)
	}
}

func TestHostedSynthesizerNeverReturnsEmpty(t *testing.T) {
	cases := []struct {
		name   string
		client *stubImageClient
	}{
		{name: "client error", client: &stubImageClient{err: &domain.UpstreamError{Service: "openai", StatusCode: 400}}},
		{name: "no data", client: &stubImageClient{}},
		{name: "blank image", client: &stubImageClient{images: []openai.Image{{}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := NewHostedSynthesizer(tc.client).Synthesize(context.Background(), "p")
			if ref != "" {
				t.Fatalf("ref = %q, want empty", ref)
			}
			var upstream *domain.UpstreamError
			if !errors.As(err, &upstream) {
				t.Fatalf("expected UpstreamError, got %v", err)
			}
		})
	}
}
