package prompt

import (
	"context"
	"fmt"
	"strings"

	"bannercraft/internal/providers/openai"
)

const systemMessage = "You are an expert creative director and marketing strategist. " +
	"Your role is to craft highly detailed, visually imaginative, and commercially effective prompts " +
	"for DALL·E 3 to generate promotional banners."

// ChatClient is the subset of the OpenAI client the delegated builder uses.
type ChatClient interface {
	Chat(ctx context.Context, req openai.ChatRequest) (string, error)
}

// OpenAIBuilder asks a chat model to write the image prompt.
type OpenAIBuilder struct {
	client      ChatClient
	temperature float64
}

func NewOpenAIBuilder(client ChatClient) *OpenAIBuilder {
	return &OpenAIBuilder{client: client, temperature: 0.8}
}

// Build returns the model's prompt text. Upstream failures surface as
// *domain.UpstreamError from the client.
func (b *OpenAIBuilder) Build(ctx context.Context, req Request) (string, error) {
	text, err := b.client.Chat(ctx, openai.ChatRequest{
		Messages: []openai.Message{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: userMessage(req)},
		},
		Temperature: b.temperature,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func userMessage(req Request) string {
	return fmt.Sprintf(`I need to generate a promotional banner using DALL·E 3.

Details:
- Theme: %s
- Products: %s
- Promotional Offer: %s
- Color Palette: %s
- Aspect Ratio: 1:7 (1360x800 px)

Please write a vivid, visually rich DALL·E 3 prompt that includes:
1. A festive or event-based layout matching the theme
2. Natural-looking product placement (e.g., in baskets, on wood platters)
3. Clear visual emphasis on the offer text
4. A color-matched background and mood
5. Marketing style, not artistic or abstract

Output only the generated prompt.`,
		strings.TrimSpace(req.Theme),
		strings.Join(clean(req.Products), ", "),
		strings.TrimSpace(req.Offer),
		strings.Join(clean(req.Colors), ", "),
	)
}

var _ Builder = (*OpenAIBuilder)(nil)
