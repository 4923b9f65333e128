package prompt

import (
	"context"
	"fmt"
	"strings"
)

// NegativePrompt lists what the image model should avoid. TemplateBuilder
// appends it after Delimiter.
const NegativePrompt = "blurry, low quality, distorted, watermark, deformed, extra limbs, bad anatomy, text errors, cropped, jpeg artifacts"

// Delimiter separates the positive prompt from NegativePrompt. Stable
// Diffusion backends split on it.
const Delimiter = " ### "

// TemplateBuilder assembles a prompt from fixed clauses without any network
// call.
type TemplateBuilder struct{}

func NewTemplateBuilder() TemplateBuilder {
	return TemplateBuilder{}
}

func (TemplateBuilder) Build(_ context.Context, req Request) (string, error) {
	return Compose(req), nil
}

// Compose is the pure form of TemplateBuilder.Build.
func Compose(req Request) string {
	clauses := []string{
		fmt.Sprintf("professional %s promotional banner", strings.TrimSpace(req.Theme)),
	}
	if products := clean(req.Products); len(products) > 0 {
		clauses = append(clauses, "featuring "+strings.Join(products, ", "))
	}
	clauses = append(clauses, "wide marketing layout with products arranged in the foreground and clear space for headline text")
	if offer := strings.TrimSpace(req.Offer); offer != "" {
		clauses = append(clauses, `bold text highlighting "`+offer+`"`)
	}
	if colors := clean(req.Colors); len(colors) > 0 {
		clauses = append(clauses, "color palette of "+strings.Join(colors, ", "))
	}
	clauses = append(clauses, "studio lighting, sharp focus, high detail, commercial product photography")

	return strings.Join(clauses, ", ") + Delimiter + NegativePrompt
}

var _ Builder = TemplateBuilder{}
