// Package image turns a text prompt into an image reference: either a URL
// or a data: URI.
package image

import "context"

// Synthesizer renders a prompt. A nil error always comes with a non-empty
// reference.
type Synthesizer interface {
	Synthesize(ctx context.Context, prompt string) (string, error)
}

// DataURIPrefix prefixes inline PNG payloads.
const DataURIPrefix = "data:image/png;base64,"
