// Package prompt turns a banner request into the text prompt handed to an
// image model.
package prompt

import (
	"context"
	"strings"
)

// Request carries the creative inputs of a banner.
type Request struct {
	Theme    string
	Products []string
	Offer    string
	Colors   []string
}

// Builder produces an image prompt for a request.
type Builder interface {
	Build(ctx context.Context, req Request) (string, error)
}

// clean trims every entry and drops the empty ones.
func clean(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
