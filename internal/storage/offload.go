package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AssetStore persists bytes under a key and returns a URL that serves them.
type AssetStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// ErrNotDataURI is returned by DecodeDataURI for references that are not
// base64 data: URIs.
var ErrNotDataURI = errors.New("storage: not a base64 data uri")

// DecodeDataURI parses "data:<mime>;base64,<payload>".
func DecodeDataURI(ref string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return nil, "", ErrNotDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, "", ErrNotDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("storage: decode data uri: %w", err)
	}
	contentType := strings.TrimSuffix(meta, ";base64")
	if sniffed := http.DetectContentType(data); sniffed != "application/octet-stream" {
		contentType = sniffed
	}
	return data, contentType, nil
}

// Offloader moves inline data: images into an AssetStore so rows keep short
// URLs instead of megabytes of base64.
type Offloader struct {
	store AssetStore
	now   func() time.Time
}

func NewOffloader(store AssetStore) *Offloader {
	return &Offloader{store: store, now: time.Now}
}

// Offload stores a data: reference and returns the asset URL. Any other
// reference is returned unchanged.
func (o *Offloader) Offload(ctx context.Context, ref string) (string, error) {
	if o == nil || o.store == nil || !strings.HasPrefix(ref, "data:") {
		return ref, nil
	}
	data, contentType, err := DecodeDataURI(ref)
	if err != nil {
		if errors.Is(err, ErrNotDataURI) {
			return ref, nil
		}
		return "", err
	}
	d := o.now().UTC()
	key := fmt.Sprintf("banners/%04d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.NewString(), extension(contentType))
	return o.store.Put(ctx, key, data, contentType)
}

func extension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".bin"
	}
}
