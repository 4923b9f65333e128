package domain

import (
	"encoding/json"
	"time"
)

const (
	DefaultBannerWidth  = 1200
	DefaultBannerHeight = 628
	DefaultBannerName   = "Untitled Banner"
)

// Banner is a saved creative asset owned by a single user.
type Banner struct {
	ID            string
	UserID        string
	GenerationID  string
	Name          string
	ImageURL      string
	Theme         string
	IsAIGenerated bool
	TemplateID    *string
	CreatedAt     time.Time
	Width         int
	Height        int
	Elements      []json.RawMessage
}

// BannerStats aggregates per-user banner counters.
type BannerStats struct {
	Total         int64
	AIGenerations int64
	TemplatesUsed int64
}

// HistoryEntry is the append-only record of one successful generation.
type HistoryEntry struct {
	ID           string
	UserID       string
	GenerationID string
	Prompt       string
	ImageURL     string
	CreatedAt    time.Time
}

// Generation couples the history entry and the auto-created banner that a
// single generate call produces.
type Generation struct {
	ID      string
	History HistoryEntry
	Banner  Banner
}
