package domain

import "context"

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	SetProfileField(ctx context.Context, id, field, value string) error
}

// BannerRepository persists banners. Every method is scoped to the owner.
type BannerRepository interface {
	Insert(ctx context.Context, banner *Banner) (*Banner, error)
	ListByOwner(ctx context.Context, userID string) ([]Banner, error)
	DeleteOwned(ctx context.Context, id, userID string) error
	Count(ctx context.Context, userID string, filter BannerFilter) (int64, error)
}

// BannerFilter narrows Count to a subset of the owner's banners.
type BannerFilter int

const (
	BannerFilterAll BannerFilter = iota
	BannerFilterAIGenerated
	BannerFilterFromTemplate
)

// HistoryRepository reads history entries.
type HistoryRepository interface {
	ListByOwner(ctx context.Context, userID string) ([]HistoryEntry, error)
}

// GenerationRecorder writes the history entry and banner of a generation
// atomically.
type GenerationRecorder interface {
	RecordGeneration(ctx context.Context, gen *Generation) error
}
