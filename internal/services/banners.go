package services

import (
	"context"
	"encoding/json"
	"strings"

	"golang.org/x/sync/errgroup"

	"bannercraft/internal/domain"
)

// SaveBannerInput is a banner saved from the editor.
type SaveBannerInput struct {
	Name          string
	ImageURL      string
	Theme         string
	IsAIGenerated bool
	TemplateID    *string
	Width         int
	Height        int
	Elements      []json.RawMessage
}

// BannerService serves the caller's banners and generation history.
type BannerService struct {
	banners domain.BannerRepository
	history domain.HistoryRepository
}

func NewBannerService(banners domain.BannerRepository, history domain.HistoryRepository) *BannerService {
	return &BannerService{banners: banners, history: history}
}

func (s *BannerService) List(ctx context.Context, userID string) ([]domain.Banner, error) {
	return s.banners.ListByOwner(ctx, userID)
}

// Save stores a banner with defaults for name, size and elements.
func (s *BannerService) Save(ctx context.Context, userID string, in SaveBannerInput) (*domain.Banner, error) {
	b := &domain.Banner{
		UserID:        userID,
		Name:          strings.TrimSpace(in.Name),
		ImageURL:      strings.TrimSpace(in.ImageURL),
		Theme:         strings.TrimSpace(in.Theme),
		IsAIGenerated: in.IsAIGenerated,
		TemplateID:    in.TemplateID,
		Width:         in.Width,
		Height:        in.Height,
		Elements:      in.Elements,
	}
	if b.Name == "" {
		b.Name = domain.DefaultBannerName
	}
	if b.Width <= 0 {
		b.Width = domain.DefaultBannerWidth
	}
	if b.Height <= 0 {
		b.Height = domain.DefaultBannerHeight
	}
	if b.Elements == nil {
		b.Elements = []json.RawMessage{}
	}
	return s.banners.Insert(ctx, b)
}

// Delete removes the caller's banner. Missing and foreign banners both
// return domain.ErrNotFound.
func (s *BannerService) Delete(ctx context.Context, userID, bannerID string) error {
	return s.banners.DeleteOwned(ctx, bannerID, userID)
}

// Stats runs the three counters concurrently.
func (s *BannerService) Stats(ctx context.Context, userID string) (domain.BannerStats, error) {
	var stats domain.BannerStats
	eg, egCtx := errgroup.WithContext(ctx)
	count := func(filter domain.BannerFilter, dst *int64) {
		eg.Go(func() error {
			n, err := s.banners.Count(egCtx, userID, filter)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	count(domain.BannerFilterAll, &stats.Total)
	count(domain.BannerFilterAIGenerated, &stats.AIGenerations)
	count(domain.BannerFilterFromTemplate, &stats.TemplatesUsed)
	if err := eg.Wait(); err != nil {
		return domain.BannerStats{}, err
	}
	return stats, nil
}

// History returns the caller's generations, newest first.
func (s *BannerService) History(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	return s.history.ListByOwner(ctx, userID)
}
