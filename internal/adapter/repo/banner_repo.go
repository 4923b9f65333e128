package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bannercraft/internal/domain"
	"bannercraft/internal/infra"
	"bannercraft/internal/sqlinline"
)

// BannerRepositoryPG implements domain.BannerRepository and
// domain.GenerationRecorder using PostgreSQL.
type BannerRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewBannerRepository constructs a new banner repository instance.
func NewBannerRepository(sql infra.SQLExecutor) *BannerRepositoryPG {
	return &BannerRepositoryPG{sql: sql}
}

// Insert stores a user-saved banner and fills in its id and creation time.
func (r *BannerRepositoryPG) Insert(ctx context.Context, banner *domain.Banner) (*domain.Banner, error) {
	elements, err := encodeElements(banner.Elements)
	if err != nil {
		return nil, err
	}
	out := *banner
	row := r.sql.QueryRow(ctx, sqlinline.QInsertBanner,
		banner.UserID,
		banner.Name,
		banner.ImageURL,
		banner.Theme,
		banner.IsAIGenerated,
		banner.TemplateID,
		banner.Width,
		banner.Height,
		elements,
	)
	if err := row.Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByOwner returns the owner's banners, newest first.
func (r *BannerRepositoryPG) ListByOwner(ctx context.Context, userID string) ([]domain.Banner, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListBannersByOwner, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	banners := []domain.Banner{}
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, err
		}
		banners = append(banners, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return banners, nil
}

// DeleteOwned removes a banner only when userID owns it. Unknown ids,
// malformed ids and foreign banners all report domain.ErrNotFound.
func (r *BannerRepositoryPG) DeleteOwned(ctx context.Context, id, userID string) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteOwnedBanner, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count returns how many of the owner's banners match filter.
func (r *BannerRepositoryPG) Count(ctx context.Context, userID string, filter domain.BannerFilter) (int64, error) {
	var query string
	switch filter {
	case domain.BannerFilterAll:
		query = sqlinline.QCountBanners
	case domain.BannerFilterAIGenerated:
		query = sqlinline.QCountAIBanners
	case domain.BannerFilterFromTemplate:
		query = sqlinline.QCountTemplateBanners
	default:
		return 0, fmt.Errorf("unknown banner filter %d", filter)
	}
	var n int64
	if err := r.sql.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// RecordGeneration inserts the history entry and the auto-created banner in a
// single statement. Both rows share gen.ID.
func (r *BannerRepositoryPG) RecordGeneration(ctx context.Context, gen *domain.Generation) error {
	if gen.ID == "" {
		gen.ID = uuid.NewString()
	}
	b := &gen.Banner
	row := r.sql.QueryRow(ctx, sqlinline.QRecordGeneration,
		gen.ID,
		gen.History.UserID,
		gen.History.Prompt,
		gen.History.ImageURL,
		b.Name,
		b.Theme,
		b.Width,
		b.Height,
	)
	if err := row.Scan(&gen.History.ID, &gen.History.CreatedAt, &b.ID, &b.CreatedAt); err != nil {
		return fmt.Errorf("record generation: %w", err)
	}
	gen.History.GenerationID = gen.ID
	b.GenerationID = gen.ID
	b.UserID = gen.History.UserID
	b.ImageURL = gen.History.ImageURL
	b.IsAIGenerated = true
	b.TemplateID = nil
	if b.Elements == nil {
		b.Elements = []json.RawMessage{}
	}
	return nil
}

func scanBanner(row pgx.Row) (*domain.Banner, error) {
	var (
		b        domain.Banner
		elements []byte
	)
	if err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.GenerationID,
		&b.Name,
		&b.ImageURL,
		&b.Theme,
		&b.IsAIGenerated,
		&b.TemplateID,
		&b.Width,
		&b.Height,
		&elements,
		&b.CreatedAt,
	); err != nil {
		return nil, err
	}
	b.Elements = []json.RawMessage{}
	if len(elements) > 0 {
		if err := json.Unmarshal(elements, &b.Elements); err != nil {
			return nil, fmt.Errorf("decode elements: %w", err)
		}
	}
	return &b, nil
}

func encodeElements(elements []json.RawMessage) ([]byte, error) {
	if elements == nil {
		elements = []json.RawMessage{}
	}
	raw, err := json.Marshal(elements)
	if err != nil {
		return nil, fmt.Errorf("encode elements: %w", err)
	}
	return raw, nil
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

var (
	_ domain.BannerRepository   = (*BannerRepositoryPG)(nil)
	_ domain.GenerationRecorder = (*BannerRepositoryPG)(nil)
)
