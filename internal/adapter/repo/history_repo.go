package repo

import (
	"context"

	"bannercraft/internal/domain"
	"bannercraft/internal/infra"
	"bannercraft/internal/sqlinline"
)

// HistoryRepositoryPG reads generation history.
type HistoryRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewHistoryRepository(sql infra.SQLExecutor) *HistoryRepositoryPG {
	return &HistoryRepositoryPG{sql: sql}
}

// ListByOwner returns the owner's history, newest first.
func (r *HistoryRepositoryPG) ListByOwner(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListHistoryByOwner, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.HistoryEntry{}
	for rows.Next() {
		var e domain.HistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.GenerationID, &e.Prompt, &e.ImageURL, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

var _ domain.HistoryRepository = (*HistoryRepositoryPG)(nil)
