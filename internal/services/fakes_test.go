package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"bannercraft/internal/domain"
)

type memUsers struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	updates int
	err     error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*domain.User{}}
}

func (m *memUsers) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	c := *u
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	m.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) Update(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[u.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range m.byID {
		if id != u.ID && existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	c := *u
	m.byID[u.ID] = &c
	m.updates++
	return nil
}

func (m *memUsers) SetProfileField(ctx context.Context, id, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if u.Profile == nil {
		u.Profile = map[string]string{}
	}
	u.Profile[field] = value
	return nil
}

// memStore backs banners, history and generation recording in one place so
// tests can observe both tables.
type memStore struct {
	mu        sync.Mutex
	banners   []domain.Banner
	history   []domain.HistoryEntry
	recordErr error
	countErr  error
}

func (m *memStore) Insert(ctx context.Context, b *domain.Banner) (*domain.Banner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *b
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	m.banners = append(m.banners, c)
	return &c, nil
}

func (m *memStore) ListByOwner(ctx context.Context, userID string) ([]domain.Banner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Banner{}
	for i := len(m.banners) - 1; i >= 0; i-- {
		if m.banners[i].UserID == userID {
			out = append(out, m.banners[i])
		}
	}
	return out, nil
}

func (m *memStore) DeleteOwned(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.banners {
		if b.ID == id && b.UserID == userID {
			m.banners = append(m.banners[:i], m.banners[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memStore) Count(ctx context.Context, userID string, filter domain.BannerFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	var n int64
	for _, b := range m.banners {
		if b.UserID != userID {
			continue
		}
		switch filter {
		case domain.BannerFilterAll:
			n++
		case domain.BannerFilterAIGenerated:
			if b.IsAIGenerated {
				n++
			}
		case domain.BannerFilterFromTemplate:
			if b.TemplateID != nil {
				n++
			}
		default:
			return 0, fmt.Errorf("bad filter %d", filter)
		}
	}
	return n, nil
}

func (m *memStore) RecordGeneration(ctx context.Context, gen *domain.Generation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return m.recordErr
	}
	gen.ID = uuid.NewString()
	gen.History.ID = uuid.NewString()
	gen.History.GenerationID = gen.ID
	gen.Banner.ID = uuid.NewString()
	gen.Banner.GenerationID = gen.ID
	m.history = append(m.history, gen.History)
	m.banners = append(m.banners, gen.Banner)
	return nil
}

type historyView struct{ *memStore }

func (h historyView) ListByOwner(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := []domain.HistoryEntry{}
	for i := len(h.history) - 1; i >= 0; i-- {
		if h.history[i].UserID == userID {
			out = append(out, h.history[i])
		}
	}
	return out, nil
}

type staticSigner struct{ err error }

func (s staticSigner) Sign(userID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-" + userID, nil
}
