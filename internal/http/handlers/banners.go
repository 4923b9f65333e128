package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bannercraft/internal/domain"
	"bannercraft/internal/services"
)

const bannerNotFound = "Banner not found or access denied"

type bannerDTO struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	ImageURL      string  `json:"imageUrl"`
	Theme         string  `json:"theme"`
	IsAIGenerated bool    `json:"isAiGenerated"`
	TemplateID    *string `json:"templateId"`
	CreatedAt     string  `json:"createdAt"`
}

type saveBannerRequest struct {
	Name          string            `json:"name"`
	ImageURL      string            `json:"imageUrl"`
	Theme         string            `json:"theme"`
	IsAIGenerated bool              `json:"isAiGenerated"`
	TemplateID    *string           `json:"templateId"`
	Width         int               `json:"width"`
	Height        int               `json:"height"`
	Elements      []json.RawMessage `json:"elements"`
}

type statsResponse struct {
	TotalBanners  int64 `json:"totalBanners"`
	AIGenerations int64 `json:"aiGenerations"`
	TemplatesUsed int64 `json:"templatesUsed"`
}

type historyDTO struct {
	Prompt   string `json:"prompt"`
	ImageURL string `json:"image_url"`
}

func toBannerDTO(b domain.Banner) bannerDTO {
	return bannerDTO{
		ID:            b.ID,
		Name:          b.Name,
		ImageURL:      b.ImageURL,
		Theme:         b.Theme,
		IsAIGenerated: b.IsAIGenerated,
		TemplateID:    b.TemplateID,
		CreatedAt:     b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (a *App) ListBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := a.Banners.List(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err, bannerNotFound)
		return
	}
	out := make([]bannerDTO, 0, len(banners))
	for _, b := range banners {
		out = append(out, toBannerDTO(b))
	}
	a.json(w, http.StatusOK, map[string]any{"banners": out})
}

func (a *App) SaveBanner(w http.ResponseWriter, r *http.Request) {
	var req saveBannerRequest
	if !a.decode(w, r, &req) {
		return
	}
	banner, err := a.Banners.Save(r.Context(), a.currentUserID(r), services.SaveBannerInput{
		Name:          req.Name,
		ImageURL:      req.ImageURL,
		Theme:         req.Theme,
		IsAIGenerated: req.IsAIGenerated,
		TemplateID:    req.TemplateID,
		Width:         req.Width,
		Height:        req.Height,
		Elements:      req.Elements,
	})
	if err != nil {
		a.fail(w, r, err, bannerNotFound)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "banner": toBannerDTO(*banner)})
}

func (a *App) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Banners.Delete(r.Context(), a.currentUserID(r), id); err != nil {
		a.fail(w, r, err, bannerNotFound)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "message": "Banner deleted successfully"})
}

func (a *App) BannerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Banners.Stats(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err, bannerNotFound)
		return
	}
	a.json(w, http.StatusOK, statsResponse{
		TotalBanners:  stats.Total,
		AIGenerations: stats.AIGenerations,
		TemplatesUsed: stats.TemplatesUsed,
	})
}

func (a *App) History(w http.ResponseWriter, r *http.Request) {
	entries, err := a.Banners.History(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err, "History not found")
		return
	}
	out := make([]historyDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyDTO{Prompt: e.Prompt, ImageURL: e.ImageURL})
	}
	a.json(w, http.StatusOK, out)
}
