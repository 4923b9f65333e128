package handlers

import (
	"net/http"

	"bannercraft/internal/services"
)

type generateRequest struct {
	Theme    string   `json:"theme"`
	Products []string `json:"products"`
	Offer    string   `json:"offer"`
	Colors   []string `json:"colors"`
}

type generateResponse struct {
	Prompt   string `json:"prompt"`
	ImageURL string `json:"image_url"`
}

func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !a.decode(w, r, &req) {
		return
	}
	res, err := a.Generator.Generate(r.Context(), a.currentUserID(r), services.GenerateInput{
		Theme:    req.Theme,
		Products: req.Products,
		Offer:    req.Offer,
		Colors:   req.Colors,
	})
	if err != nil {
		a.fail(w, r, err, "User not found")
		return
	}
	a.json(w, http.StatusOK, generateResponse{Prompt: res.Prompt, ImageURL: res.ImageURL})
}
