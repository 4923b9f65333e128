package handlers

import (
	"net/http"

	"bannercraft/internal/domain"
	"bannercraft/internal/services"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupUserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type signupResponse struct {
	Token string        `json:"token"`
	User  signupUserDTO `json:"user"`
}

type loginResponse struct {
	Token string            `json:"token"`
	User  map[string]string `json:"user"`
}

func (a *App) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !a.decode(w, r, &req) {
		return
	}
	res, err := a.Auth.Signup(r.Context(), services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		a.fail(w, r, err, "User not found")
		return
	}
	a.json(w, http.StatusOK, signupResponse{
		Token: res.Token,
		User:  signupUserDTO{ID: res.User.ID, Name: res.User.Name, Email: res.User.Email},
	})
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !a.decode(w, r, &req) {
		return
	}
	res, err := a.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.fail(w, r, err, "User not found")
		return
	}
	a.json(w, http.StatusOK, loginResponse{Token: res.Token, User: publicUser(res.User)})
}

func publicUser(u *domain.User) map[string]string {
	return u.PublicFields()
}
