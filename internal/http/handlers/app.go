package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"bannercraft/internal/domain"
	"bannercraft/internal/infra"
	"bannercraft/internal/middleware"
	"bannercraft/internal/services"
)

// Authenticator is the account entry point used by signup and login.
type Authenticator interface {
	Signup(ctx context.Context, in services.SignupInput) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
}

// Profiles serves the caller's own account.
type Profiles interface {
	Me(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, updates map[string]string) (bool, error)
	AssignAvatar(ctx context.Context, userID string) (string, error)
}

// Banners serves saved banners, stats and generation history.
type Banners interface {
	List(ctx context.Context, userID string) ([]domain.Banner, error)
	Save(ctx context.Context, userID string, in services.SaveBannerInput) (*domain.Banner, error)
	Delete(ctx context.Context, userID, bannerID string) error
	Stats(ctx context.Context, userID string) (domain.BannerStats, error)
	History(ctx context.Context, userID string) ([]domain.HistoryEntry, error)
}

// Generator runs the banner generation workflow.
type Generator interface {
	Generate(ctx context.Context, userID string, in services.GenerateInput) (*services.GenerateResult, error)
}

type App struct {
	Auth         Authenticator
	Profiles     Profiles
	Banners      Banners
	Generator    Generator
	Logger       infra.Logger
	MaxBodyBytes int64
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, message string) {
	a.json(w, code, map[string]string{"error": message, "code": slug})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// decode reads a JSON body into v, writing the error response itself when it
// returns false.
func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := r.Body
	if a.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, a.MaxBodyBytes)
	}
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
			return false
		}
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	return true
}

// fail maps a service error onto its HTTP status. notFound is the message
// used for domain.ErrNotFound.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		a.error(w, http.StatusBadRequest, "bad_request", verr.Error())
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		a.error(w, http.StatusBadRequest, "email_taken", "Email already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		a.error(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", middleware.UnauthorizedMessage)
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", notFound)
	case errors.Is(err, domain.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		a.Logger.Warn().Err(err).Str("path", r.URL.Path).Msg("generation timed out")
		a.error(w, http.StatusGatewayTimeout, "timeout", "image generation timed out")
	case errors.Is(err, domain.ErrNoImage), errors.Is(err, domain.ErrJobFaulted):
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("image generation failed")
		a.error(w, http.StatusBadGateway, "generation_failed", "image generation failed")
	case errors.Is(err, domain.ErrUpstream):
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("upstream call failed")
		a.error(w, http.StatusBadGateway, "upstream", "upstream service unavailable")
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "Server-side exception occurred")
	}
}
