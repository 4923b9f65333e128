package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"bannercraft/internal/http/handlers"
	"bannercraft/internal/infra"
	"bannercraft/internal/middleware"
)

// Options configures the middleware stack around the handlers.
type Options struct {
	Tokens          middleware.TokenParser
	Logger          infra.Logger
	AllowedOrigins  []string
	RateLimitPerMin int
	// StaticDir is served under /static when set.
	StaticDir string
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)

	if opts.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))

		r.Post("/signup", app.Signup)
		r.Post("/login", app.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(opts.Tokens))

			r.Get("/me", app.Me)
			r.Post("/update-profile", app.UpdateProfile)
			r.Post("/upload-profile-image", app.UploadProfileImage)

			r.Post("/generate", app.Generate)
			r.Get("/history", app.History)

			r.Route("/banners", func(r chi.Router) {
				r.Get("/", app.ListBanners)
				r.Post("/", app.SaveBanner)
				r.Get("/stats", app.BannerStats)
				r.Delete("/{id}", app.DeleteBanner)
			})
		})
	})

	return r
}
