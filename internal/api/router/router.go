package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"gopeople/internal/api/person"
	"gopeople/internal/api/user"
	"gopeople/internal/domain"
	"gopeople/internal/pkg/cache"
	"gopeople/internal/pkg/logger"
	"gopeople/internal/pkg/middleware"

	_ "gopeople/docs" // Registra a especificação servida em /swagger/
)

// Options reúne os handlers e a infraestrutura usada pelos middlewares.
type Options struct {
	PersonHandler *person.Handler
	UserHandler   *user.Handler
	TokenSvc      middleware.TokenValidator
	Cache         cache.Client
	Logger        logger.Logger

	// Media serve as fotos em /media/*; nil quando elas ficam fora do servidor (S3).
	Media http.Handler

	// RateLimit <= 0 desliga o limitador.
	RateLimit  int
	RateWindow time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RateLimiter(opts.Cache, opts.RateLimit, opts.RateWindow, opts.Logger))

	r.Get("/ping", PingHandler)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	if opts.Media != nil {
		r.Get("/media/*", http.StripPrefix("/media", opts.Media).ServeHTTP)
	}

	auth := middleware.NewAuthMiddleware(opts.TokenSvc, opts.Cache, opts.Logger)

	r.Route("/v1", func(v1 chi.Router) {
		v1.Post("/login", opts.UserHandler.LoginUserHandler)
		v1.Get("/genders", opts.PersonHandler.GendersHandler)

		v1.Group(func(pr chi.Router) {
			pr.Use(auth)

			pr.Post("/logout", opts.UserHandler.LogoutUserHandler)
			pr.With(middleware.PermissionMiddleware(domain.RoleAdmin)).
				Post("/register", opts.UserHandler.RegisterUserHandler)

			pr.Route("/people", func(people chi.Router) {
				people.Get("/", opts.PersonHandler.ListPeopleHandler)
				people.Post("/", opts.PersonHandler.CreatePersonHandler)
				people.Get("/report", opts.PersonHandler.ReportHandler)
				people.Get("/{id}", opts.PersonHandler.GetPersonHandler)
				people.Put("/{id}", opts.PersonHandler.UpdatePersonHandler)
				people.Delete("/{id}", opts.PersonHandler.DeletePersonHandler)
			})
		})
	})

	return r
}

// PingHandler é o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
