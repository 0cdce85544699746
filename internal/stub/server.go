package stub

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pontodeaula/pontoaula/internal/policy"
)

// Server assembles the stub backend. Permissions are enforced with the
// same policy table the client uses, so the stub behaves like the real
// security boundary.
type Server struct {
	store    *Store
	tokens   *TokenIssuer
	policies *policy.Engine
	validate *validator.Validate
	logger   *slog.Logger
}

// NewServer builds a Server over the store.
func NewServer(store *Store, tokens *TokenIssuer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:    store,
		tokens:   tokens,
		policies: policy.NewEngine(),
		validate: validator.New(),
		logger:   logger,
	}
}

// Handler returns the chi router with the full REST contract mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	for _, mw := range middlewareStack() {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", s.handleMe)
			r.Patch("/me", s.handleUpdateMe)
			r.Put("/me/password", s.handleChangePassword)
			r.Get("/", s.handleListUsers)
			r.Post("/", s.handleCreateUser)
			r.Get("/{id}", s.handleGetUser)
			r.Patch("/{id}", s.handleUpdateUser)
			r.Delete("/{id}", s.handleDeleteUser)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", s.handleListPosts)
			r.Post("/", s.handleCreatePost)
			r.Get("/search", s.handleSearchPosts)
			r.Get("/mine", s.handleMyPosts)
			r.Get("/mine/search", s.handleSearchMyPosts)
			r.Get("/{id}", s.handleGetPost)
			r.Put("/{id}", s.handleUpdatePost)
			r.Delete("/{id}", s.handleDeletePost)
		})
	})

	return r
}

// ListenAndServe runs the stub on addr until the process exits.
func (s *Server) ListenAndServe(addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	s.logger.Info("stub backend listening", slog.String("addr", addr))
	return srv.ListenAndServe()
}
