package stub

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/pontodeaula/pontoaula/internal/users"
)

type contextKey string

const userContextKey contextKey = "stub.user"

// userFromContext returns the authenticated account, or nil.
func userFromContext(ctx context.Context) *users.User {
	user, _ := ctx.Value(userContextKey).(*users.User)
	return user
}

// middlewareStack is the outer chain: recovery, request IDs, security
// headers and request rate limiting.
func middlewareStack() []func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	})
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		secureMiddleware.Handler,
		httprate.LimitByIP(300, time.Minute),
	}
}

// requireAuth verifies the bearer token and loads the account into the
// request context. Any failure is a 401, which the client maps to a
// forced logout.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Token ausente")
			return
		}
		userID, err := s.tokens.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Token inválido")
			return
		}
		user, err := s.store.GetUser(userID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Token inválido")
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
