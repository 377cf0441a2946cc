package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/user/taskman-go/apperror"
)

// authFailedMsg is the single rejection message for every guard failure:
// missing header, malformed or expired token, unknown user, revoked
// session. Callers learn nothing about which check failed.
const authFailedMsg = "please authenticate"

// Guard resolves bearer tokens to authenticated users. A request passes
// only if its token verifies cryptographically AND is still present in the
// user's active set, so logout takes effect on the very next request.
type Guard struct {
	store  UserStore
	issuer *TokenIssuer
	logger *zap.Logger
}

// NewGuard constructs a Guard.
func NewGuard(store UserStore, issuer *TokenIssuer, logger *zap.Logger) *Guard {
	return &Guard{store: store, issuer: issuer, logger: logger}
}

// RequireAuth is chi-compatible middleware that authenticates the request
// and stores the resolved user and raw token in the request context.
func (g *Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			g.reject(w, r)
			return
		}

		claims, err := g.issuer.Parse(token)
		if err != nil {
			g.reject(w, r)
			return
		}

		user, err := g.store.UserByID(r.Context(), claims.UserID)
		if err != nil {
			g.reject(w, r)
			return
		}

		active, err := g.store.HasToken(r.Context(), user.ID, token)
		if err != nil || !active {
			g.reject(w, r)
			return
		}

		ctx := NewContextWithSession(r.Context(), user, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *Guard) reject(w http.ResponseWriter, r *http.Request) {
	WriteError(g.logger, w, r, apperror.NewAuthError(authFailedMsg, nil))
}

// bearerToken extracts the token from an "Authorization: Bearer {token}"
// header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
