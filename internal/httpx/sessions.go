package httpx

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/invtrack/go-inventory-ledger/internal/redisx"
	"github.com/invtrack/go-inventory-ledger/internal/users"
)

type ctxKey int

const userKey ctxKey = 0

// Sessions maps opaque bearer tokens to user ids in redis.
type Sessions struct {
	Redis *redis.Client
	Users *users.Repo
}

func (s *Sessions) Issue(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	key := fmt.Sprintf(redisx.KeySession, token)
	if err := s.Redis.Set(ctx, key, userID, redisx.TTLSession).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Sessions) Revoke(ctx context.Context, token string) error {
	return s.Redis.Del(ctx, fmt.Sprintf(redisx.KeySession, token)).Err()
}

func (s *Sessions) resolve(ctx context.Context, token string) (*users.User, error) {
	userID, err := s.Redis.Get(ctx, fmt.Sprintf(redisx.KeySession, token)).Result()
	if err != nil {
		return nil, err
	}
	return s.Users.ByID(ctx, userID)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// Middleware resolves the session token into a user and puts it on the
// request context. Handlers pull it out and pass it on explicitly; nothing
// below the HTTP layer reads ambient auth state.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		u, err := s.resolve(r.Context(), token)
		if err != nil || !u.Enabled {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

// UserFrom returns the authenticated user placed by Middleware.
func UserFrom(ctx context.Context) *users.User {
	u, _ := ctx.Value(userKey).(*users.User)
	return u
}
