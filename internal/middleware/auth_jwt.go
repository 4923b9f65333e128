package middleware

import (
	"context"
	"net/http"
	"strings"
)

// UnauthorizedMessage is returned whenever a bearer token is missing or
// rejected.
const UnauthorizedMessage = "Unauthorized. Please login again."

// TokenParser verifies a bearer token and returns its user id.
type TokenParser interface {
	Parse(token string) (string, error)
}

type userKey string

const (
	userIDKey userKey = "user_id"
)

// AuthJWT rejects requests without a valid bearer token and stores the token
// subject in the request context.
func AuthJWT(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", UnauthorizedMessage)
				return
			}
			userID, err := parser.Parse(token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", UnauthorizedMessage)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	if strings.TrimSpace(userID) == "" {
		return ctx
	}
	return context.WithValue(ctx, userIDKey, userID)
}
