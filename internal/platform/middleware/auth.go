package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	jwttoken "innovation-admin/internal/jwt_token"
	id "innovation-admin/pkg/domain"
	"innovation-admin/pkg/requestcontext"
)

// JWTValidator defines the interface for validating JWT tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*jwttoken.Claims, error)
}

// RequireAdmin authenticates the caller and rejects tokens whose role claim
// is not ADMIN. The authenticated admin becomes the actor in context.
func RequireAdmin(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "missing bearer token", "request_id", requestID)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			if claims.Role != string(id.RoleTypeAdmin) {
				logger.WarnContext(ctx, "forbidden access - non-admin token",
					"request_id", requestID,
					"role", claims.Role,
				)
				writeJSONError(w, http.StatusForbidden, "forbidden", "Admin role required")
				return
			}

			actorID, err := id.ParseUserID(claims.UserID)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - malformed user claim",
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid token claims")
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithActorID(ctx, actorID)))
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + errCode + `","error_description":"` + errDesc + `"}`))
}
