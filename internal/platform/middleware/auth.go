package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	jwttoken "malkhana/internal/jwt_token"
	id "malkhana/pkg/domain"
	dErrors "malkhana/pkg/domain-errors"
	"malkhana/pkg/platform/httputil"
	"malkhana/pkg/requestcontext"
)

// JWTValidator defines the interface for validating JWT tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*jwttoken.Claims, error)
}

// RequireAuth validates the Bearer token and injects the caller's identity
// and unit scope into the request context. A token without a unit claim is
// an administrator: it gets the unrestricted scope.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, err)
				return
			}

			userID, err := id.ParseUserID(claims.UserID)
			if err != nil {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims"))
				return
			}
			scope := id.Unrestricted()
			if claims.UnitID != "" {
				unitID, err := id.ParseUnitID(claims.UnitID)
				if err != nil {
					httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims"))
					return
				}
				scope = id.ScopedUnit(unitID)
			}

			ctx = requestcontext.WithUserID(ctx, userID)
			ctx = requestcontext.WithScope(ctx, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
