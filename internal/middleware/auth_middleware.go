package middleware

import (
	"context"
	"strings"

	autherrors "attendly/internal/auth/errors"
	"attendly/internal/shared/apperror"
	"attendly/internal/shared/contextutil"
	"attendly/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AdminChecker re-verifies the admin flag against storage on every
// admin-gated call. Flags are deliberately not carried in the token so a
// revoked admin loses access immediately.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

func abortWith(c *gin.Context, appErr *apperror.AppError) {
	response.Error(c, appErr.HTTPStatus, appErr.Code, appErr.Message, nil)
	c.Abort()
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	// Accept both "Bearer <token>" and a raw token.
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		return token
	}
	return header
}

// RequireAuth resolves the bearer token to a user identity or short-circuits
// with one of three distinct failures: missing, expired, or invalid.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			abortWith(c, autherrors.ErrTokenMissing)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, autherrors.ErrInvalidToken
			}
			return secret, nil
		})

		if err != nil || !token.Valid {
			if err != nil && strings.Contains(err.Error(), "expired") {
				abortWith(c, autherrors.ErrTokenExpired)
				return
			}
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		c.Set("user_id", userID)
		if email, ok := claims["email"].(string); ok {
			c.Set("user_email", email)
		}

		ctx := contextutil.WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireAdmin runs after RequireAuth and performs the per-call storage read
// confirming the resolved user still holds the admin flag.
func RequireAdmin(checker AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			abortWith(c, autherrors.ErrTokenMissing)
			return
		}

		isAdmin, err := checker.IsAdmin(c.Request.Context(), userID)
		if err != nil {
			abortWith(c, apperror.ErrDependencyUnavailable)
			return
		}
		if !isAdmin {
			abortWith(c, autherrors.ErrAdminRequired)
			return
		}

		c.Next()
	}
}
