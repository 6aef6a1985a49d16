package auth

import (
	"strings"
	"time"

	autherrors "attendly/internal/auth/errors"
	"attendly/internal/user"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and validates the signed session tokens. The secret is
// injected at construction, never read from the environment mid-request.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

type TokenClaims struct {
	UserID       string
	Email        string
	EmployeeCode string
}

func (t *TokenService) Issue(u *user.User) (string, error) {
	code := ""
	if u.EmployeeCode != nil {
		code = *u.EmployeeCode
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":       u.ID.String(),
		"email":         u.Email,
		"employee_code": code,
		"exp":           time.Now().Add(t.ttl).Unix(),
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", autherrors.ErrTokenGenerationFailed
	}
	return signed, nil
}

// Parse resolves a token string into claims, distinguishing expired from
// otherwise invalid tokens.
func (t *TokenService) Parse(tokenString string) (TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return t.secret, nil
	})

	if err != nil || !token.Valid {
		if err != nil && strings.Contains(err.Error(), "expired") {
			return TokenClaims{}, autherrors.ErrTokenExpired
		}
		return TokenClaims{}, autherrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, autherrors.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return TokenClaims{}, autherrors.ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	code, _ := claims["employee_code"].(string)

	return TokenClaims{
		UserID:       userID,
		Email:        email,
		EmployeeCode: code,
	}, nil
}
