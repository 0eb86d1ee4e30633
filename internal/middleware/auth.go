package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/devconnect/backend/internal/models"
)

type contextKey string

const UserIDKey contextKey = "userID"

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenVerifier resolves a bearer credential to a user id.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Claims is the payload of tokens issued by this service.
type Claims struct {
	User ClaimsUser `json:"user"`
	jwt.RegisteredClaims
}

type ClaimsUser struct {
	ID string `json:"id"`
}

// JWTVerifier issues and verifies HS256 tokens.
type JWTVerifier struct {
	secret     []byte
	expiration time.Duration
}

func NewJWTVerifier(secret string, expiration time.Duration) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), expiration: expiration}
}

func (v *JWTVerifier) Issue(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		User: ClaimsUser{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (string, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.User.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.User.ID, nil
}

// ChainVerifier accepts a token if any verifier does, trying them in order.
type ChainVerifier []TokenVerifier

func (c ChainVerifier) Verify(ctx context.Context, token string) (string, error) {
	for _, v := range c {
		if v == nil {
			continue
		}
		if userID, err := v.Verify(ctx, token); err == nil {
			return userID, nil
		}
	}
	return "", ErrInvalidToken
}

// Authenticate rejects requests without a valid credential and stores the
// caller's user id on the request context.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := tokenFromRequest(r)
			if !ok {
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("No token, authorization denied"))
				return
			}

			userID, err := verifier.Verify(r.Context(), tokenString)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Token is not valid"))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// tokenFromRequest reads "Authorization: Bearer <token>", falling back to the
// x-auth-token header older clients send.
func tokenFromRequest(r *http.Request) (string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", false
		}
		return parts[1], true
	}
	if token := strings.TrimSpace(r.Header.Get("x-auth-token")); token != "" {
		return token, true
	}
	return "", false
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) string {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
