package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devconnect/backend/internal/models"
)

func TestJWTIssueAndVerify(t *testing.T) {
	v := NewJWTVerifier("test-secret", time.Hour)

	token, err := v.Issue("64b7f0c2a1b2c3d4e5f60718")
	require.NoError(t, err)

	userID, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", userID)
}

func TestJWTClaimsCarryUserID(t *testing.T) {
	v := NewJWTVerifier("test-secret", time.Hour)
	token, err := v.Issue("abc")
	require.NoError(t, err)

	var claims Claims
	_, err = jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "abc", claims.User.ID)
	assert.Equal(t, "abc", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTRejectsBadTokens(t *testing.T) {
	v := NewJWTVerifier("test-secret", time.Hour)

	other, err := NewJWTVerifier("other-secret", time.Hour).Issue("abc")
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewJWTVerifier("test-secret", -time.Minute).Issue("abc")
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

type stubVerifier struct {
	userID string
	err    error
}

func (s stubVerifier) Verify(context.Context, string) (string, error) {
	return s.userID, s.err
}

func TestChainVerifier(t *testing.T) {
	ctx := context.Background()
	failing := stubVerifier{err: errors.New("nope")}

	chain := ChainVerifier{failing, nil, stubVerifier{userID: "u2"}}
	userID, err := chain.Verify(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "u2", userID)

	_, err = ChainVerifier{failing}.Verify(ctx, "tok")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func authenticated(verifier TokenVerifier) http.Handler {
	return Authenticate(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetUserID(r.Context())))
	}))
}

func TestAuthenticateHeaders(t *testing.T) {
	v := NewJWTVerifier("test-secret", time.Hour)
	token, err := v.Issue("user-1")
	require.NoError(t, err)
	handler := authenticated(v)

	tests := []struct {
		name   string
		header string
		value  string
		status int
		body   string
	}{
		{"bearer", "Authorization", "Bearer " + token, http.StatusOK, "user-1"},
		{"lowercase scheme", "Authorization", "bearer " + token, http.StatusOK, "user-1"},
		{"legacy header", "x-auth-token", token, http.StatusOK, "user-1"},
		{"missing", "", "", http.StatusUnauthorized, "No token, authorization denied"},
		{"wrong scheme", "Authorization", "Basic " + token, http.StatusUnauthorized, "No token, authorization denied"},
		{"invalid", "Authorization", "Bearer garbage", http.StatusUnauthorized, "Token is not valid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, rec.Body.String())
				return
			}
			var resp models.APIResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.body, resp.Error)
		})
	}
}

func TestGetUserIDWithoutAuth(t *testing.T) {
	assert.Equal(t, "", GetUserID(context.Background()))
}
