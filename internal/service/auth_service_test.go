package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kumar-pranav/dojotrack-api/internal/dto"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse-42"), bcrypt.MinCost)
	require.NoError(t, err)
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewAuthService("sensei@dojo.example", string(hash), "test-secret", time.Hour, validate, testLogger())
}

func TestAuthLoginIssuesToken(t *testing.T) {
	svc := newAuthService(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "Sensei@dojo.example",
		Password: "correct-horse-42",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, int64(3600), resp.ExpiresIn)

	token, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, "sensei@dojo.example", claims["sub"])
	require.Equal(t, "instructor", claims["role"])
}

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "sensei@dojo.example",
		Password: "wrong-password",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email:    "someone@else.example",
		Password: "correct-horse-42",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthLoginValidatesRequest(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "not-an-email", Password: "correct-horse-42"})
	require.Error(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "sensei@dojo.example", Password: "short"})
	require.Error(t, err)
}
