package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kumar-pranav/dojotrack-api/internal/dto"
)

// ErrInvalidCredentials indicates a failed login attempt.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService authenticates the instructor account and issues bearer tokens.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
}

type authService struct {
	email        string
	passwordHash string
	secret       string
	tokenTTL     time.Duration
	validate     *validator.Validate
	logger       zerolog.Logger
	now          func() time.Time
}

// NewAuthService constructs the auth service. email and passwordHash come
// from configuration; passwordHash is a bcrypt hash.
func NewAuthService(email, passwordHash, secret string, tokenTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: passwordHash,
		secret:       secret,
		tokenTTL:     tokenTTL,
		validate:     validate,
		logger:       logger.With().Str("component", "auth_service").Logger(),
		now:          time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.LoginResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != s.email {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("email", email).Msg("rejected login attempt")
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	issued := s.now()
	expires := issued.Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"sub":  email,
		"role": "instructor",
		"iat":  issued.Unix(),
		"exp":  expires.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return dto.LoginResponse{}, err
	}

	return dto.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.tokenTTL.Seconds()),
		Email:     email,
	}, nil
}
