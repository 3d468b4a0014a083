package service

import (
	"context"
	"errors"
	"time"

	"github.com/Filho-do-homem/dsystem/internal/config"
	"github.com/Filho-do-homem/dsystem/internal/dto"
	"github.com/Filho-do-homem/dsystem/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates the single configured admin account and
// issues JWT access/refresh token pairs. The ledger store has no
// dependency on it; operations carry no actor attribution.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
}

type authService struct {
	cfg          *config.Config
	passwordHash []byte
}

func NewAuthService(cfg *config.Config) AuthService {
	hash := []byte(cfg.AdminPasswordHash)
	if len(hash) == 0 {
		// Development fallback so a fresh checkout can log in with
		// admin/password. Production deployments must set
		// ADMIN_PASSWORD_HASH (see cmd/genhash).
		h, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to generate development password hash")
		}
		hash = h
		log.Warn().Msg("ADMIN_PASSWORD_HASH not set, using development credentials admin/password")
	}
	return &authService{cfg: cfg, passwordHash: hash}
}

func (s *authService) Login(_ context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.Username != s.cfg.AdminUsername {
		return nil, errors.New("credenciais inválidas")
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)); err != nil {
		return nil, errors.New("credenciais inválidas")
	}
	return s.tokenPair(req.Username)
}

func (s *authService) Refresh(_ context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims := &middleware.JWTClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("refresh token inválido ou expirado")
	}
	if claims.Username != s.cfg.AdminUsername {
		return nil, errors.New("refresh token inválido ou expirado")
	}
	return s.tokenPair(claims.Username)
}

func (s *authService) tokenPair(username string) (*dto.LoginResponse, error) {
	access, err := s.generateToken(username, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateToken(username, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		Username:     username,
	}, nil
}

func (s *authService) generateToken(username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := middleware.JWTClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
