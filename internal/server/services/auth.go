// Package services contains server-side business logic. This file
// implements AuthService, which handles credential login and bearer-token
// session resolution.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/ums/internal/common"
	"github.com/dmitrijs2005/ums/internal/server/auth"
	"github.com/dmitrijs2005/ums/internal/server/config"
	"github.com/dmitrijs2005/ums/internal/server/models"
	"github.com/dmitrijs2005/ums/internal/server/repositories/repomanager"
)

// LoginResult bundles the minted token with the redacted account the token
// was issued for.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthService verifies credentials, issues tokens and resolves bearer
// tokens back to directory accounts. It holds no mutable state after
// construction and is safe for concurrent use.
type AuthService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Login checks the password for the named account and mints a token.
// A missing account and a wrong password both yield
// common.ErrorInvalidCredentials so responses cannot be used to enumerate
// usernames. Accounts whose status is not active yield
// common.ErrorAccountInactive.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrorInvalidCredentials
	}

	if user.StatusID != models.StatusActive {
		return nil, common.ErrorAccountInactive
	}

	// re-fetch through the view so the token and response carry the
	// resolved roles
	full, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	token, err := auth.GenerateToken(full.Username, full.ID, full.Roles, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginResult{Token: token, User: full}, nil
}

// ResolveSession validates the token and re-fetches the current account by
// the embedded id. Any token failure yields common.ErrorUnauthorized; a
// validly signed token whose account no longer exists yields
// common.ErrorNotFound (tokens are not invalidated by account deletion).
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}
