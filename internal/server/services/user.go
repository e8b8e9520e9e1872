// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and bearer-token verification.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/staffbook/internal/common"
	"github.com/dmitrijs2005/staffbook/internal/server/auth"
	"github.com/dmitrijs2005/staffbook/internal/server/config"
	"github.com/dmitrijs2005/staffbook/internal/server/models"
	"github.com/dmitrijs2005/staffbook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/staffbook/internal/server/validation"
)

// AuthResult is returned by a successful Register or Login.
type AuthResult struct {
	Token string
	User  models.PublicUser
}

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint tokens
// - Verify: resolve a bearer token to a user id
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register validates the payload, rejects a taken username or email and
// stores a bcrypt hash of the password. The storage unique indexes back up
// the pre-check when two sign-ups race.
func (s *UserService) Register(ctx context.Context, in validation.SignupInput) (*AuthResult, error) {
	in, err := validation.ValidateSignup(in)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	exists, err := repo.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking user: %w", err)
	}
	if exists {
		return nil, &common.ConflictError{Entity: "User", Field: "email or username"}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u, err := repo.Create(ctx, &models.User{Username: in.Username, Email: in.Email, PasswordHash: hash})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issue(u)
}

// Login verifies credentials. Unknown email and wrong password both yield
// common.ErrorInvalidCredentials after the same amount of hashing work.
func (s *UserService) Login(ctx context.Context, in validation.LoginInput) (*AuthResult, error) {
	in, err := validation.ValidateLogin(in)
	if err != nil {
		return nil, err
	}

	u, err := s.repomanager.Users(s.db).GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = auth.CheckPassword("", in.Password)
			return nil, common.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	ok, err := auth.CheckPassword(u.PasswordHash, in.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrorInvalidCredentials
	}

	return s.issue(u)
}

// Verify returns the user id carried by token. Any defect, including an
// empty token, matches common.ErrorUnauthenticated.
func (s *UserService) Verify(token string) (string, error) {
	if token == "" {
		return "", common.ErrInvalidToken
	}
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

func (s *UserService) issue(u *models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(u.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: u.Public()}, nil
}
