package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/repository"
)

// ErrBadCredentials collapses every credential failure into one value so the
// login surface never reveals which part of the credential was wrong.
var ErrBadCredentials = errors.New("invalid credentials")

// Authenticator verifies a credential pair and resolves the account behind it.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

type credentialAuthenticator struct {
	users repository.UserRepository
}

// NewCredentialAuthenticator verifies passwords against stored bcrypt hashes.
func NewCredentialAuthenticator(users repository.UserRepository) Authenticator {
	return &credentialAuthenticator{users: users}
}

func (a *credentialAuthenticator) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrBadCredentials
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrBadCredentials
	}
	return user, nil
}
