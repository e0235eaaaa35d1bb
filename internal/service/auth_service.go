package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/observability"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// AuthService coordinates the login exchange: credential verification is
// delegated to the authenticator, token minting to the token manager.
type AuthService struct {
	authenticator Authenticator
	tokens        *auth.TokenManager
	limiter       LoginLimiter
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	logger        *zap.Logger
}

// AuthDependencies encapsulates collaborator requirements for the service.
type AuthDependencies struct {
	Authenticator Authenticator
	Tokens        *auth.TokenManager
	Limiter       LoginLimiter
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	limiter := deps.Limiter
	if limiter == nil {
		limiter = noopLimiter{}
	}
	return &AuthService{
		authenticator: deps.Authenticator,
		tokens:        deps.Tokens,
		limiter:       limiter,
		dispatcher:    deps.Dispatcher,
		metrics:       deps.Metrics,
		logger:        deps.Logger,
	}
}

// Login exchanges credentials for a signed access token. Credential failures
// surface as ErrBadCredentials with no further detail.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	allowed, err := s.limiter.Allow(ctx, email)
	if err != nil {
		s.logger.Warn("login limiter unavailable", zap.Error(err))
	}
	if !allowed {
		s.metrics.RecordLogin("throttled")
		return nil, "", time.Time{}, apperrors.NewTooManyRequests("too many failed login attempts")
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			s.metrics.RecordLogin("failed")
			if lerr := s.limiter.RecordFailure(ctx, email); lerr != nil {
				s.logger.Warn("login limiter record failure", zap.Error(lerr))
			}
			s.publish(ctx, events.EventLoginFailed, email)
			return nil, "", time.Time{}, ErrBadCredentials
		}
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.metrics.RecordLogin("succeeded")
	if lerr := s.limiter.Reset(ctx, email); lerr != nil {
		s.logger.Warn("login limiter reset", zap.Error(lerr))
	}
	s.publish(ctx, events.EventLoginSucceeded, user.Email)
	return user, token, expiresAt, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, subject string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now(),
	})
}
