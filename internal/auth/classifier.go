package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/observability"
)

// Outcome is the result category of validating one token. Every token falls
// into exactly one category.
type Outcome int

const (
	OutcomeValid Outcome = iota
	OutcomeExpired
	OutcomeInvalidInput
	OutcomeMalformed
	OutcomeUnsupported
	OutcomeBadSignature
)

func (o Outcome) String() string {
	switch o {
	case OutcomeValid:
		return "valid"
	case OutcomeExpired:
		return "expired"
	case OutcomeInvalidInput:
		return "invalid_input"
	case OutcomeMalformed:
		return "malformed"
	case OutcomeUnsupported:
		return "unsupported"
	case OutcomeBadSignature:
		return "bad_signature"
	default:
		return "unknown"
	}
}

// Result carries the outcome and, only when the outcome is OutcomeValid, the
// verified claims.
type Result struct {
	Outcome Outcome
	Claims  *Claims
}

// Classifier validates tokens and records every rejection category for
// diagnostics. Callers branch only on whether the result is OutcomeValid.
type Classifier struct {
	tokens     *TokenManager
	logger     *zap.Logger
	metrics    *observability.Metrics
	dispatcher events.Dispatcher
}

// NewClassifier builds a classifier around the token manager.
func NewClassifier(tokens *TokenManager, logger *zap.Logger, metrics *observability.Metrics, dispatcher events.Dispatcher) *Classifier {
	return &Classifier{tokens: tokens, logger: logger, metrics: metrics, dispatcher: dispatcher}
}

// Classify validates the token and maps every decode failure onto the closed
// outcome set. It never returns claims alongside a non-valid outcome.
func (cl *Classifier) Classify(ctx context.Context, token string) Result {
	if strings.TrimSpace(token) == "" {
		return cl.reject(ctx, OutcomeInvalidInput, nil)
	}

	claims, err := cl.tokens.Decode(token)
	if err == nil {
		cl.metrics.RecordTokenOutcome(OutcomeValid.String())
		return Result{Outcome: OutcomeValid, Claims: claims}
	}

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return cl.reject(ctx, OutcomeExpired, err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		// The keyfunc rejected the signing method.
		return cl.reject(ctx, OutcomeUnsupported, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return cl.reject(ctx, OutcomeBadSignature, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return cl.reject(ctx, OutcomeMalformed, err)
	default:
		return cl.reject(ctx, OutcomeMalformed, err)
	}
}

func (cl *Classifier) reject(ctx context.Context, outcome Outcome, err error) Result {
	cl.metrics.RecordTokenOutcome(outcome.String())
	cl.logger.Warn("token rejected", zap.String("category", outcome.String()), zap.Error(err))
	if cl.dispatcher != nil {
		_ = cl.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTokenRejected,
			Category:  outcome.String(),
			Timestamp: time.Now(),
		})
	}
	return Result{Outcome: outcome}
}
