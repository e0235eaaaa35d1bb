package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller as reconstructed from a
// verified token. No role or credential information is derivable from the
// token itself.
type Principal struct {
	ID    int64
	Email string
}

// AuthMiddleware inspects every request once, attaching a Principal when the
// bearer token is valid. It never rejects: requests without a usable token
// simply continue anonymously, and route guards decide what anonymous callers
// may reach.
type AuthMiddleware struct {
	classifier *Classifier
	logger     *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(classifier *Classifier, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{classifier: classifier, logger: logger}
}

// Handle runs once per request, before any route handler.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" || !strings.HasPrefix(header, "Bearer") {
		return c.Next()
	}

	token, ok := extractBearerToken(header)
	if !ok {
		return c.Next()
	}

	result := m.classify(c, token)
	if result.Outcome != OutcomeValid {
		return c.Next()
	}

	id, email, err := result.Claims.Identity()
	if err != nil {
		m.logger.Warn("token subject unparseable", zap.Error(err))
		return c.Next()
	}

	c.Locals(principalKey, &Principal{ID: id, Email: email})
	return c.Next()
}

// classify isolates the request pipeline from any panic during validation;
// a failure there must degrade to "no identity", not abort the chain.
func (m *AuthMiddleware) classify(c *fiber.Ctx, token string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("token classification panic", zap.Any("panic", r))
			result = Result{Outcome: OutcomeMalformed}
		}
	}()
	return m.classifier.Classify(c.UserContext(), token)
}

// extractBearerToken returns the token portion of an Authorization header.
// It is total: a header with no second field reports absence instead of
// faulting.
func extractBearerToken(header string) (string, bool) {
	fields := strings.Fields(header)
	if len(fields) < 2 {
		return "", false
	}
	return strings.TrimSpace(fields[1]), true
}

// PrincipalFromContext retrieves the authenticated entity, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
