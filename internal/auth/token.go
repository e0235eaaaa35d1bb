package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Issuer identifies tokens minted by this service.
const Issuer = "auth-service"

// TokenTTL is the fixed lifetime of an access token.
const TokenTTL = 24 * time.Hour

// subjectSeparator joins user ID and email into the subject claim.
const subjectSeparator = ","

// TokenManager handles issuing and validating signed access tokens.
type TokenManager struct {
	key []byte
	now func() time.Time
}

// NewTokenManager builds a manager around the derived signing key.
func NewTokenManager(key []byte) *TokenManager {
	return &TokenManager{key: key, now: time.Now}
}

// Claims describes the token payload.
type Claims struct {
	jwt.RegisteredClaims
}

// Identity splits the subject claim back into user ID and email.
func (c *Claims) Identity() (int64, string, error) {
	idPart, email, found := strings.Cut(c.Subject, subjectSeparator)
	if !found {
		return 0, "", fmt.Errorf("subject %q has no separator", c.Subject)
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("subject id: %w", err)
	}
	return id, email, nil
}

// Issue builds and signs a token carrying the user's identity. The token
// expires exactly TokenTTL after issuance.
func (tm *TokenManager) Issue(userID int64, email string) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(TokenTTL)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d%s%s", userID, subjectSeparator, email),
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	tokenString, err := token.SignedString(tm.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Decode verifies the signature and expiry and returns the embedded claims.
// Verification failures surface as golang-jwt sentinel errors so callers can
// tell expiry, malformed input, unsupported algorithms and bad signatures
// apart. A claim set is only ever returned on full verification success.
func (tm *TokenManager) Decode(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS512 {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return tm.key, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
