package auth

import (
	"crypto/sha512"
	"encoding/base64"
	"fmt"
)

// ConfigurationError reports unusable signing-key configuration. Callers
// treat it as fatal: the process must not keep serving with a key it could
// not derive.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth configuration: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("auth configuration: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// DeriveKey decodes the Base64-encoded signing secret into raw key bytes for
// HMAC-SHA-512. The decoded key must be at least the hash output size.
func DeriveKey(secretB64 string) ([]byte, error) {
	if secretB64 == "" {
		return nil, &ConfigurationError{Reason: "signing secret is not set"}
	}
	key, err := base64.StdEncoding.DecodeString(secretB64)
	if err != nil {
		return nil, &ConfigurationError{Reason: "signing secret is not valid base64", Err: err}
	}
	if len(key) < sha512.Size {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("signing key must be at least %d bytes, got %d", sha512.Size, len(key)),
		}
	}
	return key, nil
}
