package auth

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey(t *testing.T) {
	raw := bytes.Repeat([]byte{0x42}, 64)

	t.Run("valid secret", func(t *testing.T) {
		key, err := DeriveKey(base64.StdEncoding.EncodeToString(raw))
		require.NoError(t, err)
		assert.Equal(t, raw, key)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := DeriveKey("")
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("not base64", func(t *testing.T) {
		_, err := DeriveKey("!!!not-base64!!!")
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("too short for hmac-sha512", func(t *testing.T) {
		short := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x42}, 32))
		_, err := DeriveKey(short)
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Error(), "64 bytes")
	})
}
