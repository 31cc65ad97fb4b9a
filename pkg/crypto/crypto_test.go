package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundtrip(t *testing.T) {
	SetEncryptionKey("this-is-a-32-char-dev-encryption-key")

	for _, plain := range []string{"secret-token", "", "ñ unicode ✓", strings.Repeat("x", 500)} {
		encrypted, err := Encrypt(plain)
		require.NoError(t, err)
		require.Contains(t, encrypted, ":")

		decrypted, err := Decrypt(encrypted)
		require.NoError(t, err)
		assert.Equal(t, plain, decrypted)
	}
}

func TestEncryptProducesUniqueIVs(t *testing.T) {
	SetEncryptionKey("another-secret")

	first, err := Encrypt("same input")
	require.NoError(t, err)
	second, err := Encrypt("same input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecryptRejectsMalformedInput(t *testing.T) {
	SetEncryptionKey("this-is-a-32-char-dev-encryption-key")

	cases := []string{
		"no separator at all",
		"deadbeef:not-base64!!!",
		"zz:YWJj",
		"00112233445566778899aabbccddeeff:YWJj", // ciphertext not block aligned
		":",
	}
	for _, input := range cases {
		_, err := Decrypt(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestDecryptWithWrongKeyFails(t *testing.T) {
	SetEncryptionKey("key-one")
	encrypted, err := Encrypt("sensitive")
	require.NoError(t, err)

	SetEncryptionKey("key-two")
	decrypted, err := Decrypt(encrypted)
	if err == nil {
		// CBC with random padding bytes can occasionally unpad cleanly,
		// but it must never yield the original plaintext.
		assert.NotEqual(t, "sensitive", decrypted)
	}
}
