package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Credentials are stored as "hex(iv):base64(ciphertext)" using AES-256-CBC.
// The key is derived from the configured secret by padding or truncating it
// to exactly 32 bytes, so the same secret always yields the same key.

var encryptionKey []byte

var ErrInvalidCiphertext = errors.New("invalid encrypted text format")

// SetEncryptionKey derives the AES-256 key from the configured secret.
func SetEncryptionKey(secret string) {
	finalKey := make([]byte, 32)
	for i := range finalKey {
		finalKey[i] = ' '
	}
	copy(finalKey, []byte(secret))
	encryptionKey = finalKey
}

// Encrypt encrypts plain text and returns the "hex(iv):base64(data)" form.
func Encrypt(plainText string) (string, error) {
	if len(encryptionKey) == 0 {
		return "", errors.New("encryption key is not configured")
	}

	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	padded := pkcs7Pad([]byte(plainText), aes.BlockSize)
	cipherText := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(cipherText, padded)

	return hex.EncodeToString(iv) + ":" + base64.StdEncoding.EncodeToString(cipherText), nil
}

// Decrypt reverses Encrypt. Malformed ciphertext is a hard error so broken
// stored credentials surface loudly instead of flowing on as garbage.
func Decrypt(encryptedText string) (string, error) {
	if len(encryptionKey) == 0 {
		return "", errors.New("encryption key is not configured")
	}

	parts := strings.SplitN(encryptedText, ":", 2)
	if len(parts) != 2 {
		return "", ErrInvalidCiphertext
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != aes.BlockSize {
		return "", ErrInvalidCiphertext
	}

	data, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", ErrInvalidCiphertext
	}

	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return "", err
	}

	plain := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, data)

	unpadded, err := pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return "", ErrInvalidCiphertext
	}

	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(data))
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, fmt.Errorf("invalid padding byte %d", padding)
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, errors.New("invalid padding content")
		}
	}
	return data[:len(data)-padding], nil
}
