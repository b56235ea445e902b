package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T) *AesGcmService {
	t.Helper()
	svc, err := NewAesGcmService(testKey)
	require.NoError(t, err)
	return svc
}

func TestNewAesGcmService_InvalidKeys(t *testing.T) {
	tests := []struct {
		name   string
		hexKey string
	}{
		{"not hex", "zzzz"},
		{"too short", testKey[:62]},
		{"too long", testKey + "00"},
		{"aes-128 sized", testKey[:32]},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewAesGcmService(tt.hexKey)
			assert.Error(t, err)
			assert.Nil(t, svc)
		})
	}
}

func TestEncryptDecrypt_Roundtrip(t *testing.T) {
	svc := newTestService(t)

	values := []string{
		"app-token-7f3a",
		"",
		"acentuação e símbolos: ç ã é ;:,",
		strings.Repeat("x", 4096),
	}

	for _, value := range values {
		encrypted, err := svc.Encrypt(value)
		require.NoError(t, err)

		decrypted, err := svc.Decrypt(encrypted)
		require.NoError(t, err)
		assert.Equal(t, []byte(value), []byte(decrypted))
	}
}

func TestEncrypt_Layout(t *testing.T) {
	svc := newTestService(t)

	encrypted, err := svc.Encrypt("secret")
	require.NoError(t, err)

	parts := strings.Split(encrypted, ":")
	require.Len(t, parts, 3)
	assert.Len(t, parts[0], ivSize*2)
	assert.Len(t, parts[1], tagSize*2)
	assert.Len(t, parts[2], len("secret")*2)
}

func TestEncrypt_FreshIVPerCall(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.Encrypt("same-value")
	require.NoError(t, err)
	second, err := svc.Encrypt("same-value")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecrypt_Malformed(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name  string
		value string
	}{
		{"no separators", "abcdef"},
		{"too many fields", "aa:bb:cc:dd"},
		{"iv not hex", "zz:" + strings.Repeat("00", tagSize) + ":00"},
		{"short iv", "0011:" + strings.Repeat("00", tagSize) + ":00"},
		{"short tag", strings.Repeat("00", ivSize) + ":0011:00"},
		{"ciphertext not hex", strings.Repeat("00", ivSize) + ":" + strings.Repeat("00", tagSize) + ":xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Decrypt(tt.value)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	svc := newTestService(t)

	encrypted, err := svc.Encrypt("access-token")
	require.NoError(t, err)

	parts := strings.Split(encrypted, ":")
	flipped := []byte(parts[2])
	if flipped[0] == '0' {
		flipped[0] = '1'
	} else {
		flipped[0] = '0'
	}
	parts[2] = string(flipped)

	_, err = svc.Decrypt(strings.Join(parts, ":"))
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestDecrypt_WrongKey(t *testing.T) {
	svc := newTestService(t)
	other, err := NewAesGcmService(strings.Repeat("ab", 32))
	require.NoError(t, err)

	encrypted, err := svc.Encrypt("access-token")
	require.NoError(t, err)

	_, err = other.Decrypt(encrypted)
	assert.ErrorIs(t, err, ErrAuthentication)
}
