package challenge

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"sync"
	"testing"
	"testing/quick"

	"github.com/Mmx233/Cubic/protocol"
	"github.com/Mmx233/Cubic/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testKeyOnce sync.Once
	testKey     *Keypair
)

func keypair(t *testing.T) *Keypair {
	t.Helper()
	testKeyOnce.Do(func() {
		k, err := GenerateKeypair(DefaultKeyBits)
		if err != nil {
			t.Fatalf("GenerateKeypair() failed: %v", err)
		}
		testKey = k
	})
	return testKey
}

// clientEncrypt does what a game client does with the server's public key.
func clientEncrypt(t *testing.T, k *Keypair, plain []byte) []byte {
	t.Helper()
	pub, err := x509.ParsePKIXPublicKey(k.PublicKeyDER())
	require.NoError(t, err)
	out, err := rsa.EncryptPKCS1v15(rand.Reader, pub.(*rsa.PublicKey), plain)
	require.NoError(t, err)
	return out
}

// Property: Token Round-Trip - a token always verifies against itself
func TestProperty_TokenRoundTrip(t *testing.T) {
	f := func(token []byte) bool {
		if len(token) == 0 {
			return true
		}
		return VerifyToken(token, bytes.Clone(token))
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 100}); err != nil {
		t.Errorf("Token Round-Trip failed: %v", err)
	}
}

// Property: Wrong Token Rejection - any different token fails
func TestProperty_WrongTokenRejection(t *testing.T) {
	f := func(expected, got []byte) bool {
		if bytes.Equal(expected, got) {
			return true
		}
		return !VerifyToken(expected, got)
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 100}); err != nil {
		t.Errorf("Wrong Token Rejection failed: %v", err)
	}
}

// Property: Token Uniqueness - generated tokens rarely repeat
func TestProperty_TokenUniqueness(t *testing.T) {
	const numTokens = 200
	seen := make(map[string]bool, numTokens)
	for i := 0; i < numTokens; i++ {
		token, err := GenerateVerifyToken()
		if err != nil {
			t.Fatalf("GenerateVerifyToken() failed at iteration %d: %v", i, err)
		}
		if len(token) != VerifyTokenSize {
			t.Fatalf("token size = %d, want %d", len(token), VerifyTokenSize)
		}
		if seen[string(token)] {
			t.Errorf("duplicate token at iteration %d", i)
			return
		}
		seen[string(token)] = true
	}
}

func TestNew_NilKey(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestGenerateKeypair_TooSmall(t *testing.T) {
	_, err := GenerateKeypair(512)
	assert.Error(t, err)
}

func TestKeypairPEMRoundTrip(t *testing.T) {
	k := keypair(t)
	parsed, err := ParseKeypair(k.MarshalPEM())
	require.NoError(t, err)
	assert.Equal(t, k.PublicKeyDER(), parsed.PublicKeyDER())

	_, err = ParseKeypair([]byte("not a key"))
	assert.Error(t, err)
}

func TestExchange(t *testing.T) {
	k := keypair(t)
	a, err := New(k)
	require.NoError(t, err)

	token, req, err := a.Begin()
	require.NoError(t, err)
	assert.Equal(t, "", req.ServerID)
	assert.Equal(t, token, req.VerifyToken)
	assert.Equal(t, k.PublicKeyDER(), req.PublicKey)

	secret := bytes.Repeat([]byte{0x07}, auth.SharedSecretSize)

	t.Run("valid", func(t *testing.T) {
		got, err := a.Complete(&protocol.EncryptionResponse{
			SharedSecret:   clientEncrypt(t, k, secret),
			HasVerifyToken: true,
			VerifyToken:    clientEncrypt(t, k, token),
		}, token)
		require.NoError(t, err)
		assert.Equal(t, secret, got)
	})

	t.Run("token mismatch", func(t *testing.T) {
		wrong := bytes.Clone(token)
		wrong[0] ^= 0xff
		_, err := a.Complete(&protocol.EncryptionResponse{
			SharedSecret:   clientEncrypt(t, k, secret),
			HasVerifyToken: true,
			VerifyToken:    clientEncrypt(t, k, wrong),
		}, token)
		assert.ErrorIs(t, err, auth.ErrVerification)
	})

	t.Run("no token", func(t *testing.T) {
		_, err := a.Complete(&protocol.EncryptionResponse{
			SharedSecret: clientEncrypt(t, k, secret),
			Salt:         1,
		}, token)
		assert.ErrorIs(t, err, auth.ErrVerification)
	})

	t.Run("garbage ciphertext", func(t *testing.T) {
		_, err := a.Complete(&protocol.EncryptionResponse{
			SharedSecret:   []byte{1, 2, 3},
			HasVerifyToken: true,
			VerifyToken:    []byte{4, 5, 6},
		}, token)
		assert.ErrorIs(t, err, auth.ErrVerification)
	})

	t.Run("short secret", func(t *testing.T) {
		_, err := a.Complete(&protocol.EncryptionResponse{
			SharedSecret:   clientEncrypt(t, k, secret[:8]),
			HasVerifyToken: true,
			VerifyToken:    clientEncrypt(t, k, token),
		}, token)
		assert.ErrorIs(t, err, auth.ErrVerification)
	})
}
