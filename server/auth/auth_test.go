package auth

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfflineUUID(t *testing.T) {
	id := OfflineUUID("Notch")
	assert.Equal(t, "b50ad385-829d-3141-a216-7e7d7539ba7f", id.String())
	assert.Equal(t, 3, int(id.Version()))
	assert.Equal(t, id, OfflineUUID("Notch"))
	assert.NotEqual(t, id, OfflineUUID("notch"))
}

func TestNewSessionRejectsBadSecret(t *testing.T) {
	_, err := NewSession(make([]byte, 15))
	assert.ErrorIs(t, err, ErrVerification)
}

func TestSessionReader(t *testing.T) {
	secret := bytes.Repeat([]byte{0x42}, SharedSecretSize)
	client, err := NewSession(secret)
	require.NoError(t, err)
	server, err := NewSession(secret)
	require.NoError(t, err)

	msg := []byte("encrypted frame bytes")
	wire := append([]byte(nil), msg...)
	client.Encrypt(wire)
	assert.NotEqual(t, msg, wire)

	got, err := io.ReadAll(server.Reader(bytes.NewReader(wire)))
	require.NoError(t, err)
	assert.Equal(t, msg, got)
}
