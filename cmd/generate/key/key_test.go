package key

import (
	"path/filepath"
	"testing"

	"github.com/Mmx233/Cubic/server/auth/challenge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.pem")
	require.NoError(t, WriteKey(path, challenge.DefaultKeyBits))

	kp, err := challenge.LoadKeypair(path)
	require.NoError(t, err)
	assert.NotEmpty(t, kp.PublicKeyDER())

	assert.ErrorContains(t, WriteKey(path, challenge.DefaultKeyBits), "file already exists")
}

func TestWriteKey_TooSmall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.pem")
	assert.Error(t, WriteKey(path, 512))
	assert.NoFileExists(t, path)
}
