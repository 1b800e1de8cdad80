package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"errors"
	"fmt"
	"io"

	"github.com/Mmx233/Cubic/protocol"
	"github.com/google/uuid"
)

const SharedSecretSize = 16

var (
	ErrVerification     = errors.New("encryption handshake verification failed")
	ErrAlreadyEncrypted = errors.New("encryption already enabled")
)

// Auth runs the server side of the login key exchange.
type Auth interface {
	// Begin issues a fresh verify token and the request that carries it.
	Begin() (token []byte, req *protocol.EncryptionRequest, err error)
	// Complete checks resp against the token issued by Begin and returns the
	// decrypted shared secret. Any mismatch is reported as ErrVerification.
	Complete(resp *protocol.EncryptionResponse, token []byte) (secret []byte, err error)
}

// Session holds the stream ciphers of an encrypted connection. The encrypter
// belongs to the outbound writer and the decrypter to the inbound goroutine.
type Session struct {
	enc cipher.Stream
	dec cipher.Stream
}

// NewSession derives AES-128-CFB8 streams using the shared secret as both the
// key and the IV.
func NewSession(secret []byte) (*Session, error) {
	if len(secret) != SharedSecretSize {
		return nil, fmt.Errorf("%w: shared secret is %d bytes", ErrVerification, len(secret))
	}
	block, err := aes.NewCipher(secret)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	return &Session{
		enc: NewCFB8Encrypter(block, secret),
		dec: NewCFB8Decrypter(block, secret),
	}, nil
}

// Encrypt encrypts b in place.
func (s *Session) Encrypt(b []byte) {
	s.enc.XORKeyStream(b, b)
}

// Reader wraps r so everything read through it is decrypted.
func (s *Session) Reader(r io.Reader) io.Reader {
	return cipher.StreamReader{S: s.dec, R: r}
}

// OfflineUUID derives the name based UUID used when no account service is
// consulted.
func OfflineUUID(name string) uuid.UUID {
	sum := md5.Sum([]byte("OfflinePlayer:" + name))
	sum[6] = sum[6]&0x0f | 0x30
	sum[8] = sum[8]&0x3f | 0x80
	id, _ := uuid.FromBytes(sum[:])
	return id
}
