package challenge

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/subtle"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/Mmx233/Cubic/protocol"
	"github.com/Mmx233/Cubic/server/auth"
)

const (
	VerifyTokenSize = 4    // bytes issued per login
	DefaultKeyBits  = 1024 // what vanilla clients expect
	MinKeyBits      = 1024
)

// Keypair is the process wide RSA key used to receive shared secrets.
type Keypair struct {
	private   *rsa.PrivateKey
	publicDER []byte
}

// GenerateKeypair creates a new RSA keypair of the given size.
func GenerateKeypair(bits int) (*Keypair, error) {
	if bits < MinKeyBits {
		return nil, fmt.Errorf("key size %d below minimum %d", bits, MinKeyBits)
	}
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("generate rsa key: %w", err)
	}
	return newKeypair(key)
}

// ParseKeypair reads a PKCS#1 or PKCS#8 PEM encoded RSA private key.
func ParseKeypair(data []byte) (*Keypair, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	var key *rsa.PrivateKey
	switch block.Type {
	case "RSA PRIVATE KEY":
		k, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse pkcs1 key: %w", err)
		}
		key = k
	case "PRIVATE KEY":
		k, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse pkcs8 key: %w", err)
		}
		rk, ok := k.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("unsupported key type %T", k)
		}
		key = rk
	default:
		return nil, fmt.Errorf("unsupported PEM block %q", block.Type)
	}
	if key.N.BitLen() < MinKeyBits {
		return nil, fmt.Errorf("key size %d below minimum %d", key.N.BitLen(), MinKeyBits)
	}
	return newKeypair(key)
}

// LoadKeypair reads a PEM key file.
func LoadKeypair(path string) (*Keypair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	return ParseKeypair(data)
}

func newKeypair(key *rsa.PrivateKey) (*Keypair, error) {
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("marshal public key: %w", err)
	}
	return &Keypair{private: key, publicDER: der}, nil
}

// PublicKeyDER returns the ASN.1 SubjectPublicKeyInfo sent to clients.
func (k *Keypair) PublicKeyDER() []byte {
	return k.publicDER
}

// MarshalPEM encodes the private key as a PKCS#1 PEM block.
func (k *Keypair) MarshalPEM() []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(k.private),
	})
}

// Decrypt reverses the client's PKCS#1 v1.5 encryption.
func (k *Keypair) Decrypt(ciphertext []byte) ([]byte, error) {
	return rsa.DecryptPKCS1v15(nil, k.private, ciphertext)
}

// GenerateVerifyToken creates a cryptographically secure random verify token
func GenerateVerifyToken() ([]byte, error) {
	token := make([]byte, VerifyTokenSize)
	if _, err := rand.Read(token); err != nil {
		return nil, fmt.Errorf("generate verify token: %w", err)
	}
	return token, nil
}

// VerifyToken compares tokens in constant time.
func VerifyToken(expected, got []byte) bool {
	return len(expected) > 0 && subtle.ConstantTimeCompare(expected, got) == 1
}

// ChallengeAuth implements the login key exchange with a shared keypair.
type ChallengeAuth struct {
	key *Keypair
}

var _ auth.Auth = (*ChallengeAuth)(nil)

// New creates an authenticator around key.
func New(key *Keypair) (*ChallengeAuth, error) {
	if key == nil {
		return nil, errors.New("keypair is required")
	}
	return &ChallengeAuth{key: key}, nil
}

// Begin implements the auth.Auth interface.
func (c *ChallengeAuth) Begin() ([]byte, *protocol.EncryptionRequest, error) {
	token, err := GenerateVerifyToken()
	if err != nil {
		return nil, nil, err
	}
	return token, &protocol.EncryptionRequest{
		ServerID:    "",
		PublicKey:   c.key.PublicKeyDER(),
		VerifyToken: token,
	}, nil
}

// Complete implements the auth.Auth interface.
// 1. Requires the verify token variant of the response
// 2. Decrypts and compares the token
// 3. Decrypts the shared secret and checks its size
func (c *ChallengeAuth) Complete(resp *protocol.EncryptionResponse, token []byte) ([]byte, error) {
	if !resp.HasVerifyToken {
		return nil, fmt.Errorf("%w: response carries no verify token", auth.ErrVerification)
	}

	gotToken, err := c.key.Decrypt(resp.VerifyToken)
	if err != nil {
		return nil, fmt.Errorf("%w: decrypt verify token: %w", auth.ErrVerification, err)
	}
	if !VerifyToken(token, gotToken) {
		return nil, fmt.Errorf("%w: verify token mismatch", auth.ErrVerification)
	}

	secret, err := c.key.Decrypt(resp.SharedSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: decrypt shared secret: %w", auth.ErrVerification, err)
	}
	if len(secret) != auth.SharedSecretSize {
		return nil, fmt.Errorf("%w: shared secret is %d bytes", auth.ErrVerification, len(secret))
	}
	return secret, nil
}
