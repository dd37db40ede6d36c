package lineage

import (
	"crypto/sha256"
	"fmt"
	"io"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

const (
	sealIssuer  = "lexcore"
	sealKeyInfo = "lexcore custody seal v1"
)

// ErrSealMismatch is returned when a seal is authentic but describes other bytes
var ErrSealMismatch = fmt.Errorf("%w: custody seal does not match record", domain.ErrIntegrity)

// SealClaims is the payload of a custody seal
type SealClaims struct {
	DocumentID string `json:"doc"`
	SHA256Hash string `json:"sha256"`
	FileSize   int64  `json:"size"`
	MimeType   string `json:"mime"`
	jwt.RegisteredClaims
}

// Sealer signs custody records so a later audit can prove the digest was
// recorded by this service and not edited in storage.
type Sealer struct {
	key   []byte
	clock domain.Clock
}

// NewSealer derives the signing key from secret with HKDF-SHA256.
func NewSealer(secret string, clock domain.Clock) (*Sealer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("%w: seal secret is required", domain.ErrInvalidInput)
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(sealKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive seal key: %w", err)
	}
	return &Sealer{key: key, clock: clock}, nil
}

// Seal signs the digest, size and MIME type of custody for documentID.
func (s *Sealer) Seal(documentID string, custody domain.DigitalCustody) (string, error) {
	claims := SealClaims{
		DocumentID: documentID,
		SHA256Hash: strings.ToLower(custody.SHA256Hash),
		FileSize:   custody.FileSize,
		MimeType:   custody.MimeType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   sealIssuer,
			Subject:  documentID,
			IssuedAt: jwt.NewNumericDate(s.clock.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign custody seal: %w", err)
	}
	return signed, nil
}

// Verify checks the seal signature and that it describes custody.
func (s *Sealer) Verify(seal string, documentID string, custody domain.DigitalCustody) (*SealClaims, error) {
	claims := &SealClaims{}
	_, err := jwt.ParseWithClaims(seal, claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sealIssuer),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIntegrity, err)
	}

	if claims.DocumentID != documentID ||
		!strings.EqualFold(claims.SHA256Hash, custody.SHA256Hash) ||
		claims.FileSize != custody.FileSize ||
		claims.MimeType != custody.MimeType {
		return claims, ErrSealMismatch
	}
	return claims, nil
}
