package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/jhoicas/catalogo-admin/internal/domain"
	"github.com/jhoicas/catalogo-admin/internal/domain/repository"
)

var _ repository.SessionStore = (*SealedStore)(nil)

const nonceSize = 24

// SealedStore cifra el token con NaCl secretbox antes de delegar en otro almacén.
// Un valor que no se puede abrir (clave rotada o manipulado) cuenta como sesión vacía.
type SealedStore struct {
	inner repository.SessionStore
	key   [32]byte
}

// NewSealedStore deriva la clave de secret con HKDF-SHA256.
func NewSealedStore(inner repository.SessionStore, secret string) (*SealedStore, error) {
	if secret == "" {
		return nil, fmt.Errorf("session: secret vacío")
	}
	s := &SealedStore{inner: inner}
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("catalogo-admin session token"))
	if _, err := io.ReadFull(kdf, s.key[:]); err != nil {
		return nil, fmt.Errorf("session: derivar clave: %w", err)
	}
	return s, nil
}

func (s *SealedStore) Set(ctx context.Context, sid, token string, ttl time.Duration) error {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("session: nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(token), &nonce, &s.key)
	return s.inner.Set(ctx, sid, base64.RawURLEncoding.EncodeToString(sealed), ttl)
}

func (s *SealedStore) Get(ctx context.Context, sid string) (string, error) {
	raw, err := s.inner.Get(ctx, sid)
	if err != nil {
		return "", err
	}
	token, err := s.open(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrNoSession, err)
	}
	return token, nil
}

func (s *SealedStore) Clear(ctx context.Context, sid string) error {
	return s.inner.Clear(ctx, sid)
}

func (s *SealedStore) open(raw string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return "", err
	}
	if len(b) < nonceSize+secretbox.Overhead {
		return "", errors.New("valor sellado demasiado corto")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], b[:nonceSize])
	plain, ok := secretbox.Open(nil, b[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", errors.New("no se pudo abrir el valor sellado")
	}
	return string(plain), nil
}
