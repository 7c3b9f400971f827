package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/catalogo-admin/internal/application/ports"
	"github.com/jhoicas/catalogo-admin/internal/domain"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
	"github.com/jhoicas/catalogo-admin/internal/domain/repository"
	"github.com/jhoicas/catalogo-admin/pkg/jwt"
	"github.com/jhoicas/catalogo-admin/pkg/logger"
)

var _ ports.Session = (*Slot)(nil)

// SessionManager entrega slots de sesión ligados a un id de navegador.
type SessionManager struct {
	store repository.SessionStore
	ttl   time.Duration
	log   *logger.Logger
}

// NewSessionManager construye el gestor sobre un almacén.
func NewSessionManager(store repository.SessionStore, ttl time.Duration, log *logger.Logger) *SessionManager {
	if log == nil {
		log = logger.Nop()
	}
	return &SessionManager{store: store, ttl: ttl, log: log.Component("session")}
}

// Slot devuelve el slot del navegador sid.
func (m *SessionManager) Slot(sid string) *Slot {
	return &Slot{m: m, sid: sid}
}

// Slot contexto de sesión explícito de un navegador (set/get/clear).
type Slot struct {
	m   *SessionManager
	sid string
}

// ID id de sesión del navegador.
func (s *Slot) ID() string { return s.sid }

func (s *Slot) Set(ctx context.Context, token string) error {
	if err := s.m.store.Set(ctx, s.sid, token, s.m.ttl); err != nil {
		return fmt.Errorf("guardar sesión: %w", err)
	}
	return nil
}

// Token lee el token. Un fallo del almacén se registra y cuenta como ausencia.
func (s *Slot) Token(ctx context.Context) (string, error) {
	token, err := s.m.store.Get(ctx, s.sid)
	if err != nil {
		if !errors.Is(err, domain.ErrNoSession) {
			s.m.log.Error().Err(err).Str("sid", s.sid).Msg("error leyendo sesión")
		}
		return "", fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}
	if token == "" {
		return "", domain.ErrUnauthenticated
	}
	return token, nil
}

func (s *Slot) Clear(ctx context.Context) error {
	if err := s.m.store.Clear(ctx, s.sid); err != nil {
		return fmt.Errorf("limpiar sesión: %w", err)
	}
	return nil
}

func (s *Slot) Credential(ctx context.Context) (*entity.Credential, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	cred, err := DecodeCredential(token)
	if err != nil {
		if clearErr := s.Clear(ctx); clearErr != nil {
			s.m.log.Error().Err(clearErr).Str("sid", s.sid).Msg("no se pudo limpiar la sesión inválida")
		}
		return nil, err
	}
	return cred, nil
}

// DecodeCredential lee los claims del token sin verificarlo. Un token
// malformado o con un perfil fuera del conjunto es ErrInvalidCredential.
func DecodeCredential(token string) (*entity.Credential, error) {
	claims, err := jwt.Decode(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredential, err)
	}
	perfil, err := entity.ParsePerfil(claims.Perfil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredential, err)
	}
	cred := &entity.Credential{
		Token:   token,
		Subject: claims.Subject,
		Nome:    claims.Nome,
		Email:   claims.Email,
		Perfil:  perfil,
	}
	if claims.ExpiresAt != nil {
		cred.ExpiresAt = claims.ExpiresAt.Time
	}
	return cred, nil
}
