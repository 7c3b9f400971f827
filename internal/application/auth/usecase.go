package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"github.com/jhoicas/catalogo-admin/internal/application/dto"
	"github.com/jhoicas/catalogo-admin/internal/application/messages"
	"github.com/jhoicas/catalogo-admin/internal/application/ports"
	"github.com/jhoicas/catalogo-admin/internal/domain"
	"github.com/jhoicas/catalogo-admin/internal/domain/repository"
	"github.com/jhoicas/catalogo-admin/pkg/logger"
)

// Rutas de destino tras login y registro.
const (
	DashboardPath = "/dashboard"
	LoginPath     = "/"
)

// AuthUseCase casos de uso de autenticación: login y registro contra la API.
type AuthUseCase struct {
	api           repository.CatalogAPI
	validate      *validator.Validate
	redirectDelay time.Duration
	log           *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(api repository.CatalogAPI, redirectDelay time.Duration, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{api: api, validate: validator.New(), redirectDelay: redirectDelay, log: log.Component("auth")}
}

// Login envía las credenciales y, si la API devuelve token, lo guarda en la sesión.
// Cualquier fallo muestra el mismo mensaje genérico.
func (uc *AuthUseCase) Login(ctx context.Context, session ports.Session, in dto.LoginRequest) dto.Outcome {
	in.Email = strings.TrimSpace(in.Email)
	if err := uc.validate.Struct(in); err != nil {
		return dto.Outcome{Message: messages.LoginFailed}
	}

	token, err := uc.api.Login(ctx, in.Email, in.Senha)
	if err != nil {
		uc.log.Info().Err(err).Msg("login rechazado")
		return dto.Outcome{Message: messages.LoginFailed}
	}
	if err := session.Set(ctx, token); err != nil {
		uc.log.Error().Err(err).Msg("no se pudo guardar el token")
		return dto.Outcome{Message: messages.LoginFailed}
	}
	return dto.Outcome{
		Message:       messages.LoginSuccess,
		Success:       true,
		RedirectTo:    DashboardPath,
		RedirectAfter: uc.redirectDelay,
	}
}

// Register crea la cuenta en la API y muestra su mensaje.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) dto.Outcome {
	in.Nome = strings.TrimSpace(in.Nome)
	in.Email = strings.TrimSpace(in.Email)
	if err := uc.validate.Struct(in); err != nil {
		return dto.Outcome{Message: messages.RegisterInvalid}
	}

	msg, err := uc.api.Register(ctx, in.Nome, in.Email, in.Senha)
	if err != nil {
		if serverMsg, ok := domain.ServerMessage(err); ok {
			return dto.Outcome{Message: serverMsg}
		}
		if errors.Is(err, domain.ErrConnection) {
			return dto.Outcome{Message: messages.ConnectionError}
		}
		uc.log.Warn().Err(err).Msg("registro fallido")
		return dto.Outcome{Message: messages.RegisterFallback}
	}
	return dto.Outcome{
		Message:       msg,
		Success:       true,
		RedirectTo:    LoginPath,
		RedirectAfter: uc.redirectDelay,
	}
}
