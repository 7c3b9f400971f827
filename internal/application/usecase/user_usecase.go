package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jhoicas/catalogo-admin/internal/application/messages"
	"github.com/jhoicas/catalogo-admin/internal/application/ports"
	"github.com/jhoicas/catalogo-admin/internal/application/staging"
	"github.com/jhoicas/catalogo-admin/internal/domain"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
	"github.com/jhoicas/catalogo-admin/internal/domain/repository"
	"github.com/jhoicas/catalogo-admin/pkg/logger"
)

// UserRow fila de la tabla de perfiles.
type UserRow struct {
	User      entity.User
	Displayed entity.Perfil // pendiente si lo hay, si no el del servidor
	Phase     staging.Phase
	Label     string // "Supervisor -> Analista" mientras hay cambio pendiente
	Badge     string
	Error     string
}

// Pending indica si la fila muestra los controles confirmar/cancelar.
func (r UserRow) Pending() bool { return r.Phase != staging.Synced }

// UserRolesSnapshot copia del estado de la tabla.
type UserRolesSnapshot struct {
	Status  ListStatus
	Rows    []UserRow
	Message string
	Perfis  []entity.Perfil
}

// UserRolesUseCase tabla de usuarios con cambios de perfil preparados
// localmente y confirmados uno a uno.
type UserRolesUseCase struct {
	api     repository.CatalogAPI
	session ports.Session
	log     *logger.Logger

	mu      sync.Mutex
	status  ListStatus
	users   []entity.User
	errMsg  string
	flash   string
	flashOK bool
	pending *staging.Table[entity.ID, entity.Perfil]
}

// NewUserRolesUseCase construye la tabla para una sesión.
func NewUserRolesUseCase(api repository.CatalogAPI, session ports.Session, log *logger.Logger) *UserRolesUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserRolesUseCase{
		api:     api,
		session: session,
		log:     log.Component("user_roles"),
		status:  StatusLoading,
		pending: staging.New[entity.ID, entity.Perfil](),
	}
}

// Load trae la lista completa. 403 tiene mensaje propio.
func (uc *UserRolesUseCase) Load(ctx context.Context) error {
	uc.mu.Lock()
	uc.status = StatusLoading
	uc.mu.Unlock()

	var users []entity.User
	token, err := uc.session.Token(ctx)
	if err == nil {
		users, err = uc.api.ListUsers(ctx, token)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err != nil {
		uc.status = StatusError
		if errors.Is(err, domain.ErrForbidden) {
			// sin permiso la tabla no se muestra: los cambios preparados se pierden
			uc.errMsg = messages.UsersForbidden
			uc.users = nil
			uc.pending.Clear()
		} else {
			uc.log.Warn().Err(err).Msg("error cargando usuarios")
			uc.errMsg = messages.UsersLoadFailed
		}
		return err
	}
	uc.status = StatusReady
	uc.errMsg = ""
	uc.users = users
	uc.pending.Reconcile(func(id entity.ID) (entity.Perfil, bool) {
		u, ok := findUser(users, id)
		return u.Perfil, ok
	})
	return nil
}

// Stage prepara el perfil elegido en el selector. Solo acepta el conjunto cerrado.
func (uc *UserRolesUseCase) Stage(id entity.ID, raw string) error {
	perfil, err := entity.ParsePerfil(raw)
	if err != nil {
		return err
	}
	uc.mu.Lock()
	u, ok := findUser(uc.users, id)
	uc.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}
	return uc.pending.Stage(id, perfil, u.Perfil)
}

// Cancel descarta el cambio preparado sin llamar a la API.
func (uc *UserRolesUseCase) Cancel(id entity.ID) error {
	return uc.pending.Cancel(id)
}

// Confirm envía exactamente una actualización con el valor preparado y, si
// el servidor acepta, limpia la entrada y recarga la lista.
func (uc *UserRolesUseCase) Confirm(ctx context.Context, id entity.ID) error {
	perfil, err := uc.pending.Begin(id)
	if err != nil {
		return err
	}

	token, err := uc.session.Token(ctx)
	if err != nil {
		uc.pending.Fail(id, err)
		uc.setFlash(messages.NotAuthenticated, false)
		return err
	}
	msg, err := uc.api.UpdateUserProfile(ctx, token, id, perfil)
	if err != nil {
		uc.pending.Fail(id, err)
		flash := messages.ProfileUpdateFail
		if serverMsg, ok := domain.ServerMessage(err); ok {
			flash = serverMsg
		}
		uc.setFlash(flash, false)
		return fmt.Errorf("confirmar perfil: %w", err)
	}

	uc.pending.Succeed(id)
	uc.setFlash(msg, true)
	if err := uc.Load(ctx); err != nil {
		return fmt.Errorf("recargar usuarios: %w", err)
	}
	return nil
}

// Snapshot estado actual.
func (uc *UserRolesUseCase) Snapshot() UserRolesSnapshot {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s := UserRolesSnapshot{Status: uc.status, Message: uc.errMsg, Perfis: entity.Perfis()}
	s.Rows = make([]UserRow, 0, len(uc.users))
	for _, u := range uc.users {
		row := UserRow{User: u, Displayed: u.Perfil, Phase: staging.Synced, Label: u.Perfil.String()}
		if e, ok := uc.pending.Get(u.ID); ok {
			row.Displayed = e.Value
			row.Phase = e.Phase
			row.Label = fmt.Sprintf("%s -> %s", u.Perfil, e.Value)
			if e.Err != nil {
				row.Error = messages.ProfileUpdateFail
			}
		}
		row.Badge = row.Displayed.BadgeClass()
		s.Rows = append(s.Rows, row)
	}
	return s
}

// ConsumeFlash devuelve y borra el último mensaje de confirmación y si fue un éxito.
func (uc *UserRolesUseCase) ConsumeFlash() (string, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	f, ok := uc.flash, uc.flashOK
	uc.flash, uc.flashOK = "", false
	return f, ok
}

func (uc *UserRolesUseCase) setFlash(msg string, ok bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.flash, uc.flashOK = msg, ok
}

func findUser(users []entity.User, id entity.ID) (entity.User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return entity.User{}, false
}
