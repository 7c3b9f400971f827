package http

import (
	"sync"
	"time"

	"github.com/jhoicas/catalogo-admin/internal/application/auth"
	"github.com/jhoicas/catalogo-admin/internal/application/usecase"
	"github.com/jhoicas/catalogo-admin/internal/domain/repository"
	"github.com/jhoicas/catalogo-admin/pkg/logger"
)

// Workspace estado de pantalla de un navegador: el listado montado y la
// tabla de perfiles, ambos ligados a su slot de sesión.
type Workspace struct {
	Slot  *auth.Slot
	Users *usecase.UserRolesUseCase

	mu        sync.Mutex
	dashboard *usecase.DashboardUseCase
	lastSeen  time.Time // protegido por Registry.mu
}

// Dashboard listado montado actualmente.
func (w *Workspace) Dashboard() *usecase.DashboardUseCase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dashboard
}

// Registry un Workspace por id de sesión del navegador.
type Registry struct {
	api      repository.CatalogAPI
	sessions *auth.SessionManager
	log      *logger.Logger
	dashOpts []usecase.DashboardOption
	now      func() time.Time

	mu    sync.Mutex
	items map[string]*Workspace
}

// NewRegistry construye el registro. dashOpts se aplica a cada listado que se monta.
func NewRegistry(api repository.CatalogAPI, sessions *auth.SessionManager, log *logger.Logger, dashOpts ...usecase.DashboardOption) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	opts := append([]usecase.DashboardOption{usecase.WithLogger(log)}, dashOpts...)
	return &Registry{
		api:      api,
		sessions: sessions,
		log:      log.Component("workspaces"),
		dashOpts: opts,
		now:      time.Now,
		items:    make(map[string]*Workspace),
	}
}

// WithClock reemplaza el reloj usado para la inactividad (tests).
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

// Get devuelve (o crea) el workspace de sid.
func (r *Registry) Get(sid string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.items[sid]
	if !ok {
		slot := r.sessions.Slot(sid)
		ws = &Workspace{
			Slot:      slot,
			Users:     usecase.NewUserRolesUseCase(r.api, slot, r.log),
			dashboard: usecase.NewDashboardUseCase(r.api, slot, r.dashOpts...),
		}
		r.items[sid] = ws
	}
	ws.lastSeen = r.now()
	return ws
}

// Remount reemplaza el listado de sid por uno nuevo (recarga de página) y
// devuelve el mensaje pendiente del anterior.
func (r *Registry) Remount(sid string) (*Workspace, string) {
	ws := r.Get(sid)
	ws.mu.Lock()
	old := ws.dashboard
	ws.dashboard = usecase.NewDashboardUseCase(r.api, ws.Slot, r.dashOpts...)
	ws.mu.Unlock()

	flash := old.ConsumeFlash()
	old.Close()
	return ws, flash
}

// Drop cierra y olvida el workspace de sid (logout o credencial inválida).
func (r *Registry) Drop(sid string) {
	r.mu.Lock()
	ws, ok := r.items[sid]
	delete(r.items, sid)
	r.mu.Unlock()
	if ok {
		ws.Dashboard().Close()
	}
}

// Sweep cierra los workspaces sin actividad durante idle. Devuelve cuántos quitó.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)
	var stale []*Workspace

	r.mu.Lock()
	for sid, ws := range r.items {
		if ws.lastSeen.Before(cutoff) {
			stale = append(stale, ws)
			delete(r.items, sid)
		}
	}
	r.mu.Unlock()

	for _, ws := range stale {
		ws.Dashboard().Close()
	}
	if len(stale) > 0 {
		r.log.Debug().Int("count", len(stale)).Msg("workspaces inactivos cerrados")
	}
	return len(stale)
}

// Len número de workspaces vivos.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
