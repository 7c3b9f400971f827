package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/catalogo-admin/internal/application/messages"
	"github.com/jhoicas/catalogo-admin/internal/application/ports"
	"github.com/jhoicas/catalogo-admin/internal/application/staging"
	"github.com/jhoicas/catalogo-admin/internal/domain"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
	"github.com/jhoicas/catalogo-admin/internal/domain/repository"
	"github.com/jhoicas/catalogo-admin/pkg/debounce"
	"github.com/jhoicas/catalogo-admin/pkg/logger"
)

// ProductRow fila del listado con su estado de borrado.
type ProductRow struct {
	Product     entity.Product
	DeletePhase staging.Phase // Synced si no hay borrado pendiente
	DeleteError string
}

// DashboardSnapshot copia inmutable del estado del listado.
type DashboardSnapshot struct {
	Generation   uint64 // última búsqueda aplicada
	Status       ListStatus
	Rows         []ProductRow
	Message      string // error del listado o "Nenhum produto encontrado."
	Query        string
	Perfil       entity.Perfil
	Capabilities entity.Capabilities
}

// Products productos visibles.
func (s DashboardSnapshot) Products() []entity.Product {
	out := make([]entity.Product, 0, len(s.Rows))
	for _, r := range s.Rows {
		out = append(out, r.Product)
	}
	return out
}

// DashboardUseCase listado de productos de un navegador: búsqueda con
// debounce, descarte de respuestas viejas por generación y borrado en dos pasos.
type DashboardUseCase struct {
	api       repository.CatalogAPI
	session   ports.Session
	debouncer *debounce.Debouncer
	log       *logger.Logger

	base context.Context
	stop context.CancelFunc

	mu          sync.Mutex
	closed      bool
	mounted     bool
	perfil      entity.Perfil
	query       string
	requested   uint64 // última generación pedida
	fired       uint64 // última generación cuya llamada salió
	applied     uint64 // última generación con resultado aplicado
	status      ListStatus
	products    []entity.Product
	errMsg      string
	flash       string
	cancelFetch context.CancelFunc
	changed     chan struct{}
	deletes     *staging.Table[entity.ID, bool]
}

// DashboardOption configura el caso de uso.
type DashboardOption func(*dashboardOptions)

type dashboardOptions struct {
	delay time.Duration
	sched debounce.Scheduler
	log   *logger.Logger
}

// WithDebounce periodo de silencio de la búsqueda (500ms por defecto).
func WithDebounce(d time.Duration) DashboardOption {
	return func(o *dashboardOptions) { o.delay = d }
}

// WithScheduler reloj del debounce (tests).
func WithScheduler(s debounce.Scheduler) DashboardOption {
	return func(o *dashboardOptions) { o.sched = s }
}

// WithLogger logger del caso de uso.
func WithLogger(l *logger.Logger) DashboardOption {
	return func(o *dashboardOptions) { o.log = l }
}

// NewDashboardUseCase construye el listado para una sesión.
func NewDashboardUseCase(api repository.CatalogAPI, session ports.Session, opts ...DashboardOption) *DashboardUseCase {
	o := dashboardOptions{delay: 500 * time.Millisecond, log: logger.Nop()}
	for _, fn := range opts {
		fn(&o)
	}
	var dopts []debounce.Option
	if o.sched != nil {
		dopts = append(dopts, debounce.WithScheduler(o.sched))
	}
	base, stop := context.WithCancel(context.Background())
	return &DashboardUseCase{
		api:       api,
		session:   session,
		debouncer: debounce.New(o.delay, dopts...),
		log:       o.log.Component("dashboard"),
		base:      base,
		stop:      stop,
		status:    StatusLoading,
		changed:   make(chan struct{}),
		deletes:   staging.New[entity.ID, bool](),
	}
}

// Mount lee el perfil del token. Si el token no se puede decodificar la
// sesión queda limpia y se devuelve domain.ErrInvalidCredential.
// La primera vez programa la carga inicial (también con debounce).
func (uc *DashboardUseCase) Mount(ctx context.Context) error {
	cred, err := uc.session.Credential(ctx)
	if err != nil {
		return err
	}
	uc.mu.Lock()
	uc.perfil = cred.Perfil
	first := !uc.mounted
	uc.mounted = true
	q := uc.query
	uc.mu.Unlock()

	if first {
		uc.Search(q)
	}
	return nil
}

// Search registra el texto de búsqueda y devuelve la generación que lo
// atenderá. Solo un cambio de texto reprograma la llamada.
func (uc *DashboardUseCase) Search(q string) uint64 {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.closed {
		return uc.applied
	}
	if uc.requested > 0 && q == uc.query {
		return uc.requested
	}
	uc.query = q
	uc.requested++
	gen := uc.requested
	uc.debouncer.Trigger(func() { uc.fetch(gen, q) })
	return gen
}

// fetch corre cuando vence el debounce. Cancela la llamada anterior en curso
// y descarta su resultado si llega después.
func (uc *DashboardUseCase) fetch(gen uint64, q string) {
	uc.mu.Lock()
	if uc.closed {
		uc.mu.Unlock()
		return
	}
	if uc.cancelFetch != nil {
		uc.cancelFetch()
	}
	ctx, cancel := context.WithCancel(uc.base)
	uc.cancelFetch = cancel
	uc.fired = gen
	uc.status = StatusLoading
	uc.mu.Unlock()
	defer cancel()

	var products []entity.Product
	token, err := uc.session.Token(ctx)
	if err == nil {
		products, err = uc.api.ListProducts(ctx, token, q)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.closed || gen != uc.fired {
		uc.log.Debug().Uint64("gen", gen).Uint64("fired", uc.fired).Msg("respuesta descartada")
		return
	}
	uc.cancelFetch = nil
	uc.applied = gen
	if err != nil {
		uc.log.Warn().Err(err).Str("nome", q).Msg("error cargando productos")
		uc.status = StatusError
		uc.errMsg = messages.ProductsLoadFailed
	} else {
		uc.status = StatusReady
		uc.products = products
		uc.errMsg = ""
		uc.deletes.Reconcile(func(id entity.ID) (bool, bool) {
			return false, containsProduct(products, id)
		})
	}
	uc.broadcastLocked()
}

// Await espera hasta que la generación gen (o una posterior) esté aplicada.
func (uc *DashboardUseCase) Await(ctx context.Context, gen uint64) (DashboardSnapshot, error) {
	for {
		uc.mu.Lock()
		if uc.applied >= gen || uc.closed {
			s := uc.snapshotLocked()
			uc.mu.Unlock()
			return s, nil
		}
		ch := uc.changed
		uc.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return uc.Snapshot(), ctx.Err()
		}
	}
}

// Snapshot estado actual sin esperar.
func (uc *DashboardUseCase) Snapshot() DashboardSnapshot {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.snapshotLocked()
}

// ConsumeFlash devuelve y borra el mensaje del último borrado.
func (uc *DashboardUseCase) ConsumeFlash() string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	f := uc.flash
	uc.flash = ""
	return f
}

// ── Borrado ───────────────────────────────────────────────────────────────────

// RequestDelete abre la confirmación para id. No llama a la API.
func (uc *DashboardUseCase) RequestDelete(id entity.ID) error {
	uc.mu.Lock()
	caps := entity.CapabilitiesFor(uc.perfil)
	exists := containsProduct(uc.products, id)
	uc.mu.Unlock()
	if !caps.CanDeleteProduct {
		return domain.ErrForbidden
	}
	if !exists {
		return domain.ErrNotFound
	}
	return uc.deletes.Stage(id, true, false)
}

// CancelDelete cierra la confirmación sin llamar a la API.
func (uc *DashboardUseCase) CancelDelete(id entity.ID) error {
	return uc.deletes.Cancel(id)
}

// PendingDelete indica si id espera confirmación (o falló).
func (uc *DashboardUseCase) PendingDelete(id entity.ID) bool {
	e, ok := uc.deletes.Get(id)
	return ok && e.Phase != staging.InFlight
}

// ConfirmDelete borra id en la API y, si el servidor confirma, quita esa fila.
func (uc *DashboardUseCase) ConfirmDelete(ctx context.Context, id entity.ID) error {
	uc.mu.Lock()
	caps := entity.CapabilitiesFor(uc.perfil)
	uc.mu.Unlock()
	if !caps.CanDeleteProduct {
		return domain.ErrForbidden
	}
	if _, err := uc.deletes.Begin(id); err != nil {
		return err
	}

	token, err := uc.session.Token(ctx)
	if err != nil {
		uc.deletes.Fail(id, err)
		uc.setFlash(messages.NotAuthenticated)
		return err
	}
	if err := uc.api.DeleteProduct(ctx, token, id); err != nil {
		uc.log.Warn().Err(err).Str("id", id.String()).Msg("error eliminando producto")
		uc.deletes.Fail(id, err)
		uc.setFlash(messages.DeleteFailed)
		return err
	}

	uc.deletes.Succeed(id)
	uc.mu.Lock()
	kept := uc.products[:0:0]
	for _, p := range uc.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	uc.products = kept
	uc.flash = messages.DeleteSuccess
	uc.broadcastLocked()
	uc.mu.Unlock()
	return nil
}

// Logout limpia la sesión y detiene el listado.
func (uc *DashboardUseCase) Logout(ctx context.Context) error {
	uc.Close()
	return uc.session.Clear(ctx)
}

// Close cancela el debounce pendiente y la llamada en curso.
func (uc *DashboardUseCase) Close() {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.closed {
		return
	}
	uc.closed = true
	uc.debouncer.Close()
	if uc.cancelFetch != nil {
		uc.cancelFetch()
		uc.cancelFetch = nil
	}
	uc.stop()
	uc.broadcastLocked()
}

func (uc *DashboardUseCase) setFlash(msg string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.flash = msg
	uc.broadcastLocked()
}

func (uc *DashboardUseCase) broadcastLocked() {
	close(uc.changed)
	uc.changed = make(chan struct{})
}

func (uc *DashboardUseCase) snapshotLocked() DashboardSnapshot {
	s := DashboardSnapshot{
		Generation:   uc.applied,
		Status:       uc.status,
		Message:      uc.errMsg,
		Query:        uc.query,
		Perfil:       uc.perfil,
		Capabilities: entity.CapabilitiesFor(uc.perfil),
	}
	s.Rows = make([]ProductRow, 0, len(uc.products))
	for _, p := range uc.products {
		row := ProductRow{Product: p, DeletePhase: staging.Synced}
		if e, ok := uc.deletes.Get(p.ID); ok {
			row.DeletePhase = e.Phase
			if e.Err != nil {
				row.DeleteError = messages.DeleteFailed
			}
		}
		s.Rows = append(s.Rows, row)
	}
	if s.Status == StatusReady && len(s.Rows) == 0 {
		s.Message = messages.ProductsEmpty
	}
	return s
}

func containsProduct(products []entity.Product, id entity.ID) bool {
	for _, p := range products {
		if p.ID == id {
			return true
		}
	}
	return false
}

// IsSessionError indica si err obliga a volver al login.
func IsSessionError(err error) bool {
	return errors.Is(err, domain.ErrUnauthenticated) || errors.Is(err, domain.ErrInvalidCredential)
}
