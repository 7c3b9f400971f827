// Package staging guarda cambios por fila que el usuario prepara antes de
// confirmarlos contra la API. Cada fila está en uno de cuatro estados:
// sincronizada (sin entrada), preparada, en curso o fallida.
package staging

import (
	"sync"

	"github.com/jhoicas/catalogo-admin/internal/domain"
)

// Phase estado de una entrada.
type Phase int

const (
	Synced Phase = iota
	Staged
	InFlight
	Failed
)

func (p Phase) String() string {
	switch p {
	case Synced:
		return "synced"
	case Staged:
		return "staged"
	case InFlight:
		return "in-flight"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Entry cambio pendiente de una fila.
type Entry[V any] struct {
	Value V
	Phase Phase
	Err   error // solo en Failed
}

// Table a lo sumo una entrada por clave.
type Table[K comparable, V comparable] struct {
	mu      sync.Mutex
	entries map[K]*Entry[V]
}

// New crea una tabla vacía.
func New[K comparable, V comparable]() *Table[K, V] {
	return &Table[K, V]{entries: make(map[K]*Entry[V])}
}

// Stage prepara v para k. Si v coincide con el valor del servidor la entrada
// se elimina. Una entrada en curso no se puede reemplazar.
func (t *Table[K, V]) Stage(k K, v, server V) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[k]; ok && e.Phase == InFlight {
		return domain.ErrInFlight
	}
	if v == server {
		delete(t.entries, k)
		return nil
	}
	t.entries[k] = &Entry[V]{Value: v, Phase: Staged}
	return nil
}

// Get devuelve una copia de la entrada de k.
func (t *Table[K, V]) Get(k K) (Entry[V], bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[k]
	if !ok {
		return Entry[V]{Phase: Synced}, false
	}
	return *e, true
}

// Begin pasa la entrada a InFlight y devuelve el valor a enviar.
// Una entrada fallida puede reintentarse.
func (t *Table[K, V]) Begin(k K) (V, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var zero V
	e, ok := t.entries[k]
	if !ok {
		return zero, domain.ErrNotStaged
	}
	if e.Phase == InFlight {
		return zero, domain.ErrInFlight
	}
	e.Phase = InFlight
	e.Err = nil
	return e.Value, nil
}

// Succeed elimina la entrada tras la confirmación del servidor.
func (t *Table[K, V]) Succeed(k K) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, k)
}

// Fail deja la entrada en Failed conservando el valor preparado.
func (t *Table[K, V]) Fail(k K, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[k]; ok {
		e.Phase = Failed
		e.Err = err
	}
}

// Cancel descarta la entrada sin tocar el servidor.
func (t *Table[K, V]) Cancel(k K) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[k]
	if !ok {
		return nil
	}
	if e.Phase == InFlight {
		return domain.ErrInFlight
	}
	delete(t.entries, k)
	return nil
}

// Reconcile descarta las entradas (no en curso) cuya fila ya no existe en el
// servidor o cuyo valor del servidor ya es el preparado.
func (t *Table[K, V]) Reconcile(server func(K) (V, bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, e := range t.entries {
		if e.Phase == InFlight {
			continue
		}
		v, ok := server(k)
		if !ok || v == e.Value {
			delete(t.entries, k)
		}
	}
}

// Len número de entradas.
func (t *Table[K, V]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Clear vacía la tabla.
func (t *Table[K, V]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.entries)
}
