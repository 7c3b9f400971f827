// Package debounce implementa un temporizador cancelable con un único handle:
// cada Trigger reprograma la acción y solo la última programada se ejecuta.
package debounce

import (
	"sync"
	"time"
)

// Timer handle de una acción programada.
type Timer interface {
	Stop() bool
}

// Scheduler programa f para después de d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer posee a lo sumo un temporizador pendiente.
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	sched  Scheduler
	timer  Timer
	seq    uint64
	closed bool
}

// Option configura un Debouncer.
type Option func(*Debouncer)

// WithScheduler reemplaza el reloj real (tests).
func WithScheduler(s Scheduler) Option {
	return func(d *Debouncer) { d.sched = s }
}

// New crea un debouncer con el periodo de silencio indicado.
func New(delay time.Duration, opts ...Option) *Debouncer {
	d := &Debouncer{delay: delay, sched: realScheduler{}}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Trigger cancela la acción pendiente y programa f. Tras Close no hace nada.
func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = d.sched.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// Un Stop que llega tarde no impide el disparo; seq lo descarta.
		current := !d.closed && d.seq == seq
		if current {
			d.timer = nil
		}
		d.mu.Unlock()
		if current {
			f()
		}
	})
}

// Pending indica si hay una acción programada.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Close cancela lo pendiente y desactiva el debouncer.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.closed = true
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}
