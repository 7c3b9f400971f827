package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/catalogo-admin/internal/domain"
	"github.com/jhoicas/catalogo-admin/internal/domain/repository"
)

var _ repository.SessionStore = (*SessionRepo)(nil)

const sessionSchema = `
	CREATE TABLE IF NOT EXISTS console_sessions (
		sid        TEXT PRIMARY KEY,
		token      TEXT NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS console_sessions_expires_at_idx ON console_sessions (expires_at);`

// SessionRepo implementación del puerto SessionStore sobre PostgreSQL.
type SessionRepo struct {
	pool *pgxpool.Pool
}

// NewSessionRepository construye el adaptador de persistencia para sesiones.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

// EnsureSchema crea la tabla de sesiones si no existe.
func (r *SessionRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, sessionSchema); err != nil {
		return fmt.Errorf("create console_sessions: %w", err)
	}
	return nil
}

// Set guarda o reemplaza el token de la sesión.
func (r *SessionRepo) Set(ctx context.Context, sid, token string, ttl time.Duration) error {
	query := `
		INSERT INTO console_sessions (sid, token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (sid) DO UPDATE SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at`
	if _, err := r.pool.Exec(ctx, query, sid, token, time.Now().Add(ttl)); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Get devuelve el token vigente o domain.ErrNoSession.
func (r *SessionRepo) Get(ctx context.Context, sid string) (string, error) {
	var token string
	err := r.pool.QueryRow(ctx,
		`SELECT token FROM console_sessions WHERE sid = $1 AND expires_at > now()`, sid,
	).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUndefinedTable(err) {
			return "", domain.ErrNoSession
		}
		return "", fmt.Errorf("get session: %w", err)
	}
	return token, nil
}

// Clear elimina la sesión; no falla si no existía.
func (r *SessionRepo) Clear(ctx context.Context, sid string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM console_sessions WHERE sid = $1`, sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpired borra las sesiones vencidas y devuelve cuántas eliminó.
func (r *SessionRepo) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM console_sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
