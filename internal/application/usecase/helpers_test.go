package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-admin/internal/application/auth"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
	"github.com/jhoicas/catalogo-admin/internal/infrastructure/session"
	"github.com/jhoicas/catalogo-admin/pkg/jwt"
)

// newSession devuelve un slot con un token firmado para perfil ("" = sin token).
func newSession(t *testing.T, perfil string) (*auth.Slot, string) {
	t.Helper()
	slot := auth.NewSessionManager(session.NewMemoryStore(), time.Hour, nil).Slot("sid-test")
	if perfil == "" {
		return slot, ""
	}
	token, err := jwt.Generate("api-secret", "1", "Ana", "ana@example.com", perfil, time.Hour)
	require.NoError(t, err)
	require.NoError(t, slot.Set(context.Background(), token))
	return slot, token
}

func product(id, nome, preco string, qtd int) entity.Product {
	return entity.Product{ID: entity.ID(id), Nome: nome, Preco: decimal.RequireFromString(preco), Quantidade: qtd}
}
