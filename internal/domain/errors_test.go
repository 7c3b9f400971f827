package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/catalogo-admin/internal/domain"
)

func TestAPIError_IsSegunStatus(t *testing.T) {
	forbidden := fmt.Errorf("list users: %w", &domain.APIError{Status: 403, Message: "sem permissão"})

	assert.ErrorIs(t, forbidden, domain.ErrForbidden)
	assert.NotErrorIs(t, forbidden, domain.ErrNotFound)
	assert.ErrorIs(t, &domain.APIError{Status: 401}, domain.ErrUnauthenticated)
	assert.ErrorIs(t, &domain.APIError{Status: 404}, domain.ErrNotFound)
}

func TestServerMessage(t *testing.T) {
	msg, ok := domain.ServerMessage(fmt.Errorf("x: %w", &domain.APIError{Status: 400, Message: "Email já cadastrado."}))
	assert.True(t, ok)
	assert.Equal(t, "Email já cadastrado.", msg)

	_, ok = domain.ServerMessage(&domain.APIError{Status: 500})
	assert.False(t, ok)

	_, ok = domain.ServerMessage(fmt.Errorf("%w: dial tcp", domain.ErrConnection))
	assert.False(t, ok)
}

func TestIsServerResponse(t *testing.T) {
	assert.True(t, domain.IsServerResponse(&domain.APIError{Status: 500}))
	assert.False(t, domain.IsServerResponse(domain.ErrConnection))
	assert.False(t, domain.IsServerResponse(errors.New("otro")))
}
