package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
	"github.com/jhoicas/catalogo-admin/internal/infrastructure/pdf"
)

func TestGenerateCatalogPDF(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator()

	out, err := g.GenerateCatalogPDF(context.Background(), pdf.CatalogReport{
		Query:       "café",
		Usuario:     "Ana",
		Perfil:      entity.PerfilSupervisor,
		GeneratedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Products: []entity.Product{
			{ID: "1", Nome: "Café", Preco: decimal.RequireFromString("12.50"), Quantidade: 3},
		},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateCatalogPDF_ListadoVacio(t *testing.T) {
	out, err := pdf.NewMarotoPDFGenerator().GenerateCatalogPDF(context.Background(), pdf.CatalogReport{GeneratedAt: time.Now()})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateCatalogPDF_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pdf.NewMarotoPDFGenerator().GenerateCatalogPDF(ctx, pdf.CatalogReport{})
	assert.ErrorIs(t, err, context.Canceled)
}
