package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
)

// ProductForm campos tal como llegan del formulario HTML (sin coerción).
type ProductForm struct {
	Nome       string `form:"nome" validate:"required,max=200"`
	Descricao  string `form:"descricao" validate:"max=2000"`
	Preco      string `form:"preco" validate:"required"`
	Quantidade string `form:"quantidade" validate:"required"`
}

// ProductPayload cuerpo de POST/PUT /produtos. Preco viaja como número JSON.
type ProductPayload struct {
	Nome       string      `json:"nome"`
	Descricao  string      `json:"descricao"`
	Preco      json.Number `json:"preco"`
	Quantidade int         `json:"quantidade"`
}

// ProductResponse producto tal como lo serializa la API.
type ProductResponse struct {
	ID         entity.ID       `json:"id"`
	Nome       string          `json:"nome"`
	Descricao  string          `json:"descricao"`
	Preco      decimal.Decimal `json:"preco"`
	Quantidade int             `json:"quantidade"`
}

// ProductListResponse {"products": [...]}.
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

// ProductEnvelope {"product": {...}}.
type ProductEnvelope struct {
	Product ProductResponse `json:"product"`
}

// DashboardRowsResponse superficie JSON de GET /dashboard/rows.
type DashboardRowsResponse struct {
	Generation uint64        `json:"generation"`
	Status     string        `json:"status"`
	Message    string        `json:"message,omitempty"`
	Query      string        `json:"query"`
	Perfil     string        `json:"perfil"`
	Products   []ProductView `json:"products"`
}

// ProductView fila del listado con el precio ya formateado.
type ProductView struct {
	ID         string `json:"id"`
	Nome       string `json:"nome"`
	Descricao  string `json:"descricao"`
	Preco      string `json:"preco"`
	Quantidade int    `json:"quantidade"`
	CanEdit    bool   `json:"can_edit"`
	CanDelete  bool   `json:"can_delete"`
}

// NewProductPayload construye el cuerpo de escritura desde la entrada de dominio.
func NewProductPayload(in entity.ProductInput) ProductPayload {
	return ProductPayload{
		Nome:       in.Nome,
		Descricao:  in.Descricao,
		Preco:      json.Number(in.Preco.String()),
		Quantidade: in.Quantidade,
	}
}

// ToEntity convierte la respuesta de la API en entidad.
func (r ProductResponse) ToEntity() entity.Product {
	return entity.Product{
		ID:         r.ID,
		Nome:       r.Nome,
		Descricao:  r.Descricao,
		Preco:      r.Preco,
		Quantidade: r.Quantidade,
	}
}
