package entity

import (
	"github.com/shopspring/decimal"
)

// Product producto del catálogo tal como lo devuelve la API.
type Product struct {
	ID         ID
	Nome       string
	Descricao  string
	Preco      decimal.Decimal // >= 0
	Quantidade int             // >= 0
}

// ProductInput datos de alta o edición de un producto.
type ProductInput struct {
	Nome       string
	Descricao  string
	Preco      decimal.Decimal
	Quantidade int
}

// Input devuelve los campos editables del producto.
func (p Product) Input() ProductInput {
	return ProductInput{
		Nome:       p.Nome,
		Descricao:  p.Descricao,
		Preco:      p.Preco,
		Quantidade: p.Quantidade,
	}
}
