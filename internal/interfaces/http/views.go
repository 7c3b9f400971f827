package http

import (
	"github.com/jhoicas/catalogo-admin/internal/application/dto"
	"github.com/jhoicas/catalogo-admin/internal/application/usecase"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
	"github.com/jhoicas/catalogo-admin/pkg/money"
)

// dashboardView datos de dashboard.html y del parcial "rows".
type dashboardView struct {
	Generation   uint64
	Query        string
	Loading      bool
	Error        string
	Empty        string
	Rows         []usecase.ProductRow
	Capabilities entity.Capabilities
}

func newDashboardView(s usecase.DashboardSnapshot) dashboardView {
	v := dashboardView{
		Generation:   s.Generation,
		Query:        s.Query,
		Rows:         s.Rows,
		Capabilities: s.Capabilities,
	}
	switch s.Status {
	case usecase.StatusLoading:
		v.Loading = true
	case usecase.StatusError:
		v.Error = s.Message
	case usecase.StatusReady:
		if len(s.Rows) == 0 {
			v.Empty = s.Message
		}
	}
	return v
}

func newRowsResponse(s usecase.DashboardSnapshot) dto.DashboardRowsResponse {
	out := dto.DashboardRowsResponse{
		Generation: s.Generation,
		Status:     string(s.Status),
		Message:    s.Message,
		Query:      s.Query,
		Perfil:     string(s.Perfil),
		Products:   make([]dto.ProductView, 0, len(s.Rows)),
	}
	for _, r := range s.Rows {
		out.Products = append(out.Products, dto.ProductView{
			ID:         r.Product.ID.String(),
			Nome:       r.Product.Nome,
			Descricao:  r.Product.Descricao,
			Preco:      money.FormatBRL(r.Product.Preco),
			Quantidade: r.Product.Quantidade,
			CanEdit:    s.Capabilities.CanEditProduct,
			CanDelete:  s.Capabilities.CanDeleteProduct,
		})
	}
	return out
}

type deleteView struct {
	Question string
	Product  entity.Product
}

type productFormView struct {
	Heading string
	Action  string
	Submit  string
	Form    dto.ProductForm
}
