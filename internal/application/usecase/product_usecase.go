package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-admin/internal/application/dto"
	"github.com/jhoicas/catalogo-admin/internal/application/messages"
	"github.com/jhoicas/catalogo-admin/internal/application/ports"
	"github.com/jhoicas/catalogo-admin/internal/domain"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
	"github.com/jhoicas/catalogo-admin/internal/domain/repository"
	"github.com/jhoicas/catalogo-admin/pkg/logger"
)

// DashboardPath destino tras guardar un producto.
const DashboardPath = "/dashboard"

// InvalidFieldError campo del formulario que no se pudo convertir.
type InvalidFieldError struct {
	Field   string
	Message string
}

func (e *InvalidFieldError) Error() string { return e.Field + ": " + e.Message }

func (e *InvalidFieldError) Unwrap() error { return domain.ErrInvalidInput }

// ProductUseCase formularios de alta y edición de productos.
type ProductUseCase struct {
	api           repository.CatalogAPI
	validate      *validator.Validate
	redirectDelay time.Duration
	log           *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(api repository.CatalogAPI, redirectDelay time.Duration, log *logger.Logger) *ProductUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{api: api, validate: validator.New(), redirectDelay: redirectDelay, log: log.Component("product")}
}

// ParseProductForm convierte preco a decimal (acepta "," o ".") y quantidade a entero.
func (uc *ProductUseCase) ParseProductForm(form dto.ProductForm) (entity.ProductInput, error) {
	form.Nome = strings.TrimSpace(form.Nome)
	form.Preco = strings.TrimSpace(form.Preco)
	form.Quantidade = strings.TrimSpace(form.Quantidade)

	if err := uc.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "Preco":
				return entity.ProductInput{}, &InvalidFieldError{Field: "preco", Message: messages.InvalidPreco}
			case "Quantidade":
				return entity.ProductInput{}, &InvalidFieldError{Field: "quantidade", Message: messages.InvalidQuantidade}
			}
		}
		return entity.ProductInput{}, &InvalidFieldError{Field: "nome", Message: messages.InvalidNome}
	}

	preco, err := parsePreco(form.Preco)
	if err != nil || preco.IsNegative() {
		return entity.ProductInput{}, &InvalidFieldError{Field: "preco", Message: messages.InvalidPreco}
	}
	quantidade, err := strconv.Atoi(form.Quantidade)
	if err != nil || quantidade < 0 {
		return entity.ProductInput{}, &InvalidFieldError{Field: "quantidade", Message: messages.InvalidQuantidade}
	}
	return entity.ProductInput{
		Nome:       form.Nome,
		Descricao:  strings.TrimSpace(form.Descricao),
		Preco:      preco,
		Quantidade: quantidade,
	}, nil
}

func parsePreco(s string) (decimal.Decimal, error) {
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

// Create envía el alta. Tras cualquier respuesta del servidor se redirige al listado.
func (uc *ProductUseCase) Create(ctx context.Context, session ports.Session, form dto.ProductForm) dto.Outcome {
	token, err := session.Token(ctx)
	if err != nil {
		return dto.Outcome{Message: messages.NotAuthenticated}
	}
	in, err := uc.ParseProductForm(form)
	if err != nil {
		return dto.Outcome{Message: fieldMessage(err)}
	}
	msg, err := uc.api.CreateProduct(ctx, token, in)
	return uc.outcome(msg, err, messages.AddFailed)
}

// Load trae el producto para precargar el formulario de edición.
func (uc *ProductUseCase) Load(ctx context.Context, session ports.Session, id entity.ID) (dto.ProductForm, dto.Outcome) {
	token, err := session.Token(ctx)
	if err != nil {
		return dto.ProductForm{}, dto.Outcome{Message: messages.NotAuthenticated}
	}
	p, err := uc.api.GetProduct(ctx, token, id)
	if err != nil {
		uc.log.Warn().Err(err).Str("id", id.String()).Msg("error cargando producto")
		return dto.ProductForm{}, dto.Outcome{Message: messages.ProductLoadFailed}
	}
	return dto.ProductForm{
		Nome:       p.Nome,
		Descricao:  p.Descricao,
		Preco:      p.Preco.String(),
		Quantidade: strconv.Itoa(p.Quantidade),
	}, dto.Outcome{Success: true}
}

// Update envía la edición de id.
func (uc *ProductUseCase) Update(ctx context.Context, session ports.Session, id entity.ID, form dto.ProductForm) dto.Outcome {
	token, err := session.Token(ctx)
	if err != nil {
		return dto.Outcome{Message: messages.NotAuthenticated}
	}
	in, err := uc.ParseProductForm(form)
	if err != nil {
		return dto.Outcome{Message: fieldMessage(err)}
	}
	msg, err := uc.api.UpdateProduct(ctx, token, id, in)
	return uc.outcome(msg, err, messages.UpdateFailed)
}

// outcome: éxito o error del servidor muestran su mensaje y vuelven al
// listado; un fallo de red no redirige.
func (uc *ProductUseCase) outcome(msg string, err error, fallback string) dto.Outcome {
	if err == nil {
		return dto.Outcome{Message: msg, Success: true, RedirectTo: DashboardPath, RedirectAfter: uc.redirectDelay}
	}
	if domain.IsServerResponse(err) {
		if serverMsg, ok := domain.ServerMessage(err); ok {
			fallback = serverMsg
		}
		return dto.Outcome{Message: fallback, RedirectTo: DashboardPath, RedirectAfter: uc.redirectDelay}
	}
	if errors.Is(err, domain.ErrConnection) {
		return dto.Outcome{Message: messages.ConnectionError}
	}
	uc.log.Warn().Err(err).Msg("error guardando producto")
	return dto.Outcome{Message: fallback}
}

func fieldMessage(err error) string {
	var fe *InvalidFieldError
	if errors.As(err, &fe) {
		return fe.Message
	}
	return err.Error()
}
