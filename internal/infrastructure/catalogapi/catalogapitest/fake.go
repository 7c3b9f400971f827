// Package catalogapitest ofrece una API del catálogo en memoria para tests.
package catalogapitest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/jhoicas/catalogo-admin/internal/domain"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
	"github.com/jhoicas/catalogo-admin/internal/domain/repository"
)

var _ repository.CatalogAPI = (*Fake)(nil)

// Nombres de operación usados en Calls, FailWith y Hold.
const (
	OpLogin             = "login"
	OpRegister          = "register"
	OpListProducts      = "list_products"
	OpListPublic        = "list_public_products"
	OpGetProduct        = "get_product"
	OpCreateProduct     = "create_product"
	OpUpdateProduct     = "update_product"
	OpDeleteProduct     = "delete_product"
	OpListUsers         = "list_users"
	OpUpdateUserProfile = "update_user_profile"
)

// Call registro de una llamada recibida.
type Call struct {
	Op     string
	Token  string
	ID     entity.ID
	Nome   string
	Perfil entity.Perfil
	Input  entity.ProductInput
}

// Account credenciales aceptadas por Login.
type Account struct {
	Senha string
	Token string
}

// Fake implementación en memoria de repository.CatalogAPI.
type Fake struct {
	mu       sync.Mutex
	products []entity.Product
	public   []entity.Product
	users    []entity.User
	accounts map[string]Account
	failures map[string]error
	gates    map[string]chan struct{}
	calls    []Call
	nextID   int
}

// New crea un fake vacío.
func New() *Fake {
	return &Fake{
		accounts: make(map[string]Account),
		failures: make(map[string]error),
		gates:    make(map[string]chan struct{}),
		nextID:   100,
	}
}

// AddAccount registra credenciales válidas.
func (f *Fake) AddAccount(email, senha, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[email] = Account{Senha: senha, Token: token}
}

// SetProducts reemplaza el listado autenticado.
func (f *Fake) SetProducts(p ...entity.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = append([]entity.Product(nil), p...)
}

// SetPublicProducts reemplaza el listado público.
func (f *Fake) SetPublicProducts(p ...entity.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.public = append([]entity.Product(nil), p...)
}

// SetUsers reemplaza el listado de usuarios.
func (f *Fake) SetUsers(u ...entity.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append([]entity.User(nil), u...)
}

// Users devuelve una copia del estado de usuarios del "servidor".
func (f *Fake) Users() []entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.User(nil), f.users...)
}

// Products devuelve una copia del estado de productos del "servidor".
func (f *Fake) Products() []entity.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.Product(nil), f.products...)
}

// FailWith hace que op devuelva err hasta que se limpie con FailWith(op, nil).
func (f *Fake) FailWith(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failures, op)
		return
	}
	f.failures[op] = err
}

// Hold bloquea las llamadas a op hasta invocar la función devuelta
// (o hasta que se cancele su contexto).
func (f *Fake) Hold(op string) (release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[op] = ch
	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			if f.gates[op] == ch {
				delete(f.gates, op)
			}
			f.mu.Unlock()
			close(ch)
		})
	}
}

// Calls devuelve las llamadas recibidas para op.
func (f *Fake) Calls(op string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Count número de llamadas recibidas para op.
func (f *Fake) Count(op string) int {
	return len(f.Calls(op))
}

// enter registra la llamada, espera la compuerta si la hay y devuelve el fallo configurado.
func (f *Fake) enter(ctx context.Context, c Call) error {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	gate := f.gates[c.Op]
	err := f.failures[c.Op]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *Fake) authorize(token string) error {
	if token == "" {
		return &domain.APIError{Status: 401, Message: "Token não fornecido."}
	}
	return nil
}

// ── repository.CatalogAPI ─────────────────────────────────────────────────────

func (f *Fake) Login(ctx context.Context, email, senha string) (string, error) {
	if err := f.enter(ctx, Call{Op: OpLogin}); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[email]
	if !ok || acc.Senha != senha {
		return "", &domain.APIError{Status: 401, Message: "Credenciais inválidas"}
	}
	return acc.Token, nil
}

func (f *Fake) Register(ctx context.Context, nome, email, senha string) (string, error) {
	if err := f.enter(ctx, Call{Op: OpRegister, Nome: nome}); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.accounts[email]; exists {
		return "", &domain.APIError{Status: 400, Message: "Email já cadastrado."}
	}
	f.accounts[email] = Account{Senha: senha}
	return "Usuário cadastrado com sucesso!", nil
}

func (f *Fake) ListProducts(ctx context.Context, token, nome string) ([]entity.Product, error) {
	if err := f.enter(ctx, Call{Op: OpListProducts, Token: token, Nome: nome}); err != nil {
		return nil, err
	}
	if err := f.authorize(token); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Product, 0, len(f.products))
	for _, p := range f.products {
		if nome == "" || strings.Contains(strings.ToLower(p.Nome), strings.ToLower(nome)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *Fake) ListPublicProducts(ctx context.Context) ([]entity.Product, error) {
	if err := f.enter(ctx, Call{Op: OpListPublic}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.Product{}, f.public...), nil
}

func (f *Fake) GetProduct(ctx context.Context, token string, id entity.ID) (*entity.Product, error) {
	if err := f.enter(ctx, Call{Op: OpGetProduct, Token: token, ID: id}); err != nil {
		return nil, err
	}
	if err := f.authorize(token); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, &domain.APIError{Status: 404, Message: "Produto não encontrado."}
}

func (f *Fake) CreateProduct(ctx context.Context, token string, in entity.ProductInput) (string, error) {
	if err := f.enter(ctx, Call{Op: OpCreateProduct, Token: token, Input: in}); err != nil {
		return "", err
	}
	if err := f.authorize(token); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.products = append(f.products, entity.Product{
		ID: entity.ID(strconv.Itoa(f.nextID)), Nome: in.Nome, Descricao: in.Descricao, Preco: in.Preco, Quantidade: in.Quantidade,
	})
	return "Produto adicionado com sucesso!", nil
}

func (f *Fake) UpdateProduct(ctx context.Context, token string, id entity.ID, in entity.ProductInput) (string, error) {
	if err := f.enter(ctx, Call{Op: OpUpdateProduct, Token: token, ID: id, Input: in}); err != nil {
		return "", err
	}
	if err := f.authorize(token); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].ID == id {
			f.products[i] = entity.Product{ID: id, Nome: in.Nome, Descricao: in.Descricao, Preco: in.Preco, Quantidade: in.Quantidade}
			return "Produto atualizado com sucesso!", nil
		}
	}
	return "", &domain.APIError{Status: 404, Message: "Produto não encontrado."}
}

func (f *Fake) DeleteProduct(ctx context.Context, token string, id entity.ID) error {
	if err := f.enter(ctx, Call{Op: OpDeleteProduct, Token: token, ID: id}); err != nil {
		return err
	}
	if err := f.authorize(token); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return &domain.APIError{Status: 404, Message: "Produto não encontrado."}
}

func (f *Fake) ListUsers(ctx context.Context, token string) ([]entity.User, error) {
	if err := f.enter(ctx, Call{Op: OpListUsers, Token: token}); err != nil {
		return nil, err
	}
	if err := f.authorize(token); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.User{}, f.users...), nil
}

func (f *Fake) UpdateUserProfile(ctx context.Context, token string, id entity.ID, perfil entity.Perfil) (string, error) {
	if err := f.enter(ctx, Call{Op: OpUpdateUserProfile, Token: token, ID: id, Perfil: perfil}); err != nil {
		return "", err
	}
	if err := f.authorize(token); err != nil {
		return "", err
	}
	if !perfil.Valid() {
		return "", fmt.Errorf("update profile: %w", domain.ErrUnknownPerfil)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].Perfil = perfil
			return "Perfil atualizado com sucesso!", nil
		}
	}
	return "", &domain.APIError{Status: 404, Message: "Usuário não encontrado."}
}
