package catalogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jhoicas/catalogo-admin/internal/application/dto"
	"github.com/jhoicas/catalogo-admin/internal/domain"
	"github.com/jhoicas/catalogo-admin/internal/domain/entity"
	"github.com/jhoicas/catalogo-admin/internal/domain/repository"
	"github.com/jhoicas/catalogo-admin/pkg/config"
	"github.com/jhoicas/catalogo-admin/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa CatalogAPI.
var _ repository.CatalogAPI = (*Client)(nil)

const maxBodyBytes = 1 << 20

// Client adaptador REST de la API del catálogo sobre net/http.
// Adjunta "Authorization: Bearer <token>" cuando la operación lo requiere.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *Metrics
	log        *logger.Logger
}

// NewClient construye el adaptador. metrics y log pueden ser nil.
func NewClient(cfg config.APIConfig, metrics *Metrics, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		log:        log.Component("catalogapi"),
	}
}

// ── Autenticación ─────────────────────────────────────────────────────────────

func (c *Client) Login(ctx context.Context, email, senha string) (string, error) {
	var out dto.LoginResponse
	err := c.do(ctx, call{op: "login", method: http.MethodPost, path: "/login",
		body: dto.LoginRequest{Email: email, Senha: senha}}, &out)
	if err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("login: %w", domain.ErrInvalidCredential)
	}
	return out.Token, nil
}

func (c *Client) Register(ctx context.Context, nome, email, senha string) (string, error) {
	var out dto.MessageResponse
	err := c.do(ctx, call{op: "register", method: http.MethodPost, path: "/register",
		body: dto.RegisterRequest{Nome: nome, Email: email, Senha: senha}}, &out)
	return out.Message, err
}

// ── Productos ─────────────────────────────────────────────────────────────────

func (c *Client) ListProducts(ctx context.Context, token, nome string) ([]entity.Product, error) {
	var q url.Values
	if nome != "" {
		q = url.Values{"nome": []string{nome}}
	}
	var out dto.ProductListResponse
	if err := c.do(ctx, call{op: "list_products", method: http.MethodGet, path: "/produtos", query: q, token: token}, &out); err != nil {
		return nil, err
	}
	return toProducts(out.Products), nil
}

func (c *Client) ListPublicProducts(ctx context.Context) ([]entity.Product, error) {
	var out dto.ProductListResponse
	if err := c.do(ctx, call{op: "list_public_products", method: http.MethodGet, path: "/produtos-publico"}, &out); err != nil {
		return nil, err
	}
	return toProducts(out.Products), nil
}

func (c *Client) GetProduct(ctx context.Context, token string, id entity.ID) (*entity.Product, error) {
	var out dto.ProductEnvelope
	if err := c.do(ctx, call{op: "get_product", method: http.MethodGet, path: "/produtos/" + url.PathEscape(id.String()), token: token}, &out); err != nil {
		return nil, err
	}
	p := out.Product.ToEntity()
	if p.ID == "" {
		p.ID = id
	}
	return &p, nil
}

func (c *Client) CreateProduct(ctx context.Context, token string, in entity.ProductInput) (string, error) {
	var out dto.MessageResponse
	err := c.do(ctx, call{op: "create_product", method: http.MethodPost, path: "/produtos", token: token,
		body: dto.NewProductPayload(in)}, &out)
	return out.Message, err
}

func (c *Client) UpdateProduct(ctx context.Context, token string, id entity.ID, in entity.ProductInput) (string, error) {
	var out dto.MessageResponse
	err := c.do(ctx, call{op: "update_product", method: http.MethodPut, path: "/produtos/" + url.PathEscape(id.String()), token: token,
		body: dto.NewProductPayload(in)}, &out)
	return out.Message, err
}

func (c *Client) DeleteProduct(ctx context.Context, token string, id entity.ID) error {
	return c.do(ctx, call{op: "delete_product", method: http.MethodDelete, path: "/produtos/" + url.PathEscape(id.String()), token: token}, nil)
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

func (c *Client) ListUsers(ctx context.Context, token string) ([]entity.User, error) {
	var out dto.UserListResponse
	if err := c.do(ctx, call{op: "list_users", method: http.MethodGet, path: "/usuarios", token: token}, &out); err != nil {
		return nil, err
	}
	users := make([]entity.User, 0, len(out.Users))
	for _, u := range out.Users {
		users = append(users, u.ToEntity())
	}
	return users, nil
}

func (c *Client) UpdateUserProfile(ctx context.Context, token string, id entity.ID, perfil entity.Perfil) (string, error) {
	if !perfil.Valid() {
		return "", fmt.Errorf("update profile: %w: %q", domain.ErrUnknownPerfil, string(perfil))
	}
	var out dto.MessageResponse
	err := c.do(ctx, call{op: "update_user_profile", method: http.MethodPut,
		path:  "/usuarios/" + url.PathEscape(id.String()) + "/update-profile",
		token: token, body: dto.UpdateProfileRequest{PerfilNome: string(perfil)}}, &out)
	return out.Message, err
}

// ── Transporte ────────────────────────────────────────────────────────────────

type call struct {
	op     string
	method string
	path   string
	query  url.Values
	token  string
	body   any
}

// do ejecuta la llamada y decodifica la respuesta en out (si no es nil).
// Status >= 400 devuelve *domain.APIError con el "message" del cuerpo.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	start := time.Now()
	status := "error"
	defer func() { c.metrics.observe(cl.op, status, time.Since(start)) }()

	var reader io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s: serializar request: %w", cl.op, err)
		}
		reader = bytes.NewReader(b)
	}

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, target, reader)
	if err != nil {
		return fmt.Errorf("%s: crear HTTP request: %w", cl.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			status = "canceled"
			return fmt.Errorf("%s: %w", cl.op, ctx.Err())
		}
		status = "unreachable"
		c.log.Warn().Err(err).Str("op", cl.op).Msg("API inalcanzable")
		return fmt.Errorf("%s: %w: %v", cl.op, domain.ErrConnection, err)
	}
	defer resp.Body.Close()
	status = strconv.Itoa(resp.StatusCode)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: leer respuesta: %w: %v", cl.op, domain.ErrConnection, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var msg dto.MessageResponse
		_ = json.Unmarshal(raw, &msg)
		c.log.Debug().Str("op", cl.op).Int("status", resp.StatusCode).Str("message", msg.Message).Msg("API respondió con error")
		return fmt.Errorf("%s: %w", cl.op, &domain.APIError{Status: resp.StatusCode, Message: msg.Message})
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w: %v", cl.op, domain.ErrBadResponse, err)
	}
	return nil
}

func toProducts(in []dto.ProductResponse) []entity.Product {
	out := make([]entity.Product, 0, len(in))
	for _, p := range in {
		out = append(out, p.ToEntity())
	}
	return out
}
