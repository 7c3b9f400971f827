package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-admin/internal/application/dto"
	"github.com/jhoicas/catalogo-admin/pkg/money"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageFiles = []string{
	"login.html",
	"register.html",
	"catalogo.html",
	"dashboard.html",
	"delete_confirm.html",
	"product_form.html",
	"admin_dashboard.html",
}

// Page datos comunes del layout.
type Page struct {
	Title           string
	Flash           string
	FlashOK         bool
	RedirectTo      string
	RedirectSeconds int
	LoggedIn        bool
	Data            any
}

// WithOutcome copia mensaje y redirección diferida de un envío de formulario.
func (p Page) WithOutcome(o dto.Outcome) Page {
	p.Flash = o.Message
	p.FlashOK = o.Success
	if o.RedirectTo != "" {
		p.RedirectTo = o.RedirectTo
		p.RedirectSeconds = int(math.Ceil(o.RedirectAfter.Seconds()))
	}
	return p
}

// Renderer plantillas HTML de la consola.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parsea layout, parciales y páginas embebidas.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"brl":  money.FormatBRL,
		"date": func(t time.Time) string { return t.Format("02/01/2006 15:04") },
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(pageFiles))}
	for _, name := range pageFiles {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/rows.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("render: parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Page renderiza la página completa dentro del layout.
func (r *Renderer) Page(c *fiber.Ctx, status int, name string, p Page) error {
	return r.execute(c, status, name, "layout.html", p)
}

// Partial renderiza solo el bloque block de la página name.
func (r *Renderer) Partial(c *fiber.Ctx, status int, name, block string, data any) error {
	return r.execute(c, status, name, block, data)
}

func (r *Renderer) execute(c *fiber.Ctx, status int, name, block string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("render: página desconocida %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		return fmt.Errorf("render: %s/%s: %w", name, block, err)
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}
