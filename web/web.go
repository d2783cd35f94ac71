// Package web provides the embedded calculator web UI.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/lemonberrylabs/deskcalc/pkg/keypad"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler serves the web UI pages.
type Handler struct {
	layout  *keypad.Layout
	funcMap template.FuncMap
}

// pageData wraps page-specific data with common fields.
type pageData struct {
	Title string
	Data  interface{}
}

// New creates a new web UI handler rendering the given keypad layout.
func New(layout *keypad.Layout) *Handler {
	return &Handler{
		layout: layout,
		funcMap: template.FuncMap{
			"keyClass": keyClass,
		},
	}
}

func (h *Handler) render(c *fiber.Ctx, page string, title string, data interface{}) error {
	// Parse templates fresh each time for the page-specific template
	// This avoids the Go template issue where define blocks conflict across pages
	tmpl := template.Must(
		template.New("").Funcs(h.funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+page),
	)

	pd := pageData{
		Title: title,
		Data:  data,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, page, pd); err != nil {
		return c.Status(500).SendString(fmt.Sprintf("template error: %v", err))
	}

	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Send(buf.Bytes())
}

// Register adds web UI routes to the Fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/ui", h.calculator)

	// Redirect root to UI
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/ui")
	})
}

// --- Page Data Types ---

type calculatorContent struct {
	Layout *keypad.Layout
}

// --- Page Handlers ---

func (h *Handler) calculator(c *fiber.Ctx) error {
	return h.render(c, "calculator.html", "Calculator", calculatorContent{
		Layout: h.layout,
	})
}

// --- Template Helpers ---

// keyClass picks the style class for a key by its action.
func keyClass(k keypad.Key) string {
	switch k.Action {
	case keypad.ActionOperator:
		return "key-operator"
	case keypad.ActionEquals:
		return "key-equals"
	case keypad.ActionClear, keypad.ActionDelete, keypad.ActionNegate, keypad.ActionPercent:
		return "key-control"
	default:
		return "key-plain"
	}
}
