// Package web serves the browser UI: landing, signup, login, dashboard, and
// ticket management pages. Handlers stay thin; every decision lives in the
// auth, session, guard, and tickets packages.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/kendallhq/managerpro/internal/auth"
	"github.com/kendallhq/managerpro/internal/guard"
	"github.com/kendallhq/managerpro/internal/logging"
	"github.com/kendallhq/managerpro/internal/tickets"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"landing.html", "login.html", "signup.html", "dashboard.html", "tickets.html"}

// Handlers holds dependencies for the HTTP handlers.
type Handlers struct {
	auth      *auth.Service
	guard     *guard.Guard
	manager   *tickets.Manager
	log       logging.Logger
	templates map[string]*template.Template
}

// NewHandlers creates a Handlers instance with all page templates parsed.
func NewHandlers(authSvc *auth.Service, g *guard.Guard, manager *tickets.Manager, log logging.Logger) *Handlers {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		templates[page] = template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/"+page))
	}
	return &Handlers{
		auth:      authSvc,
		guard:     g,
		manager:   manager,
		log:       log,
		templates: templates,
	}
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, page string, data any) {
	tmpl, ok := h.templates[page]
	if !ok {
		h.log.Error(r.Context(), "unknown template", "page", page)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		h.log.Error(r.Context(), "template execution failed", "page", page, "error", err)
	}
}
