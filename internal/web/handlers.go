package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kendallhq/managerpro/internal/guard"
	"github.com/kendallhq/managerpro/internal/models"
	"github.com/kendallhq/managerpro/internal/tickets"
	"github.com/kendallhq/managerpro/internal/validation"
)

// Landing renders the public landing page, or forwards straight to the
// dashboard when a valid session already exists.
func (h *Handlers) Landing(w http.ResponseWriter, r *http.Request) {
	if h.guard.Check(r.Context()) == guard.Granted {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	h.render(w, r, "landing.html", nil)
}

// LoginViewModel holds data for the login page.
type LoginViewModel struct {
	Email  string
	Error  string
	Notice string
}

// LoginForm renders the login page.
func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	vm := LoginViewModel{}
	if r.URL.Query().Get("expired") == "1" {
		vm.Notice = "Your session has expired, please log in again."
	}
	h.render(w, r, "login.html", vm)
}

// Login handles the login form submission.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, "login.html", LoginViewModel{Error: "Invalid form submission"})
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if !validation.Email(email) {
		h.render(w, r, "login.html", LoginViewModel{Email: email, Error: "Please enter a valid email address."})
		return
	}
	if strings.TrimSpace(password) == "" {
		h.render(w, r, "login.html", LoginViewModel{Email: email, Error: "Password cannot be empty."})
		return
	}

	ok, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		h.log.Error(r.Context(), "login failed", "error", err)
		h.render(w, r, "login.html", LoginViewModel{Email: email, Error: "An error occurred. Please try again."})
		return
	}
	if !ok {
		h.render(w, r, "login.html", LoginViewModel{Email: email, Error: "Invalid email or password."})
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// SignupViewModel holds data for the signup page.
type SignupViewModel struct {
	Email          string
	EmailError     string
	PasswordErrors []string
	ConfirmError   string
}

// SignupForm renders the signup page.
func (h *Handlers) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "signup.html", SignupViewModel{})
}

// Signup validates the form and overwrites the stored credential. All
// validation failures are surfaced together so the user can fix them in one
// pass.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, "signup.html", SignupViewModel{EmailError: "Invalid form submission"})
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	vm := SignupViewModel{Email: email}
	if !validation.Email(email) {
		vm.EmailError = "Please enter a valid email address."
	}
	vm.PasswordErrors = validation.Password(password)
	vm.ConfirmError = validation.ConfirmPassword(password, confirm)

	if vm.EmailError != "" || len(vm.PasswordErrors) > 0 || vm.ConfirmError != "" {
		h.render(w, r, "signup.html", vm)
		return
	}

	if err := h.auth.Signup(r.Context(), email, password); err != nil {
		h.log.Error(r.Context(), "signup failed", "error", err)
		h.render(w, r, "signup.html", SignupViewModel{Email: email, EmailError: "An error occurred. Please try again."})
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// Logout tears the session down and returns to the landing page.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		h.log.Error(r.Context(), "logout failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// DashboardViewModel holds data for the dashboard page.
type DashboardViewModel struct {
	Stats  models.Stats
	Notice string
}

// Dashboard renders the aggregate ticket counts. The manager recomputes
// them from the current collection; the watcher keeps that collection in
// sync with external writers.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.manager.Refresh(r.Context())
	h.render(w, r, "dashboard.html", DashboardViewModel{
		Stats:  h.manager.Stats(),
		Notice: h.manager.TakeNotice(),
	})
}

// TicketsViewModel holds data for the ticket management page.
type TicketsViewModel struct {
	Draft           models.TicketDraft
	Errors          map[string]string
	Tickets         []models.Ticket
	Editing         bool
	ConfirmingID    int64
	Notice          string
	StatusOptions   []models.Status
	PriorityOptions []string
}

func (h *Handlers) ticketsViewModel() TicketsViewModel {
	state, id := h.manager.State()
	vm := TicketsViewModel{
		Draft:           h.manager.Draft(),
		Errors:          h.manager.Errors(),
		Tickets:         h.manager.Tickets(),
		Notice:          h.manager.TakeNotice(),
		StatusOptions:   models.Statuses,
		PriorityOptions: []string{"low", "medium", "high"},
	}
	switch state {
	case tickets.StateEditing:
		vm.Editing = true
	case tickets.StateConfirmingDelete:
		vm.ConfirmingID = id
	}
	return vm
}

// TicketsPage renders the ticket form and list.
func (h *Handlers) TicketsPage(w http.ResponseWriter, r *http.Request) {
	h.manager.Refresh(r.Context())
	h.render(w, r, "tickets.html", h.ticketsViewModel())
}

// SubmitTicket stages the posted draft and submits it: create when idle,
// update when editing. Validation failures re-render the page with
// field-keyed messages and persist nothing.
func (h *Handlers) SubmitTicket(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.manager.SetDraft(models.TicketDraft{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Status:      r.FormValue("status"),
		Priority:    r.FormValue("priority"),
	})

	fieldErrs, err := h.manager.Submit(r.Context())
	if err != nil {
		h.log.Error(r.Context(), "ticket submit failed", "error", err)
	}
	if len(fieldErrs) > 0 {
		h.render(w, r, "tickets.html", h.ticketsViewModel())
		return
	}

	http.Redirect(w, r, "/tickets", http.StatusFound)
}

// BeginEdit loads the selected ticket into the form.
func (h *Handlers) BeginEdit(w http.ResponseWriter, r *http.Request) {
	if id, ok := h.ticketID(r); ok {
		h.manager.BeginEdit(id)
	}
	http.Redirect(w, r, "/tickets", http.StatusFound)
}

// CancelEdit discards the draft without persisting.
func (h *Handlers) CancelEdit(w http.ResponseWriter, r *http.Request) {
	h.manager.CancelEdit()
	http.Redirect(w, r, "/tickets", http.StatusFound)
}

// RequestDelete asks for confirmation; the collection is untouched.
func (h *Handlers) RequestDelete(w http.ResponseWriter, r *http.Request) {
	if id, ok := h.ticketID(r); ok {
		h.manager.RequestDelete(id)
	}
	http.Redirect(w, r, "/tickets", http.StatusFound)
}

// ConfirmDelete removes the ticket under confirmation. The posted id must
// match the pending confirmation; a stale form from a previous state is
// ignored.
func (h *Handlers) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ticketID(r)
	if ok {
		if state, pending := h.manager.State(); state == tickets.StateConfirmingDelete && pending == id {
			if err := h.manager.ConfirmDelete(r.Context()); err != nil {
				h.log.Error(r.Context(), "ticket delete failed", "error", err)
			}
		}
	}
	http.Redirect(w, r, "/tickets", http.StatusFound)
}

// CancelDelete drops the pending confirmation.
func (h *Handlers) CancelDelete(w http.ResponseWriter, r *http.Request) {
	h.manager.CancelDelete()
	http.Redirect(w, r, "/tickets", http.StatusFound)
}

func (h *Handlers) ticketID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
