package tickets

import (
	"context"
	"sync"
	"time"

	"github.com/kendallhq/managerpro/internal/logging"
	"github.com/kendallhq/managerpro/internal/models"
	"github.com/kendallhq/managerpro/internal/validation"
)

// State identifies the mode the ticket form is in.
type State int

const (
	StateIdle State = iota
	StateEditing
	StateConfirmingDelete
)

// User-facing notices surfaced by the manager. They are transient and
// non-blocking: the worst outcome of any failure here is an empty list.
const (
	noticeLoadFailed = "Failed to load tickets. Please retry."
	noticeSaveFailed = "Failed to save ticket. Please retry."

	NoticeCreated = "Ticket created successfully."
	NoticeUpdated = "Ticket updated successfully."
	NoticeDeleted = "Ticket deleted successfully."
)

// Manager orchestrates the ticket form: draft state, validation,
// create/update/delete with a delete-confirmation step, and the in-memory
// copy of the persisted collection. A mutex guards all state because the
// storage watcher calls Refresh from its own goroutine.
type Manager struct {
	mu    sync.Mutex
	store *Store
	log   logging.Logger

	tickets []models.Ticket
	draft   models.TicketDraft
	errs    map[string]string

	editingID    int64 // 0 = not editing
	confirmingID int64 // 0 = no pending delete confirmation

	notice string

	// now is an injection point for tests.
	now func() time.Time
}

func NewManager(store *Store, log logging.Logger) *Manager {
	return &Manager{
		store:   store,
		log:     log,
		tickets: []models.Ticket{},
		draft:   models.TicketDraft{Status: string(models.StatusOpen)},
		errs:    map[string]string{},
		now:     time.Now,
	}
}

// initialDraft is the empty form state; status defaults to open.
func initialDraft() models.TicketDraft {
	return models.TicketDraft{Status: string(models.StatusOpen)}
}

// Refresh replaces the in-memory collection wholesale with the persisted
// one. Corrupt or unavailable storage degrades to an empty collection plus a
// transient notice. A pending delete confirmation survives the refresh only
// while its ticket still exists in the reloaded collection; otherwise it is
// cancelled.
func (m *Manager) Refresh(ctx context.Context) {
	loaded, err := m.store.Load(ctx)
	if err != nil {
		m.log.Warn(ctx, "ticket refresh failed", "error", err)
		loaded = []models.Ticket{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.tickets = loaded
	if err != nil {
		m.notice = noticeLoadFailed
	}

	if m.confirmingID != 0 && m.findLocked(m.confirmingID) == nil {
		m.confirmingID = 0
	}
}

// findLocked returns a pointer into m.tickets; callers must hold m.mu.
func (m *Manager) findLocked(id int64) *models.Ticket {
	for i := range m.tickets {
		if m.tickets[i].ID == id {
			return &m.tickets[i]
		}
	}
	return nil
}

// State returns the current machine state and, for Editing and
// ConfirmingDelete, the ticket id it refers to.
func (m *Manager) State() (State, int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.confirmingID != 0 {
		return StateConfirmingDelete, m.confirmingID
	}
	if m.editingID != 0 {
		return StateEditing, m.editingID
	}
	return StateIdle, 0
}

// Draft returns the current form draft.
func (m *Manager) Draft() models.TicketDraft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// SetDraft stages un-submitted form input. Field errors for changed input
// are not recomputed until the next submit.
func (m *Manager) SetDraft(d models.TicketDraft) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = d
}

// Errors returns the field-keyed validation messages from the last submit.
func (m *Manager) Errors() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]string, len(m.errs))
	for k, v := range m.errs {
		out[k] = v
	}
	return out
}

// Tickets returns a copy of the in-memory collection, newest first.
func (m *Manager) Tickets() []models.Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Ticket, len(m.tickets))
	copy(out, m.tickets)
	return out
}

// Stats recomputes the aggregate counts from the in-memory collection.
func (m *Manager) Stats() models.Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.ComputeStats(m.tickets)
}

// TakeNotice returns the pending transient notice and clears it.
func (m *Manager) TakeNotice() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.notice
	m.notice = ""
	return n
}

// Submit validates the draft and either creates a new ticket (Idle) or
// overwrites the mutable fields of the ticket being edited. On validation
// failure the state is unchanged, nothing is persisted, and the field-keyed
// messages are returned. On success the draft is reset and the machine
// returns to Idle.
func (m *Manager) Submit(ctx context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fieldErrs := validation.TicketForm(m.draft)
	if len(fieldErrs) > 0 {
		m.errs = fieldErrs
		return fieldErrs, nil
	}

	var updated []models.Ticket
	var notice string

	if m.editingID != 0 {
		updated = make([]models.Ticket, len(m.tickets))
		copy(updated, m.tickets)
		for i := range updated {
			if updated[i].ID == m.editingID {
				// Mutable fields only; id and created are preserved.
				updated[i].Title = m.draft.Title
				updated[i].Description = m.draft.Description
				updated[i].Status = m.draft.Status
				updated[i].Priority = m.draft.Priority
				break
			}
		}
		notice = NoticeUpdated
	} else {
		created := m.now()
		ticket := models.Ticket{
			ID:          m.freshIDLocked(created),
			Title:       m.draft.Title,
			Description: m.draft.Description,
			Status:      m.draft.Status,
			Priority:    m.draft.Priority,
			Created:     created.UTC().Format(time.RFC3339),
		}
		updated = append([]models.Ticket{ticket}, m.tickets...)
		notice = NoticeCreated
	}

	if err := m.store.Save(ctx, updated); err != nil {
		m.log.Error(ctx, "ticket save failed", "error", err)
		m.notice = noticeSaveFailed
		return nil, err
	}

	m.tickets = updated
	m.draft = initialDraft()
	m.errs = map[string]string{}
	m.editingID = 0
	m.notice = notice
	return nil, nil
}

// freshIDLocked derives a new ticket id from the creation timestamp,
// bumping past any colliding id so uniqueness holds even for two creates in
// the same millisecond.
func (m *Manager) freshIDLocked(created time.Time) int64 {
	id := created.UnixMilli()
	for m.findLocked(id) != nil {
		id++
	}
	return id
}

// BeginEdit loads the ticket's fields into the draft and transitions to
// Editing. It reports whether the ticket was found; an unknown id leaves the
// state unchanged. A pending delete confirmation is discarded.
func (m *Manager) BeginEdit(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.findLocked(id)
	if t == nil {
		return false
	}

	m.draft = models.TicketDraft{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
	}
	m.editingID = id
	m.confirmingID = 0
	m.errs = map[string]string{}
	return true
}

// CancelEdit resets the draft and returns to Idle without persisting.
func (m *Manager) CancelEdit() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.draft = initialDraft()
	m.editingID = 0
	m.errs = map[string]string{}
}

// RequestDelete transitions to ConfirmingDelete for the given ticket without
// mutating the collection. It reports whether the ticket exists.
func (m *Manager) RequestDelete(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findLocked(id) == nil {
		return false
	}
	m.confirmingID = id
	return true
}

// CancelDelete drops the pending confirmation without touching the
// collection.
func (m *Manager) CancelDelete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmingID = 0
}

// ConfirmDelete removes the ticket under confirmation and persists the
// collection. If the deleted ticket was also being edited, the draft is
// reset and the machine returns to Idle; otherwise the prior state is
// restored.
func (m *Manager) ConfirmDelete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.confirmingID == 0 {
		return nil
	}

	updated := make([]models.Ticket, 0, len(m.tickets))
	for _, t := range m.tickets {
		if t.ID != m.confirmingID {
			updated = append(updated, t)
		}
	}

	if err := m.store.Save(ctx, updated); err != nil {
		m.log.Error(ctx, "ticket delete failed", "error", err)
		m.notice = noticeSaveFailed
		return err
	}

	m.tickets = updated
	if m.editingID == m.confirmingID {
		m.draft = initialDraft()
		m.editingID = 0
		m.errs = map[string]string{}
	}
	m.confirmingID = 0
	m.notice = NoticeDeleted
	return nil
}
