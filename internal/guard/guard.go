// Package guard gates entry to protected views on session validity.
package guard

import (
	"context"

	"github.com/kendallhq/managerpro/internal/logging"
	"github.com/kendallhq/managerpro/internal/session"
)

// Decision is the outcome of an access check.
type Decision int

const (
	// Pending means the check has not resolved yet; render nothing.
	Pending Decision = iota
	// Granted means a valid session exists; render protected content.
	Granted
	// Denied means there is no valid session; redirect to the login entry
	// point.
	Denied
)

func (d Decision) String() string {
	switch d {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	default:
		return "pending"
	}
}

// Guard consults the session manager on activation. Protected content must
// never be rendered before the check resolves, so the zero value of Decision
// is Pending.
type Guard struct {
	sessions *session.Manager
	log      logging.Logger
}

func New(sessions *session.Manager, log logging.Logger) *Guard {
	return &Guard{sessions: sessions, log: log}
}

// Check resolves the access decision. Storage failures deny access: the
// safe fallback for a gate that cannot verify a session is the login page.
func (g *Guard) Check(ctx context.Context) Decision {
	active, err := g.sessions.Active(ctx)
	if err != nil {
		g.log.Warn(ctx, "session check failed", "error", err)
		return Denied
	}
	if !active {
		return Denied
	}
	return Granted
}
