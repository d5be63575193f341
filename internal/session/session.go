// Package session manages the single local session: an active marker plus an
// absolute expiry timestamp, both kept in the key-value store. Expiry is
// enforced lazily: the only place it is checked is Active, which clears the
// session when the deadline has passed. There is no background timer here.
package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kendallhq/managerpro/internal/storage/kv"
)

const (
	keySuffixSession = "_session"
	keySuffixExpiry  = "_session_expiry"

	// activeMarker is the literal value stored under the session key.
	activeMarker = "active"
)

// Manager reads and writes the session marker under a fixed key prefix.
type Manager struct {
	store  kv.Store
	prefix string

	// now is an injection point for tests.
	now func() time.Time
}

func NewManager(store kv.Store, prefix string) *Manager {
	return &Manager{store: store, prefix: prefix, now: time.Now}
}

func (m *Manager) sessionKey() string { return m.prefix + keySuffixSession }
func (m *Manager) expiryKey() string  { return m.prefix + keySuffixExpiry }

// Start writes the active marker and an expiry of now+duration, replacing
// any previous session.
func (m *Manager) Start(ctx context.Context, duration time.Duration) error {
	if err := m.store.Set(ctx, m.sessionKey(), []byte(activeMarker)); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	expiry := m.now().Add(duration).UnixMilli()
	if err := m.store.Set(ctx, m.expiryKey(), []byte(strconv.FormatInt(expiry, 10))); err != nil {
		return fmt.Errorf("failed to store session expiry: %w", err)
	}
	return nil
}

// Active reports whether a valid session exists. A session is valid iff both
// the marker and the expiry are present and the current time has not passed
// the expiry. An expired or malformed session is cleared as a side effect.
func (m *Manager) Active(ctx context.Context) (bool, error) {
	marker, err := m.store.Get(ctx, m.sessionKey())
	if err != nil {
		return false, err
	}
	expiryRaw, err := m.store.Get(ctx, m.expiryKey())
	if err != nil {
		return false, err
	}

	if marker == nil || expiryRaw == nil {
		return false, nil
	}

	expiry, err := strconv.ParseInt(string(expiryRaw), 10, 64)
	if err != nil {
		// Unreadable expiry counts as expired.
		_ = m.End(ctx)
		return false, nil
	}

	if m.now().UnixMilli() > expiry {
		if err := m.End(ctx); err != nil {
			return false, err
		}
		return false, nil
	}

	return true, nil
}

// End clears both session keys unconditionally. It is idempotent.
func (m *Manager) End(ctx context.Context) error {
	if err := m.store.Remove(ctx, m.sessionKey()); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	if err := m.store.Remove(ctx, m.expiryKey()); err != nil {
		return fmt.Errorf("failed to clear session expiry: %w", err)
	}
	return nil
}
