// Package tickets implements ticket persistence and the management state
// machine: create, edit, and delete with a confirmation step, plus derived
// stats and wholesale refresh from storage.
package tickets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kendallhq/managerpro/internal/common"
	"github.com/kendallhq/managerpro/internal/models"
	"github.com/kendallhq/managerpro/internal/storage/kv"
)

const keySuffixTickets = "_tickets"

// Store persists the ordered ticket collection as a single JSON array value
// in the key-value store. Save replaces the whole value; there is no
// incremental diff, so the last writer wins.
type Store struct {
	store  kv.Store
	prefix string
}

func NewStore(store kv.Store, prefix string) *Store {
	return &Store{store: store, prefix: prefix}
}

func (s *Store) key() string { return s.prefix + keySuffixTickets }

// Load deserializes the persisted collection. A missing value yields an
// empty collection. A value that fails to deserialize yields
// common.ErrCorruptData so the caller can recover by substituting an empty
// collection; it must never crash the caller.
func (s *Store) Load(ctx context.Context) ([]models.Ticket, error) {
	data, err := s.store.Get(ctx, s.key())
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}
	if data == nil {
		return []models.Ticket{}, nil
	}

	var tickets []models.Ticket
	if err := json.Unmarshal(data, &tickets); err != nil {
		return nil, fmt.Errorf("failed to decode tickets: %w", common.ErrCorruptData)
	}
	if tickets == nil {
		tickets = []models.Ticket{}
	}
	return tickets, nil
}

// Save serializes and persists the full collection, replacing any prior
// value.
func (s *Store) Save(ctx context.Context, tickets []models.Ticket) error {
	data, err := json.Marshal(tickets)
	if err != nil {
		return fmt.Errorf("failed to encode tickets: %w", err)
	}
	if err := s.store.Set(ctx, s.key(), data); err != nil {
		return fmt.Errorf("failed to save tickets: %w", err)
	}
	return nil
}
