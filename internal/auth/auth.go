// Package auth implements the local credential check. Exactly one credential
// record exists at a time; signup overwrites it and login compares both
// fields exactly. On success the combined flow establishes a fresh session.
// This is deliberately not real authentication: the record is stored in
// plain text and there is no account management.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kendallhq/managerpro/internal/common"
	"github.com/kendallhq/managerpro/internal/models"
	"github.com/kendallhq/managerpro/internal/session"
	"github.com/kendallhq/managerpro/internal/storage/kv"
)

const keySuffixUser = "_user"

// Service verifies login attempts against the single stored credential and
// drives session creation/teardown through the session manager.
type Service struct {
	store           kv.Store
	sessions        *session.Manager
	prefix          string
	sessionDuration time.Duration
}

func NewService(store kv.Store, sessions *session.Manager, prefix string, sessionDuration time.Duration) *Service {
	return &Service{
		store:           store,
		sessions:        sessions,
		prefix:          prefix,
		sessionDuration: sessionDuration,
	}
}

func (s *Service) userKey() string { return s.prefix + keySuffixUser }

// SaveCredential unconditionally overwrites the stored credential record.
// There is no duplicate detection.
func (s *Service) SaveCredential(ctx context.Context, email, password string) error {
	data, err := json.Marshal(models.Credential{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}
	if err := s.store.Set(ctx, s.userKey(), data); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

// Signup overwrites the stored credential record and starts a fresh session.
func (s *Service) Signup(ctx context.Context, email, password string) error {
	if err := s.SaveCredential(ctx, email, password); err != nil {
		return err
	}
	return s.sessions.Start(ctx, s.sessionDuration)
}

// Login compares the attempt against the stored record. On an exact match of
// both fields it starts a new session (superseding any previous one) and
// returns true. It returns false when no record exists or the fields differ.
func (s *Service) Login(ctx context.Context, email, password string) (bool, error) {
	data, err := s.store.Get(ctx, s.userKey())
	if err != nil {
		return false, fmt.Errorf("failed to load credential: %w", err)
	}
	if data == nil {
		return false, nil
	}

	var cred models.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return false, fmt.Errorf("failed to decode credential: %w", common.ErrCorruptData)
	}

	if cred.Email != email || cred.Password != password {
		return false, nil
	}

	if err := s.sessions.Start(ctx, s.sessionDuration); err != nil {
		return false, err
	}
	return true, nil
}

// Logout tears down the session. The credential record is left in place.
func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.End(ctx)
}
