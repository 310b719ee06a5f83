// Package session persists the signed-in user of one device in a storage slot.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zhouzirui/tradewise/backend/internal/model/user"
	"github.com/zhouzirui/tradewise/backend/internal/storage"
)

// SlotKey is the slot name the dashboard has always used for the user record.
const SlotKey = "tradewise_user"

// Store reads and writes one user record. It holds no in-memory copy.
type Store struct {
	slots storage.Slots
	key   string
}

// NewStore binds a store to the device's slot.
func NewStore(slots storage.Slots, deviceID string) *Store {
	key := SlotKey
	if deviceID != "" {
		key = SlotKey + ":" + deviceID
	}
	return &Store{slots: slots, key: key}
}

// Key returns the slot key backing this store.
func (s *Store) Key() string {
	return s.key
}

// Load returns the persisted user. Missing, unreadable or undecodable slots all
// mean "no session".
func (s *Store) Load(ctx context.Context) (user.User, bool) {
	raw, err := s.slots.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("session slot unreadable", "key", s.key, "error", err)
		}
		return user.User{}, false
	}

	var u user.User
	if err := json.Unmarshal(raw, &u); err != nil {
		slog.Warn("session slot undecodable", "key", s.key, "error", err)
		return user.User{}, false
	}
	if u.ID == "" {
		return user.User{}, false
	}
	if !u.RiskProfile.Valid() {
		u.RiskProfile = user.DefaultRiskProfile
	}
	return u, true
}

// Save overwrites the slot with u.
func (s *Store) Save(ctx context.Context, u user.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.slots.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Clear removes the slot.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.slots.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
