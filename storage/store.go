// Package storage provides the client-local persisted state used by the
// FitRoom SDK: session, body profile, wardrobe collection and selection,
// pending payment correlation, and try-on history. Values survive process
// restarts and are keyed by fixed string identifiers.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Fixed storage keys. The _v1 suffix is part of the persisted contract.
const (
	KeySession          = "auth_session_v1"
	KeyProfile          = "profile_v1"
	KeyWardrobe         = "wardrobe_v1"
	KeyWardrobeSelected = "wardrobe_selected_v1"
	KeyPendingPayment   = "pending_payment_id_v1"
	KeyTryOnHistory     = "try_on_history_v1"
)

// ErrQuotaExceeded reports that the backing store ran out of room. Callers
// that persist collections are expected to degrade (drop entries) rather
// than fail outright.
var ErrQuotaExceeded = errors.New("storage: quota exceeded")

// IsQuotaExceeded reports whether err is a quota failure.
func IsQuotaExceeded(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}

// Store is a small keyed string store in the shape of browser local
// storage: Get misses are not errors, Set may fail with ErrQuotaExceeded.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// ReadJSON loads and decodes the value at key into a fresh T. A missing
// key or malformed value yields the fallback, never an error: persisted
// local state is advisory and must not wedge startup.
func ReadJSON[T any](s Store, key string, fallback T) T {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return fallback
	}
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return fallback
	}
	return out
}

// WriteJSON encodes v and stores it at key.
func WriteJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}
	return s.Set(key, string(data))
}
