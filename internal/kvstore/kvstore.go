// Package kvstore is the namespaced key-value persistence adapter used for
// visitor preferences. All keys share a fixed prefix so unrelated rows in
// the shared database are never touched, and all operations degrade rather
// than fail: writes report success with a boolean, reads fall back to a
// caller-supplied default.
package kvstore

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/RESA9399/emberfall/internal/storage"
)

// Prefix namespaces every key written by this adapter.
const Prefix = "emberfall:"

// Store wraps the repository with namespacing and JSON value encoding.
type Store struct {
	repo *storage.Repository
}

// New returns a Store over the shared repository.
func New(repo *storage.Repository) *Store {
	return &Store{repo: repo}
}

// Set serializes value as JSON and stores it under the namespaced key.
// Storage failures are logged and reported as false, never propagated.
func (s *Store) Set(key string, value any) bool {
	if s.repo == nil {
		return false
	}

	raw, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to serialize preference value")
		return false
	}

	if err := s.repo.KVSet(Prefix+key, string(raw)); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to store preference")
		return false
	}

	return true
}

// Get reads the value stored under key into out and returns true on
// success. A missing key, a parse failure or a storage failure leaves out
// untouched and returns false, so the caller's default survives.
func (s *Store) Get(key string, out any) bool {
	if s.repo == nil {
		return false
	}

	raw, ok, err := s.repo.KVGet(Prefix + key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to read preference")
		return false
	}
	if !ok {
		return false
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to parse stored preference")
		return false
	}

	return true
}

// GetString reads a string preference, returning def when absent or broken.
func (s *Store) GetString(key, def string) string {
	var v string
	if !s.Get(key, &v) {
		return def
	}

	return v
}

// Remove deletes the namespaced key. Failures are logged and reported as false.
func (s *Store) Remove(key string) bool {
	if s.repo == nil {
		return false
	}

	if err := s.repo.KVDelete(Prefix + key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to remove preference")
		return false
	}

	return true
}

// Clear deletes every key under the namespace prefix, leaving unrelated
// rows in the kv table untouched.
func (s *Store) Clear() bool {
	if s.repo == nil {
		return false
	}

	if _, err := s.repo.KVDeletePrefix(Prefix); err != nil {
		log.Warn().Err(err).Msg("Failed to clear preference namespace")
		return false
	}

	return true
}
