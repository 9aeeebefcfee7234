package creds

import (
	"os"
	"strings"
)

// EnvStore overlays TTV_CLIENT_ID and TTV_CLIENT_SECRET onto the records
// an inner store loads. The overlay is process-local: Save restores the
// stored client fields so the environment values never reach disk.
type EnvStore struct {
	inner        Store
	clientID     string
	clientSecret string
}

// NewEnvStore wraps inner with the environment overlay captured at call
// time.
func NewEnvStore(inner Store) *EnvStore {
	return &EnvStore{
		inner:        inner,
		clientID:     strings.TrimSpace(os.Getenv(EnvClientID)),
		clientSecret: strings.TrimSpace(os.Getenv(EnvClientSecret)),
	}
}

// Path returns the location of the underlying credential record.
func (s *EnvStore) Path() string {
	return s.inner.Path()
}

// Load reads the record and applies the environment overlay.
func (s *EnvStore) Load() (Record, error) {
	rec, err := s.inner.Load()
	if err != nil {
		return Record{}, err
	}
	if s.clientID != "" {
		rec.ClientID = s.clientID
	}
	if s.clientSecret != "" {
		rec.ClientSecret = s.clientSecret
	}
	return rec, nil
}

// Save persists the record with any overlaid client fields swapped back
// for the stored ones.
func (s *EnvStore) Save(rec Record) error {
	if s.clientID != "" || s.clientSecret != "" {
		stored, err := s.inner.Load()
		if err != nil {
			return err
		}
		if s.clientID != "" {
			rec.ClientID = stored.ClientID
		}
		if s.clientSecret != "" {
			rec.ClientSecret = stored.ClientSecret
		}
	}
	return s.inner.Save(rec)
}
