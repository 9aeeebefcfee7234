package creds

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Environment variables that override the stored client credentials for a
// single run. They are never written back to the record.
const (
	EnvClientID     = "TTV_CLIENT_ID"
	EnvClientSecret = "TTV_CLIENT_SECRET"
)

const maskedValue = "********"

// Record is the persisted Twitch credential set. The access token and its
// expiry travel with the client credentials so every command can decide
// whether a refresh is due without extra state.
type Record struct {
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret"`
	AccessToken  string    `json:"access_token"`
	ExpiresAt    time.Time `json:"expires_at,omitzero"`
}

// document matches the on-disk layout: the record nests under a twitch key.
type document struct {
	Twitch Record `json:"twitch"`
}

// TokenValid reports whether the stored access token can be used at the
// given instant. The token expires the moment now reaches ExpiresAt.
func (r Record) TokenValid(now time.Time) bool {
	if strings.TrimSpace(r.AccessToken) == "" {
		return false
	}
	if r.ExpiresAt.IsZero() {
		return false
	}
	return now.Before(r.ExpiresAt)
}

// Masked returns a copy with secret fields replaced for display. Storage
// always holds the real values.
func (r Record) Masked() Record {
	masked := r
	if masked.ClientSecret != "" {
		masked.ClientSecret = maskedValue
	}
	if masked.AccessToken != "" {
		masked.AccessToken = maskedValue
	}
	return masked
}

// Store abstracts persistence for the credential record.
type Store interface {
	Load() (Record, error)
	Save(Record) error
	Path() string
}

// FileStore reads and writes the credential record as JSON on disk.
type FileStore struct {
	path string
}

// NewFileStore builds a FileStore rooted at the provided path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the credential record.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the record from disk. A missing file resolves to a zero record.
func (s *FileStore) Load() (Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, nil
		}
		return Record{}, fmt.Errorf("read credentials at %s: %w", s.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Record{}, fmt.Errorf("parse credentials at %s: %w", s.path, err)
	}
	return doc.Twitch, nil
}

// Save rewrites the whole record. The write goes through a temp file in the
// same directory and renames over the target so readers never observe a
// partial record. The directory is kept at 0700 and the file at 0600.
func (s *FileStore) Save(rec Record) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create credentials directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(document{Twitch: rec}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	data = append(data, '\n')

	tmpPath := s.path + ".tmp"
	if err := writeFileSync(tmpPath, data); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		// Windows refuses to rename over an existing file.
		if _, statErr := os.Stat(s.path); statErr == nil {
			if removeErr := os.Remove(s.path); removeErr != nil {
				return fmt.Errorf("replace credentials at %s: %w", s.path, removeErr)
			}
			if err := os.Rename(tmpPath, s.path); err != nil {
				return fmt.Errorf("move credentials to %s: %w", s.path, err)
			}
		} else {
			return fmt.Errorf("move credentials to %s: %w", s.path, err)
		}
	}

	if err := os.Chmod(s.path, 0o600); err != nil {
		return fmt.Errorf("restrict credentials permissions: %w", err)
	}
	return nil
}

func writeFileSync(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("write credentials temp file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("write credentials contents: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("flush credentials: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close credentials temp file: %w", err)
	}
	return nil
}
