package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const sessionFileExtension = ".json"

// Store errors.
var (
	ErrNotFound     = errors.New("session not found")
	ErrExpired      = errors.New("session expired")
	ErrInvalidID    = errors.New("invalid session id")
	ErrInvalidTTL   = errors.New("session TTL must be positive")
	ErrEmptyDirPath = errors.New("session directory cannot be empty")
)

// FileStore keeps one JSON file per session in a directory. It is safe
// for concurrent use.
type FileStore struct {
	directory string
	ttl       time.Duration
	now       func() time.Time

	mu sync.RWMutex
}

// Option customises a FileStore.
type Option func(*FileStore)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *FileStore) { s.now = now }
}

// NewFileStore creates the directory if needed and returns a store whose
// sessions expire ttl after their last save.
func NewFileStore(directory string, ttl time.Duration, opts ...Option) (*FileStore, error) {
	if directory == "" {
		return nil, ErrEmptyDirPath
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	if err := os.MkdirAll(directory, 0750); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	s := &FileStore{directory: directory, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// New returns a fresh, unsaved session with a new id.
func (s *FileStore) New() *Session {
	now := s.now()
	return &Session{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
}

// Get loads a session. It returns ErrNotFound for unknown ids and
// ErrExpired, after removing the file, for expired ones.
func (s *FileStore) Get(id string) (*Session, error) {
	path, err := s.pathFor(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	sess, err := readSession(path)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	if sess.IsExpired(s.now()) {
		s.mu.Lock()
		_ = os.Remove(path)
		s.mu.Unlock()
		return nil, ErrExpired
	}
	return sess, nil
}

// Save writes the session and pushes its expiry ttl into the future.
func (s *FileStore) Save(sess *Session) error {
	path, err := s.pathFor(sess.ID)
	if err != nil {
		return err
	}

	now := s.now()
	sess.UpdatedAt = now
	sess.ExpiresAt = now.Add(s.ttl)

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Write to a temporary file first, then rename for atomicity.
	tempPath := path + ".tmp"
	if writeErr := os.WriteFile(tempPath, data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write session file: %w", writeErr)
	}
	if renameErr := os.Rename(tempPath, path); renameErr != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename session file: %w", renameErr)
	}
	return nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *FileStore) Delete(id string) error {
	path, err := s.pathFor(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
		return fmt.Errorf("failed to delete session file: %w", removeErr)
	}
	return nil
}

// CleanupExpired removes expired sessions and returns how many went.
// Unreadable files are left alone.
func (s *FileStore) CleanupExpired() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return 0, fmt.Errorf("failed to read session directory: %w", err)
	}

	now := s.now()
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != sessionFileExtension {
			continue
		}
		path := filepath.Join(s.directory, entry.Name())
		sess, readErr := readSession(path)
		if readErr != nil {
			continue
		}
		if sess.IsExpired(now) && os.Remove(path) == nil {
			removed++
		}
	}
	return removed, nil
}

// Count returns the number of stored sessions, expired ones included.
func (s *FileStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return 0, fmt.Errorf("failed to read session directory: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == sessionFileExtension {
			count++
		}
	}
	return count, nil
}

// Directory returns the directory holding the session files.
func (s *FileStore) Directory() string {
	return s.directory
}

// TTL returns how long a session lives after its last save.
func (s *FileStore) TTL() time.Duration {
	return s.ttl
}

// pathFor accepts only canonical ULIDs so ids can never escape the
// directory.
func (s *FileStore) pathFor(id string) (string, error) {
	parsed, err := ulid.ParseStrict(id)
	if err != nil || parsed.String() != id {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(s.directory, id+sessionFileExtension), nil
}

func readSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess Session
	if unmarshalErr := json.Unmarshal(data, &sess); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", unmarshalErr)
	}
	return &sess, nil
}
