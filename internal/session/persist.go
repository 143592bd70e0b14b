package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hostelhub/hostel/pkg/domain"
)

// ErrNoRecord is returned by Persister.Load when nothing has been saved.
var ErrNoRecord = errors.New("no stored session")

// Record is what survives a restart: the credential plus, for flag transport,
// the locally remembered role.
type Record struct {
	Transport domain.Transport `json:"transport"`
	Token     string           `json:"token"`
	Role      domain.Role      `json:"role,omitempty"`
	SubjectID string           `json:"subject_id,omitempty"`
}

// Persister stores the session credential between runs.
type Persister interface {
	Load() (Record, error)
	Save(Record) error
	Clear() error
}

// FileStore keeps the record as JSON in a 0600 file, e.g. ~/.hostel/session.json.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at path. The parent directory is created on Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load() (Record, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, ErrNoRecord
		}
		return Record{}, fmt.Errorf("read session file: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if rec.Token == "" {
		return Record{}, ErrNoRecord
	}
	return rec, nil
}

func (f *FileStore) Save(rec Record) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// MemoryStore keeps the record in process memory. Used when the credential comes
// from HOSTEL_TOKEN and in tests.
type MemoryStore struct {
	mu  sync.Mutex
	rec *Record
}

// NewMemoryStore returns a MemoryStore, optionally pre-seeded with a record.
func NewMemoryStore(seed *Record) *MemoryStore {
	return &MemoryStore{rec: seed}
}

func (m *MemoryStore) Load() (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rec == nil {
		return Record{}, ErrNoRecord
	}
	return *m.rec, nil
}

func (m *MemoryStore) Save(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = &rec
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = nil
	return nil
}
