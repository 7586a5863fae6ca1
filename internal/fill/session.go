package fill

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/formfill/mcp-form-filler/internal/fields"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session introuvable ou expirée")

// Session holds one fill conversation: the accumulated document bytes,
// the parsed field stream and a cursor into it. The mutex serializes
// concurrent Submits on the same session; distinct sessions do not
// contend.
type Session struct {
	mu sync.Mutex

	ID     string
	Doc    []byte
	Fields []fields.Field
	Cursor int
}

// Complete reports whether every field has been answered.
func (s *Session) Complete() bool {
	return s.Cursor >= len(s.Fields)
}

// Store keeps sessions by id. Implementations must be safe for
// concurrent use. Put re-registers a mutated session; the in-memory
// store shares pointers so it is a no-op there, but backends that
// serialize sessions need the write-back.
type Store interface {
	Create(doc []byte, fs []fields.Field) *Session
	Get(id string) (*Session, error)
	Put(s *Session) error
}

// MemoryStore is the in-process Store. Sessions live until the process
// exits; production deployments would swap in a shared backend.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore returns an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Create registers a new session over the given document and fields and
// returns it with a fresh id.
func (m *MemoryStore) Create(doc []byte, fs []fields.Field) *Session {
	s := &Session{
		ID:     uuid.NewString(),
		Doc:    doc,
		Fields: fs,
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Put stores the session under its id.
func (m *MemoryStore) Put(s *Session) error {
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return nil
}

// Get looks up a session by id.
func (m *MemoryStore) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}
