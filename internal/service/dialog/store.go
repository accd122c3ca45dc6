package dialog

import (
	"container/list"
	"sync"

	"github.com/zhouzirui/z-chat/backend/internal/model/chat"
)

// Store keeps one Dialog per user id. Implementations return and store copies,
// so a caller mutating a Dialog never affects the stored value until Set.
type Store interface {
	// Get returns the dialog for id. A missing dialog is created with newDialog
	// and stored before being returned.
	Get(id string, newDialog func() chat.Dialog) chat.Dialog
	// Set replaces the dialog for id.
	Set(id string, d chat.Dialog)
}

// LRUStore implements Store with a bounded least-recently-used cache.
type LRUStore struct {
	mu      sync.Mutex
	maxSize int
	cache   map[string]*list.Element
	lru     *list.List
}

type cacheEntry struct {
	id     string
	dialog chat.Dialog
}

// NewLRUStore creates a store holding at most maxSize dialogs. Values below 1 are treated as 1.
func NewLRUStore(maxSize int) *LRUStore {
	if maxSize < 1 {
		maxSize = 1
	}
	return &LRUStore{
		maxSize: maxSize,
		cache:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// Get retrieves a dialog by id, creating it when absent.
func (s *LRUStore) Get(id string, newDialog func() chat.Dialog) chat.Dialog {
	s.mu.Lock()
	if elem, ok := s.cache[id]; ok {
		s.lru.MoveToFront(elem)
		d := elem.Value.(*cacheEntry).dialog.Clone()
		s.mu.Unlock()
		return d
	}
	s.mu.Unlock()

	// newDialog may be slow (profile loading), so it runs outside the lock.
	d := newDialog()
	s.Set(id, d)
	return d.Clone()
}

// Set stores a copy of d under id and evicts the oldest dialogs past capacity.
func (s *LRUStore) Set(id string, d chat.Dialog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.cache[id]; ok {
		elem.Value.(*cacheEntry).dialog = d.Clone()
		s.lru.MoveToFront(elem)
		return
	}

	elem := s.lru.PushFront(&cacheEntry{id: id, dialog: d.Clone()})
	s.cache[id] = elem
	s.evictIfNeeded()
}

// Len reports how many dialogs are cached.
func (s *LRUStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

func (s *LRUStore) evictIfNeeded() {
	for s.lru.Len() > s.maxSize {
		oldest := s.lru.Back()
		if oldest == nil {
			break
		}
		entry := oldest.Value.(*cacheEntry)
		s.lru.Remove(oldest)
		delete(s.cache, entry.id)
	}
}
