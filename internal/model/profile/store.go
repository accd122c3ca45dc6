package profile

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoProfiles is returned when a profile directory holds no usable files.
var ErrNoProfiles = errors.New("no profiles found")

// Store exposes profile retrieval for the chat bot.
type Store interface {
	List() []Profile
	Random() Profile
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Profile
	intn  func(n int) int
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied profiles.
func NewMemoryStore(items []Profile) *MemoryStore {
	return &MemoryStore{items: append([]Profile(nil), items...), intn: rand.IntN}
}

// LoadDir reads every regular file in dir as one profile, keyed by file name.
func LoadDir(dir string) ([]Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read profile dir: %w", err)
	}

	var items []Profile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read profile %s: %w", entry.Name(), err)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			continue
		}
		items = append(items, Profile{
			ID:   strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Text: text,
		})
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoProfiles, dir)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// List returns the profile list.
func (s *MemoryStore) List() []Profile {
	return append([]Profile(nil), s.items...)
}

// Random picks a profile uniformly. An empty store yields the zero Profile.
func (s *MemoryStore) Random() Profile {
	if len(s.items) == 0 {
		return Profile{}
	}
	return s.items[s.intn(len(s.items))]
}
