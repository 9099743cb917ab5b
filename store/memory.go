// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/danielhkuo/quickly-dine/candidates"
	"github.com/danielhkuo/quickly-dine/models"
	"github.com/danielhkuo/quickly-dine/session"
)

// MemorySessions keeps sessions in process. The lock only guards the maps;
// mutation functions run unlocked against private copies and commit with a
// version compare.
type MemorySessions struct {
	mu     sync.RWMutex
	byID   map[string]*session.Session
	active map[string]string // code -> id
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{
		byID:   make(map[string]*session.Session),
		active: make(map[string]string),
	}
}

func (m *MemorySessions) Create(ctx context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.active[s.Code]; ok {
		return ErrCodeTaken
	}
	if s.Version == 0 {
		s.Version = 1
	}
	m.byID[s.ID] = s.Clone()
	if s.Phase != session.PhaseCompleted {
		m.active[s.Code] = s.ID
	}
	return nil
}

func (m *MemorySessions) FindByID(ctx context.Context, id string) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *MemorySessions) FindByCode(ctx context.Context, code string) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if id, ok := m.active[code]; ok {
		return m.byID[id].Clone(), nil
	}

	var latest *session.Session
	for _, s := range m.byID {
		if s.Code != code {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest.Clone(), nil
}

func (m *MemorySessions) Update(ctx context.Context, id string, fn MutateFunc) (*session.Session, error) {
	for attempt := 0; attempt < MaxUpdateAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		loaded, err := m.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := fn(loaded); err != nil {
			return nil, err
		}

		committed, ok := m.commit(loaded)
		if ok {
			return committed, nil
		}
	}
	return nil, ErrConflict
}

// commit writes next if the stored version still matches the version it
// was loaded at.
func (m *MemorySessions) commit(next *session.Session) (*session.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.byID[next.ID]
	if !ok || current.Version != next.Version {
		return nil, false
	}

	nextVersion(next)
	m.byID[next.ID] = next.Clone()
	if next.Phase == session.PhaseCompleted && m.active[next.Code] == next.ID {
		delete(m.active, next.Code)
	}
	return next, true
}

// MemoryUsers keeps users in process.
type MemoryUsers struct {
	mu         sync.RWMutex
	byID       map[string]models.User
	byUsername map[string]string
	hashes     map[string]string
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		byID:       make(map[string]models.User),
		byUsername: make(map[string]string),
		hashes:     make(map[string]string),
	}
}

func (m *MemoryUsers) CreateUser(ctx context.Context, u models.User, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(u.Username)
	if u.Username != "" {
		if _, ok := m.byUsername[key]; ok {
			return ErrUsernameTaken
		}
		m.byUsername[key] = u.ID
	}
	m.byID[u.ID] = cloneUser(u)
	m.hashes[u.ID] = passwordHash
	return nil
}

func (m *MemoryUsers) FindUser(ctx context.Context, id string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.byID[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return cloneUser(u), nil
}

func (m *MemoryUsers) FindCredentials(ctx context.Context, username string) (models.User, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byUsername[strings.ToLower(username)]
	if !ok {
		return models.User{}, "", ErrNotFound
	}
	return cloneUser(m.byID[id]), m.hashes[id], nil
}

func (m *MemoryUsers) UpdatePreferences(ctx context.Context, id string, prefs models.Preferences) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	u.Preferences = prefs
	u = cloneUser(u)
	m.byID[id] = u
	return cloneUser(u), nil
}

func (m *MemoryUsers) Preferences(ctx context.Context, ids []string) (map[string]models.Preferences, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]models.Preferences, len(ids))
	for _, id := range ids {
		if u, ok := m.byID[id]; ok {
			out[id] = cloneUser(u).Preferences
		}
	}
	return out, nil
}

func cloneUser(u models.User) models.User {
	u.Preferences.Allergies = slices.Clone(u.Preferences.Allergies)
	u.Preferences.DietaryPreferences = slices.Clone(u.Preferences.DietaryPreferences)
	u.Preferences.DislikedCuisines = slices.Clone(u.Preferences.DislikedCuisines)
	return u
}

// MemoryCatalog keeps restaurants in process.
type MemoryCatalog struct {
	mu   sync.RWMutex
	byID map[string]models.Restaurant
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{byID: make(map[string]models.Restaurant)}
}

func (m *MemoryCatalog) Candidates(ctx context.Context, f candidates.Filter, limit int) ([]models.Restaurant, error) {
	m.mu.RLock()
	list := make([]models.Restaurant, 0, len(m.byID))
	for _, r := range m.byID {
		list = append(list, r)
	}
	m.mu.RUnlock()

	sortCatalog(list)
	return f.Apply(list, limit), nil
}

func (m *MemoryCatalog) FindRestaurant(ctx context.Context, id string) (models.Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.byID[id]
	if !ok {
		return models.Restaurant{}, ErrNotFound
	}
	return r, nil
}

func (m *MemoryCatalog) FindRestaurants(ctx context.Context, ids []string) (map[string]models.Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]models.Restaurant, len(ids))
	for _, id := range ids {
		if r, ok := m.byID[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

func (m *MemoryCatalog) UpsertRestaurants(ctx context.Context, list []models.Restaurant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range list {
		m.byID[r.ID] = r
	}
	return nil
}

func (m *MemoryCatalog) CountRestaurants(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID), nil
}

// sortCatalog orders restaurants the same way the SQL catalog does:
// rating descending, then name, then id.
func sortCatalog(list []models.Restaurant) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Rating != list[j].Rating {
			return list[i].Rating > list[j].Rating
		}
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
}
