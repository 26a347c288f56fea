package service

import (
	"context"
	"sort"
	"sync"

	"github.com/crucial707/asset-tracker/internal/apperr"
	"github.com/crucial707/asset-tracker/internal/models"
	"github.com/crucial707/asset-tracker/internal/pagination"
	"github.com/crucial707/asset-tracker/internal/query"
	"github.com/google/uuid"
)

// memStore is an in-memory AssetStore. Update holds the store
// lock while mutate runs, the way the SQL store holds a row lock.
type memStore struct {
	mu     sync.Mutex
	assets map[uuid.UUID]models.Asset
	users  *memUsers
}

func newMemStore(users *memUsers) *memStore {
	return &memStore{assets: map[uuid.UUID]models.Asset{}, users: users}
}

func (m *memStore) resolve(a models.Asset) models.Asset {
	a.Assignee = nil
	if a.AssignedTo != nil {
		if u, err := m.users.GetByID(context.Background(), *a.AssignedTo); err == nil {
			a.Assignee = u.Ref()
		}
	}
	return a
}

func (m *memStore) Get(ctx context.Context, id uuid.UUID) (models.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assets[id]
	if !ok {
		return models.Asset{}, apperr.NotFound("asset")
	}
	return m.resolve(a), nil
}

func (m *memStore) List(ctx context.Context, f query.Filter, p pagination.Params) ([]models.Asset, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []models.Asset
	for _, a := range m.assets {
		if f.Match(a) {
			matched = append(matched, m.resolve(a))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() > matched[j].ID.String()
	})
	return pagination.Window(matched, p), len(matched), nil
}

func (m *memStore) Create(ctx context.Context, a models.Asset) (models.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[a.ID] = a
	return m.resolve(a), nil
}

func (m *memStore) Update(ctx context.Context, id uuid.UUID, mutate func(*models.Asset) error) (models.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assets[id]
	if !ok {
		return models.Asset{}, apperr.NotFound("asset")
	}
	if err := mutate(&a); err != nil {
		return models.Asset{}, err
	}
	m.assets[id] = a
	return m.resolve(a), nil
}

func (m *memStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[id]; !ok {
		return apperr.NotFound("asset")
	}
	delete(m.assets, id)
	return nil
}

func (m *memStore) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[models.Status]int{}
	for _, a := range m.assets {
		counts[a.Status]++
	}
	return counts, nil
}

// memUsers is an in-memory UserStore.
type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
}

func newMemUsers(users ...models.User) *memUsers {
	m := &memUsers{users: map[uuid.UUID]models.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUsers) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, apperr.NotFound("user")
	}
	return u, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, apperr.NotFound("user")
}

func (m *memUsers) Create(ctx context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return models.User{}, apperr.Duplicate("email")
		}
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *memUsers) Update(ctx context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return models.User{}, apperr.NotFound("user")
	}
	for _, existing := range m.users {
		if existing.ID != u.ID && existing.Email == u.Email {
			return models.User{}, apperr.Duplicate("email")
		}
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *memUsers) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if offset >= len(all) {
		return []models.User{}, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (m *memUsers) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}
