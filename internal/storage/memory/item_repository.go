package memory

import (
	"sort"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// itemRepositoryInMemory — реализация ItemRepository поверх общего Store.
type itemRepositoryInMemory struct {
	store *Store
}

// NewItemRepository возвращает in-memory репозиторий каталога.
func NewItemRepository(store *Store) domain.ItemRepository {
	return &itemRepositoryInMemory{store: store}
}

// Create сохраняет новый товар, охраняя уникальность имени.
func (r *itemRepositoryInMemory) Create(item domain.Item) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; exists {
		return domain.ErrVersionConflict
	}
	for _, existing := range s.items {
		if existing.Name == item.Name {
			return domain.ErrVersionConflict
		}
	}

	s.items[item.ID] = item
	return nil
}

// Get возвращает товар или ErrItemNotFound.
func (r *itemRepositoryInMemory) Get(id string) (domain.Item, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return domain.Item{}, domain.ErrItemNotFound
	}
	return item, nil
}

// List возвращает каталог, отсортированный по имени.
func (r *itemRepositoryInMemory) List() ([]domain.Item, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Item, 0, len(s.items))
	for _, item := range s.items {
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return result, nil
}

// Save перезаписывает товар, проверяя версию (optimistic locking).
func (r *itemRepositoryInMemory) Save(item domain.Item) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[item.ID]
	if !ok {
		return domain.ErrItemNotFound
	}
	if current.Version != item.Version {
		return domain.ErrVersionConflict
	}
	item.Version++
	s.items[item.ID] = item
	return nil
}

var _ domain.ItemRepository = (*itemRepositoryInMemory)(nil)
