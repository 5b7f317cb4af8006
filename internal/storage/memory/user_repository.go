package memory

import "github.com/vladislavdragonenkov/storefront/internal/domain"

// userRepositoryInMemory — реализация UserRepository поверх общего Store.
type userRepositoryInMemory struct {
	store *Store
}

// NewUserRepository возвращает in-memory репозиторий пользователей.
func NewUserRepository(store *Store) domain.UserRepository {
	return &userRepositoryInMemory{store: store}
}

// Create сохраняет нового пользователя, охраняя уникальность email.
func (r *userRepositoryInMemory) Create(user domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; exists {
		return domain.ErrVersionConflict
	}
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return domain.ErrVersionConflict
		}
	}

	s.users[user.ID] = user
	return nil
}

// Get возвращает пользователя или ErrUserNotFound.
func (r *userRepositoryInMemory) Get(id string) (domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

var _ domain.UserRepository = (*userRepositoryInMemory)(nil)
