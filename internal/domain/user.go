package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role — ограниченный тип ролей пользователя.
// Валидация выполняется на границе присвоения, а не внутри сеттеров.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole нормализует строку роли и отклоняет неизвестные значения.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrRoleInvalid, raw)
	}
}

// User принадлежит внешней подсистеме аутентификации;
// здесь хранится как неизменяемая ссылка владельца заказов.
type User struct {
	ID string
	// Email уникален.
	Email        string
	DisplayName  string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
