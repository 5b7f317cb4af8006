package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
)

const defaultTimeout = 30 * time.Second

// seed наполняет PostgreSQL стартовым каталогом лицензий и демо-пользователями.
// Уже существующие записи (по уникальному имени или email) пропускаются.
func main() {
	var dsn string
	flag.StringVar(&dsn, "dsn", "", "PostgreSQL DSN (fallback: STOREFRONT_POSTGRES_DSN)")
	flag.Parse()

	_ = godotenv.Load()

	if strings.TrimSpace(dsn) == "" {
		dsn = strings.TrimSpace(os.Getenv("STOREFRONT_POSTGRES_DSN"))
	}
	if dsn == "" {
		fail("STOREFRONT_POSTGRES_DSN (or -dsn) is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		fail("open postgres store: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		fail("apply migrations: %v", err)
	}

	now := time.Now().UTC()

	users := postgres.NewUserRepository(store)
	seededUsers := 0
	for _, user := range starterUsers(now) {
		err := users.Create(user)
		switch {
		case err == nil:
			seededUsers++
		case errors.Is(err, domain.ErrVersionConflict):
			// уже существует
		default:
			fail("seed user %s: %v", user.Email, err)
		}
	}

	items := postgres.NewItemRepository(store)
	seededItems := 0
	for _, item := range starterCatalog(now) {
		err := items.Create(item)
		switch {
		case err == nil:
			seededItems++
		case errors.Is(err, domain.ErrVersionConflict):
			// уже существует
		default:
			fail("seed item %s: %v", item.Name, err)
		}
	}

	fmt.Printf("seed ok: users=%d items=%d\n", seededUsers, seededItems)
}

func starterUsers(now time.Time) []domain.User {
	return []domain.User{
		{
			ID:        uuid.NewString(),
			Email:     "admin@storefront.local",
			Role:      domain.RoleAdmin,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        uuid.NewString(),
			Email:     "demo@storefront.local",
			Role:      domain.RoleUser,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func starterCatalog(now time.Time) []domain.Item {
	items := []domain.Item{
		{
			Name:         "antivirus-pro",
			Description:  "Годовая лицензия антивируса",
			Category:     "security",
			LicenseType:  "subscription",
			Duration:     "12m",
			PriceMinor:   249900,
			AvailableQty: 100,
		},
		{
			Name:         "office-suite",
			Description:  "Бессрочная лицензия офисного пакета",
			Category:     "productivity",
			LicenseType:  "perpetual",
			PriceMinor:   599900,
			AvailableQty: 50,
		},
		{
			Name:         "photo-editor",
			Description:  "Лицензия фоторедактора на 6 месяцев",
			Category:     "media",
			LicenseType:  "subscription",
			Duration:     "6m",
			PriceMinor:   129900,
			AvailableQty: 25,
		},
	}

	for i := range items {
		items[i].ID = uuid.NewString()
		items[i].CreatedAt = now
		items[i].UpdatedAt = now
	}
	return items
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
