package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const itemColumns = `
	id, name, description, category, image_url, license_type, duration,
	price_minor, available_qty, version, created_at, updated_at
`

type itemRepository struct {
	db *sql.DB
}

// NewItemRepository создаёт PostgreSQL-реализацию ItemRepository.
func NewItemRepository(store *Store) domain.ItemRepository {
	return &itemRepository{db: store.DB()}
}

func (r *itemRepository) Create(item domain.Item) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO items (`+itemColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		item.ID, item.Name, item.Description, item.Category, item.ImageURL,
		item.LicenseType, item.Duration, item.PriceMinor, item.AvailableQty,
		item.Version, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return domain.ErrVersionConflict
		}
		return fmt.Errorf("insert item: %w", err)
	}

	return nil
}

func (r *itemRepository) Get(id string) (domain.Item, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var item domain.Item
	err := r.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE id = $1
	`, id).Scan(
		&item.ID, &item.Name, &item.Description, &item.Category, &item.ImageURL,
		&item.LicenseType, &item.Duration, &item.PriceMinor, &item.AvailableQty,
		&item.Version, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Item{}, domain.ErrItemNotFound
		}
		return domain.Item{}, fmt.Errorf("select item: %w", err)
	}

	return item, nil
}

func (r *itemRepository) List() ([]domain.Item, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM items
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Item, 0)
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Description, &item.Category, &item.ImageURL,
			&item.LicenseType, &item.Duration, &item.PriceMinor, &item.AvailableQty,
			&item.Version, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item rows: %w", err)
	}

	return items, nil
}

func (r *itemRepository) Save(item domain.Item) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE items
		SET name = $1,
		    description = $2,
		    category = $3,
		    image_url = $4,
		    license_type = $5,
		    duration = $6,
		    price_minor = $7,
		    available_qty = $8,
		    version = version + 1,
		    updated_at = $9
		WHERE id = $10
		  AND version = $11
	`,
		item.Name, item.Description, item.Category, item.ImageURL,
		item.LicenseType, item.Duration, item.PriceMinor, item.AvailableQty,
		item.UpdatedAt, item.ID, item.Version,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := r.itemExists(ctx, item.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrItemNotFound
		}
		return domain.ErrVersionConflict
	}

	return nil
}

func (r *itemRepository) itemExists(ctx context.Context, id string) (bool, error) {
	var found string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM items WHERE id = $1`, id).Scan(&found)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check item exists: %w", err)
}

var _ domain.ItemRepository = (*itemRepository)(nil)
