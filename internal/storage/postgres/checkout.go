package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type checkoutRepository struct {
	db *sql.DB
}

// NewCheckoutRepository создаёт PostgreSQL-реализацию CheckoutRepository.
func NewCheckoutRepository(store *Store) domain.CheckoutRepository {
	return &checkoutRepository{db: store.DB()}
}

// ConfirmCheckout списывает остатки и подтверждает заказ одной транзакцией.
// Условный UPDATE по каждому товару (available_qty >= qty) гарантирует,
// что остаток не уходит в минус даже при конкурентных покупках;
// любая неудача откатывает транзакцию целиком.
func (c *checkoutRepository) ConfirmCheckout(order domain.Order, decrements []domain.StockDecrement) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1,
		    version = version + 1,
		    updated_at = $2
		WHERE id = $3
		  AND version = $4
		  AND status = $5
	`,
		string(domain.OrderStatusConfirmed), now,
		order.ID, order.Version, string(domain.OrderStatusCart),
	)
	if err != nil {
		return domain.Order{}, fmt.Errorf("confirm order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Order{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, checkErr := orderExistsTx(ctx, tx, order.ID)
		if checkErr != nil {
			err = checkErr
			return domain.Order{}, err
		}
		err = domain.ErrVersionConflict
		if !exists {
			err = domain.ErrOrderNotFound
		}
		return domain.Order{}, err
	}

	for _, dec := range decrements {
		if err = c.decrementStock(ctx, tx, dec, now); err != nil {
			return domain.Order{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("commit checkout: %w", err)
	}

	confirmed := order
	confirmed.Status = domain.OrderStatusConfirmed
	confirmed.Version++
	confirmed.UpdatedAt = now

	return confirmed, nil
}

func (c *checkoutRepository) decrementStock(ctx context.Context, tx *sql.Tx, dec domain.StockDecrement, now time.Time) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE items
		SET available_qty = available_qty - $1,
		    version = version + 1,
		    updated_at = $2
		WHERE id = $3
		  AND available_qty >= $1
	`, dec.Qty, now, dec.ItemID)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Декремент не прошёл: различаем отсутствующий товар и нехватку остатка.
	var name string
	err = tx.QueryRowContext(ctx, `SELECT name FROM items WHERE id = $1`, dec.ItemID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, dec.ItemID)
	}
	if err != nil {
		return fmt.Errorf("check item stock: %w", err)
	}
	return fmt.Errorf("%w: %s", domain.ErrOutOfStock, name)
}

var _ domain.CheckoutRepository = (*checkoutRepository)(nil)
