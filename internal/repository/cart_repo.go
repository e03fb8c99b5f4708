package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type postgresCartRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCartRepository(db *sql.DB, logger *logrus.Logger) domain.CartRepository {
	return &postgresCartRepository{
		db:  db,
		log: logger,
	}
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const cartLinesQuery = `
	SELECT c.id, c.product_id, p.name, p.image_url, p.price, c.radius, c.quantity
	FROM carts c
	JOIN products p ON p.id = c.product_id AND p.is_active = TRUE
	WHERE c.user_id = $1
	ORDER BY c.id ASC`

func (r *postgresCartRepository) WithinTx(ctx context.Context, fn func(tx domain.CartTx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Repository: Failed to begin transaction: %v", err)
		return fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("Repository: Recovered from panic, rolling back transaction")
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			r.log.Debugf("Repository: Rolling back transaction due to error: %v", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("Repository: Failed to rollback transaction: %v", rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			r.log.Errorf("Repository: Failed to commit transaction: %v", cErr)
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	err = fn(&cartTx{tx: tx, log: r.log})
	return err
}

func (r *postgresCartRepository) ListLines(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	return queryCartLines(ctx, r.db, cartLinesQuery, userID)
}

func queryCartLines(ctx context.Context, q queryer, query string, userID int64) ([]domain.CartLine, error) {
	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("could not list cart for user %d: %w", userID, err)
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(&l.ItemID, &l.ProductID, &l.ProductName, &l.ImageURL, &l.Price, &l.Radius, &l.Quantity); err != nil {
			return nil, fmt.Errorf("could not scan cart line: %w", err)
		}
		l.LineTotal = l.Price * int64(l.Quantity)
		lines = append(lines, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}
	return lines, nil
}

type cartTx struct {
	tx  *sql.Tx
	log *logrus.Logger
}

func (t *cartTx) GetProductForShare(ctx context.Context, productID int) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR SHARE`
	product, err := scanProduct(t.tx.QueryRowContext(ctx, query, productID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product with id %d %w", productID, domain.ErrNotFound)
		}
		t.log.Errorf("Repository: Failed to lock product %d: %v", productID, err)
		return nil, fmt.Errorf("could not read product: %w", err)
	}
	return product, nil
}

func (t *cartTx) GetItemForUpdate(ctx context.Context, key domain.CartKey) (*domain.CartItem, error) {
	query := `SELECT id, user_id, product_id, radius, quantity FROM carts
		WHERE user_id = $1 AND product_id = $2 AND radius = $3
		FOR UPDATE`
	var item domain.CartItem
	err := t.tx.QueryRowContext(ctx, query, key.UserID, key.ProductID, key.Radius).
		Scan(&item.ID, &item.UserID, &item.ProductID, &item.Radius, &item.Quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cart entry for product %d (radius %g) %w", key.ProductID, key.Radius, domain.ErrNotFound)
		}
		t.log.Errorf("Repository: Failed to lock cart entry %+v: %v", key, err)
		return nil, fmt.Errorf("could not read cart entry: %w", err)
	}
	return &item, nil
}

func (t *cartTx) InsertItem(ctx context.Context, key domain.CartKey, quantity int) (*domain.CartItem, error) {
	query := `INSERT INTO carts (user_id, product_id, radius, quantity) VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, product_id, radius, quantity`
	var item domain.CartItem
	err := t.tx.QueryRowContext(ctx, query, key.UserID, key.ProductID, key.Radius, quantity).
		Scan(&item.ID, &item.UserID, &item.ProductID, &item.Radius, &item.Quantity)
	if err != nil {
		err = translatePqError(err)
		if errors.Is(err, domain.ErrConflict) {
			t.log.Warnf("Repository: Concurrent insert detected for cart entry %+v", key)
			return nil, fmt.Errorf("cart entry %w", domain.ErrConflict)
		}
		t.log.Errorf("Repository: Failed to insert cart entry %+v: %v", key, err)
		return nil, fmt.Errorf("could not insert cart entry: %w", err)
	}
	return &item, nil
}

func (t *cartTx) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	result, err := t.tx.ExecContext(ctx, `UPDATE carts SET quantity = $1 WHERE id = $2`, quantity, id)
	if err != nil {
		t.log.Errorf("Repository: Failed to update cart entry %d: %v", id, err)
		return fmt.Errorf("could not update cart entry: %w", translatePqError(err))
	}
	return expectOneRow(result, id)
}

func (t *cartTx) DeleteItem(ctx context.Context, id int64) error {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM carts WHERE id = $1`, id)
	if err != nil {
		t.log.Errorf("Repository: Failed to delete cart entry %d: %v", id, err)
		return fmt.Errorf("could not delete cart entry: %w", err)
	}
	return expectOneRow(result, id)
}

func (t *cartTx) ListLinesForUpdate(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	return queryCartLines(ctx, t.tx, cartLinesQuery+` FOR UPDATE OF c`, userID)
}

func (t *cartTx) ClearUser(ctx context.Context, userID int64) (int64, error) {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	if err != nil {
		t.log.Errorf("Repository: Failed to clear cart of user %d: %v", userID, err)
		return 0, fmt.Errorf("could not clear cart: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not confirm cart clear: %w", err)
	}
	return n, nil
}

func expectOneRow(result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not confirm cart change: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("cart entry %d %w", id, domain.ErrNotFound)
	}
	return nil
}
