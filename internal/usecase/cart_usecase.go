package usecase

import (
	"context"
	"errors"
	"fmt"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

// maxAdjustAttempts bounds retries when two requests insert the same cart
// entry at once and one of them hits the unique index.
const maxAdjustAttempts = 3

type CartUseCase interface {
	// Adjust applies one increment or decrement and returns the resulting
	// entry, or nil when the entry was removed.
	Adjust(ctx context.Context, caller *domain.Identity, productID int, radius float64, direction domain.Direction) (*domain.CartItem, error)
	List(ctx context.Context, caller *domain.Identity) ([]domain.CartLine, error)
	Remove(ctx context.Context, caller *domain.Identity, productID int, radius float64) error
}

type cartUseCase struct {
	cartRepo domain.CartRepository
	log      *logrus.Logger
}

var _ CartUseCase = (*cartUseCase)(nil)

func NewCartUseCase(cartRepo domain.CartRepository, logger *logrus.Logger) CartUseCase {
	return &cartUseCase{
		cartRepo: cartRepo,
		log:      logger,
	}
}

func (uc *cartUseCase) Adjust(ctx context.Context, caller *domain.Identity, productID int, radius float64, direction domain.Direction) (*domain.CartItem, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	if direction != domain.Increment && direction != domain.Decrement {
		return nil, fmt.Errorf("%w: quantity must be '+' or '-'", domain.ErrInvalidInput)
	}

	key := domain.CartKey{UserID: caller.ID, ProductID: productID, Radius: radius}
	var (
		item *domain.CartItem
		err  error
	)
	for attempt := 1; attempt <= maxAdjustAttempts; attempt++ {
		item, err = uc.adjustOnce(ctx, key, direction)
		if !errors.Is(err, domain.ErrConflict) {
			break
		}
		uc.log.Warnf("Use Case: Concurrent cart insert for %+v, retrying (attempt %d)", key, attempt)
	}
	if err != nil {
		uc.log.Warnf("Use Case: Cart adjust %s failed for %+v: %v", direction, key, err)
		return nil, err
	}

	if item == nil {
		uc.log.Infof("Use Case: Cart entry %+v removed", key)
	} else {
		uc.log.Infof("Use Case: Cart entry %+v now has quantity %d", key, item.Quantity)
	}
	return item, nil
}

func (uc *cartUseCase) adjustOnce(ctx context.Context, key domain.CartKey, direction domain.Direction) (*domain.CartItem, error) {
	var result *domain.CartItem
	err := uc.cartRepo.WithinTx(ctx, func(tx domain.CartTx) error {
		product, err := tx.GetProductForShare(ctx, key.ProductID)
		if err != nil {
			return err
		}
		if !product.IsActive {
			return fmt.Errorf("product with id %d %w", key.ProductID, domain.ErrNotFound)
		}

		existing, err := tx.GetItemForUpdate(ctx, key)
		if errors.Is(err, domain.ErrNotFound) {
			if direction == domain.Decrement {
				return fmt.Errorf("%w: cannot decrease a quantity that is not in the cart", domain.ErrInvalidOperation)
			}
			result, err = tx.InsertItem(ctx, key, 1)
			return err
		}
		if err != nil {
			return err
		}

		quantity := existing.Quantity + 1
		if direction == domain.Decrement {
			quantity = existing.Quantity - 1
		}
		if quantity < 1 {
			result = nil
			return tx.DeleteItem(ctx, existing.ID)
		}
		if err := tx.UpdateQuantity(ctx, existing.ID, quantity); err != nil {
			return err
		}
		existing.Quantity = quantity
		result = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *cartUseCase) List(ctx context.Context, caller *domain.Identity) ([]domain.CartLine, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	lines, err := uc.cartRepo.ListLines(ctx, caller.ID)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list cart of user %d: %v", caller.ID, err)
		return nil, err
	}
	return lines, nil
}

func (uc *cartUseCase) Remove(ctx context.Context, caller *domain.Identity, productID int, radius float64) error {
	if caller == nil {
		return domain.ErrUnauthenticated
	}
	key := domain.CartKey{UserID: caller.ID, ProductID: productID, Radius: radius}
	err := uc.cartRepo.WithinTx(ctx, func(tx domain.CartTx) error {
		existing, err := tx.GetItemForUpdate(ctx, key)
		if err != nil {
			return err
		}
		return tx.DeleteItem(ctx, existing.ID)
	})
	if err != nil {
		uc.log.Warnf("Use Case: Failed to remove cart entry %+v: %v", key, err)
		return err
	}
	uc.log.Infof("Use Case: Cart entry %+v removed", key)
	return nil
}
