package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

const orderSubject = "Order confirmation"

type CheckoutUseCase interface {
	Checkout(ctx context.Context, caller *domain.Identity) (*domain.OrderSummary, error)
}

type checkoutUseCase struct {
	cartRepo domain.CartRepository
	userRepo domain.UserRepository
	notifier domain.Notifier
	log      *logrus.Logger
}

var _ CheckoutUseCase = (*checkoutUseCase)(nil)

func NewCheckoutUseCase(cartRepo domain.CartRepository, userRepo domain.UserRepository, notifier domain.Notifier, logger *logrus.Logger) CheckoutUseCase {
	return &checkoutUseCase{
		cartRepo: cartRepo,
		userRepo: userRepo,
		notifier: notifier,
		log:      logger,
	}
}

// Checkout reads the cart, composes the order summary and clears the cart in
// a single transaction. Either all of it happens or the cart is left intact.
func (uc *checkoutUseCase) Checkout(ctx context.Context, caller *domain.Identity) (*domain.OrderSummary, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	uc.log.Infof("Use Case: Starting checkout for user %d", caller.ID)

	var summary *domain.OrderSummary
	err := uc.cartRepo.WithinTx(ctx, func(tx domain.CartTx) error {
		lines, err := tx.ListLinesForUpdate(ctx, caller.ID)
		if err != nil {
			return fmt.Errorf("%w: could not read cart: %v", domain.ErrCheckoutFailed, err)
		}
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}

		summary = composeSummary(caller, lines)

		if _, err := tx.ClearUser(ctx, caller.ID); err != nil {
			return fmt.Errorf("%w: could not clear cart: %v", domain.ErrCheckoutFailed, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			uc.log.Warnf("Use Case: Checkout for user %d rejected, cart is empty", caller.ID)
			return nil, err
		}
		if !errors.Is(err, domain.ErrCheckoutFailed) {
			err = fmt.Errorf("%w: %v", domain.ErrCheckoutFailed, err)
		}
		uc.log.Errorf("Use Case: Checkout for user %d failed: %v", caller.ID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Checkout for user %d completed, %d lines, total %d", caller.ID, len(summary.Lines), summary.GrandTotal)
	uc.notify(ctx, summary)
	return summary, nil
}

// notify hands the confirmation to the notifier. Failures are only logged,
// the checkout has already been committed.
func (uc *checkoutUseCase) notify(ctx context.Context, summary *domain.OrderSummary) {
	if uc.notifier == nil {
		return
	}
	note := domain.Notification{
		UserID:    summary.UserID,
		Recipient: summary.Recipient,
		Subject:   summary.Subject,
		Body:      summary.Body,
		Total:     summary.GrandTotal,
	}
	if uc.userRepo != nil {
		user, err := uc.userRepo.GetUserByID(ctx, summary.UserID)
		if err != nil {
			uc.log.Warnf("Use Case: Could not look up email of user %d: %v", summary.UserID, err)
		} else {
			note.Email = user.Email
		}
	}
	if err := uc.notifier.Send(ctx, note); err != nil {
		uc.log.Warnf("Use Case: Failed to send order confirmation to user %d: %v", summary.UserID, err)
	}
}

func composeSummary(caller *domain.Identity, lines []domain.CartLine) *domain.OrderSummary {
	var total int64
	for _, l := range lines {
		total += l.LineTotal
	}

	recipient := caller.FullName()
	var b strings.Builder
	fmt.Fprintf(&b, "Hello, %s!\n\n", recipient)
	b.WriteString("Thank you for your order. Your order details:\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "%s (%s) x %d = %d\n",
			l.ProductName, strconv.FormatFloat(l.Radius, 'f', -1, 64), l.Quantity, l.LineTotal)
	}
	fmt.Fprintf(&b, "\nTotal: %d\n", total)

	return &domain.OrderSummary{
		UserID:     caller.ID,
		Recipient:  recipient,
		Lines:      lines,
		GrandTotal: total,
		Subject:    orderSubject,
		Body:       b.String(),
	}
}
