package domain

import "context"

// Direction of a cart adjustment.
type Direction string

const (
	Increment Direction = "+"
	Decrement Direction = "-"
)

// ParseDirection accepts only the literal "+" and "-" tokens.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Increment, Decrement:
		return Direction(s), nil
	}
	return "", ErrInvalidInput
}

// CartKey identifies a single cart entry. At most one entry exists per key.
type CartKey struct {
	UserID    int64   `json:"user_id"`
	ProductID int     `json:"product_id"`
	Radius    float64 `json:"radius"`
}

type CartItem struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"user_id"`
	ProductID int     `json:"product_id"`
	Radius    float64 `json:"radius"`
	Quantity  int     `json:"quantity"`
}

// CartLine is a cart entry joined with the live product row.
type CartLine struct {
	ItemID      int64   `json:"id"`
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name"`
	ImageURL    string  `json:"image_url"`
	Price       int64   `json:"product_price"`
	Radius      float64 `json:"radius"`
	Quantity    int     `json:"quantity"`
	LineTotal   int64   `json:"total_price"`
}

type OrderSummary struct {
	UserID     int64      `json:"user_id"`
	Recipient  string     `json:"recipient"`
	Lines      []CartLine `json:"lines"`
	GrandTotal int64      `json:"grand_total"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
}

type CartRepository interface {
	// WithinTx runs fn inside one database transaction. The transaction is
	// committed when fn returns nil and rolled back otherwise.
	WithinTx(ctx context.Context, fn func(tx CartTx) error) error

	// ListLines returns the user's entries joined with active products only.
	ListLines(ctx context.Context, userID int64) ([]CartLine, error)
}

// CartTx is the set of cart statements available inside a transaction.
type CartTx interface {
	// GetProductForShare reads a product and holds a share lock on its row
	// until the transaction ends, so it cannot be deactivated meanwhile.
	GetProductForShare(ctx context.Context, productID int) (*Product, error)
	GetItemForUpdate(ctx context.Context, key CartKey) (*CartItem, error)
	InsertItem(ctx context.Context, key CartKey, quantity int) (*CartItem, error)
	UpdateQuantity(ctx context.Context, id int64, quantity int) error
	DeleteItem(ctx context.Context, id int64) error
	ListLinesForUpdate(ctx context.Context, userID int64) ([]CartLine, error)
	ClearUser(ctx context.Context, userID int64) (int64, error)
}
