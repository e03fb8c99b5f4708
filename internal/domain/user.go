package domain

import "context"

type UserRepository interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
}

// Notification is the checkout confirmation handed to a Notifier.
type Notification struct {
	UserID    int64  `json:"user_id"`
	Recipient string `json:"recipient"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Total     int64  `json:"grand_total"`
}

// Notifier delivers notifications without blocking the caller on delivery.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
	Close() error
}
