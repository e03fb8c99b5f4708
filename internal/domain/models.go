package domain

import "time"

type Category struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ParentID *int   `json:"parent_id"` // nil for root categories
	IsActive bool   `json:"is_active"`
}

type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       int64   `json:"price"`
	Slug        string  `json:"slug"`
	CategoryID  int     `json:"category_id"`
	ImageURL    string  `json:"image_url"`
	Rating      float64 `json:"rating"`
	IsActive    bool    `json:"is_active"`
}

// ProductFields is the admin-editable part of a product.
type ProductFields struct {
	Name        string
	Description string
	Price       int64
	CategoryID  int
}

// Image is an uploaded blob together with the client supplied file name.
type Image struct {
	Data     []byte
	Filename string
}

type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the verified caller behind a bearer token.
type Identity struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsAdmin   bool   `json:"is_admin"`
}

// RequireAdmin fails with ErrForbidden unless the caller is an administrator.
func (i *Identity) RequireAdmin() error {
	if i == nil || !i.IsAdmin {
		return ErrForbidden
	}
	return nil
}

func (i *Identity) FullName() string {
	if i.LastName == "" {
		return i.FirstName
	}
	return i.FirstName + " " + i.LastName
}
