package repository

import (
	"context"
	"testing"

	"catalog_service/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productCols = []string{"id", "name", "description", "price", "slug", "category_id", "image_url", "rating", "is_active"}

func TestCreateProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO products`).
		WithArgs("Margherita", "Classic", int64(1200), "margherita", 2, "/static/a.png", 0.0, true).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(7, "Margherita", "Classic", 1200, "margherita", 2, "/static/a.png", 0.0, true))

	repo := NewPostgresProductRepository(db, testLogger())
	created, err := repo.CreateProduct(context.Background(), &domain.Product{
		Name: "Margherita", Description: "Classic", Price: 1200, Slug: "margherita",
		CategoryID: 2, ImageURL: "/static/a.png", IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, created.ID)
	assert.Equal(t, int64(1200), created.Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProductErrors(t *testing.T) {
	tests := []struct {
		name string
		code pq.ErrorCode
		want error
	}{
		{"duplicate slug", "23505", domain.ErrConflict},
		{"missing category", "23503", domain.ErrInvalidInput},
		{"price check", "23514", domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(`INSERT INTO products`).WillReturnError(&pq.Error{Code: tt.code})

			_, err = NewPostgresProductRepository(db, testLogger()).
				CreateProduct(context.Background(), &domain.Product{Name: "X", Slug: "x", Price: 1, CategoryID: 1})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdateProductNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`UPDATE products`).WillReturnRows(sqlmock.NewRows(productCols))

	_, err = NewPostgresProductRepository(db, testLogger()).
		UpdateProduct(context.Background(), "gone", &domain.Product{Name: "X", Slug: "x", Price: 1, CategoryID: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeactivateProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE products SET is_active = FALSE WHERE id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE products SET is_active = FALSE WHERE id = \$1`).
		WithArgs(8).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostgresProductRepository(db, testLogger())
	assert.NoError(t, repo.DeactivateProduct(context.Background(), 7))
	assert.ErrorIs(t, repo.DeactivateProduct(context.Background(), 8), domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveProductsByCategories(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`category_id = ANY\(\$1\)`).
		WithArgs(pq.Array([]int64{1, 3})).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(7, "Margherita", "", 1200, "margherita", 1, "/static/a.png", 4.5, true).
			AddRow(9, "Funghi", "", 1300, "funghi", 3, "/static/b.png", 0.0, true))

	repo := NewPostgresProductRepository(db, testLogger())
	products, err := repo.ListActiveProductsByCategories(context.Background(), []int{1, 3})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "funghi", products[1].Slug)
	assert.Equal(t, 4.5, products[0].Rating)

	empty, err := repo.ListActiveProductsByCategories(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NoError(t, mock.ExpectationsWereMet())
}
