package delivery

import (
	"context"
	"io"

	"catalog_service/internal/domain"
	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	adminIdentity   = &domain.Identity{ID: 1, FirstName: "Ada", IsAdmin: true}
	shopperIdentity = &domain.Identity{ID: 2, FirstName: "Bob"}
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type stubVerifier map[string]*domain.Identity

func (v stubVerifier) Verify(token string) (*domain.Identity, error) {
	if token == "expired" {
		return nil, domain.ErrExpired
	}
	identity, ok := v[token]
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return identity, nil
}

var testVerifier = stubVerifier{"admin-token": adminIdentity, "shopper-token": shopperIdentity}

type stubCategoryUseCase struct {
	usecase.CategoryUseCase
	created []string
}

func (s *stubCategoryUseCase) ListActiveCategories(context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: 1, Name: "Pizza", Slug: "pizza", IsActive: true}}, nil
}

func (s *stubCategoryUseCase) CreateCategory(_ context.Context, caller *domain.Identity, name string, parentID *int) (*domain.Category, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	s.created = append(s.created, name)
	return &domain.Category{ID: len(s.created), Name: name, Slug: name, ParentID: parentID, IsActive: true}, nil
}

func (s *stubCategoryUseCase) DeactivateCategory(_ context.Context, caller *domain.Identity, id int) error {
	if err := caller.RequireAdmin(); err != nil {
		return err
	}
	if id != 1 {
		return domain.ErrNotFound
	}
	return nil
}

type stubProductUseCase struct {
	usecase.ProductUseCase
	lastFields domain.ProductFields
	lastImage  *domain.Image
	exportRows []usecase.ProductExportRow
	images     map[string][]byte
}

func (s *stubProductUseCase) CreateProduct(_ context.Context, caller *domain.Identity, fields domain.ProductFields, image *domain.Image) (*domain.Product, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	s.lastFields = fields
	s.lastImage = image
	return &domain.Product{ID: 10, Name: fields.Name, Price: fields.Price, CategoryID: fields.CategoryID, IsActive: true}, nil
}

func (s *stubProductUseCase) GetProductBySlug(_ context.Context, productSlug string) (*domain.Product, error) {
	if productSlug != "margherita" {
		return nil, domain.ErrNotFound
	}
	return &domain.Product{ID: 10, Name: "Margherita", Slug: "margherita", IsActive: true}, nil
}

func (s *stubProductUseCase) ListProductsByCategorySlug(_ context.Context, categorySlug string) ([]domain.Product, error) {
	return []domain.Product{{ID: 11, Name: "From " + categorySlug, IsActive: true}}, nil
}

func (s *stubProductUseCase) ExportProducts(_ context.Context, caller *domain.Identity) ([]usecase.ProductExportRow, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.exportRows, nil
}

func (s *stubProductUseCase) GetImage(_ context.Context, name string) ([]byte, error) {
	data, ok := s.images[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

type adjustCall struct {
	userID    int64
	productID int
	radius    float64
	direction domain.Direction
}

type stubCartUseCase struct {
	usecase.CartUseCase
	adjusts []adjustCall
	removed []adjustCall
	lines   []domain.CartLine
}

func (s *stubCartUseCase) Adjust(_ context.Context, caller *domain.Identity, productID int, radius float64, direction domain.Direction) (*domain.CartItem, error) {
	s.adjusts = append(s.adjusts, adjustCall{caller.ID, productID, radius, direction})
	if productID == 404 {
		return nil, domain.ErrNotFound
	}
	return &domain.CartItem{ID: 1, UserID: caller.ID, ProductID: productID, Radius: radius, Quantity: 1}, nil
}

func (s *stubCartUseCase) List(_ context.Context, caller *domain.Identity) ([]domain.CartLine, error) {
	return s.lines, nil
}

func (s *stubCartUseCase) Remove(_ context.Context, caller *domain.Identity, productID int, radius float64) error {
	s.removed = append(s.removed, adjustCall{userID: caller.ID, productID: productID, radius: radius})
	return nil
}

type stubCheckoutUseCase struct {
	summary *domain.OrderSummary
	err     error
}

func (s *stubCheckoutUseCase) Checkout(context.Context, *domain.Identity) (*domain.OrderSummary, error) {
	return s.summary, s.err
}

type stubAuthUseCase struct {
	usecase.AuthUseCase
}

func (s *stubAuthUseCase) IssueToken(_ context.Context, email, password string) (string, error) {
	if email != "ada@example.com" || password != "Secret123" {
		return "", domain.ErrUnauthenticated
	}
	return "signed-token", nil
}

func (s *stubAuthUseCase) CurrentUser(_ context.Context, caller *domain.Identity) (*domain.Identity, error) {
	return caller, nil
}

type testServer struct {
	router   *gin.Engine
	category *stubCategoryUseCase
	product  *stubProductUseCase
	cart     *stubCartUseCase
	checkout *stubCheckoutUseCase
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	logger := testLogger()
	s := &testServer{
		category: &stubCategoryUseCase{},
		product:  &stubProductUseCase{images: map[string][]byte{}},
		cart:     &stubCartUseCase{},
		checkout: &stubCheckoutUseCase{},
	}
	s.router = NewRouter(
		RouterConfig{ServiceName: "pizza-catalog", CORSOrigins: []string{"*"}, MaxUploadBytes: 1 << 20},
		Handlers{
			Category: NewCategoryHandler(s.category, logger),
			Product:  NewProductHandler(s.product, 1<<20, logger),
			Cart:     NewCartHandler(s.cart, s.checkout, logger),
			Auth:     NewAuthHandler(&stubAuthUseCase{}, logger),
		},
		testVerifier,
		logger,
	)
	return s
}
