package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"catalog_service/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var (
	admin   = &domain.Identity{ID: 1, FirstName: "Ada", LastName: "Admin", IsAdmin: true}
	shopper = &domain.Identity{ID: 2, FirstName: "Sam", LastName: "Shopper"}
)

// --- categories ---

type fakeCategoryRepo struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]domain.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{rows: map[int]domain.Category{}}
}

func (r *fakeCategoryRepo) add(name, slug string, parent *int, active bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.rows[r.nextID] = domain.Category{ID: r.nextID, Name: name, Slug: slug, ParentID: parent, IsActive: active}
	return r.nextID
}

func (r *fakeCategoryRepo) slugTaken(slug string, except int) bool {
	for id, c := range r.rows {
		if c.Slug == slug && id != except {
			return true
		}
	}
	return false
}

func (r *fakeCategoryRepo) CreateCategory(_ context.Context, c *domain.Category) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slugTaken(c.Slug, 0) {
		return nil, fmt.Errorf("category with slug '%s' %w", c.Slug, domain.ErrConflict)
	}
	r.nextID++
	created := *c
	created.ID = r.nextID
	created.IsActive = true
	r.rows[created.ID] = created
	return &created, nil
}

func (r *fakeCategoryRepo) GetCategoryByID(_ context.Context, id int) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("category with id %d %w", id, domain.ErrNotFound)
	}
	return &c, nil
}

func (r *fakeCategoryRepo) GetActiveCategoryBySlug(_ context.Context, slug string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.Slug == slug && c.IsActive {
			c := c
			return &c, nil
		}
	}
	return nil, fmt.Errorf("category '%s' %w", slug, domain.ErrNotFound)
}

func (r *fakeCategoryRepo) UpdateCategory(_ context.Context, c *domain.Category) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.rows[c.ID]
	if !ok {
		return nil, fmt.Errorf("category with id %d %w", c.ID, domain.ErrNotFound)
	}
	if r.slugTaken(c.Slug, c.ID) {
		return nil, fmt.Errorf("category with slug '%s' %w", c.Slug, domain.ErrConflict)
	}
	existing.Name, existing.Slug, existing.ParentID = c.Name, c.Slug, c.ParentID
	r.rows[c.ID] = existing
	return &existing, nil
}

func (r *fakeCategoryRepo) DeactivateCategory(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return fmt.Errorf("category with id %d %w", id, domain.ErrNotFound)
	}
	c.IsActive = false
	r.rows[id] = c
	return nil
}

func (r *fakeCategoryRepo) ListActiveCategories(_ context.Context) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Category{}
	for _, c := range r.rows {
		if c.IsActive {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCategoryRepo) ListChildIDs(_ context.Context, parentID int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := []int{}
	for _, c := range r.rows {
		if c.ParentID != nil && *c.ParentID == parentID {
			ids = append(ids, c.ID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

// --- products ---

type fakeProductRepo struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]domain.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{rows: map[int]domain.Product{}}
}

func (r *fakeProductRepo) add(p domain.Product) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	r.rows[p.ID] = p
	return p.ID
}

func (r *fakeProductRepo) CreateProduct(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.Slug == p.Slug {
			return nil, fmt.Errorf("product with slug '%s' %w", p.Slug, domain.ErrConflict)
		}
	}
	r.nextID++
	created := *p
	created.ID = r.nextID
	r.rows[created.ID] = created
	return &created, nil
}

func (r *fakeProductRepo) GetProductByID(_ context.Context, id int) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("product with id %d %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (r *fakeProductRepo) GetProductBySlug(_ context.Context, slug string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.Slug == slug {
			p := p
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product '%s' %w", slug, domain.ErrNotFound)
}

func (r *fakeProductRepo) UpdateProduct(_ context.Context, slug string, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.rows {
		if other.Slug == p.Slug && other.Slug != slug {
			return nil, fmt.Errorf("product with slug '%s' %w", p.Slug, domain.ErrConflict)
		}
	}
	for id, existing := range r.rows {
		if existing.Slug != slug {
			continue
		}
		existing.Name, existing.Description, existing.Price = p.Name, p.Description, p.Price
		existing.Slug, existing.CategoryID, existing.ImageURL = p.Slug, p.CategoryID, p.ImageURL
		r.rows[id] = existing
		return &existing, nil
	}
	return nil, fmt.Errorf("product '%s' %w", slug, domain.ErrNotFound)
}

func (r *fakeProductRepo) DeactivateProduct(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return fmt.Errorf("product with id %d %w", id, domain.ErrNotFound)
	}
	p.IsActive = false
	r.rows[id] = p
	return nil
}

func (r *fakeProductRepo) ListActiveProducts(_ context.Context) ([]domain.Product, error) {
	return r.filter(func(p domain.Product) bool { return p.IsActive }), nil
}

func (r *fakeProductRepo) ListActiveProductsByCategories(_ context.Context, ids []int) ([]domain.Product, error) {
	set := map[int]bool{}
	for _, id := range ids {
		set[id] = true
	}
	return r.filter(func(p domain.Product) bool { return p.IsActive && set[p.CategoryID] }), nil
}

func (r *fakeProductRepo) filter(keep func(domain.Product) bool) []domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Product{}
	for _, p := range r.rows {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// --- blobs ---

type fakeBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string][]byte{}}
}

func (s *fakeBlobStore) Put(_ context.Context, data []byte, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	url := "/static/" + uuid.NewString() + "-" + name
	s.blobs[url] = data
	return url, nil
}

func (s *fakeBlobStore) Get(_ context.Context, url string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[url]
	if !ok {
		return nil, fmt.Errorf("blob %w", domain.ErrNotFound)
	}
	return data, nil
}

func (s *fakeBlobStore) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, url)
	return nil
}

func (s *fakeBlobStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

// --- cart ---

// fakeCartRepo applies a transaction to a copy of its rows and swaps the copy
// in only when fn succeeds. Transactions are serialised by a mutex.
type fakeCartRepo struct {
	mu       sync.Mutex
	nextID   int64
	rows     map[int64]domain.CartItem
	products *fakeProductRepo

	clearErr        error
	insertConflicts int
	// beforeTx runs at the start of every transaction, after the lock is
	// taken.
	beforeTx func()
}

func newFakeCartRepo(products *fakeProductRepo) *fakeCartRepo {
	return &fakeCartRepo{rows: map[int64]domain.CartItem{}, products: products}
}

func (r *fakeCartRepo) WithinTx(ctx context.Context, fn func(tx domain.CartTx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.beforeTx != nil {
		r.beforeTx()
	}

	tx := &fakeCartTx{repo: r, rows: map[int64]domain.CartItem{}, nextID: r.nextID}
	for id, item := range r.rows {
		tx.rows[id] = item
	}
	if err := fn(tx); err != nil {
		return err
	}
	r.rows = tx.rows
	r.nextID = tx.nextID
	return nil
}

func (r *fakeCartRepo) ListLines(_ context.Context, userID int64) ([]domain.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return linesOf(r.rows, r.products, userID), nil
}

func (r *fakeCartRepo) snapshot(userID int64) []domain.CartItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.CartItem{}
	for _, item := range r.rows {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func linesOf(rows map[int64]domain.CartItem, products *fakeProductRepo, userID int64) []domain.CartLine {
	ids := make([]int64, 0, len(rows))
	for id, item := range rows {
		if item.UserID == userID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	lines := []domain.CartLine{}
	for _, id := range ids {
		item := rows[id]
		p, err := products.GetProductByID(context.Background(), item.ProductID)
		if err != nil || !p.IsActive {
			continue
		}
		lines = append(lines, domain.CartLine{
			ItemID: item.ID, ProductID: p.ID, ProductName: p.Name, ImageURL: p.ImageURL,
			Price: p.Price, Radius: item.Radius, Quantity: item.Quantity,
			LineTotal: p.Price * int64(item.Quantity),
		})
	}
	return lines
}

type fakeCartTx struct {
	repo   *fakeCartRepo
	rows   map[int64]domain.CartItem
	nextID int64
}

func (t *fakeCartTx) GetProductForShare(ctx context.Context, productID int) (*domain.Product, error) {
	return t.repo.products.GetProductByID(ctx, productID)
}

func (t *fakeCartTx) GetItemForUpdate(_ context.Context, key domain.CartKey) (*domain.CartItem, error) {
	for _, item := range t.rows {
		if item.UserID == key.UserID && item.ProductID == key.ProductID && item.Radius == key.Radius {
			item := item
			return &item, nil
		}
	}
	return nil, fmt.Errorf("cart entry %w", domain.ErrNotFound)
}

func (t *fakeCartTx) InsertItem(_ context.Context, key domain.CartKey, quantity int) (*domain.CartItem, error) {
	if t.repo.insertConflicts > 0 {
		t.repo.insertConflicts--
		return nil, fmt.Errorf("cart entry %w", domain.ErrConflict)
	}
	t.nextID++
	item := domain.CartItem{ID: t.nextID, UserID: key.UserID, ProductID: key.ProductID, Radius: key.Radius, Quantity: quantity}
	t.rows[item.ID] = item
	return &item, nil
}

func (t *fakeCartTx) UpdateQuantity(_ context.Context, id int64, quantity int) error {
	item, ok := t.rows[id]
	if !ok {
		return fmt.Errorf("cart entry %d %w", id, domain.ErrNotFound)
	}
	item.Quantity = quantity
	t.rows[id] = item
	return nil
}

func (t *fakeCartTx) DeleteItem(_ context.Context, id int64) error {
	if _, ok := t.rows[id]; !ok {
		return fmt.Errorf("cart entry %d %w", id, domain.ErrNotFound)
	}
	delete(t.rows, id)
	return nil
}

func (t *fakeCartTx) ListLinesForUpdate(_ context.Context, userID int64) ([]domain.CartLine, error) {
	return linesOf(t.rows, t.repo.products, userID), nil
}

func (t *fakeCartTx) ClearUser(_ context.Context, userID int64) (int64, error) {
	if t.repo.clearErr != nil {
		return 0, t.repo.clearErr
	}
	var n int64
	for id, item := range t.rows {
		if item.UserID == userID {
			delete(t.rows, id)
			n++
		}
	}
	return n, nil
}

// --- users and notifications ---

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{rows: map[int64]domain.User{}}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.Email == u.Email {
			return nil, fmt.Errorf("user with email '%s' %w", u.Email, domain.ErrConflict)
		}
	}
	r.nextID++
	created := *u
	created.ID = r.nextID
	r.rows[created.ID] = created
	return &created, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email '%s' %w", email, domain.ErrNotFound)
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("user with id %d %w", id, domain.ErrNotFound)
	}
	return &u, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, note domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, note)
	return nil
}

func (n *fakeNotifier) Close() error { return nil }
