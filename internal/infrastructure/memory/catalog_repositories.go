package memory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
	_ repository.CompanyRepository   = (*CompanyRepo)(nil)
	_ repository.UserRepository      = (*UserRepo)(nil)
)

// ProductRepo adaptador del catálogo de productos en memoria.
type ProductRepo struct {
	store *Store
	tx    *Tx
}

// NewProductRepository construye el adaptador atado al pool.
func NewProductRepository(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

// Create persiste un producto; ErrDuplicate si el SKU ya existe en la empresa.
func (r *ProductRepo) Create(product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.products {
		if p.CompanyID == product.CompanyID && p.SKU == product.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *product
	r.store.products[cp.ID] = &cp
	return nil
}

// GetByID devuelve el producto; nil si no existe.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	if r.tx != nil {
		if cost, staged := r.tx.stagedCosts[id]; staged {
			cp.Cost = cost
		}
	}
	return &cp, nil
}

// GetBySKU devuelve el producto por SKU dentro de una empresa; nil si no existe.
func (r *ProductRepo) GetBySKU(companyID, sku string) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.products {
		if p.CompanyID == companyID && p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

// Update reemplaza los atributos del producto.
func (r *ProductRepo) Update(product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *product
	cp.UpdatedAt = time.Now()
	r.store.products[cp.ID] = &cp
	return nil
}

// UpdateCost actualiza el costo promedio ponderado (staging en transacción).
func (r *ProductRepo) UpdateCost(id string, cost decimal.Decimal) error {
	if r.tx != nil {
		r.tx.stagedCosts[id] = cost
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Cost = cost
	p.UpdatedAt = time.Now()
	return nil
}

// ListByCompany lista productos de una empresa ordenados por SKU.
func (r *ProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	r.store.mu.Lock()
	var all []*entity.Product
	for _, p := range r.store.products {
		if p.CompanyID == companyID {
			cp := *p
			all = append(all, &cp)
		}
	}
	r.store.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].SKU < all[j].SKU })
	return paginate(all, limit, offset), nil
}

// WarehouseRepo adaptador de bodegas en memoria.
type WarehouseRepo struct {
	store *Store
}

// NewWarehouseRepository construye el adaptador.
func NewWarehouseRepository(store *Store) *WarehouseRepo {
	return &WarehouseRepo{store: store}
}

func (r *WarehouseRepo) Create(warehouse *entity.Warehouse) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *warehouse
	r.store.warehouses[cp.ID] = &cp
	return nil
}

func (r *WarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	w, ok := r.store.warehouses[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *WarehouseRepo) Update(warehouse *entity.Warehouse) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.warehouses[warehouse.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *warehouse
	cp.UpdatedAt = time.Now()
	r.store.warehouses[cp.ID] = &cp
	return nil
}

func (r *WarehouseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	r.store.mu.Lock()
	var all []*entity.Warehouse
	for _, w := range r.store.warehouses {
		if w.CompanyID == companyID {
			cp := *w
			all = append(all, &cp)
		}
	}
	r.store.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, limit, offset), nil
}

// CompanyRepo adaptador de empresas en memoria.
type CompanyRepo struct {
	store *Store
}

// NewCompanyRepository construye el adaptador.
func NewCompanyRepository(store *Store) *CompanyRepo {
	return &CompanyRepo{store: store}
}

func (r *CompanyRepo) Create(company *entity.Company) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *company
	r.store.companies[cp.ID] = &cp
	return nil
}

func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	r.store.mu.Lock()
	var all []*entity.Company
	for _, c := range r.store.companies {
		cp := *c
		all = append(all, &cp)
	}
	r.store.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, limit, offset), nil
}

// UserRepo adaptador de usuarios en memoria.
type UserRepo struct {
	store *Store
}

// NewUserRepository construye el adaptador.
func NewUserRepository(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

func (r *UserRepo) Create(user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *user
	r.store.users[cp.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == email && u.CompanyID == companyID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}
