// seed puebla la base con datos de demostración: una empresa, un usuario
// admin, dos bodegas y un catálogo pequeño con stock inicial vía el libro
// mayor (los saldos quedan con su historia de movimientos IN).
//
// Uso: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/invorya/stock-core/internal/application/ledger"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/infrastructure/postgres"
	"github.com/invorya/stock-core/pkg/config"
	"github.com/invorya/stock-core/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	balanceRepo := postgres.NewStockBalanceRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	ledgerSvc := ledger.NewService(txRunner, balanceRepo, movementRepo, productRepo, warehouseRepo)

	now := time.Now()

	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      "Distribuidora Demo",
		TaxID:     "900123456-7",
		Address:   "Calle 10 # 20-30",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := companyRepo.Create(company); err != nil {
		log.Fatal().Err(err).Msg("crear empresa demo")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin1234"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hashear password")
	}
	admin := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Email:        "admin@demo.local",
		PasswordHash: string(hash),
		Name:         "Admin Demo",
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := userRepo.Create(admin); err != nil {
		log.Fatal().Err(err).Msg("crear usuario admin")
	}

	principal := &entity.Warehouse{
		ID:          uuid.New().String(),
		CompanyID:   company.ID,
		Name:        "Bodega Principal",
		Address:     "Calle 10 # 20-30",
		IsPrincipal: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	sucursal := &entity.Warehouse{
		ID:        uuid.New().String(),
		CompanyID: company.ID,
		Name:      "Sucursal Norte",
		Address:   "Av. Norte # 45-12",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, wh := range []*entity.Warehouse{principal, sucursal} {
		if err := warehouseRepo.Create(wh); err != nil {
			log.Fatal().Err(err).Str("warehouse", wh.Name).Msg("crear bodega")
		}
	}

	products := []struct {
		sku         string
		name        string
		price       string
		cost        string
		unitsPerBox int64
		minLevel    int64
		maxLevel    int64
		initial     int64
	}{
		{"GAS-350", "Gaseosa 350ml", "2500", "1400", 24, 48, 240, 120},
		{"AGU-600", "Agua 600ml", "1800", "900", 12, 24, 120, 50},
		{"GAL-CHOC", "Galletas de chocolate", "3200", "2100", 30, 60, 300, 90},
		{"ARR-500", "Arroz 500g", "2200", "1500", 0, 20, 100, 40},
	}
	for _, p := range products {
		product := &entity.Product{
			ID:           uuid.New().String(),
			CompanyID:    company.ID,
			SKU:          p.sku,
			Name:         p.name,
			Price:        decimal.RequireFromString(p.price),
			Cost:         decimal.Zero,
			UnitsPerBox:  p.unitsPerBox,
			MinimumLevel: p.minLevel,
			MaximumLevel: p.maxLevel,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := productRepo.Create(product); err != nil {
			log.Fatal().Err(err).Str("sku", p.sku).Msg("crear producto")
		}
		if _, err := ledgerSvc.Receive(ctx, ledger.ReceiveInput{
			CompanyID:   company.ID,
			ActorID:     admin.ID,
			ProductID:   product.ID,
			WarehouseID: principal.ID,
			Quantity:    p.initial,
			UnitCost:    decimal.RequireFromString(p.cost),
			Origin:      entity.OriginManual,
			Reference:   "seed",
		}); err != nil {
			log.Fatal().Err(err).Str("sku", p.sku).Msg("stock inicial")
		}
	}

	log.Info().
		Str("company_id", company.ID).
		Str("admin", admin.Email).
		Str("warehouse", principal.ID).
		Int("products", len(products)).
		Msg("datos de demostración listos")
}
