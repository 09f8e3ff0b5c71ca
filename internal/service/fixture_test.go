package service_test

import (
	"testing"

	"github.com/nb2912/inventory/internal/config"
	"github.com/nb2912/inventory/internal/model"
	"github.com/nb2912/inventory/internal/repository/repotest"
	"github.com/nb2912/inventory/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

// env wires every service to one in-memory store.
type env struct {
	store    *repotest.Store
	cache    *repotest.Cache
	tokens   *repotest.TokenStore
	notifier *repotest.Notifier
	cfg      *config.Config

	auth      service.AuthService
	items     service.ItemService
	alerts    service.AlertService
	suppliers service.SupplierService
	purchases service.PurchaseOrderService
	sales     service.SalesOrderService
	reports   service.ReportService
	dashboard service.DashboardService
	category  service.CategoryService
}

func newEnv() *env {
	s := repotest.NewStore()
	e := &env{
		store:    s,
		cache:    repotest.NewCache(),
		tokens:   repotest.NewTokenStore(),
		notifier: &repotest.Notifier{},
		cfg: &config.Config{
			JWTSecret:            testSecret,
			JWTExpirationMinutes: 60,
			BcryptCost:           bcrypt.MinCost,
			LowStockThreshold:    10,
		},
	}
	e.auth = service.NewAuthService(s.UserRepo(), e.tokens, e.cfg)
	e.items = service.NewItemService(s.ItemRepo(), s.SupplierRepo(), s.MovementRepo(), e.cache, e.notifier)
	e.alerts = service.NewAlertService(s.ItemRepo(), e.cache, e.cfg.LowStockThreshold)
	e.suppliers = service.NewSupplierService(s.SupplierRepo(), s.ItemRepo())
	e.purchases = service.NewPurchaseOrderService(s.PurchaseOrderRepo(), s.SupplierRepo(), s.ItemRepo(), s.MovementRepo(), e.cache)
	e.sales = service.NewSalesOrderService(s.SalesOrderRepo(), s.ItemRepo(), s.MovementRepo(), e.cache, e.notifier)
	e.reports = service.NewReportService(s.ReportRepo(), s.ItemRepo(), s.MovementRepo())
	e.dashboard = service.NewDashboardService(s.ReportRepo(), s.MovementRepo(), e.cfg.LowStockThreshold)
	e.category = service.NewCategoryService(s.ItemRepo())
	return e
}

func (e *env) addItem(serial, name string, qty int, price string) *model.Item {
	return e.store.AddItem(model.Item{SerialNo: serial, Name: name, Quantity: qty, Price: decimal.RequireFromString(price)})
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func assertKind(t *testing.T, err error, kind service.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, service.IsKind(err, kind), "unexpected error: %v", err)
}

var actor = uuid.New()
