package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/example/goshop/internal/auth"
	"github.com/example/goshop/internal/config"
	"github.com/example/goshop/internal/datamodels/address"
	"github.com/example/goshop/internal/datamodels/order"
	"github.com/example/goshop/internal/datamodels/product"
	"github.com/example/goshop/internal/datamodels/user"
	"github.com/example/goshop/internal/infra/mq"
	"github.com/example/goshop/internal/repository"
	"github.com/example/goshop/internal/repository/sqldb"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []mq.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev mq.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type testEnv struct {
	store     repository.Store
	catalog   *CatalogService
	orders    *OrderService
	users     *UserService
	monitor   *Monitor
	publisher *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvConns(t, 1)
}

// newTestEnvConns conns > 1 时事务可以真正并发执行
func newTestEnvConns(t *testing.T, conns int) *testEnv {
	t.Helper()
	db, err := sqldb.Open(config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          filepath.Join(t.TempDir(), "shop.db") + "?_pragma=busy_timeout(5000)",
		MaxOpenConns: conns,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	store := sqldb.NewStore(db)
	env := &testEnv{
		store:     store,
		monitor:   NewMonitor(),
		publisher: &recordingPublisher{},
	}
	env.catalog = NewCatalogService(store, nil)
	env.orders = NewOrderService(store, env.catalog, env.publisher, env.monitor, nil)
	env.users = NewUserService(store, auth.NewService(config.JWTConfig{Secret: "test", TTLMinutes: 5}, nil, nil), nil)
	return env
}

func (e *testEnv) product(t *testing.T, count int64) *product.Product {
	t.Helper()
	ctx := context.Background()
	c, err := e.catalog.CreateCategory(ctx, "cat-"+uuid.NewString())
	require.NoError(t, err)
	p, err := e.catalog.CreateProduct(ctx, NewProduct{
		Name:       "Widget",
		Price:      decimal.RequireFromString("9.50"),
		CategoryID: c.ID,
		Count:      count,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) customer(t *testing.T, email string) (*user.User, *address.Address) {
	t.Helper()
	ctx := context.Background()
	u, err := e.users.CreateUser(ctx, NewUser{FullName: "Jane Doe", Email: email, Password: "passw0rd1"})
	require.NoError(t, err)
	a, err := e.users.CreateAddress(ctx, u.ID, NewAddress{
		Address: "1 Main St", City: "Springfield", State: "IL", Country: "US", PostalCode: "62701",
	})
	require.NoError(t, err)
	return u, a
}

var (
	errPublish = errors.New("broker down")
	errInsert  = errors.New("insert failed")
)

// failingOrderStore 在事务内外都让订单写入失败
type failingOrderStore struct {
	repository.Store
}

func (s failingOrderStore) Orders() order.Repository {
	return failingOrders{Repository: s.Store.Orders()}
}

func (s failingOrderStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.Transaction(ctx, func(tx repository.Store) error {
		return fn(failingOrderStore{Store: tx})
	})
}

type failingOrders struct {
	order.Repository
}

func (failingOrders) Create(context.Context, *order.Order) error {
	return errInsert
}
