package sqldb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/goshop/internal/apperr"
	"github.com/example/goshop/internal/config"
	"github.com/example/goshop/internal/datamodels/address"
	"github.com/example/goshop/internal/datamodels/category"
	"github.com/example/goshop/internal/datamodels/order"
	"github.com/example/goshop/internal/datamodels/product"
	"github.com/example/goshop/internal/datamodels/user"
	"github.com/example/goshop/internal/repository"
)

func newTestStore(t *testing.T) repository.Store {
	t.Helper()
	return newTestStoreConns(t, 1)
}

func newTestStoreConns(t *testing.T, conns int) repository.Store {
	t.Helper()
	db, err := Open(config.DatabaseConfig{
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
	return NewStore(db)
}

func seedProduct(t *testing.T, s repository.Store, count int64) *product.Product {
	t.Helper()
	return seedProductNamed(t, s, "books", count)
}

func seedProductNamed(t *testing.T, s repository.Store, categoryName string, count int64) *product.Product {
	t.Helper()
	ctx := context.Background()
	c := &category.Category{Name: categoryName}
	require.NoError(t, s.Categories().Create(ctx, c))
	p := &product.Product{
		Name:       "Go in Action",
		Price:      decimal.RequireFromString("19.99"),
		CategoryID: c.ID,
		Metadata:   map[string]any{"pages": float64(264)},
		Count:      count,
	}
	require.NoError(t, s.Products().Create(ctx, p))
	return p
}

func TestProductRoundTrip(t *testing.T) {
	s := newTestStore(t)
	p := seedProduct(t, s, 7)
	require.NotEmpty(t, p.ID)

	got, err := s.Products().GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.True(t, p.Price.Equal(got.Price))
	assert.Equal(t, p.CategoryID, got.CategoryID)
	assert.Equal(t, p.Metadata, got.Metadata)
	assert.Equal(t, int64(7), got.Count)
}

func TestProductUpdateLeavesCount(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := seedProduct(t, s, 4)

	p.Name = "renamed"
	p.Count = 999
	require.NoError(t, s.Products().Update(ctx, p))

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, int64(4), got.Count)
}

func TestAdjustStock(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := seedProduct(t, s, 5)
	repo := s.Products()

	got, err := repo.AdjustStock(ctx, p.ID, 3, product.Decrease)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Count)

	_, err = repo.AdjustStock(ctx, p.ID, 3, product.Decrease)
	assert.True(t, apperr.IsKind(err, apperr.InsufficientStock))

	got, err = repo.AdjustStock(ctx, p.ID, 10, product.Increase)
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.Count)

	got, err = repo.AdjustStock(ctx, p.ID, 12, product.Decrease)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Count)

	_, err = repo.AdjustStock(ctx, p.ID, 0, product.Decrease)
	assert.True(t, apperr.IsKind(err, apperr.InvalidInput))

	_, err = repo.AdjustStock(ctx, p.ID, 1, product.Direction("sideways"))
	assert.True(t, apperr.IsKind(err, apperr.InvalidInput))

	_, err = repo.AdjustStock(ctx, "missing", 1, product.Decrease)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestAdjustStockConcurrentDecrease(t *testing.T) {
	ctx := context.Background()
	s := newTestStoreConns(t, config.DefaultConfig().Database.MaxOpenConns)
	p := seedProduct(t, s, 10)

	start := make(chan struct{})
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := s.Products().AdjustStock(ctx, p.ID, 2, product.Decrease)
			errs <- err
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	ok, short := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case apperr.IsKind(err, apperr.InsufficientStock):
			short++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 5, ok)
	assert.Equal(t, 3, short)

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Count)
}

// 两个并发扣减都看到 count=5，只有一个条件更新能命中
func TestAdjustStockRacingPair(t *testing.T) {
	ctx := context.Background()
	s := newTestStoreConns(t, config.DefaultConfig().Database.MaxOpenConns)

	for round := 0; round < 20; round++ {
		p := seedProductNamed(t, s, fmt.Sprintf("cat-%d", round), 5)

		start := make(chan struct{})
		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				_, errs[i] = s.Products().AdjustStock(ctx, p.ID, 3, product.Decrease)
			}(i)
		}
		close(start)
		wg.Wait()

		ok, short := 0, 0
		for _, err := range errs {
			switch {
			case err == nil:
				ok++
			case apperr.IsKind(err, apperr.InsufficientStock):
				short++
			default:
				t.Fatalf("round %d: unexpected error: %v", round, err)
			}
		}
		require.Equal(t, 1, ok, "round %d", round)
		require.Equal(t, 1, short, "round %d", round)

		got, err := s.Products().GetByID(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, int64(2), got.Count, "round %d", round)
	}
}

func TestGormLoggerSkipsRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "log.db")), &gorm.Config{
		Logger:         newGormLogger(log.New(&buf, "", 0), gormlogger.Warn),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	_, err = NewStore(db).Categories().GetByName(context.Background(), "missing")
	require.True(t, apperr.IsKind(err, apperr.NotFound))
	assert.Empty(t, buf.String())

	_ = db.Exec("SELECT * FROM no_such_table").Error
	assert.Contains(t, buf.String(), "no_such_table")
}

func TestTransactionRollback(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := seedProduct(t, s, 5)

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Products().AdjustStock(ctx, p.ID, 5, product.Decrease); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Count)
}

func TestDuplicateKeysAreConflicts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Categories().Create(ctx, &category.Category{Name: "toys"}))
	err := s.Categories().Create(ctx, &category.Category{Name: "toys"})
	assert.True(t, apperr.IsKind(err, apperr.Conflict))

	require.NoError(t, s.Users().Create(ctx, &user.User{FullName: "A", Email: "a@example.com", Password: "x", Role: user.RoleUser}))
	err = s.Users().Create(ctx, &user.User{FullName: "B", Email: "a@example.com", Password: "y", Role: user.RoleUser})
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
}

func TestAddressOwnershipScope(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a := &address.Address{UserID: "owner", Address: "1 Main St", City: "X", State: "Y", Country: "Z", PostalCode: "00001"}
	require.NoError(t, s.Addresses().Create(ctx, a))

	_, err := s.Addresses().GetForOwner(ctx, a.ID, "someone-else")
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
	assert.True(t, apperr.IsKind(s.Addresses().Delete(ctx, a.ID, "someone-else"), apperr.NotFound))

	got, err := s.Addresses().GetForOwner(ctx, a.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", got.Address)

	require.NoError(t, s.Addresses().Delete(ctx, a.ID, "owner"))
	list, err := s.Addresses().ListByUser(ctx, "owner")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOrderListByUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Orders().Create(ctx, &order.Order{
			UserID: "u1", ProductID: "p", AddressID: "a", Quantity: 1,
			PaymentStatus: order.PaymentPending, Status: order.StatusPending,
		}))
	}
	require.NoError(t, s.Orders().Create(ctx, &order.Order{
		UserID: "u2", ProductID: "p", AddressID: "a", Quantity: 1,
		PaymentStatus: order.PaymentCashOnDelivery, Status: order.StatusPending,
	}))

	list, err := s.Orders().ListByUser(ctx, "u1", 0, 10)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	list, err = s.Orders().ListByUser(ctx, "u1", 0, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	all, err := s.Orders().List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	assert.True(t, apperr.IsKind(s.Orders().Delete(ctx, "missing"), apperr.NotFound))
}
