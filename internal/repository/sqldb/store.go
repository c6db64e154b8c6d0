package sqldb

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/goshop/internal/datamodels/address"
	"github.com/example/goshop/internal/datamodels/category"
	"github.com/example/goshop/internal/datamodels/order"
	"github.com/example/goshop/internal/datamodels/product"
	"github.com/example/goshop/internal/datamodels/user"
	"github.com/example/goshop/internal/repository"
)

type store struct {
	db *gorm.DB
}

// NewStore 基于 gorm 的 Store，db 可以是普通连接也可以是事务
func NewStore(db *gorm.DB) repository.Store {
	return &store{db: db}
}

func (s *store) Users() user.Repository         { return NewUserRepository(s.db) }
func (s *store) Addresses() address.Repository  { return NewAddressRepository(s.db) }
func (s *store) Categories() category.Repository { return NewCategoryRepository(s.db) }
func (s *store) Products() product.Repository   { return NewProductRepository(s.db) }
func (s *store) Orders() order.Repository       { return NewOrderRepository(s.db) }

func (s *store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}
