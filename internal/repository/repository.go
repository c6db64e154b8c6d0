package repository

import (
	"context"

	"github.com/example/goshop/internal/datamodels/address"
	"github.com/example/goshop/internal/datamodels/category"
	"github.com/example/goshop/internal/datamodels/order"
	"github.com/example/goshop/internal/datamodels/product"
	"github.com/example/goshop/internal/datamodels/user"
)

// Store 数据访问入口，事务内通过回调参数拿到绑定事务的 Store
type Store interface {
	Users() user.Repository
	Addresses() address.Repository
	Categories() category.Repository
	Products() product.Repository
	Orders() order.Repository

	// Transaction fn 返回错误或 panic 时回滚，否则提交
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
