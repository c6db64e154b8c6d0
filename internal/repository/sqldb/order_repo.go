package sqldb

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/goshop/internal/apperr"
	"github.com/example/goshop/internal/datamodels/order"
)

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, o *order.Order) error {
	return translate(r.db.WithContext(ctx).Create(o).Error, "order")
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, translate(err, "order")
	}
	return &o, nil
}

func (r *orderRepo) List(ctx context.Context, offset, limit int) ([]*order.Order, error) {
	offset, limit = page(offset, limit)
	list := make([]*order.Order, 0)
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, translate(err, "list orders")
	}
	return list, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*order.Order, error) {
	offset, limit = page(offset, limit)
	list := make([]*order.Order, 0)
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, translate(err, "list orders")
	}
	return list, nil
}

func (r *orderRepo) Update(ctx context.Context, o *order.Order) error {
	return translate(r.db.WithContext(ctx).Save(o).Error, "order")
}

func (r *orderRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&order.Order{})
	if res.Error != nil {
		return translate(res.Error, "order")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("order not found")
	}
	return nil
}
