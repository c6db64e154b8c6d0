package sqldb

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/goshop/internal/apperr"
	"github.com/example/goshop/internal/datamodels/address"
)

type addressRepo struct {
	db *gorm.DB
}

// NewAddressRepository 创建地址仓储
func NewAddressRepository(db *gorm.DB) address.Repository {
	return &addressRepo{db: db}
}

func (r *addressRepo) Create(ctx context.Context, a *address.Address) error {
	return translate(r.db.WithContext(ctx).Create(a).Error, "address")
}

// GetForOwner 地址不存在和不属于该用户都返回 NotFound
func (r *addressRepo) GetForOwner(ctx context.Context, id, ownerID string) (*address.Address, error) {
	var a address.Address
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&a).Error; err != nil {
		return nil, translate(err, "address")
	}
	return &a, nil
}

func (r *addressRepo) ListByUser(ctx context.Context, userID string) ([]*address.Address, error) {
	list := make([]*address.Address, 0)
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&list).Error; err != nil {
		return nil, translate(err, "list addresses")
	}
	return list, nil
}

func (r *addressRepo) Update(ctx context.Context, a *address.Address) error {
	return translate(r.db.WithContext(ctx).Save(a).Error, "address")
}

func (r *addressRepo) Delete(ctx context.Context, id, ownerID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&address.Address{})
	if res.Error != nil {
		return translate(res.Error, "address")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("address not found")
	}
	return nil
}
