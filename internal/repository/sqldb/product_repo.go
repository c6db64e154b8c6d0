package sqldb

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/goshop/internal/apperr"
	"github.com/example/goshop/internal/datamodels/product"
)

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepo{db: db}
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*product.Product, error) {
	var p product.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err, "product")
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, offset, limit int) ([]*product.Product, error) {
	offset, limit = page(offset, limit)
	list := make([]*product.Product, 0)
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, translate(err, "list products")
	}
	return list, nil
}

func (r *productRepo) Create(ctx context.Context, p *product.Product) error {
	return translate(r.db.WithContext(ctx).Create(p).Error, "product")
}

// Update 不写 count 列，库存只走 AdjustStock
func (r *productRepo) Update(ctx context.Context, p *product.Product) error {
	err := r.db.WithContext(ctx).
		Model(&product.Product{ID: p.ID}).
		Select("name", "description", "price", "category_id", "metadata", "updated_at").
		Updates(p).Error
	return translate(err, "product")
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&product.Product{})
	if res.Error != nil {
		return translate(res.Error, "product")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("product not found")
	}
	return nil
}

// AdjustStock 条件更新保证库存不会被扣成负数
func (r *productRepo) AdjustStock(ctx context.Context, id string, quantity int64, dir product.Direction) (*product.Product, error) {
	if quantity <= 0 {
		return nil, apperr.InvalidInputf("quantity must be greater than 0")
	}

	q := r.db.WithContext(ctx).Model(&product.Product{}).Where("id = ?", id)
	var res *gorm.DB
	switch dir {
	case product.Decrease:
		res = q.Where("count >= ?", quantity).Update("count", gorm.Expr("count - ?", quantity))
	case product.Increase:
		res = q.Update("count", gorm.Expr("count + ?", quantity))
	default:
		return nil, apperr.InvalidInputf("invalid direction %q", string(dir))
	}
	if res.Error != nil {
		return nil, translate(res.Error, "adjust stock")
	}

	if res.RowsAffected == 0 {
		// 区分商品不存在和库存不足
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, apperr.InsufficientStockf("insufficient stock for product %s", id)
	}
	return r.GetByID(ctx, id)
}
