package sqldb

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/goshop/internal/apperr"
	"github.com/example/goshop/internal/datamodels/category"
)

type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) category.Repository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, c *category.Category) error {
	return translate(r.db.WithContext(ctx).Create(c).Error, "category")
}

func (r *categoryRepo) GetByID(ctx context.Context, id string) (*category.Category, error) {
	var c category.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err, "category")
	}
	return &c, nil
}

func (r *categoryRepo) GetByName(ctx context.Context, name string) (*category.Category, error) {
	var c category.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&c).Error; err != nil {
		return nil, translate(err, "category")
	}
	return &c, nil
}

func (r *categoryRepo) List(ctx context.Context) ([]*category.Category, error) {
	list := make([]*category.Category, 0)
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, translate(err, "list categories")
	}
	return list, nil
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&category.Category{})
	if res.Error != nil {
		return translate(res.Error, "category")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("category not found")
	}
	return nil
}
