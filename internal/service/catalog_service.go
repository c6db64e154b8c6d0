package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/example/goshop/internal/apperr"
	"github.com/example/goshop/internal/datamodels/category"
	"github.com/example/goshop/internal/datamodels/product"
	applog "github.com/example/goshop/internal/logger"
	"github.com/example/goshop/internal/repository"
)

var tracer = otel.Tracer("github.com/example/goshop/internal/service")

// CatalogService 商品与分类
type CatalogService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewCatalogService(store repository.Store, logger *zap.Logger) *CatalogService {
	logger = applog.OrNop(logger)
	return &CatalogService{store: store, logger: logger}
}

// WithStore 返回绑定到另一个 Store（通常是事务）的副本
func (s *CatalogService) WithStore(store repository.Store) *CatalogService {
	return &CatalogService{store: store, logger: s.logger}
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	if id == "" {
		return nil, apperr.InvalidInputf("product id is required")
	}
	return s.store.Products().GetByID(ctx, id)
}

func (s *CatalogService) ListProducts(ctx context.Context, offset, limit int) ([]*product.Product, error) {
	return s.store.Products().List(ctx, offset, limit)
}

// AdjustStock 库存的唯一修改入口
func (s *CatalogService) AdjustStock(ctx context.Context, id string, quantity int64, dir product.Direction) (*product.Product, error) {
	ctx, span := tracer.Start(ctx, "catalog.AdjustStock")
	defer span.End()
	span.SetAttributes(
		attribute.String("product.id", id),
		attribute.Int64("stock.quantity", quantity),
		attribute.String("stock.direction", string(dir)),
	)

	if quantity <= 0 {
		return nil, apperr.InvalidInputf("quantity must be greater than 0")
	}
	if !dir.Valid() {
		return nil, apperr.InvalidInputf("direction must be increase or decrease")
	}

	p, err := s.store.Products().AdjustStock(ctx, id, quantity, dir)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int64("stock.count", p.Count))
	s.logger.Debug("stock adjusted",
		zap.String("product_id", id),
		zap.String("direction", string(dir)),
		zap.Int64("quantity", quantity),
		zap.Int64("count", p.Count),
	)
	return p, nil
}

// NewProduct 创建商品的参数
type NewProduct struct {
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  string
	Metadata    map[string]any
	Count       int64
}

func (s *CatalogService) CreateProduct(ctx context.Context, in NewProduct) (*product.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.InvalidInputf("product name is required")
	}
	if err := checkPrice(in.Price); err != nil {
		return nil, err
	}
	if in.Count < 0 {
		return nil, apperr.InvalidInputf("count must not be negative")
	}
	if in.CategoryID == "" {
		return nil, apperr.InvalidInputf("category_id is required")
	}
	if _, err := s.store.Categories().GetByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	p := &product.Product{
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		Metadata:    in.Metadata,
		Count:       in.Count,
	}
	if err := s.store.Products().Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct 覆盖传入的字段；库存不可在此修改
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, upd product.Update) (*product.Product, error) {
	p, err := s.store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, apperr.InvalidInputf("product name must not be empty")
	}
	if upd.Price != nil {
		if err := checkPrice(*upd.Price); err != nil {
			return nil, err
		}
	}
	if upd.CategoryID != nil && *upd.CategoryID != p.CategoryID {
		if _, err := s.store.Categories().GetByID(ctx, *upd.CategoryID); err != nil {
			return nil, err
		}
	}

	upd.Apply(p)
	if err := s.store.Products().Update(ctx, p); err != nil {
		return nil, err
	}
	return s.store.Products().GetByID(ctx, id)
}

// checkPrice 价格列为 decimal(12,2)，超过两位小数会被数据库截断
func checkPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return apperr.InvalidInputf("price must not be negative")
	}
	if !p.Equal(p.Round(2)) {
		return apperr.InvalidInputf("price %s has more than 2 decimal places", p.String())
	}
	return nil
}

// DeleteProduct 返回被删除的商品
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) (*product.Product, error) {
	p, err := s.store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Products().Delete(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*category.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.InvalidInputf("category name is required")
	}
	if _, err := s.store.Categories().GetByName(ctx, name); err == nil {
		return nil, apperr.Conflictf("category %q already exists", name)
	} else if !apperr.IsKind(err, apperr.NotFound) {
		return nil, err
	}

	c := &category.Category{Name: name}
	if err := s.store.Categories().Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*category.Category, error) {
	return s.store.Categories().List(ctx)
}

// DeleteCategory 不检查是否仍有商品引用该分类
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) (*category.Category, error) {
	c, err := s.store.Categories().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Categories().Delete(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}
