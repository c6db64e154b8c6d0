package product

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Direction 库存调整方向
type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
)

func (d Direction) Valid() bool {
	return d == Increase || d == Decrease
}

func (d *Direction) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if !Direction(s).Valid() {
		return fmt.Errorf("invalid direction %q", s)
	}
	*d = Direction(s)
	return nil
}

// Product 商品模型。Count 只能通过 Repository.AdjustStock 修改
type Product struct {
	ID          string          `gorm:"primaryKey;size:36" json:"product_id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	CategoryID  string          `gorm:"size:36;index;not null" json:"category_id"`
	Metadata    map[string]any  `gorm:"serializer:json;type:text" json:"product_metadata,omitempty"`
	Count       int64           `gorm:"column:count;not null;default:0" json:"count"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Update 部分更新，nil 字段保持不变；库存不在其中
type Update struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	CategoryID  *string
	Metadata    map[string]any
}

// Apply 把非空字段写入商品
func (u Update) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.CategoryID != nil {
		p.CategoryID = *u.CategoryID
	}
	if u.Metadata != nil {
		p.Metadata = u.Metadata
	}
}

// Repository 商品仓储接口
type Repository interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, offset, limit int) ([]*Product, error)
	Create(ctx context.Context, p *Product) error
	// Update 覆盖除库存以外的字段
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	// AdjustStock 原子调整库存，减少时库存不足返回 InsufficientStock
	AdjustStock(ctx context.Context, id string, quantity int64, dir Direction) (*Product, error)
}
