package address

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address 收货地址，归属于某个用户
type Address struct {
	ID         string `gorm:"primaryKey;size:36" json:"address_id"`
	UserID     string `gorm:"size:36;index;not null" json:"user_id"`
	Address    string `gorm:"type:text;not null" json:"address"`
	City       string `gorm:"size:100;not null" json:"city"`
	State      string `gorm:"size:100;not null" json:"state"`
	Country    string `gorm:"size:100;not null" json:"country"`
	PostalCode string `gorm:"size:20;not null" json:"postal_code"`
}

func (a *Address) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Update 部分更新
type Update struct {
	Address    *string `json:"address"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	Country    *string `json:"country"`
	PostalCode *string `json:"postal_code"`
}

// Apply 把非空字段写入地址
func (u Update) Apply(a *Address) {
	if u.Address != nil {
		a.Address = *u.Address
	}
	if u.City != nil {
		a.City = *u.City
	}
	if u.State != nil {
		a.State = *u.State
	}
	if u.Country != nil {
		a.Country = *u.Country
	}
	if u.PostalCode != nil {
		a.PostalCode = *u.PostalCode
	}
}

// Repository 地址仓储接口，按归属用户限定查询范围
type Repository interface {
	Create(ctx context.Context, a *Address) error
	GetForOwner(ctx context.Context, id, ownerID string) (*Address, error)
	ListByUser(ctx context.Context, userID string) ([]*Address, error)
	Update(ctx context.Context, a *Address) error
	Delete(ctx context.Context, id, ownerID string) error
}
