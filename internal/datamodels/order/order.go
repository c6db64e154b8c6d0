package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status 订单状态
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if !Status(v).Valid() {
		return fmt.Errorf("invalid order status %q", v)
	}
	*s = Status(v)
	return nil
}

// PaymentStatus 支付状态
type PaymentStatus string

const (
	PaymentPending        PaymentStatus = "pending"
	PaymentCompleted      PaymentStatus = "completed"
	PaymentFailed         PaymentStatus = "failed"
	PaymentRefunded       PaymentStatus = "refunded"
	PaymentCashOnDelivery PaymentStatus = "COD"
	PaymentPrePaid        PaymentStatus = "Pre-paid"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded, PaymentCashOnDelivery, PaymentPrePaid:
		return true
	}
	return false
}

func (p *PaymentStatus) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if !PaymentStatus(v).Valid() {
		return fmt.Errorf("invalid payment status %q", v)
	}
	*p = PaymentStatus(v)
	return nil
}

// Order 订单模型，一单一个商品
type Order struct {
	ID            string        `gorm:"primaryKey;size:36" json:"order_id"`
	UserID        string        `gorm:"size:36;index;not null" json:"user_id"`
	ProductID     string        `gorm:"size:36;index;not null" json:"product_id"`
	AddressID     string        `gorm:"size:36;not null" json:"address_id"`
	Quantity      int64         `gorm:"not null" json:"quantity"`
	PaymentStatus PaymentStatus `gorm:"size:16;not null" json:"payment_status"`
	Status        Status        `gorm:"size:16;index;not null" json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// Update 只允许修改支付状态和订单状态
type Update struct {
	PaymentStatus *PaymentStatus `json:"payment_status"`
	Status        *Status        `json:"status"`
}

// Repository 订单仓储接口
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, offset, limit int) ([]*Order, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*Order, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id string) error
}
