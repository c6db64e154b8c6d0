package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/example/goshop/internal/datamodels/order"
)

// 订单事件类型
const (
	EventOrderPlaced  = "order.placed"
	EventOrderUpdated = "order.updated"
	EventOrderDeleted = "order.deleted"
)

// OrderEvent 订单事件消息体
type OrderEvent struct {
	Type          string              `json:"type"`
	OrderID       string              `json:"order_id"`
	UserID        string              `json:"user_id"`
	ProductID     string              `json:"product_id"`
	Quantity      int64               `json:"quantity"`
	Status        order.Status        `json:"status"`
	PaymentStatus order.PaymentStatus `json:"payment_status"`
	OccurredAt    time.Time           `json:"occurred_at"`
}

// NewOrderEvent 由订单生成事件
func NewOrderEvent(typ string, o *order.Order) OrderEvent {
	return OrderEvent{
		Type:          typ,
		OrderID:       o.ID,
		UserID:        o.UserID,
		ProductID:     o.ProductID,
		Quantity:      o.Quantity,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		OccurredAt:    time.Now().UTC(),
	}
}

// Decode 解析消息体，未知事件类型视为格式错误
func Decode(body []byte) (OrderEvent, error) {
	var ev OrderEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, err
	}
	switch ev.Type {
	case EventOrderPlaced, EventOrderUpdated, EventOrderDeleted:
	default:
		return ev, fmt.Errorf("unknown event type %q", ev.Type)
	}
	if ev.OrderID == "" {
		return ev, fmt.Errorf("event without order_id")
	}
	return ev, nil
}

// Publisher 订单事件发布者
type Publisher interface {
	Publish(ctx context.Context, ev OrderEvent) error
}

// NopPublisher 不发送任何消息
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, OrderEvent) error { return nil }

// AMQPPublisher 通过单个 channel 发布到持久化队列
type AMQPPublisher struct {
	mu    sync.Mutex
	ch    *amqp.Channel
	queue string
}

// NewPublisher 打开 channel 并声明队列
func NewPublisher(conn *amqp.Connection, queue string) (*AMQPPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := DeclareQueue(ch, queue); err != nil {
		_ = ch.Close()
		return nil, err
	}
	return &AMQPPublisher{ch: ch, queue: queue}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev OrderEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	// amqp channel 不支持并发发布
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.OccurredAt,
		Type:         ev.Type,
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() error {
	return p.ch.Close()
}
