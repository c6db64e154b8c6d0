package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Handler 处理一条订单事件，返回错误时消息重新入队
type Handler func(ctx context.Context, ev OrderEvent) error

// Consume 手动确认模式消费队列，直到 ctx 结束或 channel 关闭
func Consume(ctx context.Context, ch *amqp.Channel, queue string, handle Handler, logger *zap.Logger) error {
	if err := DeclareQueue(ch, queue); err != nil {
		return err
	}
	if err := ch.Qos(16, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			Dispatch(ctx, d, handle, logger)
		}
	}
}

// Dispatch 解析并处理单条消息：格式错误丢弃，处理失败重新入队，成功确认
func Dispatch(ctx context.Context, d amqp.Delivery, handle Handler, logger *zap.Logger) {
	ev, err := Decode(d.Body)
	if err != nil {
		logger.Warn("drop malformed order event", zap.Error(err), zap.ByteString("body", d.Body))
		_ = d.Nack(false, false)
		return
	}
	if err := handle(ctx, ev); err != nil {
		logger.Error("handle order event failed",
			zap.String("type", ev.Type),
			zap.String("order_id", ev.OrderID),
			zap.Error(err),
		)
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	if err := d.Ack(false); err != nil {
		logger.Warn("ack order event failed", zap.String("order_id", ev.OrderID), zap.Error(err))
	}
}
