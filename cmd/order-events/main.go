package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	radix "github.com/mediocregopher/radix/v3"
	"go.uber.org/zap"

	"github.com/example/goshop/internal/config"
	"github.com/example/goshop/internal/infra/mq"
	"github.com/example/goshop/internal/infra/redis"
	"github.com/example/goshop/internal/logger"
)

const eventCountKey = "goshop:events:%s" // 事件类型

// 订单事件消费者：记录日志，并在启用 Redis 时累计各类事件数量
func main() {
	configPath := flag.String("config", "", "path to a yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	log, err := logger.Init(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	redisClient, err := redis.Open(cfg.Redis)
	if err != nil {
		log.Fatal("connect redis failed", zap.Error(err))
	}

	conn, err := mq.Dial(cfg.RabbitMQ)
	if err != nil {
		log.Fatal("connect rabbitmq failed", zap.Error(err))
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("open channel failed", zap.Error(err))
	}
	defer ch.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handle := func(ctx context.Context, ev mq.OrderEvent) error {
		log.Info("order event",
			zap.String("type", ev.Type),
			zap.String("order_id", ev.OrderID),
			zap.String("user_id", ev.UserID),
			zap.String("product_id", ev.ProductID),
			zap.Int64("quantity", ev.Quantity),
			zap.String("status", string(ev.Status)),
			zap.String("payment_status", string(ev.PaymentStatus)),
			zap.Time("occurred_at", ev.OccurredAt),
		)
		if redisClient == nil {
			return nil
		}
		return redisClient.Do(radix.Cmd(nil, "INCR", fmt.Sprintf(eventCountKey, ev.Type)))
	}

	log.Info("order event consumer started", zap.String("queue", cfg.RabbitMQ.Queue))
	if err := mq.Consume(ctx, ch, cfg.RabbitMQ.Queue, handle, log); err != nil {
		log.Fatal("consume stopped", zap.Error(err))
	}
	log.Info("order event consumer stopped")
}
