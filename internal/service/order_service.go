package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/example/goshop/internal/apperr"
	"github.com/example/goshop/internal/datamodels/order"
	"github.com/example/goshop/internal/datamodels/product"
	"github.com/example/goshop/internal/infra/mq"
	applog "github.com/example/goshop/internal/logger"
	"github.com/example/goshop/internal/repository"
)

const publishTimeout = 3 * time.Second

// OrderService 下单与订单管理
type OrderService struct {
	store     repository.Store
	catalog   *CatalogService
	publisher mq.Publisher
	monitor   *Monitor
	logger    *zap.Logger
}

// NewOrderService publisher 和 monitor 可以为 nil
func NewOrderService(store repository.Store, catalog *CatalogService, publisher mq.Publisher, monitor *Monitor, logger *zap.Logger) *OrderService {
	if publisher == nil {
		publisher = mq.NopPublisher{}
	}
	if monitor == nil {
		monitor = NewMonitor()
	}
	logger = applog.OrNop(logger)
	if catalog == nil {
		catalog = NewCatalogService(store, logger)
	}
	return &OrderService{
		store:     store,
		catalog:   catalog,
		publisher: publisher,
		monitor:   monitor,
		logger:    logger,
	}
}

// PlaceOrderRequest 下单参数
type PlaceOrderRequest struct {
	UserID        string
	ProductID     string
	AddressID     string
	Quantity      int64
	PaymentStatus order.PaymentStatus
	Status        order.Status
}

func (r PlaceOrderRequest) validate() error {
	switch {
	case r.UserID == "":
		return apperr.InvalidInputf("user_id is required")
	case r.ProductID == "":
		return apperr.InvalidInputf("product_id is required")
	case r.AddressID == "":
		return apperr.InvalidInputf("address_id is required")
	case r.Quantity <= 0:
		return apperr.InvalidInputf("quantity must be greater than 0")
	case !r.PaymentStatus.Valid():
		return apperr.InvalidInputf("invalid payment_status %q", string(r.PaymentStatus))
	case !r.Status.Valid():
		return apperr.InvalidInputf("invalid status %q", string(r.Status))
	}
	return nil
}

// PlaceOrder 在一个事务内校验库存、扣减库存并创建订单
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*order.Order, error) {
	ctx, span := tracer.Start(ctx, "order.PlaceOrder", trace.WithAttributes(
		attribute.String("user.id", req.UserID),
		attribute.String("product.id", req.ProductID),
		attribute.Int64("order.quantity", req.Quantity),
	))
	defer span.End()

	s.monitor.RecordCheckoutRequest()
	if err := req.validate(); err != nil {
		s.monitor.RecordCheckoutFailed()
		return nil, err
	}

	var created *order.Order
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		catalog := s.catalog.WithStore(tx)

		p, err := catalog.GetProduct(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if p.Count < req.Quantity {
			return apperr.InsufficientStockf("insufficient stock for product %s", p.ID)
		}

		if _, err := tx.Users().GetByID(ctx, req.UserID); err != nil {
			return err
		}
		if _, err := tx.Addresses().GetForOwner(ctx, req.AddressID, req.UserID); err != nil {
			return err
		}

		if _, err := catalog.AdjustStock(ctx, p.ID, req.Quantity, product.Decrease); err != nil {
			return err
		}

		o := &order.Order{
			UserID:        req.UserID,
			ProductID:     p.ID,
			AddressID:     req.AddressID,
			Quantity:      req.Quantity,
			PaymentStatus: req.PaymentStatus,
			Status:        req.Status,
		}
		if err := tx.Orders().Create(ctx, o); err != nil {
			return err
		}
		created = o
		return nil
	})
	if err != nil {
		s.recordFailure(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Info("place order failed",
			zap.String("user_id", req.UserID),
			zap.String("product_id", req.ProductID),
			zap.Int64("quantity", req.Quantity),
			zap.String("kind", apperr.KindOf(err).String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.monitor.RecordCheckoutSuccess()
	span.SetAttributes(attribute.String("order.id", created.ID))
	s.logger.Info("order placed",
		zap.String("order_id", created.ID),
		zap.String("user_id", created.UserID),
		zap.String("product_id", created.ProductID),
		zap.Int64("quantity", created.Quantity),
	)
	s.publish(ctx, mq.EventOrderPlaced, created)
	return created, nil
}

func (s *OrderService) recordFailure(err error) {
	switch apperr.KindOf(err) {
	case apperr.InsufficientStock:
		s.monitor.RecordInsufficientStock()
	case apperr.Internal:
		s.monitor.RecordDBError()
	default:
		s.monitor.RecordCheckoutFailed()
	}
}

// publish 发送失败只记录日志，不影响已提交的事务
func (s *OrderService) publish(ctx context.Context, typ string, o *order.Order) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, mq.NewOrderEvent(typ, o)); err != nil {
		s.monitor.RecordPublishError()
		s.logger.Warn("publish order event failed",
			zap.String("type", typ),
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	return s.store.Orders().GetByID(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context, offset, limit int) ([]*order.Order, error) {
	return s.store.Orders().List(ctx, offset, limit)
}

// ListOrdersByUser 用户没有订单时返回 NotFound
func (s *OrderService) ListOrdersByUser(ctx context.Context, userID string, offset, limit int) ([]*order.Order, error) {
	list, err := s.store.Orders().ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, apperr.NotFoundf("no orders found for user %s", userID)
	}
	return list, nil
}

// UpdateOrder 只修改传入的状态字段
func (s *OrderService) UpdateOrder(ctx context.Context, id string, upd order.Update) (*order.Order, error) {
	ctx, span := tracer.Start(ctx, "order.UpdateOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	if upd.PaymentStatus != nil && !upd.PaymentStatus.Valid() {
		return nil, apperr.InvalidInputf("invalid payment_status %q", string(*upd.PaymentStatus))
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, apperr.InvalidInputf("invalid status %q", string(*upd.Status))
	}

	o, err := s.store.Orders().GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if upd.PaymentStatus != nil {
		o.PaymentStatus = *upd.PaymentStatus
	}
	if upd.Status != nil {
		o.Status = *upd.Status
	}
	if err := s.store.Orders().Update(ctx, o); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("order.status", string(o.Status)),
		attribute.String("order.payment_status", string(o.PaymentStatus)),
	)
	s.publish(ctx, mq.EventOrderUpdated, o)
	return o, nil
}

// DeleteOrder 直接删除，不回补库存
func (s *OrderService) DeleteOrder(ctx context.Context, id string) (*order.Order, error) {
	o, err := s.store.Orders().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Orders().Delete(ctx, id); err != nil {
		return nil, err
	}
	s.publish(ctx, mq.EventOrderDeleted, o)
	return o, nil
}
