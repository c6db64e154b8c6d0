package server

import (
	"github.com/kataras/iris/v12"

	"github.com/example/goshop/internal/datamodels/order"
	"github.com/example/goshop/internal/service"
)

type placeOrderRequest struct {
	UserID        string              `json:"user_id"`
	ProductID     string              `json:"product_id"`
	AddressID     string              `json:"address_id"`
	Quantity      Int64               `json:"quantity"`
	PaymentStatus order.PaymentStatus `json:"payment_status"`
	Status        order.Status        `json:"status"`
}

func (s *Server) placeOrder(ctx iris.Context) {
	var req placeOrderRequest
	if !s.readJSON(ctx, &req) {
		return
	}
	if req.Status == "" {
		req.Status = order.StatusPending
	}
	o, err := s.orders.PlaceOrder(ctx.Request().Context(), service.PlaceOrderRequest{
		UserID:        req.UserID,
		ProductID:     req.ProductID,
		AddressID:     req.AddressID,
		Quantity:      int64(req.Quantity),
		PaymentStatus: req.PaymentStatus,
		Status:        req.Status,
	})
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, o)
}

func (s *Server) listOrders(ctx iris.Context) {
	skip, limit := pageParams(ctx)
	list, err := s.orders.ListOrders(ctx.Request().Context(), skip, limit)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, list)
}

func (s *Server) listOrdersByUser(ctx iris.Context) {
	skip, limit := pageParams(ctx)
	list, err := s.orders.ListOrdersByUser(ctx.Request().Context(), ctx.Params().Get("user_id"), skip, limit)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, list)
}

func (s *Server) getOrder(ctx iris.Context) {
	o, err := s.orders.GetOrder(ctx.Request().Context(), ctx.Params().Get("id"))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, o)
}

func (s *Server) updateOrder(ctx iris.Context) {
	var req order.Update
	if !s.readJSON(ctx, &req) {
		return
	}
	o, err := s.orders.UpdateOrder(ctx.Request().Context(), ctx.Params().Get("id"), req)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, o)
}

func (s *Server) deleteOrder(ctx iris.Context) {
	o, err := s.orders.DeleteOrder(ctx.Request().Context(), ctx.Params().Get("id"))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, o)
}
