package server

import (
	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"

	"github.com/example/goshop/internal/datamodels/product"
	"github.com/example/goshop/internal/service"
)

// productRequest 创建和修改商品共用，修改时缺省字段保持不变
type productRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *string          `json:"category_id"`
	Metadata    map[string]any   `json:"product_metadata"`
	Count       *Int64           `json:"count"`
}

func (r productRequest) toNew() service.NewProduct {
	in := service.NewProduct{Metadata: r.Metadata}
	if r.Name != nil {
		in.Name = *r.Name
	}
	if r.Description != nil {
		in.Description = *r.Description
	}
	if r.Price != nil {
		in.Price = *r.Price
	}
	if r.CategoryID != nil {
		in.CategoryID = *r.CategoryID
	}
	if r.Count != nil {
		in.Count = int64(*r.Count)
	}
	return in
}

func (r productRequest) toUpdate() product.Update {
	return product.Update{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		CategoryID:  r.CategoryID,
		Metadata:    r.Metadata,
	}
}

func (s *Server) listCategories(ctx iris.Context) {
	list, err := s.catalog.ListCategories(ctx.Request().Context())
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, list)
}

func (s *Server) createCategory(ctx iris.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if !s.readJSON(ctx, &req) {
		return
	}
	c, err := s.catalog.CreateCategory(ctx.Request().Context(), req.Name)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, c)
}

func (s *Server) deleteCategory(ctx iris.Context) {
	c, err := s.catalog.DeleteCategory(ctx.Request().Context(), ctx.Params().Get("id"))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, c)
}

func (s *Server) listProducts(ctx iris.Context) {
	skip, limit := pageParams(ctx)
	list, err := s.catalog.ListProducts(ctx.Request().Context(), skip, limit)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, list)
}

func (s *Server) getProduct(ctx iris.Context) {
	p, err := s.catalog.GetProduct(ctx.Request().Context(), ctx.Params().Get("id"))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, p)
}

func (s *Server) createProduct(ctx iris.Context) {
	var req productRequest
	if !s.readJSON(ctx, &req) {
		return
	}
	p, err := s.catalog.CreateProduct(ctx.Request().Context(), req.toNew())
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, p)
}

func (s *Server) updateProduct(ctx iris.Context) {
	var req productRequest
	if !s.readJSON(ctx, &req) {
		return
	}
	if req.Count != nil {
		fail(ctx, iris.StatusBadRequest, "count can only be changed through /products/{id}/stock")
		return
	}
	p, err := s.catalog.UpdateProduct(ctx.Request().Context(), ctx.Params().Get("id"), req.toUpdate())
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, p)
}

func (s *Server) deleteProduct(ctx iris.Context) {
	p, err := s.catalog.DeleteProduct(ctx.Request().Context(), ctx.Params().Get("id"))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, p)
}

func (s *Server) adjustStock(ctx iris.Context) {
	var req struct {
		Quantity  Int64             `json:"quantity"`
		Direction product.Direction `json:"direction"`
	}
	if !s.readJSON(ctx, &req) {
		return
	}
	p, err := s.catalog.AdjustStock(ctx.Request().Context(), ctx.Params().Get("id"), int64(req.Quantity), req.Direction)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, p)
}
