package server

import (
	"github.com/kataras/iris/v12"

	"github.com/example/goshop/internal/datamodels/address"
	"github.com/example/goshop/internal/datamodels/user"
	"github.com/example/goshop/internal/middleware"
	"github.com/example/goshop/internal/service"
)

type registerRequest struct {
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     user.Role `json:"roles_permissions"`
}

func (s *Server) register(ctx iris.Context) {
	var req registerRequest
	if !s.readJSON(ctx, &req) {
		return
	}
	u, err := s.users.CreateUser(ctx.Request().Context(), service.NewUser{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, u)
}

func (s *Server) login(ctx iris.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !s.readJSON(ctx, &req) {
		return
	}
	token, u, err := s.users.AuthenticateUser(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, iris.Map{
		"access_token": token,
		"token_type":   "bearer",
		"user_email":   u.Email,
	})
}

func (s *Server) logout(ctx iris.Context) {
	if err := s.tokens.RevokeToken(ctx.Request().Context(), middleware.Token(ctx)); err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, iris.Map{"message": "logged out"})
}

// requireSelf 路径中的用户 id 必须是当前登录用户
func requireSelf(ctx iris.Context) {
	if ctx.Params().Get("id") != middleware.UserID(ctx) {
		fail(ctx, iris.StatusForbidden, "cannot modify another user")
		return
	}
	ctx.Next()
}

func (s *Server) listUsers(ctx iris.Context) {
	skip, limit := pageParams(ctx)
	list, err := s.users.ListUsers(ctx.Request().Context(), skip, limit)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, list)
}

func (s *Server) getUser(ctx iris.Context) {
	u, err := s.users.GetUser(ctx.Request().Context(), ctx.Params().Get("id"))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, u)
}

func (s *Server) updateUser(ctx iris.Context) {
	var req struct {
		FullName *string `json:"full_name"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}
	if !s.readJSON(ctx, &req) {
		return
	}
	u, err := s.users.UpdateUser(ctx.Request().Context(), ctx.Params().Get("id"), user.Update{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, u)
}

func (s *Server) deleteUser(ctx iris.Context) {
	u, err := s.users.DeleteUser(ctx.Request().Context(), ctx.Params().Get("id"))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, u)
}

func (s *Server) listAddresses(ctx iris.Context) {
	list, err := s.users.GetUserAddresses(ctx.Request().Context(), middleware.UserID(ctx))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, list)
}

func (s *Server) createAddress(ctx iris.Context) {
	var req service.NewAddress
	if !s.readJSON(ctx, &req) {
		return
	}
	a, err := s.users.CreateAddress(ctx.Request().Context(), middleware.UserID(ctx), req)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, a)
}

func (s *Server) updateAddress(ctx iris.Context) {
	var req address.Update
	if !s.readJSON(ctx, &req) {
		return
	}
	a, err := s.users.UpdateAddress(ctx.Request().Context(), ctx.Params().Get("id"), middleware.UserID(ctx), req)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, a)
}

func (s *Server) deleteAddress(ctx iris.Context) {
	a, err := s.users.DeleteAddress(ctx.Request().Context(), ctx.Params().Get("id"), middleware.UserID(ctx))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	ok(ctx, a)
}
