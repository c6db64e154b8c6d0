package server

import (
	"context"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/cors"
	"go.uber.org/zap"

	applog "github.com/example/goshop/internal/logger"
	"github.com/example/goshop/internal/middleware"
	"github.com/example/goshop/internal/service"
)

// Info /info 返回的服务信息
type Info struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Driver  string `json:"database_driver"`
}

// Server 持有各 HTTP 处理器依赖的服务
type Server struct {
	catalog *service.CatalogService
	orders  *service.OrderService
	users   *service.UserService
	monitor *service.Monitor
	tokens  TokenService
	limiter *middleware.TokenBucket
	info    Info
	logger  *zap.Logger
}

// TokenService 由 auth.Service 实现
type TokenService interface {
	middleware.TokenParser
	RevokeToken(ctx context.Context, token string) error
}

// Deps 构造 Server 所需的依赖，Limiter 为 nil 时下单接口不限流
type Deps struct {
	Catalog *service.CatalogService
	Orders  *service.OrderService
	Users   *service.UserService
	Monitor *service.Monitor
	Tokens  TokenService
	Limiter *middleware.TokenBucket
	Info    Info
	Logger  *zap.Logger
}

func New(d Deps) *Server {
	logger := applog.OrNop(d.Logger)
	monitor := d.Monitor
	if monitor == nil {
		monitor = service.NewMonitor()
	}
	return &Server{
		catalog: d.Catalog,
		orders:  d.Orders,
		users:   d.Users,
		monitor: monitor,
		tokens:  d.Tokens,
		limiter: d.Limiter,
		info:    d.Info,
		logger:  logger,
	}
}

// RegisterRoutes 注册所有 HTTP 路由
func (s *Server) RegisterRoutes(app *iris.Application) {
	app.UseRouter(middleware.AccessLog(s.logger))
	app.UseRouter(cors.New().
		AllowOriginFunc(cors.AllowAnyOrigin).
		AllowHeaders("Authorization", "Content-Type").
		Handler())

	app.Get("/", func(ctx iris.Context) {
		ok(ctx, iris.Map{"message": "Welcome to the " + s.info.Name + " API!"})
	})
	app.Get("/health", func(ctx iris.Context) {
		ok(ctx, iris.Map{"status": "ok"})
	})
	app.Get("/info", func(ctx iris.Context) {
		ok(ctx, s.info)
	})
	app.Get("/monitor/stats", func(ctx iris.Context) {
		ok(ctx, s.monitor.GetStats())
	})

	// 用户
	app.Post("/register", s.register)
	app.Post("/login", s.login)
	app.Get("/users", s.listUsers)
	app.Post("/logout", middleware.BearerAuth(s.tokens), s.logout)
	app.Get("/users/{id}", s.getUser)

	// 修改和注销账号只能由本人操作
	self := app.Party("/users/{id}", middleware.BearerAuth(s.tokens), requireSelf)
	self.Patch("/", s.updateUser)
	self.Delete("/", s.deleteUser)

	// 收货地址需要登录，只能操作自己的地址
	addresses := app.Party("/addresses", middleware.BearerAuth(s.tokens))
	addresses.Get("/", s.listAddresses)
	addresses.Post("/", s.createAddress)
	addresses.Patch("/{id}", s.updateAddress)
	addresses.Delete("/{id}", s.deleteAddress)

	// 商品与分类
	app.Get("/categories", s.listCategories)
	app.Post("/categories", s.createCategory)
	app.Delete("/categories/{id}", s.deleteCategory)
	app.Get("/products", s.listProducts)
	app.Post("/products", s.createProduct)
	app.Get("/products/{id}", s.getProduct)
	app.Patch("/products/{id}", s.updateProduct)
	app.Delete("/products/{id}", s.deleteProduct)
	app.Post("/products/{id}/stock", s.adjustStock)

	// 订单
	placeOrder := []iris.Handler{s.placeOrder}
	if s.limiter != nil {
		placeOrder = append([]iris.Handler{middleware.RateLimit(s.limiter)}, placeOrder...)
	}
	app.Post("/orders", placeOrder...)
	app.Get("/orders", s.listOrders)
	app.Get("/orders/user/{user_id}", s.listOrdersByUser)
	app.Get("/orders/{id}", s.getOrder)
	app.Patch("/orders/{id}", s.updateOrder)
	app.Delete("/orders/{id}", s.deleteOrder)
}

func pageParams(ctx iris.Context) (int, int) {
	return ctx.URLParamIntDefault("skip", 0), ctx.URLParamIntDefault("limit", 10)
}
