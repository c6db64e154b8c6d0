package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/example/goshop/internal/apperr"
	"github.com/example/goshop/internal/auth"
	"github.com/example/goshop/internal/config"
	"github.com/example/goshop/internal/logger"
	"github.com/example/goshop/internal/repository/sqldb"
	"github.com/example/goshop/internal/service"
)

type seedProduct struct {
	name     string
	price    string
	count    int64
	category string
}

var seedProducts = []seedProduct{
	{"The Go Programming Language", "34.99", 20, "books"},
	{"Concurrency in Go", "29.50", 15, "books"},
	{"Mechanical Keyboard", "89.00", 8, "electronics"},
	{"USB-C Hub", "24.99", 30, "electronics"},
	{"Gopher Plush", "12.00", 50, "toys"},
}

// 简单 demo：写入分类、商品和一个带地址的演示用户，用于手工测试下单流程
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

	db, err := sqldb.Open(cfg.Database)
	if err != nil {
		log.Fatal("open database failed", zap.Error(err))
	}
	store := sqldb.NewStore(db)
	ctx := context.Background()

	catalog := service.NewCatalogService(store, log)
	users := service.NewUserService(store, auth.NewService(cfg.JWT, nil, log), log)

	categoryIDs := map[string]string{}
	existing, err := catalog.ListCategories(ctx)
	if err != nil {
		log.Fatal("list categories failed", zap.Error(err))
	}
	for _, c := range existing {
		categoryIDs[c.Name] = c.ID
	}

	for _, sp := range seedProducts {
		if _, ok := categoryIDs[sp.category]; !ok {
			c, err := catalog.CreateCategory(ctx, sp.category)
			if err != nil {
				log.Fatal("create category failed", zap.String("name", sp.category), zap.Error(err))
			}
			categoryIDs[c.Name] = c.ID
		}
		p, err := catalog.CreateProduct(ctx, service.NewProduct{
			Name:       sp.name,
			Price:      decimal.RequireFromString(sp.price),
			CategoryID: categoryIDs[sp.category],
			Count:      sp.count,
		})
		if err != nil {
			log.Fatal("create product failed", zap.String("name", sp.name), zap.Error(err))
		}
		fmt.Printf("product %-30s id=%s count=%d\n", p.Name, p.ID, p.Count)
	}

	u, err := users.CreateUser(ctx, service.NewUser{FullName: "Demo User", Email: "demo@goshop.local", Password: "demo12345"})
	switch {
	case apperr.IsKind(err, apperr.Conflict):
		fmt.Println("demo user already exists: demo@goshop.local")
	case err != nil:
		log.Fatal("create demo user failed", zap.Error(err))
	default:
		a, err := users.CreateAddress(ctx, u.ID, service.NewAddress{
			Address: "1 Gopher Way", City: "Mountain View", State: "CA", Country: "US", PostalCode: "94043",
		})
		if err != nil {
			log.Fatal("create demo address failed", zap.Error(err))
		}
		fmt.Printf("demo user id=%s address id=%s\n", u.ID, a.ID)
	}

	fmt.Println("demo 初始化完成，现在你可以：")
	fmt.Println("1) 启动 web 服务：go run ./cmd/web")
	fmt.Println("2) 启动事件消费者：go run ./cmd/order-events")
	fmt.Println("3) POST /login 获取 token，再 POST /orders 下单")
}
