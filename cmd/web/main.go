package main

import (
	"context"
	"flag"
	"time"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/example/goshop/internal/auth"
	"github.com/example/goshop/internal/config"
	"github.com/example/goshop/internal/infra/mq"
	"github.com/example/goshop/internal/infra/redis"
	"github.com/example/goshop/internal/logger"
	"github.com/example/goshop/internal/middleware"
	"github.com/example/goshop/internal/observability"
	"github.com/example/goshop/internal/repository/sqldb"
	"github.com/example/goshop/internal/server"
	"github.com/example/goshop/internal/service"
)

const version = "0.1.0"

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

	shutdownTracing, err := observability.SetupTracing(context.Background(), cfg.Tracing)
	if err != nil {
		log.Fatal("setup tracing failed", zap.Error(err))
	}

	db, err := sqldb.Open(cfg.Database)
	if err != nil {
		log.Fatal("open database failed", zap.Error(err))
	}
	store := sqldb.NewStore(db)

	shards, err := redis.OpenShards(cfg.Redis, cfg.Auth.Nodes)
	if err != nil {
		log.Fatal("connect redis failed", zap.Error(err))
	}
	cache := auth.NewTokenCache(shards, cfg.Auth.HashReplicas, cfg.Auth.TokenCacheTTL())
	authSvc := auth.NewService(cfg.JWT, cache, log.Named("auth"))

	var publisher mq.Publisher = mq.NopPublisher{}
	if cfg.RabbitMQ.Enabled {
		conn, err := mq.Dial(cfg.RabbitMQ)
		if err != nil {
			log.Fatal("connect rabbitmq failed", zap.Error(err))
		}
		defer conn.Close()
		p, err := mq.NewPublisher(conn, cfg.RabbitMQ.Queue)
		if err != nil {
			log.Fatal("create publisher failed", zap.Error(err))
		}
		defer p.Close()
		publisher = p
	}

	monitor := service.NewMonitor()
	catalog := service.NewCatalogService(store, log.Named("catalog"))
	srv := server.New(server.Deps{
		Catalog: catalog,
		Orders:  service.NewOrderService(store, catalog, publisher, monitor, log.Named("order")),
		Users:   service.NewUserService(store, authSvc, log.Named("user")),
		Monitor: monitor,
		Tokens:  authSvc,
		Limiter: middleware.NewTokenBucketFromConfig(cfg.RateLimit),
		Info:    server.Info{Name: "goshop", Version: version, Driver: cfg.Database.Driver},
		Logger:  log.Named("http"),
	})

	app := iris.New()
	srv.RegisterRoutes(app)

	iris.RegisterOnInterrupt(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = app.Shutdown(ctx)
		if err := shutdownTracing(ctx); err != nil {
			log.Warn("shutdown tracing failed", zap.Error(err))
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		for _, c := range shards {
			_ = c.Close()
		}
	})

	addr := cfg.Server.Addr()
	log.Info("web server listening", zap.String("addr", addr), zap.String("driver", cfg.Database.Driver))
	if err := app.Run(
		iris.Addr(addr),
		iris.WithCharset("UTF-8"),
		iris.WithoutInterruptHandler,
		iris.WithoutServerError(iris.ErrServerClosed),
	); err != nil {
		log.Fatal("web server stopped", zap.Error(err))
	}
}
