package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/HamzaAshfaq01/sellsgoods/internal/adapter/email"
	mongoadapter "github.com/HamzaAshfaq01/sellsgoods/internal/adapter/mongo"
	natsadapter "github.com/HamzaAshfaq01/sellsgoods/internal/adapter/nats"
	redisadapter "github.com/HamzaAshfaq01/sellsgoods/internal/adapter/redis"
	"github.com/HamzaAshfaq01/sellsgoods/internal/adapter/storage"
	"github.com/HamzaAshfaq01/sellsgoods/internal/adapter/storage/disk"
	"github.com/HamzaAshfaq01/sellsgoods/internal/adapter/storage/s3"
	"github.com/HamzaAshfaq01/sellsgoods/internal/app/config"
	"github.com/HamzaAshfaq01/sellsgoods/internal/handler"
	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/logger"
	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/metrics"
	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/tracer"
	"github.com/HamzaAshfaq01/sellsgoods/internal/router"
	"github.com/HamzaAshfaq01/sellsgoods/internal/service"
)

const serviceName = "sellsgoods"

// Run wires the application together and blocks until SIGINT/SIGTERM.
func Run(cfg *config.Config) error {
	log, err := logger.NewZapLogger(logger.Config{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return err
	}
	log.Infof("starting %s, env=%s", serviceName, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Errorf("mongo disconnect: %v", err)
		}
	}()
	db := mongoClient.Database(cfg.MongoDB.Database)

	userRepo := mongoadapter.NewUserRepository(db)
	categoryRepo := mongoadapter.NewCategoryRepository(db)
	productRepo := mongoadapter.NewProductRepository(db)
	orderRepo := mongoadapter.NewOrderRepository(db)

	// Optional collaborators degrade to no-ops so a missing broker or
	// cache never blocks startup in dev.
	var cache service.GroupedCache
	if redisClient, err := redisadapter.NewClient(ctx, cfg.Redis); err != nil {
		log.Warnf("redis unavailable, grouped catalog cache disabled: %v", err)
	} else {
		cache = redisadapter.NewCatalogCache(redisClient, cfg.Catalog.GroupedCacheTTL)
		defer redisClient.Close()
	}

	var publisher natsadapter.MessagePublisher = natsadapter.NoopPublisher{}
	if natsConn, err := natsadapter.NewConnection(cfg.NATS); err != nil {
		log.Warnf("nats unavailable, events disabled: %v", err)
	} else {
		if p, err := natsadapter.NewPublisher(natsConn); err == nil {
			publisher = p
		}
		defer natsConn.Close()
	}

	var sender email.EmailSender = email.NoopSender{}
	if cfg.SMTP.Host != "" {
		s, err := email.NewSMTPSender(cfg.SMTP, log)
		if err != nil {
			log.Warnf("smtp misconfigured, receipt emails disabled: %v", err)
		} else {
			sender = s
		}
	}

	var store storage.Storage
	var uploadsDir string
	switch cfg.Storage.Backend {
	case "minio":
		store, err = s3.NewMinIOStorage(cfg.Storage, log)
		if err != nil {
			return err
		}
	default:
		diskStore, err := disk.NewDiskStorage(cfg.Storage.UploadsDir)
		if err != nil {
			return err
		}
		store = diskStore
		uploadsDir = diskStore.Dir()
	}

	m := metrics.NewManager(serviceName)
	if cfg.Metrics.Port != "" {
		go func() {
			if err := metrics.StartServer(cfg.Metrics.Port, log, m.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("metrics server: %v", err)
			}
		}()
	}

	if cfg.Tracing.Enabled {
		tp := tracer.Init(serviceName, cfg.Tracing.OTLPEndpoint, log)
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Errorf("tracer shutdown: %v", err)
			}
		}()
	}

	userService := service.NewUserService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, log)
	categoryService := service.NewCategoryService(categoryRepo, productRepo, log)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, userRepo, store, cache, publisher, cfg.Catalog.GroupedPerCategory, log)
	orderService := service.NewOrderService(orderRepo, productRepo, userRepo, publisher, sender, log)

	mux := router.New(router.Deps{
		Users:       handler.NewUserHandler(userService, log),
		Categories:  handler.NewCategoryHandler(categoryService, log),
		Products:    handler.NewProductHandler(catalogService, store, m, log),
		Orders:      handler.NewOrderHandler(orderService, m, log),
		UserService: userService,
		JWTSecret:   cfg.Auth.JWTSecret,
		Metrics:     m,
		Tracing:     cfg.Tracing.Enabled,
		ServiceName: serviceName,
		UploadsDir:  uploadsDir,
		Log:         log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPServer.Port,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("http server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
