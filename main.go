package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ram-SrinivasChandran/cos-spring-project/configs"
	"github.com/Ram-SrinivasChandran/cos-spring-project/controllers"
	"github.com/Ram-SrinivasChandran/cos-spring-project/middlewares"
	"github.com/Ram-SrinivasChandran/cos-spring-project/pkg/cache"
	"github.com/Ram-SrinivasChandran/cos-spring-project/pkg/events"
	"github.com/Ram-SrinivasChandran/cos-spring-project/repository"
	"github.com/Ram-SrinivasChandran/cos-spring-project/routes"
	"github.com/Ram-SrinivasChandran/cos-spring-project/services"
	"github.com/Ram-SrinivasChandran/cos-spring-project/ws"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := run(); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return err
	}
	logger := configs.SetupLogging(cfg)
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// DB
	db, err := configs.ConnectionDB(cfg)
	if err != nil {
		return err
	}
	if err := configs.SetupDatabase(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := configs.SeedAvailability(db); err != nil {
		return err
	}
	if err := configs.SeedStaff(db, cfg); err != nil {
		return fmt.Errorf("seed staff: %w", err)
	}
	if err := configs.SeedMenus(db, cfg.SeedFile); err != nil {
		return fmt.Errorf("seed menus: %w", err)
	}

	// repositories
	orderRepo := repository.NewOrderRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	userRepo := repository.NewUserRepository(db)
	addrRepo := repository.NewAddressRepository(db)

	// side channels
	var menuCache cache.Cache
	if cfg.RedisAddr != "" {
		menuCache = cache.NewRedisCache(cfg.RedisAddr, "cos")
	}
	hub := ws.NewOrderHub(nil)
	go hub.Run(ctx)
	publishers := events.Multi{hub}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publishers = append(publishers, kp)
	}

	// services
	validate := services.NewFieldValidator()
	orderSvc := services.NewOrderService(db, orderRepo, menuRepo, addrRepo, userRepo, validate, publishers)
	menuSvc := services.NewMenuService(menuRepo, menuCache, cfg.MenuCacheTTL)
	addrSvc := services.NewAddressService(addrRepo, userRepo, validate)
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	hub.SetOrders(orderSvc)

	// HTTP
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(logger), middlewares.CORSMiddleware(cfg.CORSOrigins))
	routes.RegisterRoutes(r, routes.Deps{
		JWTSecret: cfg.JWTSecret,
		Auth:      controllers.NewAuthController(authSvc),
		Orders:    controllers.NewOrderController(orderSvc, menuSvc, addrSvc),
		Hub:       hub,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("server running")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
