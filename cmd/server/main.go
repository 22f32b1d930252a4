package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/munyanyaguo/Hisi-Studio/api/middleware"
	v1 "github.com/munyanyaguo/Hisi-Studio/api/v1"
	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/dao/mysql"
	rdb "github.com/munyanyaguo/Hisi-Studio/internal/dao/redis"
	"github.com/munyanyaguo/Hisi-Studio/internal/gateway"
	"github.com/munyanyaguo/Hisi-Studio/internal/mailer"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/internal/service"
	"github.com/munyanyaguo/Hisi-Studio/pkg/app"
	"github.com/munyanyaguo/Hisi-Studio/pkg/logger"
	"github.com/munyanyaguo/Hisi-Studio/pkg/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := app.BootstrapApp()

	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	db, err := mysql.InitDB(&cfg.Database.Mysql)
	if err != nil {
		log.Fatalf("failed to connect to mysql: %v", err)
	}
	logger.Info("connected to mysql")

	// Redis is optional; token revocation and webhook replay suppression
	// degrade to no-ops without it.
	tokenStore := service.NewNoopTokenStore()
	replayGuard := service.NewNoopReplayGuard()
	if cfg.Database.Redis.Enabled {
		client, err := rdb.InitRedis(&cfg.Database.Redis)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		tokenStore = service.NewRedisTokenStore(client)
		replayGuard = service.NewRedisReplayGuard(client)
		logger.Info("connected to redis")
	} else {
		logger.Warn("redis disabled, token revocation and webhook replay suppression are off")
	}

	jwtUtil := utils.NewJWTUtil(cfg.JWT.Secret, cfg.JWT.AccessExpireMins, cfg.JWT.RefreshExpireHours)

	userDao := dao.NewUserDao(db)
	productDao := dao.NewProductDao(db)
	cartDao := dao.NewCartDao(db)
	orderDao := dao.NewOrderDao(db)
	paymentDao := dao.NewPaymentDao(db)
	addressDao := dao.NewAddressDao(db)
	contentDao := dao.NewContentDao(db)
	contactDao := dao.NewContactDao(db)
	pressDao := dao.NewPressDao(db)
	reviewDao := dao.NewReviewDao(db)
	adminDao := dao.NewAdminDao(db)

	fw := gateway.NewFlutterwaveClient(cfg.Flutterwave)
	mail := mailer.NewMailer(cfg.SMTP)
	notifier := service.NewNotifier(userDao, adminDao, mail)

	authService := service.NewAuthService(userDao, jwtUtil, tokenStore)
	productService := service.NewProductService(productDao)
	cartService := service.NewCartService(db, cartDao, productDao)
	orderService := service.NewOrderService(db, orderDao, cartDao, productDao, userDao, addressDao, notifier, mail, cfg.Shipping)
	paymentService := service.NewPaymentService(db, paymentDao, orderDao, userDao, fw, replayGuard, cfg.Flutterwave.RedirectURL)
	addressService := service.NewAddressService(addressDao)
	contentService := service.NewContentService(contentDao)
	contactService := service.NewContactService(contactDao, notifier, mail)
	pressService := service.NewPressService(pressDao)
	reviewService := service.NewReviewService(reviewDao, productDao, notifier)
	adminService := service.NewAdminService(userDao, orderDao, productDao, reviewDao, contactDao, adminDao)

	authHandler := v1.NewAuthHandler(authService, cartService, jwtUtil)
	productHandler := v1.NewProductHandler(productService, reviewService)
	cartHandler := v1.NewCartHandler(cartService)
	addressHandler := v1.NewAddressHandler(addressService)
	orderHandler := v1.NewOrderHandler(orderService)
	paymentHandler := v1.NewPaymentHandler(paymentService)
	contentHandler := v1.NewContentHandler(contentService)
	contactHandler := v1.NewContactHandler(contactService)
	pressHandler := v1.NewPressHandler(pressService)
	reviewHandler := v1.NewReviewHandler(reviewService)
	adminHandler := v1.NewAdminHandler(adminService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.GlobalRateLimit(cfg))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "hisi-studio-api",
			"version": "v1",
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRequired := middleware.AuthRequired(jwtUtil)
	authOptional := middleware.AuthOptional(jwtUtil)
	checkoutLimit := middleware.CheckoutRateLimit(cfg)

	api := r.Group("/api/v1")
	{
		auth := api.Group("")
		auth.Use(middleware.AuthRateLimit(cfg))
		authHandler.RegisterRoutes(auth, authRequired)

		productHandler.RegisterRoutes(api)
		cartHandler.RegisterRoutes(api, authOptional)
		addressHandler.RegisterRoutes(api, authRequired)
		orderHandler.RegisterRoutes(api, authRequired, checkoutLimit)
		paymentHandler.RegisterRoutes(api, authRequired, checkoutLimit)
		contentHandler.RegisterRoutes(api)
		contactHandler.RegisterRoutes(api)
		pressHandler.RegisterRoutes(api)
		reviewHandler.RegisterRoutes(api, authRequired)
		adminHandler.RegisterRoutes(api)
	}

	// The admin console requires an admin role; content managers are
	// further gated by per-area permissions, which super_admin bypasses.
	admin := api.Group("/admin", authRequired, middleware.AdminRequired())
	{
		adminHandler.RegisterAdminRoutes(admin,
			middleware.PermissionRequired(userDao, model.PermManageMedia),
			middleware.PermissionRequired(userDao, model.PermViewCustomers))

		products := admin.Group("", middleware.PermissionRequired(userDao, model.PermManageProducts))
		productHandler.RegisterAdminRoutes(products)

		orders := admin.Group("", middleware.PermissionRequired(userDao, model.PermManageOrders))
		orderHandler.RegisterAdminRoutes(orders)
		paymentHandler.RegisterAdminRoutes(orders)

		content := admin.Group("", middleware.PermissionRequired(userDao, model.PermManageContent))
		contentHandler.RegisterAdminRoutes(content)
		pressHandler.RegisterAdminRoutes(content)
		reviewHandler.RegisterAdminRoutes(content)

		inquiries := admin.Group("", middleware.PermissionRequired(userDao, model.PermManageInquiries))
		contactHandler.RegisterAdminRoutes(inquiries)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening on " + srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "err", err)
	}
	logger.Info("server stopped")
}
