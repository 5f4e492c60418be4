package router

import (
	"net/http"

	"carty/config"
	"carty/internal/handler"
	"carty/internal/middleware"
	"carty/internal/notify"
	"carty/internal/repository"
	"carty/internal/service"
	"carty/internal/webhook"
	"carty/internal/ws"
	"carty/pkg/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Background holds the services main runs and drains next to the HTTP server.
type Background struct {
	Subscriptions *service.SubscriptionService
	Notifications *service.NotificationService
}

// NewGateway picks the payment provider. Without a secret key the stub is used
// outside production so the app runs locally.
func NewGateway(cfg *config.Config) payment.Gateway {
	if cfg.Paystack.SecretKey == "" && !cfg.IsProduction() {
		zap.L().Warn("[Payments] no Paystack secret key, using stub provider")
		return &payment.StubProvider{}
	}
	return payment.NewPaystackProvider(cfg.Paystack.BaseURL, cfg.Paystack.SecretKey, cfg.Paystack.Currency, cfg.Paystack.Timeout)
}

func Setup(cfg *config.Config, db *gorm.DB, gateway payment.Gateway, limiter middleware.Limiter) (*gin.Engine, *Background) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(limiter))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	pendingRepo := repository.NewPendingSubscriptionRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	webhookRepo := repository.NewWebhookEventRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	feed := ws.NewHub()

	// Services
	var pusher service.Pusher
	if fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath); fcmSvc != nil {
		pusher = fcmSvc
		zap.L().Info("[FCM] Push notifications enabled")
	} else {
		zap.L().Info("[FCM] Push notifications disabled: set firebase.service_account_path to enable")
	}
	var mailer notify.Mailer
	if m := notify.NewResendMailer(cfg.Mail.ResendAPIKey, cfg.Mail.From); m != nil {
		mailer = m
	} else {
		zap.L().Info("[Mail] Order emails disabled: set mail.resend_api_key to enable")
	}
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, pusher, mailer, feed)

	ledger := service.NewLedger(storeRepo)
	authSvc := service.NewAuthService(cfg, userRepo, storeRepo)
	storeSvc := service.NewStoreService(storeRepo, productRepo, orderRepo)
	productSvc := service.NewProductService(storeRepo, productRepo)
	checkoutSvc := service.NewCheckoutService(storeRepo, productRepo, orderRepo, gateway, cfg.Server.PublicBaseURL)
	orderSvc := service.NewOrderSettlementService(db, orderRepo, storeRepo, ledger, gateway, notifSvc)
	subSvc := service.NewSubscriptionService(db, storeRepo, pendingRepo, gateway, notifSvc, cfg.Subscription)
	payoutSvc := service.NewPayoutService(db, storeRepo, withdrawalRepo, ledger, gateway, notifSvc)
	webhookSvc := service.NewWebhookService(webhookRepo, orderSvc, subSvc, payoutSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	storeHandler := handler.NewStoreHandler(storeSvc)
	productHandler := handler.NewProductHandler(productSvc)
	storefrontHandler := handler.NewStorefrontHandler(storeSvc, checkoutSvc, orderSvc)
	subscriptionHandler := handler.NewSubscriptionHandler(subSvc)
	walletHandler := handler.NewWalletHandler(payoutSvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	webhookHandler := handler.NewWebhookHandler(webhook.NewAuthenticator(cfg.Paystack.SecretKey), webhookSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api")
	{
		api.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "CartY API", "version": "1.0"})
		})
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", authMw, authHandler.Me)
		}
		api.POST("/me/fcm-token", authMw, authHandler.RegisterFCMToken)

		stores := api.Group("/stores")
		stores.Use(authMw)
		{
			stores.POST("", storeHandler.Create)
			stores.GET("/my-store", storeHandler.MyStore)
			stores.PUT("/my-store", storeHandler.Update)
			stores.GET("/dashboard", storeHandler.Dashboard)
		}
		api.GET("/orders", authMw, storeHandler.Orders)

		products := api.Group("/products")
		products.Use(authMw)
		{
			products.POST("", productHandler.Create)
			products.GET("", productHandler.List)
			products.PUT("/:id", productHandler.Update)
			products.DELETE("/:id", productHandler.Delete)
		}

		storefront := api.Group("/storefront/:slug")
		{
			storefront.GET("", storefrontHandler.Get)
			storefront.POST("/checkout", storefrontHandler.Checkout)
			storefront.GET("/verify/:reference", storefrontHandler.Verify)
		}

		subs := api.Group("/subscription")
		{
			subs.GET("/price", subscriptionHandler.Price)
			subs.POST("/initialize", authMw, subscriptionHandler.Initialize)
			subs.GET("/verify/:reference", authMw, subscriptionHandler.Verify)
		}

		api.GET("/banks", walletHandler.Banks)
		wallet := api.Group("/wallet")
		wallet.Use(authMw)
		{
			wallet.GET("", walletHandler.Get)
			wallet.GET("/verify-account", walletHandler.VerifyAccount)
			wallet.POST("/setup-bank", walletHandler.SetupBank)
			wallet.POST("/unlink-bank", walletHandler.UnlinkBank)
			wallet.POST("/withdraw", walletHandler.Withdraw)
			wallet.POST("/transfer", walletHandler.Transfer)
		}

		notifications := api.Group("/notifications")
		notifications.Use(authMw)
		{
			notifications.GET("", notificationHandler.List)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
		}

		api.POST("/webhooks/paystack", webhookHandler.Paystack)
	}

	r.GET("/ws/orders", ws.ServeOrderFeed(&cfg.JWT, feed))

	return r, &Background{Subscriptions: subSvc, Notifications: notifSvc}
}
