package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/skeeterman/lawnbill/internal/api/v1"
	"github.com/skeeterman/lawnbill/internal/rest/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handlers struct {
	Health       *v1.HealthHandler
	Customer     *v1.CustomerHandler
	Subscription *v1.SubscriptionHandler
	Catalog      *v1.CatalogHandler
	Webhook      *v1.WebhookHandler
	Admin        *v1.AdminHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// Customer routes
	customers := router.Group("/customers")
	{
		customers.POST("", handlers.Customer.CreateCustomer)
		customers.GET("", handlers.Customer.GetCustomers)
		customers.GET("/:id", handlers.Customer.GetCustomer)
		customers.DELETE("/:id", handlers.Customer.DeleteCustomer)
		customers.POST("/:id/cards", handlers.Customer.AddCard)
		customers.DELETE("/:id/cards/:card_id", handlers.Customer.RemoveCard)
		customers.GET("/:id/events", handlers.Customer.GetSubscriptionEvents)
		customers.GET("/:id/billing", handlers.Customer.GetBillingHistory)
		customers.GET("/:id/invoices", handlers.Catalog.GetInvoices)
		customers.POST("/:id/invoices/sync", handlers.Catalog.SyncInvoices)

		customers.PUT("/:id/subscription", handlers.Subscription.ChangeSubscription)
		customers.DELETE("/:id/subscription", handlers.Subscription.CancelSubscription)
		customers.POST("/:id/subscription/pause", handlers.Subscription.PauseSubscription)
		customers.POST("/:id/subscription/resume", handlers.Subscription.ResumeSubscription)
	}

	// Subscription routes not bound to a single customer
	subscriptions := router.Group("/subscriptions")
	{
		subscriptions.POST("/preview", handlers.Subscription.PreviewOrder)
	}

	// Catalog routes
	catalog := router.Group("/catalog")
	{
		catalog.POST("/items", handlers.Catalog.CreateItem)
		catalog.DELETE("/items/:id", handlers.Catalog.DeleteItem)
		catalog.GET("/plans", handlers.Catalog.GetPlans)
		catalog.GET("/addons", handlers.Catalog.GetAddons)
		catalog.POST("/sync", handlers.Catalog.SyncPrices)
	}

	// Plan schedule routes
	schedules := router.Group("/schedules")
	{
		schedules.POST("", handlers.Catalog.CreateSchedule)
		schedules.GET("", handlers.Catalog.GetSchedules)
		schedules.PUT("/:id", handlers.Catalog.UpdateSchedule)
		schedules.DELETE("/:id", handlers.Catalog.DeleteSchedule)
	}

	// Gateway webhooks
	webhooks := router.Group("/webhooks")
	{
		webhooks.POST("/square", handlers.Webhook.HandleWebhook)
	}

	// Admin routes
	admin := router.Group("/admin")
	{
		admin.POST("/scheduler/run", handlers.Admin.RunScheduler)
		admin.GET("/stats", handlers.Admin.GetBillingStats)
	}
}
