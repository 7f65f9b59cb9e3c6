package main

import (
	"context"
	"database/sql"

	"calldesk-platform/internal/calls"
	"calldesk-platform/internal/config"
	"calldesk-platform/internal/customers"
	"calldesk-platform/internal/httpapi"
	"calldesk-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal
// services; services reach storage through their repositories.
func registerRoutes(r *gin.Engine, cfg config.Config, db *sql.DB, rdb *redis.Client) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	customerRepo := customers.NewPostgresRepo(db)
	callRepo := calls.NewPostgresRepo(db)

	var limiter calls.SlotLimiter
	if cfg.CallCapEnabled() {
		limiter = utils.SlotLimiter{
			RDB:   rdb,
			Key:   "calls:active",
			Limit: cfg.Calls.MaxActive,
			TTL:   cfg.Calls.SlotTTL,
		}
	}

	customerSvc := customers.NewService(customerRepo, callRepo)
	callSvc := calls.NewService(
		callRepo,
		calls.CustomerDirectoryFunc(func(ctx context.Context, customerID string) (bool, error) {
			return customerSvc.Exists(ctx, customerID)
		}),
		limiter,
	)

	h := httpapi.Handlers{Customers: customerSvc, Calls: callSvc}

	v1 := r.Group("/v1")
	{
		cust := v1.Group("/customers")
		{
			cust.POST("", h.CreateCustomer)
			cust.GET("", h.ListCustomers)
			cust.GET("/:id", h.GetCustomer)
			cust.PUT("/:id", h.UpdateCustomer)
			cust.DELETE("/:id", h.DeleteCustomer)
			cust.GET("/:id/calls", h.ListCustomerCalls)
		}

		call := v1.Group("/calls")
		{
			call.POST("", h.RequestCall)
			call.GET("", h.ListCalls)
			call.GET("/:id", h.GetCall)
			call.POST("/:id/start", h.StartCall)
			call.POST("/:id/complete", h.CompleteCall)
			call.POST("/:id/cancel", h.CancelCall)
			call.POST("/:id/fail", h.FailCall)
		}
	}
}
