package routes

import (
	"net/http"
	"time"

	"musetix/internal/auth"
	"musetix/internal/dialogue"
	"musetix/internal/notifications"
	"musetix/internal/orders"
	"musetix/internal/settlement"
	"musetix/internal/shared/config"
	"musetix/internal/shared/database"
	"musetix/internal/tickets"
	"musetix/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	notifier notifications.NotificationService
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, notifier notifications.NotificationService) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		notifier: notifier,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)

		ticketRepo := tickets.NewRepository(r.db.GetPostgreSQL())
		generator := tickets.NewDocumentGenerator()

		orderService := r.setupOrderRoutes(api)
		r.setupDialogueRoutes(api, orderService)
		r.setupSettlementRoutes(api, ticketRepo, generator)
		r.setupTicketRoutes(api, ticketRepo, generator)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "musetix-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "musetix-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures operator authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)

	auth.SetupAuthRoutes(rg, authController)
}

// setupOrderRoutes configures payment order creation routes and returns the
// order service for the dialogue to use
func (r *Router) setupOrderRoutes(rg *gin.RouterGroup) orders.Service {
	orderRepo := orders.NewRepository(r.db.GetPostgreSQL())
	gateway := orders.NewHTTPGateway(r.config.Gateway)
	orderService := orders.NewService(orderRepo, gateway)
	orderController := orders.NewController(orderService)

	orders.SetupOrderRoutes(rg, orderController)
	return orderService
}

// setupDialogueRoutes configures the booking dialogue routes
func (r *Router) setupDialogueRoutes(rg *gin.RouterGroup, orderService orders.Service) {
	store := cache.NewService(r.db.GetRedisClient())
	dialogueService := dialogue.NewService(store, orderService, r.config.Redis.DialogueSessionTTL)
	dialogueController := dialogue.NewController(dialogueService)

	dialogue.SetupDialogueRoutes(rg, dialogueController)
}

// setupSettlementRoutes configures payment verification routes
func (r *Router) setupSettlementRoutes(rg *gin.RouterGroup, ticketRepo tickets.Repository, generator tickets.DocumentGenerator) {
	orderRepo := orders.NewRepository(r.db.GetPostgreSQL())
	verifier := settlement.NewVerifier(r.config.Gateway.KeySecret, orderRepo, ticketRepo, generator, r.notifier)
	settlementController := settlement.NewController(verifier)

	settlement.SetupSettlementRoutes(rg, settlementController)
}

// setupTicketRoutes configures the public catalog and operator ticket routes
func (r *Router) setupTicketRoutes(rg *gin.RouterGroup, ticketRepo tickets.Repository, generator tickets.DocumentGenerator) {
	ticketService := tickets.NewService(ticketRepo, generator, r.notifier)
	ticketController := tickets.NewController(ticketService)

	tickets.SetupTicketRoutes(rg, ticketController)
}
