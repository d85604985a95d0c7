package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/example/foodorders/pkg/config"
	"github.com/example/foodorders/pkg/models"
	"github.com/example/foodorders/pkg/order"
	"github.com/example/foodorders/pkg/payment"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// OrderService is the order lifecycle workflow the gateway fronts.
type OrderService interface {
	Checkout(ctx context.Context, customerID *int64, items []order.LineItem) (*payment.Quote, error)
	Create(ctx context.Context, cartRef string) (*order.Record, error)
	UpdateStatus(ctx context.Context, cartRef, label string) (*order.StatusUpdate, error)
}

type CustomerStore interface {
	RegisterCustomer(ctx context.Context, customer *models.Customer) error
	GetCustomerByCPF(ctx context.Context, cpf string) (*models.Customer, error)
}

// CustomerCache is a best-effort identity lookup cache; errors fall through
// to the store.
type CustomerCache interface {
	CacheCustomer(ctx context.Context, customer *models.Customer) error
	GetCustomerCache(ctx context.Context, cpf string) (*models.Customer, error)
}

type MenuStore interface {
	ResolveCategoryCode(ctx context.Context, label string) (int64, error)
	InsertItem(ctx context.Context, item *models.MenuItem) error
	GetItemByID(ctx context.Context, id int64) (*models.MenuItem, error)
	UpdateItem(ctx context.Context, item *models.MenuItem) error
	DeleteItem(ctx context.Context, id int64) error
	ListItemsByCategory(ctx context.Context, categoryCode int64) ([]models.MenuItem, error)
}

type Gateway struct {
	config    *config.Config
	logger    *zap.Logger
	router    *gin.Engine
	orders    OrderService
	customers CustomerStore
	cache     CustomerCache
	menu      MenuStore
}

func NewGateway(cfg *config.Config, logger *zap.Logger, orders OrderService, customers CustomerStore, cache CustomerCache, menu MenuStore) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	return &Gateway{
		config:    cfg,
		logger:    logger,
		router:    router,
		orders:    orders,
		customers: customers,
		cache:     cache,
		menu:      menu,
	}
}

func (g *Gateway) SetupRoutes() {
	// Health check
	g.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	orders := g.router.Group("/order")
	{
		orders.POST("/checkout", g.checkoutOrder)
		orders.POST("/create", g.createOrder)
		orders.POST("/update", g.updateOrder)
	}

	customers := g.router.Group("/customer")
	{
		customers.POST("/register", g.registerCustomer)
		customers.POST("/identify", g.identifyCustomer)
	}

	items := g.router.Group("/items")
	{
		items.POST("/register", g.registerItem)
		items.PUT("/update", g.updateItem)
		items.DELETE("/delete/:id", g.deleteItem)
		items.GET("/list/:category", g.listItems)
	}

	// Swagger
	g.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (g *Gateway) Start() error {
	addr := fmt.Sprintf("%s:%d", g.config.Server.Host, g.config.Server.Port)
	g.logger.Info("Gateway starting", zap.String("address", addr))
	return g.router.Run(addr)
}

// Router exposes the underlying engine, mainly for tests.
func (g *Gateway) Router() http.Handler {
	return g.router
}

// respondError maps the workflow error taxonomy onto HTTP statuses. Storage
// and configuration failures share one opaque 500 detail; the identifiers
// needed for reconciliation are already in the logs.
func (g *Gateway) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
	case errors.Is(err, order.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	case errors.Is(err, order.ErrPaymentGateway):
		c.JSON(http.StatusBadGateway, gin.H{"detail": "Payment service failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Database operation failed"})
	}
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
