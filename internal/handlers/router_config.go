package handlers

import (
	"time"

	"github.com/teranga-editions/platform/internal/metrics"
	"github.com/teranga-editions/platform/internal/policy"
	"github.com/teranga-editions/platform/internal/services"
	"gorm.io/gorm"
)

// RouterConfig holds the configured handlers and the authorization gate.
// The HTTP route table in cmd/server consumes this.
type RouterConfig struct {
	// AuthGate provides authorization checks and middleware
	AuthGate *policy.AuthGate

	// Auth handler
	AuthHandler *AuthHandler

	// Business handlers
	WorkHandler         *WorkHandler
	OrderHandler        *OrderHandler
	StockHandler        *StockHandler
	RoyaltyHandler      *RoyaltyHandler
	CommissionHandler   *CommissionHandler
	DashboardHandler    *DashboardHandler
	NotificationHandler *NotificationHandler
	UserHandler         *UserHandler
	PartnerHandler      *PartnerHandler
	DisciplineHandler   *DisciplineHandler

	// Services, exposed for jobs and tests
	StockService    *services.StockService
	CheckoutService *services.CheckoutService
	OrderService    *services.OrderService
}

// NewRouterConfig wires together the authorization gate, policies, services
// and handlers. m may be nil when metrics are disabled (tests).
func NewRouterConfig(db *gorm.DB, m *metrics.Metrics) *RouterConfig {
	// Authorization gate with a 5-minute profile cache
	authGate := policy.NewAuthGate(db, 5*time.Minute)

	// Ownership policies: these resources are scoped to the owning user
	ownershipPolicy := policy.NewOwnershipPolicy()
	authGate.RegisterPolicy("order", ownershipPolicy)
	authGate.RegisterPolicy("notification", ownershipPolicy)
	authGate.RegisterPolicy("partner", ownershipPolicy)

	// Services
	stockService := services.NewStockService(db)
	checkoutService := services.NewCheckoutService(db)
	orderService := services.NewOrderService(db, stockService)
	royaltyService := services.NewRoyaltyService(db)
	commissionService := services.NewCommissionService(db)
	dashboardService := services.NewDashboardService(db, stockService)
	notificationService := services.NewNotificationService(db)

	return &RouterConfig{
		AuthGate:            authGate,
		AuthHandler:         NewAuthHandler(db),
		WorkHandler:         NewWorkHandler(db),
		OrderHandler:        NewOrderHandler(db, checkoutService, orderService, authGate, m),
		StockHandler:        NewStockHandler(stockService, dashboardService, m),
		RoyaltyHandler:      NewRoyaltyHandler(royaltyService, authGate),
		CommissionHandler:   NewCommissionHandler(commissionService, authGate),
		DashboardHandler:    NewDashboardHandler(dashboardService, commissionService, royaltyService),
		NotificationHandler: NewNotificationHandler(notificationService),
		UserHandler:         NewUserHandler(db, authGate),
		PartnerHandler:      NewPartnerHandler(db),
		DisciplineHandler:   NewDisciplineHandler(db),
		StockService:        stockService,
		CheckoutService:     checkoutService,
		OrderService:        orderService,
	}
}
