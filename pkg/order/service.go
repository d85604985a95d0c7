package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/foodorders/pkg/events"
	"github.com/example/foodorders/pkg/models"
	"github.com/example/foodorders/pkg/payment"
	"github.com/example/foodorders/pkg/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LineItem is one requested menu entry at checkout.
type LineItem struct {
	ItemID int64           `json:"id"`
	Price  decimal.Decimal `json:"price"`
	Amount int64           `json:"amount"`
}

// Record is the confirmed order as returned to the caller after creation.
type Record struct {
	ID         int64             `json:"id"`
	CartRef    string            `json:"mongo_id"`
	CustomerID *int64            `json:"customer_id"`
	Status     string            `json:"status"`
	Items      []models.CartItem `json:"items"`
	Price      decimal.Decimal   `json:"price"`
}

// StatusUpdate is the result of an order status change.
type StatusUpdate struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

type CartStore interface {
	InsertCart(ctx context.Context, cart *models.Cart) (string, error)
	GetCart(ctx context.Context, cartRef string) (*models.Cart, error)
}

type OrderStore interface {
	ResolveStatusCode(ctx context.Context, label string) (int64, error)
	InsertOrder(ctx context.Context, order *models.Order) error
	GetOrderByCartRef(ctx context.Context, cartRef string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, statusCode int64) error
}

type PaymentGateway interface {
	GenerateQR(ctx context.Context, externalID string, value decimal.Decimal) (*payment.Quote, error)
}

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *events.OrderCreated) error
}

// Service drives the order lifecycle: checkout stages a cart and opens a
// payment, create turns a paid cart into a relational order, update moves the
// order through its status labels. It holds no state between calls; every
// step talks straight to the backing systems and surfaces their failures to
// the caller without retrying. There is no transaction spanning the stores:
// a cart orphaned by a failed payment call, or an order whose announcement
// failed, are left for out-of-band reconciliation.
type Service struct {
	carts     CartStore
	orders    OrderStore
	payments  PaymentGateway
	publisher EventPublisher
	logger    *zap.Logger
}

func NewService(carts CartStore, orders OrderStore, payments PaymentGateway, publisher EventPublisher, logger *zap.Logger) *Service {
	return &Service{
		carts:     carts,
		orders:    orders,
		payments:  payments,
		publisher: publisher,
		logger:    logger,
	}
}

// Checkout totals the requested items, stages them as a cart and asks the
// payment service for a QR quote. Not idempotent: every call stages a fresh
// cart. If the payment call fails the cart stays behind, orphaned.
func (s *Service) Checkout(ctx context.Context, customerID *int64, items []LineItem) (*payment.Quote, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}

	total := decimal.Zero
	for i, item := range items {
		if item.Amount <= 0 {
			return nil, fmt.Errorf("%w: item %d has non-positive amount %d", ErrValidation, i, item.Amount)
		}
		if item.Price.IsNegative() {
			return nil, fmt.Errorf("%w: item %d has negative price", ErrValidation, i)
		}
		total = total.Add(item.Price.Mul(decimal.NewFromInt(item.Amount)))
	}

	cart := &models.Cart{
		CustomerID: customerID,
		Items:      toCartItems(items),
		Total:      total.String(),
	}

	cartRef, err := s.carts.InsertCart(ctx, cart)
	if err != nil {
		s.logger.Error("Failed to stage cart", zap.Error(err))
		return nil, fmt.Errorf("%w: insert cart: %v", ErrStorage, err)
	}

	quote, err := s.payments.GenerateQR(ctx, cartRef, total)
	if err != nil {
		// The staged cart is deliberately left in place.
		s.logger.Error("Payment QR generation failed",
			zap.String("cart_ref", cartRef),
			zap.Error(err))
		return nil, fmt.Errorf("%w: cart %s: %v", ErrPaymentGateway, cartRef, err)
	}

	s.logger.Info("Checkout staged",
		zap.String("cart_ref", cartRef),
		zap.String("total", total.String()))
	return quote, nil
}

// Create turns a staged cart into a confirmed order. The cart's existence is
// the only integrity check tying payment to creation; payment status is not
// re-verified with the gateway. The relational commit strictly precedes the
// event publish, and a failed publish does not fail the creation.
func (s *Service) Create(ctx context.Context, cartRef string) (*Record, error) {
	cart, err := s.carts.GetCart(ctx, cartRef)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: cart %s", ErrNotFound, cartRef)
		}
		s.logger.Error("Failed to read cart", zap.String("cart_ref", cartRef), zap.Error(err))
		return nil, fmt.Errorf("%w: get cart %s: %v", ErrStorage, cartRef, err)
	}

	price, err := decimal.NewFromString(cart.Total)
	if err != nil {
		s.logger.Error("Cart total is not a decimal", zap.String("cart_ref", cartRef), zap.Error(err))
		return nil, fmt.Errorf("%w: cart %s holds malformed total", ErrStorage, cartRef)
	}

	statusCode, err := s.orders.ResolveStatusCode(ctx, models.StatusReceived)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: order_status seed row %q missing", ErrConfiguration, models.StatusReceived)
		}
		return nil, fmt.Errorf("%w: resolve status %q: %v", ErrStorage, models.StatusReceived, err)
	}

	ord := &models.Order{
		MongoID:    cartRef,
		CustomerID: cart.CustomerID,
		Status:     statusCode,
	}
	if err := s.orders.InsertOrder(ctx, ord); err != nil {
		s.logger.Error("Failed to insert order", zap.String("cart_ref", cartRef), zap.Error(err))
		return nil, fmt.Errorf("%w: insert order for cart %s: %v", ErrStorage, cartRef, err)
	}

	event := &events.OrderCreated{
		ID:         ord.ID,
		ExternalID: cartRef,
		Status:     models.StatusReceived,
		Items:      cart.Items,
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		// The order is already durably committed; announcing it again is an
		// out-of-band concern.
		s.logger.Error("Failed to publish order created event",
			zap.Int64("order_id", ord.ID),
			zap.String("cart_ref", cartRef),
			zap.Error(err))
	}

	s.logger.Info("Order created",
		zap.Int64("order_id", ord.ID),
		zap.String("cart_ref", cartRef))

	return &Record{
		ID:         ord.ID,
		CartRef:    cartRef,
		CustomerID: cart.CustomerID,
		Status:     models.StatusReceived,
		Items:      cart.Items,
		Price:      price,
	}, nil
}

// UpdateStatus overwrites the order's status with the given label. Any label
// of the enumeration may follow any other; there is no guarded state machine.
func (s *Service) UpdateStatus(ctx context.Context, cartRef, label string) (*StatusUpdate, error) {
	ord, err := s.orders.GetOrderByCartRef(ctx, cartRef)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: order for cart %s", ErrNotFound, cartRef)
		}
		s.logger.Error("Failed to look up order", zap.String("cart_ref", cartRef), zap.Error(err))
		return nil, fmt.Errorf("%w: get order for cart %s: %v", ErrStorage, cartRef, err)
	}

	statusCode, err := s.orders.ResolveStatusCode(ctx, label)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Unreachable with an enumerated inbound label; defensive.
			return nil, fmt.Errorf("%w: status label %q has no seed row", ErrConfiguration, label)
		}
		return nil, fmt.Errorf("%w: resolve status %q: %v", ErrStorage, label, err)
	}

	if err := s.orders.UpdateOrderStatus(ctx, ord.ID, statusCode); err != nil {
		s.logger.Error("Failed to update order status",
			zap.Int64("order_id", ord.ID),
			zap.String("status", label),
			zap.Error(err))
		return nil, fmt.Errorf("%w: update order %d: %v", ErrStorage, ord.ID, err)
	}

	s.logger.Info("Order status updated",
		zap.Int64("order_id", ord.ID),
		zap.String("status", label))

	return &StatusUpdate{ID: ord.ID, Status: label}, nil
}

func toCartItems(items []LineItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	for i, item := range items {
		out[i] = models.CartItem{
			ItemID: item.ItemID,
			Price:  item.Price.String(),
			Amount: item.Amount,
		}
	}
	return out
}
