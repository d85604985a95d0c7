package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/foodorders/pkg/config"
	"github.com/example/foodorders/pkg/models"
	"github.com/example/foodorders/pkg/order"
	"github.com/example/foodorders/pkg/payment"
	"github.com/example/foodorders/pkg/repository"
)

type stubOrderService struct {
	checkout func(ctx context.Context, customerID *int64, items []order.LineItem) (*payment.Quote, error)
	create   func(ctx context.Context, cartRef string) (*order.Record, error)
	update   func(ctx context.Context, cartRef, label string) (*order.StatusUpdate, error)
}

func (s *stubOrderService) Checkout(ctx context.Context, customerID *int64, items []order.LineItem) (*payment.Quote, error) {
	return s.checkout(ctx, customerID, items)
}

func (s *stubOrderService) Create(ctx context.Context, cartRef string) (*order.Record, error) {
	return s.create(ctx, cartRef)
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, cartRef, label string) (*order.StatusUpdate, error) {
	return s.update(ctx, cartRef, label)
}

type stubCustomerStore struct {
	customers map[string]*models.Customer
	inserted  []*models.Customer
}

func (s *stubCustomerStore) RegisterCustomer(ctx context.Context, customer *models.Customer) error {
	s.inserted = append(s.inserted, customer)
	return nil
}

func (s *stubCustomerStore) GetCustomerByCPF(ctx context.Context, cpf string) (*models.Customer, error) {
	c, ok := s.customers[cpf]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

type stubCustomerCache struct {
	entries map[string]*models.Customer
	stored  int
}

func (s *stubCustomerCache) CacheCustomer(ctx context.Context, customer *models.Customer) error {
	if s.entries == nil {
		s.entries = make(map[string]*models.Customer)
	}
	s.entries[customer.CPF] = customer
	s.stored++
	return nil
}

func (s *stubCustomerCache) GetCustomerCache(ctx context.Context, cpf string) (*models.Customer, error) {
	c, ok := s.entries[cpf]
	if !ok {
		return nil, fmt.Errorf("cache miss")
	}
	return c, nil
}

type stubMenuStore struct {
	categories map[string]int64
	items      map[int64]*models.MenuItem
	nextID     int64
	deleted    []int64
}

func newStubMenuStore() *stubMenuStore {
	return &stubMenuStore{
		categories: map[string]int64{
			models.CategoryBurger:  1,
			models.CategorySide:    2,
			models.CategoryDrink:   3,
			models.CategoryDessert: 4,
		},
		items: make(map[int64]*models.MenuItem),
	}
}

func (s *stubMenuStore) ResolveCategoryCode(ctx context.Context, label string) (int64, error) {
	code, ok := s.categories[label]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return code, nil
}

func (s *stubMenuStore) InsertItem(ctx context.Context, item *models.MenuItem) error {
	s.nextID++
	item.ID = s.nextID
	s.items[item.ID] = item
	return nil
}

func (s *stubMenuStore) GetItemByID(ctx context.Context, id int64) (*models.MenuItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return item, nil
}

func (s *stubMenuStore) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	if _, ok := s.items[item.ID]; !ok {
		return repository.ErrNotFound
	}
	s.items[item.ID] = item
	return nil
}

func (s *stubMenuStore) DeleteItem(ctx context.Context, id int64) error {
	if _, ok := s.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.items, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubMenuStore) ListItemsByCategory(ctx context.Context, categoryCode int64) ([]models.MenuItem, error) {
	var out []models.MenuItem
	for _, item := range s.items {
		if item.Category == categoryCode {
			out = append(out, *item)
		}
	}
	return out, nil
}

type testEnv struct {
	gateway   *Gateway
	orders    *stubOrderService
	customers *stubCustomerStore
	cache     *stubCustomerCache
	menu      *stubMenuStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		orders:    &stubOrderService{},
		customers: &stubCustomerStore{customers: make(map[string]*models.Customer)},
		cache:     &stubCustomerCache{},
		menu:      newStubMenuStore(),
	}
	env.gateway = NewGateway(&config.Config{}, zap.NewNop(), env.orders, env.customers, env.cache, env.menu)
	env.gateway.SetupRoutes()
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.gateway.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCheckoutOrder(t *testing.T) {
	env := newTestEnv(t)
	env.orders.checkout = func(ctx context.Context, customerID *int64, items []order.LineItem) (*payment.Quote, error) {
		require.NotNil(t, customerID)
		require.EqualValues(t, 7, *customerID)
		require.Len(t, items, 1)
		require.True(t, items[0].Price.Equal(decimal.RequireFromString("10.00")))
		return &payment.Quote{
			ExternalID: "cart-1",
			Status:     "pending",
			Value:      decimal.RequireFromString("20.00"),
			QRCode:     "qr-data",
		}, nil
	}

	w := env.do(t, http.MethodPost, "/order/checkout",
		`{"customer_id": 7, "items": [{"id": 1, "price": "10.00", "amount": 2}]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var quote payment.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	require.Equal(t, "cart-1", quote.ExternalID)
	require.Equal(t, "qr-data", quote.QRCode)
	require.True(t, quote.Value.Equal(decimal.RequireFromString("20.00")))
}

func TestCheckoutOrderValidationError(t *testing.T) {
	env := newTestEnv(t)
	env.orders.checkout = func(ctx context.Context, customerID *int64, items []order.LineItem) (*payment.Quote, error) {
		return nil, fmt.Errorf("%w: order must contain at least one item", order.ErrValidation)
	}

	w := env.do(t, http.MethodPost, "/order/checkout", `{"items": []}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCheckoutOrderMoneyAsBareNumbers(t *testing.T) {
	// main switches decimal to bare-number JSON; responses must carry
	// value/price as numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
	defer func() { decimal.MarshalJSONWithoutQuotes = false }()

	env := newTestEnv(t)
	env.orders.checkout = func(ctx context.Context, customerID *int64, items []order.LineItem) (*payment.Quote, error) {
		return &payment.Quote{
			ExternalID: "cart-1",
			Status:     "pending",
			Value:      decimal.RequireFromString("20.5"),
			QRCode:     "qr-data",
		}, nil
	}

	w := env.do(t, http.MethodPost, "/order/checkout", `{"items": [{"id": 1, "price": "10.25", "amount": 2}]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.JSONEq(t, `{"external_id": "cart-1", "status": "pending", "value": 20.5, "qrcode": "qr-data"}`, w.Body.String())
	require.Contains(t, w.Body.String(), `"value":20.5`)
}

func TestCheckoutOrderPaymentFailure(t *testing.T) {
	env := newTestEnv(t)
	env.orders.checkout = func(ctx context.Context, customerID *int64, items []order.LineItem) (*payment.Quote, error) {
		return nil, fmt.Errorf("%w: cart cart-1: connection refused", order.ErrPaymentGateway)
	}

	w := env.do(t, http.MethodPost, "/order/checkout", `{"items": [{"id": 1, "price": "1.00", "amount": 1}]}`)
	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t)
	customerID := int64(7)
	env.orders.create = func(ctx context.Context, cartRef string) (*order.Record, error) {
		require.Equal(t, "cart-1", cartRef)
		return &order.Record{
			ID:         12,
			CartRef:    cartRef,
			CustomerID: &customerID,
			Status:     models.StatusReceived,
			Items:      []models.CartItem{{ItemID: 1, Price: "10.00", Amount: 2}},
			Price:      decimal.RequireFromString("20.00"),
		}, nil
	}

	w := env.do(t, http.MethodPost, "/order/create", `{"external_id": "cart-1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var record order.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	require.EqualValues(t, 12, record.ID)
	require.Equal(t, "cart-1", record.CartRef)
	require.Equal(t, models.StatusReceived, record.Status)
}

func TestCreateOrderCartNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.orders.create = func(ctx context.Context, cartRef string) (*order.Record, error) {
		return nil, fmt.Errorf("%w: cart %s", order.ErrNotFound, cartRef)
	}

	w := env.do(t, http.MethodPost, "/order/create", `{"external_id": "missing"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrderMissingExternalID(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/order/create", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrder(t *testing.T) {
	env := newTestEnv(t)
	env.orders.update = func(ctx context.Context, cartRef, label string) (*order.StatusUpdate, error) {
		require.Equal(t, "cart-1", cartRef)
		require.Equal(t, models.StatusFinished, label)
		return &order.StatusUpdate{ID: 12, Status: label}, nil
	}

	w := env.do(t, http.MethodPost, "/order/update", `{"external_id": "cart-1", "status": "Finished"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"id": 12, "status": "Finished"}`, w.Body.String())
}

func TestUpdateOrderUnknownLabelRejected(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/order/update", `{"external_id": "cart-1", "status": "Burnt"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUpdateOrderNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.orders.update = func(ctx context.Context, cartRef, label string) (*order.StatusUpdate, error) {
		return nil, fmt.Errorf("%w: order for cart %s", order.ErrNotFound, cartRef)
	}

	w := env.do(t, http.MethodPost, "/order/update", `{"external_id": "missing", "status": "Ready"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterCustomer(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/customer/register",
		`{"cpf": "10634272829", "first_name": "Jorge", "last_name": "Sousa", "email": "jorge.sousa@outlook.com"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.JSONEq(t, `{"detail": "Customer 10634272829 registered"}`, w.Body.String())
	require.Len(t, env.customers.inserted, 1)
}

func TestIdentifyCustomerPopulatesCache(t *testing.T) {
	env := newTestEnv(t)
	env.customers.customers["10634272829"] = &models.Customer{
		ID: 1, CPF: "10634272829", FirstName: "Jorge", LastName: "Sousa", Email: "jorge.sousa@outlook.com",
	}

	w := env.do(t, http.MethodPost, "/customer/identify", `{"cpf": "10634272829"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, env.cache.stored)

	// Second lookup is served from the cache.
	w = env.do(t, http.MethodPost, "/customer/identify", `{"cpf": "10634272829"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var customer models.Customer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &customer))
	require.Equal(t, "Jorge", customer.FirstName)
	require.Equal(t, 1, env.cache.stored)
}

func TestIdentifyUnknownCustomer(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/customer/identify", `{"cpf": "00000000000"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"detail": "Customer not registered"}`, w.Body.String())
}

func TestRegisterItem(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/items/register",
		`{"title": "Cheeseburger", "description": "Classic", "category": "Burger", "amount": 10, "price": "9.90"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var view itemView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.EqualValues(t, 1, view.ID)
	require.Equal(t, models.CategoryBurger, view.Category)
	require.True(t, view.Price.Equal(decimal.RequireFromString("9.90")))
}

func TestRegisterItemUnknownCategory(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/items/register",
		`{"title": "Cheeseburger", "description": "Classic", "category": "Sushi", "amount": 10, "price": "9.90"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUpdateItemNotFound(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPut, "/items/update",
		`{"id": 99, "title": "Cheeseburger", "description": "Classic", "category": "Burger", "amount": 10, "price": "9.90"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteItem(t *testing.T) {
	env := newTestEnv(t)
	env.menu.items[3] = &models.MenuItem{ID: 3, Title: "Fries", Category: 2}

	w := env.do(t, http.MethodDelete, "/items/delete/3", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"detail": "Item Fries deleted"}`, w.Body.String())
	require.Equal(t, []int64{3}, env.menu.deleted)
}

func TestDeleteItemNotFound(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodDelete, "/items/delete/99", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestListItemsByCategory(t *testing.T) {
	env := newTestEnv(t)
	env.menu.items[1] = &models.MenuItem{ID: 1, Title: "Cola", Category: 3, Amount: 5, Price: decimal.RequireFromString("4.50")}
	env.menu.items[2] = &models.MenuItem{ID: 2, Title: "Fries", Category: 2, Amount: 5, Price: decimal.RequireFromString("5.00")}

	w := env.do(t, http.MethodGet, "/items/list/Drink", "")
	require.Equal(t, http.StatusOK, w.Code)

	var views []itemView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	require.Equal(t, "Cola", views[0].Title)
	require.Equal(t, models.CategoryDrink, views[0].Category)
}

func TestListItemsUnknownCategory(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/items/list/Sushi", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
