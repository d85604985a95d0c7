package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/foodorders/pkg/config"
	"github.com/example/foodorders/pkg/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLRepository owns the relational side: confirmed orders, the order_status
// lookup table, customers and menu items.
type SQLRepository struct {
	db *gorm.DB
}

func NewSQLRepository(cfg *config.MySQLConfig) (*SQLRepository, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	return &SQLRepository{db: db}, nil
}

// Migrate creates the schema and seeds the lookup tables. The four status
// rows are the bootstrap contract of the order workflow: order creation
// fails hard if "Received" is missing afterwards.
func (r *SQLRepository) Migrate() error {
	if err := r.db.AutoMigrate(
		&models.OrderStatus{},
		&models.Order{},
		&models.Customer{},
		&models.MenuCategory{},
		&models.MenuItem{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	for _, label := range models.StatusLabels() {
		status := models.OrderStatus{Description: label}
		if err := r.db.Where("description = ?", label).FirstOrCreate(&status).Error; err != nil {
			return fmt.Errorf("failed to seed order status %q: %w", label, err)
		}
	}

	for _, label := range models.CategoryLabels() {
		category := models.MenuCategory{Description: label}
		if err := r.db.Where("description = ?", label).FirstOrCreate(&category).Error; err != nil {
			return fmt.Errorf("failed to seed items category %q: %w", label, err)
		}
	}

	return nil
}

// ResolveStatusCode maps a status label to its lookup-table id.
func (r *SQLRepository) ResolveStatusCode(ctx context.Context, label string) (int64, error) {
	var status models.OrderStatus
	if err := r.db.WithContext(ctx).Where("description = ?", label).First(&status).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return status.ID, nil
}

// InsertOrder commits a confirmed order; the store assigns Order.ID.
func (r *SQLRepository) InsertOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

// GetOrderByCartRef looks an order up by its cart reference. The column is
// intentionally not unique; when several orders reference the same cart the
// earliest one wins.
func (r *SQLRepository) GetOrderByCartRef(ctx context.Context, cartRef string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("mongo_id = ?", cartRef).Order("id").First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus overwrites the status code. No transition table: any
// status may follow any other, including backward moves and writing the
// status the order already holds. RowsAffected is useless for detecting a
// missing row here: MySQL reports affected rows, which is also zero for a
// same-value write. Existence is the caller's concern.
func (r *SQLRepository) UpdateOrderStatus(ctx context.Context, orderID, statusCode int64) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Update("status", statusCode).Error
}

// RegisterCustomer inserts a new customer row; the cpf column is unique.
func (r *SQLRepository) RegisterCustomer(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *SQLRepository) GetCustomerByCPF(ctx context.Context, cpf string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("cpf = ?", cpf).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// ResolveCategoryCode maps a menu category label to its lookup-table id.
func (r *SQLRepository) ResolveCategoryCode(ctx context.Context, label string) (int64, error) {
	var category models.MenuCategory
	if err := r.db.WithContext(ctx).Where("description = ?", label).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return category.ID, nil
}

func (r *SQLRepository) InsertItem(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

func (r *SQLRepository) GetItemByID(ctx context.Context, id int64) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem overwrites the mutable item columns. Like UpdateOrderStatus it
// does not inspect RowsAffected: a no-op update reports zero affected rows on
// MySQL and the handler has already checked the item exists.
func (r *SQLRepository) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	updates := map[string]interface{}{
		"title":       item.Title,
		"description": item.Description,
		"category":    item.Category,
		"amount":      item.Amount,
		"price":       item.Price,
	}
	return r.db.WithContext(ctx).Model(&models.MenuItem{}).Where("id = ?", item.ID).Updates(updates).Error
}

func (r *SQLRepository) DeleteItem(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.MenuItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLRepository) ListItemsByCategory(ctx context.Context, categoryCode int64) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.WithContext(ctx).Where("category = ?", categoryCode).Order("id").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
