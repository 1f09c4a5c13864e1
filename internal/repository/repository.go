package repository

import (
	"context"
	"time"

	"github.com/Elie-50/allo-gaz-lebanon/internal/database"
	"github.com/Elie-50/allo-gaz-lebanon/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides data access methods
type Repository interface {
	// Transaction support
	WithTransaction(ctx context.Context, fn func(ctx context.Context, txRepo Repository) error) error

	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	FindUserByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListDrivers(ctx context.Context) ([]*models.User, error)
	SearchEmployees(ctx context.Context, params EmployeeSearchParams) ([]*models.User, int, error)

	// Customer operations
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	FindCustomerByID(ctx context.Context, id uint) (*models.Customer, error)
	CustomerNameExists(ctx context.Context, first, middle, last string, excludeID uint) (bool, error)
	SearchCustomers(ctx context.Context, params CustomerSearchParams) ([]*models.Customer, int, error)

	// Address operations
	CreateAddress(ctx context.Context, address *models.Address) error
	UpdateAddress(ctx context.Context, address *models.Address) error
	FindAddressByID(ctx context.Context, id uint) (*models.Address, error)
	DeleteAddress(ctx context.Context, id uint) error

	// PhoneNumber operations
	CreatePhoneNumber(ctx context.Context, number *models.PhoneNumber) error
	UpdatePhoneNumber(ctx context.Context, number *models.PhoneNumber) error
	FindPhoneNumberByID(ctx context.Context, id uint) (*models.PhoneNumber, error)
	DeletePhoneNumber(ctx context.Context, id uint) error

	// Item operations
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
	FindItemByID(ctx context.Context, id uint) (*models.Item, error)
	FindItemForUpdate(ctx context.Context, id uint) (*models.Item, error)
	ListItems(ctx context.Context, page, pageSize int, lowStockOnly bool) ([]*models.Item, int, error)

	// Source operations
	CreateSource(ctx context.Context, source *models.Source) error
	UpdateSource(ctx context.Context, source *models.Source) error
	FindSourceByID(ctx context.Context, id uint) (*models.Source, error)

	// Order operations
	CreateOrder(ctx context.Context, order *models.Order) error
	UpdateOrder(ctx context.Context, order *models.Order) error
	FindOrderByID(ctx context.Context, id uint) (*models.Order, error)
	FindDeletableOrder(ctx context.Context, id uint) (*models.Order, error)
	MarkOrdersDelivered(ctx context.Context, addressID uint, start, end, deliveredAt time.Time) (int64, error)
	OrdersForAddressDay(ctx context.Context, addressID uint, start, end time.Time) ([]*models.Order, error)
	PaginatedOrders(ctx context.Context, q OrderWindowQuery) ([]*models.Order, int, error)
	TotalProfit(ctx context.Context, q OrderWindowQuery) (float64, error)
	SalesSummary(ctx context.Context, yearStart, yearEnd time.Time, tva *bool) ([]models.SalesSummaryRow, error)

	// ExchangeRate operations
	GetOrCreateExchangeRate(ctx context.Context) (*models.ExchangeRate, error)
	UpdateExchangeRate(ctx context.Context, rate *models.ExchangeRate) error

	// Receipt operations
	CreateReceipt(ctx context.Context, receipt *models.Receipt) error
	ListReceipts(ctx context.Context) ([]*models.Receipt, error)
	DeleteAllReceipts(ctx context.Context) (int64, error)

	// BackupDate operations
	CreateBackupDate(ctx context.Context) error
	LatestBackupDate(ctx context.Context) (*models.BackupDate, error)
}

// repo is an implementation of the Repository interface
type repo struct {
	db database.DB
}

// dbWrapper adapts a transaction handle to the database.DB interface
type dbWrapper struct {
	db *gorm.DB
}

func (w *dbWrapper) DB() (*gorm.DB, error) {
	return w.db, nil
}

func (w *dbWrapper) Close() error {
	return nil
}

// NewRepository creates a new repository instance
func NewRepository(db database.DB) Repository {
	return &repo{db: db}
}

// WithTransaction executes the given function within a database transaction
func (r *repo) WithTransaction(ctx context.Context, fn func(ctx context.Context, txRepo Repository) error) error {
	gormDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &repo{db: &dbWrapper{db: tx}}
		return fn(ctx, txRepo)
	})
}

func (r *repo) gorm(ctx context.Context) (*gorm.DB, error) {
	gormDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}
	return gormDB.WithContext(ctx), nil
}

// User operations

func (r *repo) CreateUser(ctx context.Context, user *models.User) error {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return err
	}
	return gormDB.Create(user).Error
}

func (r *repo) UpdateUser(ctx context.Context, user *models.User) error {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return err
	}
	return gormDB.Save(user).Error
}

func (r *repo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := gormDB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByIdentifier resolves a login identifier: first as an email, then
// as a phone number, last as a username.
func (r *repo) FindUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return nil, err
	}

	var user models.User
	for _, column := range []string{"email", "phone_number", "username"} {
		err := gormDB.Where(column+" = ?", identifier).First(&user).Error
		if err == nil {
			return &user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *repo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := gormDB.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repo) ListDrivers(ctx context.Context) ([]*models.User, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return nil, err
	}

	var drivers []*models.User
	if err := gormDB.Where("is_driver = ?", true).Find(&drivers).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list drivers")
	}
	return drivers, nil
}

// Customer operations

func (r *repo) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return err
	}
	return gormDB.Create(customer).Error
}

func (r *repo) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return err
	}
	return gormDB.Save(customer).Error
}

func (r *repo) FindCustomerByID(ctx context.Context, id uint) (*models.Customer, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return nil, err
	}

	var customer models.Customer
	if err := gormDB.Preload("Addresses.MobileNumbers").First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repo) CustomerNameExists(ctx context.Context, first, middle, last string, excludeID uint) (bool, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return false, err
	}

	var count int64
	query := gormDB.Model(&models.Customer{}).
		Where("first_name = ? AND middle_name = ? AND last_name = ?", first, middle, last)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check customer name")
	}
	return count > 0, nil
}

// Address operations

func (r *repo) CreateAddress(ctx context.Context, address *models.Address) error {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return err
	}
	return gormDB.Create(address).Error
}

func (r *repo) UpdateAddress(ctx context.Context, address *models.Address) error {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return err
	}
	return gormDB.Save(address).Error
}

func (r *repo) FindAddressByID(ctx context.Context, id uint) (*models.Address, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return nil, err
	}

	var address models.Address
	if err := gormDB.Preload("MobileNumbers").Preload("Customer").First(&address, id).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *repo) DeleteAddress(ctx context.Context, id uint) error {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return err
	}
	return gormDB.Select(clause.Associations).Delete(&models.Address{ID: id}).Error
}

// PhoneNumber operations

func (r *repo) CreatePhoneNumber(ctx context.Context, number *models.PhoneNumber) error {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return err
	}
	return gormDB.Create(number).Error
}

func (r *repo) UpdatePhoneNumber(ctx context.Context, number *models.PhoneNumber) error {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return err
	}
	return gormDB.Save(number).Error
}

func (r *repo) FindPhoneNumberByID(ctx context.Context, id uint) (*models.PhoneNumber, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return nil, err
	}

	var number models.PhoneNumber
	if err := gormDB.First(&number, id).Error; err != nil {
		return nil, err
	}
	return &number, nil
}

func (r *repo) DeletePhoneNumber(ctx context.Context, id uint) error {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return err
	}
	return gormDB.Delete(&models.PhoneNumber{}, id).Error
}

// Item operations

func (r *repo) CreateItem(ctx context.Context, item *models.Item) error {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return err
	}
	return gormDB.Create(item).Error
}

func (r *repo) UpdateItem(ctx context.Context, item *models.Item) error {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return err
	}
	return gormDB.Save(item).Error
}

func (r *repo) FindItemByID(ctx context.Context, id uint) (*models.Item, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return nil, err
	}

	var item models.Item
	if err := gormDB.Preload("Sources").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindItemForUpdate loads an item holding a row lock for the remainder of
// the surrounding transaction. SQLite has no row locks; there the
// single-writer transaction provides the same guarantee.
func (r *repo) FindItemForUpdate(ctx context.Context, id uint) (*models.Item, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return nil, err
	}

	if gormDB.Dialector.Name() == "postgres" {
		gormDB = gormDB.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var item models.Item
	if err := gormDB.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Source operations

func (r *repo) CreateSource(ctx context.Context, source *models.Source) error {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return err
	}
	return gormDB.Create(source).Error
}

func (r *repo) UpdateSource(ctx context.Context, source *models.Source) error {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return err
	}
	return gormDB.Save(source).Error
}

func (r *repo) FindSourceByID(ctx context.Context, id uint) (*models.Source, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return nil, err
	}

	var source models.Source
	if err := gormDB.First(&source, id).Error; err != nil {
		return nil, err
	}
	return &source, nil
}

// Order operations

func (r *repo) CreateOrder(ctx context.Context, order *models.Order) error {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return err
	}
	return gormDB.Create(order).Error
}

func (r *repo) UpdateOrder(ctx context.Context, order *models.Order) error {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return err
	}
	return gormDB.Save(order).Error
}

func (r *repo) FindOrderByID(ctx context.Context, id uint) (*models.Order, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return nil, err
	}

	var order models.Order
	if err := gormDB.Preload("Item").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindDeletableOrder returns the order only when it is still active and not
// delivered; anything else reads as not found to the caller.
func (r *repo) FindDeletableOrder(ctx context.Context, id uint) (*models.Order, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return nil, err
	}

	var order models.Order
	err = gormDB.
		Where("id = ? AND is_active = ? AND delivered_at IS NULL", id, true).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkOrdersDelivered transitions all pending active orders for an address
// within the window to delivered. Returns the number of updated rows.
func (r *repo) MarkOrdersDelivered(ctx context.Context, addressID uint, start, end, deliveredAt time.Time) (int64, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return 0, err
	}

	result := gormDB.Model(&models.Order{}).
		Where("address_id = ? AND status = ? AND is_active = ?", addressID, models.OrderStatusPending, true).
		Where("ordered_at >= ? AND ordered_at < ?", start, end).
		Updates(map[string]interface{}{
			"status":       models.OrderStatusDelivered,
			"delivered_at": deliveredAt,
		})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to mark orders delivered")
	}
	return result.RowsAffected, nil
}

// OrdersForAddressDay lists the active orders placed for an address within
// the window, with the related records a receipt needs.
func (r *repo) OrdersForAddressDay(ctx context.Context, addressID uint, start, end time.Time) ([]*models.Order, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return nil, err
	}

	var orders []*models.Order
	err = gormDB.
		Preload("Item").
		Where("address_id = ? AND is_active = ?", addressID, true).
		Where("ordered_at >= ? AND ordered_at < ?", start, end).
		Order("ordered_at").
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders for address")
	}
	return orders, nil
}

// ExchangeRate operations

// GetOrCreateExchangeRate returns the singleton rate row, creating it with
// the default rate on first access.
func (r *repo) GetOrCreateExchangeRate(ctx context.Context) (*models.ExchangeRate, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return nil, err
	}

	var rate models.ExchangeRate
	err = gormDB.
		Attrs(models.ExchangeRate{Rate: models.DefaultExchangeRate}).
		FirstOrCreate(&rate).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to load exchange rate")
	}
	return &rate, nil
}

func (r *repo) UpdateExchangeRate(ctx context.Context, rate *models.ExchangeRate) error {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return err
	}
	return gormDB.Save(rate).Error
}

// Receipt operations

func (r *repo) CreateReceipt(ctx context.Context, receipt *models.Receipt) error {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return err
	}
	return gormDB.Create(receipt).Error
}

func (r *repo) ListReceipts(ctx context.Context) ([]*models.Receipt, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return nil, err
	}

	var receipts []*models.Receipt
	if err := gormDB.Find(&receipts).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list receipts")
	}
	return receipts, nil
}

func (r *repo) DeleteAllReceipts(ctx context.Context) (int64, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return 0, err
	}

	if err := gormDB.Exec("DELETE FROM receipt_orders").Error; err != nil {
		return 0, errors.Wrap(err, "failed to clear receipt order links")
	}
	result := gormDB.Where("1 = 1").Delete(&models.Receipt{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete receipts")
	}
	return result.RowsAffected, nil
}

// BackupDate operations

func (r *repo) CreateBackupDate(ctx context.Context) error {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return err
	}
	return gormDB.Create(&models.BackupDate{}).Error
}

func (r *repo) LatestBackupDate(ctx context.Context) (*models.BackupDate, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return nil, err
	}

	var backup models.BackupDate
	if err := gormDB.Order("created_at DESC").First(&backup).Error; err != nil {
		return nil, err
	}
	return &backup, nil
}
