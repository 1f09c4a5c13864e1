package repository

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/Elie-50/allo-gaz-lebanon/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CustomerSearchParams filters the customer listing. String fields are
// case-insensitive substring matches; empty strings match everything.
type CustomerSearchParams struct {
	ID             string
	FirstName      string
	MiddleName     string
	LastName       string
	Mobile         string
	Email          string
	IsActive       bool
	OrderBy        string // name, createdAt, id
	OrderDirection int    // 1 ascending, -1 descending
	Page           int
	PageSize       int
}

// EmployeeSearchParams filters the employee listing. ExcludeID removes the
// requesting user from their own results.
type EmployeeSearchParams struct {
	Username       string
	FirstName      string
	MiddleName     string
	LastName       string
	Mobile         string
	Email          string
	IsActive       bool
	ExcludeID      uint
	OrderBy        string // name, createdAt
	OrderDirection int
	Page           int
	PageSize       int
}

// OrderWindowQuery scopes orders to a UTC time window, optionally to one
// delivery address.
type OrderWindowQuery struct {
	Start     time.Time
	End       time.Time
	AddressID uint
	Page      int
	PageSize  int
}

// TotalPages converts a row count into a page count. An empty result still
// has one (empty) page, matching how the pagination is presented.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := int(math.Ceil(float64(total) / float64(pageSize)))
	if pages < 1 {
		pages = 1
	}
	return pages
}

// pageOffset returns the query offset for a page, or ok=false when the page
// is out of range and the caller should return an empty result.
func pageOffset(total, page, pageSize int) (int, bool) {
	if page < 1 || pageSize < 1 {
		return 0, false
	}
	offset := (page - 1) * pageSize
	if offset >= total && total > 0 {
		return 0, false
	}
	if total == 0 && page > 1 {
		return 0, false
	}
	return offset, true
}

func contains(value string) string {
	return "%" + strings.ToLower(value) + "%"
}

// SearchCustomers filters, orders, and paginates customers. Returns the
// page of customers and the total row count.
func (r *repo) SearchCustomers(ctx context.Context, params CustomerSearchParams) ([]*models.Customer, int, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return nil, 0, err
	}

	query := gormDB.Model(&models.Customer{}).
		Where("LOWER(first_name) LIKE ?", contains(params.FirstName)).
		Where("LOWER(middle_name) LIKE ?", contains(params.MiddleName)).
		Where("LOWER(last_name) LIKE ?", contains(params.LastName)).
		Where("is_active = ?", params.IsActive)

	if params.ID != "" {
		query = query.Where("CAST(customers.id AS TEXT) LIKE ?", "%"+params.ID+"%")
	}

	if params.Mobile != "" {
		pattern := contains(params.Mobile)
		query = query.Where(
			`EXISTS (
				SELECT 1 FROM addresses a
				JOIN phone_numbers p ON p.address_id = a.id
				WHERE a.customer_id = customers.id AND LOWER(p.mobile) LIKE ?
			) OR EXISTS (
				SELECT 1 FROM addresses a
				WHERE a.customer_id = customers.id AND LOWER(a.landline) LIKE ?
			)`, pattern, pattern)
	}

	if params.Email != "" {
		query = query.Where(
			`EXISTS (
				SELECT 1 FROM addresses a
				WHERE a.customer_id = customers.id AND LOWER(a.email) LIKE ?
			)`, contains(params.Email))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count customers")
	}

	offset, ok := pageOffset(int(total), params.Page, params.PageSize)
	if !ok {
		return []*models.Customer{}, int(total), nil
	}

	query = applyOrdering(query, customerOrderColumns(params.OrderBy), params.OrderDirection)

	var customers []*models.Customer
	err = query.
		Preload("Addresses.MobileNumbers").
		Offset(offset).
		Limit(params.PageSize).
		Find(&customers).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to search customers")
	}
	return customers, int(total), nil
}

// SearchEmployees filters, orders, and paginates users
func (r *repo) SearchEmployees(ctx context.Context, params EmployeeSearchParams) ([]*models.User, int, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return nil, 0, err
	}

	query := gormDB.Model(&models.User{}).
		Where("LOWER(first_name) LIKE ?", contains(params.FirstName)).
		Where("LOWER(middle_name) LIKE ?", contains(params.MiddleName)).
		Where("LOWER(last_name) LIKE ?", contains(params.LastName)).
		Where("is_active = ?", params.IsActive)

	if params.ExcludeID > 0 {
		query = query.Where("id <> ?", params.ExcludeID)
	}
	if params.Username != "" {
		query = query.Where("LOWER(username) LIKE ?", contains(params.Username))
	}
	if params.Mobile != "" {
		query = query.Where("LOWER(phone_number) LIKE ?", contains(params.Mobile))
	}
	if params.Email != "" {
		query = query.Where("LOWER(email) LIKE ?", contains(params.Email))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count employees")
	}

	offset, ok := pageOffset(int(total), params.Page, params.PageSize)
	if !ok {
		return []*models.User{}, int(total), nil
	}

	query = applyOrdering(query, employeeOrderColumns(params.OrderBy), params.OrderDirection)

	var users []*models.User
	if err := query.Offset(offset).Limit(params.PageSize).Find(&users).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to search employees")
	}
	return users, int(total), nil
}

// ListItems paginates the item catalogue. With lowStockOnly set it keeps
// only items at or below their low-stock threshold.
func (r *repo) ListItems(ctx context.Context, page, pageSize int, lowStockOnly bool) ([]*models.Item, int, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return nil, 0, err
	}

	query := gormDB.Model(&models.Item{})
	if lowStockOnly {
		query = query.Where(`stock_quantity <= "limit"`)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count items")
	}

	offset, ok := pageOffset(int(total), page, pageSize)
	if !ok {
		return []*models.Item{}, int(total), nil
	}

	var items []*models.Item
	err = query.Preload("Sources").Order("id").Offset(offset).Limit(pageSize).Find(&items).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list items")
	}
	return items, int(total), nil
}

// PaginatedOrders lists active orders within the window. Without an address
// scope the listing is restricted to delivered orders.
func (r *repo) PaginatedOrders(ctx context.Context, q OrderWindowQuery) ([]*models.Order, int, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return nil, 0, err
	}

	query := gormDB.Model(&models.Order{}).
		Where("is_active = ?", true).
		Where("ordered_at >= ? AND ordered_at < ?", q.Start, q.End)

	if q.AddressID > 0 {
		query = query.Where("address_id = ?", q.AddressID)
	} else {
		query = query.Where("delivered_at IS NOT NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count orders")
	}

	offset, ok := pageOffset(int(total), q.Page, q.PageSize)
	if !ok {
		return []*models.Order{}, int(total), nil
	}

	var orders []*models.Order
	err = query.Preload("Item").Order("ordered_at").Offset(offset).Limit(q.PageSize).Find(&orders).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list orders")
	}
	return orders, int(total), nil
}

// TotalProfit sums the profit of active delivered orders within the window.
// An empty window yields 0.
func (r *repo) TotalProfit(ctx context.Context, q OrderWindowQuery) (float64, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return 0, err
	}

	query := gormDB.Model(&models.Order{}).
		Joins("JOIN items ON items.id = orders.item_id").
		Where("orders.is_active = ?", true).
		Where("orders.delivered_at IS NOT NULL").
		Where("orders.ordered_at >= ? AND orders.ordered_at < ?", q.Start, q.End)

	if q.AddressID > 0 {
		query = query.Where("orders.address_id = ?", q.AddressID)
	}

	var total float64
	err = query.
		Select("COALESCE(SUM((items.price - items.buy_price) * orders.quantity * (1 - orders.discount / 100.0)), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to compute profit")
	}
	return total, nil
}

// SalesSummary aggregates quantity and revenue per item name for orders
// within the year window, sorted by item name.
func (r *repo) SalesSummary(ctx context.Context, yearStart, yearEnd time.Time, tva *bool) ([]models.SalesSummaryRow, error) {
	gormDB, err := r.gorm(ctx)
	if err != nil {
		return nil, err
	}

	query := gormDB.Model(&models.Order{}).
		Joins("JOIN items ON items.id = orders.item_id").
		Where("orders.ordered_at >= ? AND orders.ordered_at < ?", yearStart, yearEnd)

	if tva != nil {
		query = query.Where("items.tva = ?", *tva)
	}

	var rows []models.SalesSummaryRow
	err = query.
		Select("items.name AS item_name, SUM(orders.quantity) AS total_quantity, SUM(orders.quantity * items.price) AS total_sales").
		Group("items.name").
		Order("items.name").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute sales summary")
	}
	return rows, nil
}

func customerOrderColumns(orderBy string) []string {
	switch orderBy {
	case "name":
		return []string{"first_name", "last_name", "middle_name"}
	case "createdAt":
		return []string{"created_at"}
	case "id":
		return []string{"id"}
	default:
		return nil
	}
}

func employeeOrderColumns(orderBy string) []string {
	switch orderBy {
	case "name":
		return []string{"first_name", "last_name", "middle_name"}
	case "createdAt":
		return []string{"date_joined"}
	default:
		return nil
	}
}

func applyOrdering(query *gorm.DB, columns []string, direction int) *gorm.DB {
	suffix := ""
	if direction == -1 {
		suffix = " DESC"
	}
	for _, column := range columns {
		query = query.Order(column + suffix)
	}
	return query
}
