package service

import (
	"context"
	"testing"
	"time"

	"github.com/Elie-50/allo-gaz-lebanon/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func orderRequest(customer *models.Customer, address *models.Address, driver *models.User, itemID uint, qty int) *models.OrderRequest {
	return &models.OrderRequest{
		CustomerID: customer.ID,
		ItemID:     itemID,
		DriverID:   driver.ID,
		AddressID:  address.ID,
		Quantity:   qty,
		LiraRate:   89000,
	}
}

func stockOf(t *testing.T, db *gorm.DB, itemID uint) int {
	t.Helper()
	var item models.Item
	require.NoError(t, db.First(&item, itemID).Error)
	return item.StockQuantity
}

func TestCreateOrderReservesStock(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	staff, driver, customer, address := seedOrderRefs(t, db)
	item := seedItem(t, db, "Gas Bottle 10kg", 10, 12, 8)

	order, err := svc.CreateOrder(ctx, orderRequest(customer, address, driver, item.ID, 4), staff)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.CurrencyUSD, order.Money)
	assert.True(t, order.IsActive)
	assert.Nil(t, order.DeliveredAt)
	assert.Equal(t, 6, stockOf(t, db, item.ID))
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	staff, driver, customer, address := seedOrderRefs(t, db)
	item := seedItem(t, db, "Gas Bottle 10kg", 5, 12, 8)

	_, err := svc.CreateOrder(ctx, orderRequest(customer, address, driver, item.ID, 6), staff)
	require.Error(t, err)

	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "only 5 units available in stock", ve.Fields["quantity"])

	// The failed order must not touch the stock
	assert.Equal(t, 5, stockOf(t, db, item.ID))
	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateOrderSameItemChargesDelta(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	staff, driver, customer, address := seedOrderRefs(t, db)
	item := seedItem(t, db, "Gas Bottle 10kg", 10, 12, 8)

	order, err := svc.CreateOrder(ctx, orderRequest(customer, address, driver, item.ID, 4), staff)
	require.NoError(t, err)
	require.Equal(t, 6, stockOf(t, db, item.ID))

	// Raising the quantity charges only the difference
	_, err = svc.UpdateOrder(ctx, order.ID, orderRequest(customer, address, driver, item.ID, 7))
	require.NoError(t, err)
	assert.Equal(t, 3, stockOf(t, db, item.ID))

	// Lowering it returns the difference
	_, err = svc.UpdateOrder(ctx, order.ID, orderRequest(customer, address, driver, item.ID, 2))
	require.NoError(t, err)
	assert.Equal(t, 8, stockOf(t, db, item.ID))

	// The delta check allows a raise up to the remaining stock
	_, err = svc.UpdateOrder(ctx, order.ID, orderRequest(customer, address, driver, item.ID, 10))
	require.NoError(t, err)
	assert.Equal(t, 0, stockOf(t, db, item.ID))

	_, err = svc.UpdateOrder(ctx, order.ID, orderRequest(customer, address, driver, item.ID, 11))
	require.Error(t, err)
	_, ok := AsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, 0, stockOf(t, db, item.ID))
}

func TestUpdateOrderItemChangeRestoresOldStock(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	staff, driver, customer, address := seedOrderRefs(t, db)
	itemA := seedItem(t, db, "Gas Bottle 10kg", 10, 12, 8)
	itemB := seedItem(t, db, "Gas Bottle 25kg", 5, 25, 18)

	order, err := svc.CreateOrder(ctx, orderRequest(customer, address, driver, itemA.ID, 4), staff)
	require.NoError(t, err)
	require.Equal(t, 6, stockOf(t, db, itemA.ID))

	// Switching items gives A its reservation back and charges B in full
	_, err = svc.UpdateOrder(ctx, order.ID, orderRequest(customer, address, driver, itemB.ID, 5))
	require.NoError(t, err)
	assert.Equal(t, 10, stockOf(t, db, itemA.ID))
	assert.Equal(t, 0, stockOf(t, db, itemB.ID))
}

func TestUpdateOrderItemChangeInsufficientTargetStock(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	staff, driver, customer, address := seedOrderRefs(t, db)
	itemA := seedItem(t, db, "Gas Bottle 10kg", 10, 12, 8)
	itemB := seedItem(t, db, "Gas Bottle 25kg", 3, 25, 18)

	order, err := svc.CreateOrder(ctx, orderRequest(customer, address, driver, itemA.ID, 4), staff)
	require.NoError(t, err)

	_, err = svc.UpdateOrder(ctx, order.ID, orderRequest(customer, address, driver, itemB.ID, 4))
	require.Error(t, err)

	// The rejected switch rolls back both stock changes
	assert.Equal(t, 6, stockOf(t, db, itemA.ID))
	assert.Equal(t, 3, stockOf(t, db, itemB.ID))
}

func TestDeleteOrderRestoresStockOnce(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	staff, driver, customer, address := seedOrderRefs(t, db)
	item := seedItem(t, db, "Gas Bottle 10kg", 10, 12, 8)

	order, err := svc.CreateOrder(ctx, orderRequest(customer, address, driver, item.ID, 4), staff)
	require.NoError(t, err)
	require.Equal(t, 6, stockOf(t, db, item.ID))

	require.NoError(t, svc.DeleteOrder(ctx, order.ID))
	assert.Equal(t, 10, stockOf(t, db, item.ID))

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.False(t, stored.IsActive)

	// A second delete reads as not found and must not restore again
	err = svc.DeleteOrder(ctx, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 10, stockOf(t, db, item.ID))
}

func TestDeleteDeliveredOrderFails(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	staff, driver, customer, address := seedOrderRefs(t, db)
	item := seedItem(t, db, "Gas Bottle 10kg", 10, 12, 8)

	order, err := svc.CreateOrder(ctx, orderRequest(customer, address, driver, item.ID, 4), staff)
	require.NoError(t, err)

	updated, err := svc.MarkDelivered(ctx, &models.MarkDeliveredRequest{AddressID: address.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	// Delivered orders keep their stock committed
	err = svc.DeleteOrder(ctx, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 6, stockOf(t, db, item.ID))
}

func TestMarkDeliveredScopesToDay(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	staff, driver, customer, address := seedOrderRefs(t, db)
	item := seedItem(t, db, "Gas Bottle 10kg", 20, 12, 8)

	_, err := svc.CreateOrder(ctx, orderRequest(customer, address, driver, item.ID, 2), staff)
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, orderRequest(customer, address, driver, item.ID, 3), staff)
	require.NoError(t, err)

	// An order from yesterday stays pending
	yesterday := &models.Order{
		CustomerID: customer.ID, UserID: staff.ID, DriverID: driver.ID,
		ItemID: item.ID, AddressID: address.ID, Quantity: 1,
		Status: models.OrderStatusPending, Money: models.CurrencyUSD,
		LiraRate: 89000, OrderedAt: time.Now().UTC().Add(-48 * time.Hour), IsActive: true,
	}
	require.NoError(t, db.Create(yesterday).Error)

	updated, err := svc.MarkDelivered(ctx, &models.MarkDeliveredRequest{AddressID: address.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	var stored models.Order
	require.NoError(t, db.First(&stored, yesterday.ID).Error)
	assert.Equal(t, models.OrderStatusPending, stored.Status)

	// No pending orders left for today
	_, err = svc.MarkDelivered(ctx, &models.MarkDeliveredRequest{AddressID: address.ID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPaginatedOrders(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	staff, driver, customer, address := seedOrderRefs(t, db)
	item := seedItem(t, db, "Gas Bottle 10kg", 50, 12, 8)

	for i := 0; i < 5; i++ {
		_, err := svc.CreateOrder(ctx, orderRequest(customer, address, driver, item.ID, 1), staff)
		require.NoError(t, err)
	}
	_, err := svc.MarkDelivered(ctx, &models.MarkDeliveredRequest{AddressID: address.ID})
	require.NoError(t, err)

	today := time.Now().UTC().Format("2006-01-02")

	page, err := svc.PaginatedOrders(ctx, OrdersParams{
		StartDate: today, EndDate: today, Page: 1, PageSize: 2,
	})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 2)
	assert.Equal(t, 3, page.TotalPages)
	assert.Nil(t, page.Address)

	// Scoping to the address includes it in the page
	page, err = svc.PaginatedOrders(ctx, OrdersParams{
		StartDate: today, EndDate: today, AddressID: address.ID, Page: 3, PageSize: 2,
	})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 1)
	require.NotNil(t, page.Address)
	assert.Equal(t, address.ID, page.Address.ID)

	// Past the last page: empty result, same page count
	page, err = svc.PaginatedOrders(ctx, OrdersParams{
		StartDate: today, EndDate: today, Page: 9, PageSize: 2,
	})
	require.NoError(t, err)
	assert.Empty(t, page.Orders)
	assert.Equal(t, 3, page.TotalPages)
}
