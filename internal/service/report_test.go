package service

import (
	"context"
	"testing"
	"time"

	"github.com/Elie-50/allo-gaz-lebanon/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalProfitEmptyWindow(t *testing.T) {
	svc, _ := newTestService(t)

	profit, err := svc.TotalProfit(context.Background(), "2020-01-01", "2020-01-02", 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, profit)
}

func TestTotalProfitDeliveredOrdersOnly(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	staff, driver, customer, address := seedOrderRefs(t, db)
	item := seedItem(t, db, "Gas Bottle 10kg", 50, 10, 6)

	_, err := svc.CreateOrder(ctx, &models.OrderRequest{
		CustomerID: customer.ID, ItemID: item.ID, DriverID: driver.ID,
		AddressID: address.ID, Quantity: 4, Discount: 25, LiraRate: 89000,
	}, staff)
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, orderRequest(customer, address, driver, item.ID, 10), staff)
	require.NoError(t, err)

	_, err = svc.MarkDelivered(ctx, &models.MarkDeliveredRequest{AddressID: address.ID})
	require.NoError(t, err)

	// An order still pending after the sweep contributes nothing
	_, err = svc.CreateOrder(ctx, orderRequest(customer, address, driver, item.ID, 7), staff)
	require.NoError(t, err)

	today := time.Now().UTC().Format("2006-01-02")
	profit, err := svc.TotalProfit(ctx, today, today, 0)
	require.NoError(t, err)

	// (10-6) * 4 * 0.75 = 12, plus (10-6) * 10 = 40
	assert.Equal(t, 52.0, profit)

	// Omitting the end date means the single start day
	profit, err = svc.TotalProfit(ctx, today, "", 0)
	require.NoError(t, err)
	assert.Equal(t, 52.0, profit)

	// Scoped to an address with no orders
	other := &models.Address{CustomerID: customer.ID, Link: "shop"}
	require.NoError(t, db.Create(other).Error)
	profit, err = svc.TotalProfit(ctx, today, today, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, profit)
}

func TestTotalProfitInvalidDate(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.TotalProfit(context.Background(), "01/02/2020", "2020-01-02", 0)
	require.Error(t, err)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "date")
}

func TestSalesSummaryAggregatesPerItem(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	staff, driver, customer, address := seedOrderRefs(t, db)
	bottles := seedItem(t, db, "Gas Bottle 10kg", 50, 12.5, 8)
	bottles.Tva = true
	require.NoError(t, db.Save(bottles).Error)
	burners := seedItem(t, db, "Burner", 50, 7.99, 5)

	_, err := svc.CreateOrder(ctx, orderRequest(customer, address, driver, bottles.ID, 3), staff)
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, orderRequest(customer, address, driver, bottles.ID, 2), staff)
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, orderRequest(customer, address, driver, burners.ID, 3), staff)
	require.NoError(t, err)

	year := time.Now().UTC().Year()
	rows, err := svc.SalesSummary(ctx, year, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Sorted by item name
	assert.Equal(t, "Burner", rows[0].ItemName)
	assert.Equal(t, 3, rows[0].TotalQuantity)
	assert.Equal(t, 23.97, rows[0].TotalSales)

	assert.Equal(t, "Gas Bottle 10kg", rows[1].ItemName)
	assert.Equal(t, 5, rows[1].TotalQuantity)
	assert.Equal(t, 62.5, rows[1].TotalSales)

	// VAT filter narrows to flagged items
	tva := true
	rows, err = svc.SalesSummary(ctx, year, &tva)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Gas Bottle 10kg", rows[0].ItemName)

	// A year without sales is empty, and its PDF reads as not found
	rows, err = svc.SalesSummary(ctx, year-1, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = svc.SalesSummaryPDF(ctx, year-1, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSalesSummaryPDFRenders(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	staff, driver, customer, address := seedOrderRefs(t, db)
	item := seedItem(t, db, "Bottle", 10, 12, 8)

	_, err := svc.CreateOrder(ctx, orderRequest(customer, address, driver, item.ID, 2), staff)
	require.NoError(t, err)

	rendered, err := svc.SalesSummaryPDF(ctx, time.Now().UTC().Year(), nil)
	require.NoError(t, err)
	assert.True(t, len(rendered) > 0)
	assert.Equal(t, "%PDF", string(rendered[:4]))
}
