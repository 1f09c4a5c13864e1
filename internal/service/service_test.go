package service

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/Elie-50/allo-gaz-lebanon/config"
	"github.com/Elie-50/allo-gaz-lebanon/internal/database"
	"github.com/Elie-50/allo-gaz-lebanon/internal/models"
	"github.com/Elie-50/allo-gaz-lebanon/internal/pdf"
	"github.com/Elie-50/allo-gaz-lebanon/internal/repository"
	"github.com/Elie-50/allo-gaz-lebanon/internal/storage"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBCounter int

// newTestService builds a service over an in-memory database
func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	testDBCounter++
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", testDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.SetupModels(db))

	cfg := &config.Config{
		Server: config.ServerConfig{
			Mode:     "test",
			BaseURL:  "http://localhost:8080",
			Timezone: "UTC",
		},
		JWT: config.JWTConfig{
			Secret:          "test-secret",
			AccessLifetime:  time.Hour,
			RefreshLifetime: 24 * time.Hour,
		},
		Storage: config.StorageConfig{
			MediaPath:  t.TempDir(),
			BackupPath: t.TempDir(),
		},
	}

	store, err := storage.NewStore(cfg.Storage.MediaPath)
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	svc, err := NewService(ServiceConfig{
		Repository: repository.NewRepository(database.Wrap(db)),
		Store:      store,
		Renderer:   pdf.NewRenderer(""),
		Config:     cfg,
		Logger:     log,
	})
	require.NoError(t, err)
	return svc, db
}

// seedOrderRefs creates the staff user, driver, customer, and address an
// order points at.
func seedOrderRefs(t *testing.T, db *gorm.DB) (*models.User, *models.User, *models.Customer, *models.Address) {
	t.Helper()

	staff := &models.User{Username: "agent", Password: "x", IsStaff: true, IsActive: true}
	require.NoError(t, db.Create(staff).Error)

	driver := &models.User{Username: "driver", Password: "x", IsDriver: true, IsActive: true}
	require.NoError(t, db.Create(driver).Error)

	customer := &models.Customer{FirstName: "Elie", MiddleName: "G", LastName: "Khoury", IsActive: true}
	require.NoError(t, db.Create(customer).Error)

	address := &models.Address{CustomerID: customer.ID, Link: "home"}
	require.NoError(t, db.Create(address).Error)

	return staff, driver, customer, address
}

func seedItem(t *testing.T, db *gorm.DB, name string, stock int, price, buyPrice float64) *models.Item {
	t.Helper()

	item := &models.Item{Name: name, StockQuantity: stock, Price: price, BuyPrice: buyPrice, Limit: 10, IsActive: true}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestCreateCustomerDuplicateName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	req := &models.CustomerRequest{FirstName: "Elie", MiddleName: "G", LastName: "Khoury"}
	_, err := svc.CreateCustomer(ctx, req)
	require.NoError(t, err)

	_, err = svc.CreateCustomer(ctx, req)
	require.Error(t, err)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "name")
}

func TestUpdateCustomerKeepsOwnName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCustomer(ctx, &models.CustomerRequest{
		FirstName: "Elie", MiddleName: "G", LastName: "Khoury",
	})
	require.NoError(t, err)

	// Saving the same name on the same customer is not a duplicate
	updated, err := svc.UpdateCustomer(ctx, created.ID, &models.CustomerRequest{
		FirstName: "Elie", MiddleName: "G", LastName: "Khoury", NickName: "Abu Gas",
	})
	require.NoError(t, err)
	assert.Equal(t, "Abu Gas", updated.NickName)
}

func TestCreateCustomerStoresInactiveFlag(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	inactive := false
	created, err := svc.CreateCustomer(ctx, &models.CustomerRequest{
		FirstName: "Elie", MiddleName: "G", LastName: "Khoury", IsActive: &inactive,
	})
	require.NoError(t, err)

	var stored models.Customer
	require.NoError(t, db.First(&stored, created.ID).Error)
	assert.False(t, stored.IsActive)

	// The inactive-only search sees it right away
	found, _, err := svc.SearchCustomers(ctx, repository.CustomerSearchParams{
		LastName: "khoury", IsActive: false, Page: 1, PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)
}

func TestCreateItemAndSourceStoreInactiveFlag(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	inactive := false
	price := 12.0
	buyPrice := 8.0
	item, err := svc.CreateItem(ctx, &models.ItemRequest{
		Name: "Retired Bottle", StockQuantity: 3, Price: &price, BuyPrice: &buyPrice, IsActive: &inactive,
	})
	require.NoError(t, err)

	var storedItem models.Item
	require.NoError(t, db.First(&storedItem, item.ID).Error)
	assert.False(t, storedItem.IsActive)

	sourcePrice := 7.0
	source, err := svc.CreateSource(ctx, &models.SourceRequest{
		ItemID: item.ID, Name: "Old supplier", Price: &sourcePrice, IsActive: &inactive,
	})
	require.NoError(t, err)

	var storedSource models.Source
	require.NoError(t, db.First(&storedSource, source.ID).Error)
	assert.False(t, storedSource.IsActive)
}

func TestDeleteCustomerDeactivates(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCustomer(ctx, &models.CustomerRequest{
		FirstName: "Elie", MiddleName: "G", LastName: "Khoury",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCustomer(ctx, created.ID))

	var stored models.Customer
	require.NoError(t, db.First(&stored, created.ID).Error)
	assert.False(t, stored.IsActive)
}

func TestDeleteAddressIsHardDelete(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	_, _, _, address := seedOrderRefs(t, db)

	number := &models.PhoneNumber{AddressID: address.ID, Mobile: "+96170123456", Priority: 1}
	require.NoError(t, db.Create(number).Error)

	require.NoError(t, svc.DeleteAddress(ctx, address.ID))

	var count int64
	require.NoError(t, db.Model(&models.Address{}).Where("id = ?", address.ID).Count(&count).Error)
	assert.Zero(t, count)

	// Mobile numbers go with the address
	require.NoError(t, db.Model(&models.PhoneNumber{}).Where("address_id = ?", address.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateItemPriceNeedsSuperuser(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	item := seedItem(t, db, "Gas Bottle 10kg", 10, 12, 8)

	staff := &models.User{Username: "staff", Password: "x", IsStaff: true, IsActive: true}
	require.NoError(t, db.Create(staff).Error)
	admin := &models.User{Username: "admin", Password: "x", IsSuperuser: true, IsActive: true}
	require.NoError(t, db.Create(admin).Error)

	price := 15.0
	buyPrice := 8.0
	req := &models.ItemRequest{Name: item.Name, StockQuantity: 10, Price: &price, BuyPrice: &buyPrice}

	_, err := svc.UpdateItem(ctx, item.ID, req, staff)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	updated, err := svc.UpdateItem(ctx, item.ID, req, admin)
	require.NoError(t, err)
	assert.Equal(t, 15.0, updated.Price)

	// Unchanged prices pass for plain staff
	samePrice := 15.0
	sameBuy := 8.0
	_, err = svc.UpdateItem(ctx, item.ID, &models.ItemRequest{
		Name: "Renamed", StockQuantity: 10, Price: &samePrice, BuyPrice: &sameBuy,
	}, staff)
	require.NoError(t, err)
}

func TestExchangeRateDefaultsAndUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rate, err := svc.GetExchangeRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(models.DefaultExchangeRate), rate)

	updated, err := svc.SetExchangeRate(ctx, 90000)
	require.NoError(t, err)
	assert.Equal(t, 90000.0, updated)

	rate, err = svc.GetExchangeRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 90000.0, rate)
}
