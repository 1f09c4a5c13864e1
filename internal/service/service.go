package service

import (
	"context"
	"io"
	"time"

	"github.com/Elie-50/allo-gaz-lebanon/config"
	"github.com/Elie-50/allo-gaz-lebanon/internal/cache"
	"github.com/Elie-50/allo-gaz-lebanon/internal/models"
	"github.com/Elie-50/allo-gaz-lebanon/internal/pdf"
	"github.com/Elie-50/allo-gaz-lebanon/internal/repository"
	"github.com/Elie-50/allo-gaz-lebanon/internal/storage"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Service exposes the business operations to the API layer
type Service interface {
	// Authentication
	Login(ctx context.Context, identifier, password string) (*models.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	VerifyAccessToken(ctx context.Context, token string) (*models.User, error)

	// Users
	CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, id uint, req *models.UpdateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	DeleteUser(ctx context.Context, id uint) error
	ListDrivers(ctx context.Context) ([]*models.User, error)
	SearchEmployees(ctx context.Context, params repository.EmployeeSearchParams) ([]*models.User, int, error)

	// Customers
	CreateCustomer(ctx context.Context, req *models.CustomerRequest) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id uint, req *models.CustomerRequest) (*models.Customer, error)
	GetCustomer(ctx context.Context, id uint) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id uint) error
	SearchCustomers(ctx context.Context, params repository.CustomerSearchParams) ([]*models.Customer, int, error)

	// Addresses
	CreateAddress(ctx context.Context, req *models.AddressRequest) (*models.Address, error)
	UpdateAddress(ctx context.Context, id uint, req *models.AddressRequest) (*models.Address, error)
	GetAddress(ctx context.Context, id uint) (*models.Address, error)
	DeleteAddress(ctx context.Context, id uint) error
	SaveAddressImage(ctx context.Context, id uint, filename string, r io.Reader) (*models.Address, error)

	// Phone numbers
	CreatePhoneNumber(ctx context.Context, req *models.PhoneNumberRequest) (*models.PhoneNumber, error)
	UpdatePhoneNumber(ctx context.Context, id uint, req *models.PhoneNumberRequest) (*models.PhoneNumber, error)
	DeletePhoneNumber(ctx context.Context, id uint) error

	// Items
	CreateItem(ctx context.Context, req *models.ItemRequest) (*models.Item, error)
	UpdateItem(ctx context.Context, id uint, req *models.ItemRequest, actor *models.User) (*models.Item, error)
	GetItem(ctx context.Context, id uint) (*models.Item, error)
	DeleteItem(ctx context.Context, id uint) error
	ListItems(ctx context.Context, page, pageSize int, lowStockOnly bool) ([]*models.Item, int, error)
	SaveItemImage(ctx context.Context, id uint, filename string, r io.Reader) (*models.Item, error)

	// Sources
	CreateSource(ctx context.Context, req *models.SourceRequest) (*models.Source, error)
	UpdateSource(ctx context.Context, id uint, req *models.SourceRequest) (*models.Source, error)
	GetSource(ctx context.Context, id uint) (*models.Source, error)
	DeleteSource(ctx context.Context, id uint) error

	// Orders
	CreateOrder(ctx context.Context, req *models.OrderRequest, actor *models.User) (*models.Order, error)
	UpdateOrder(ctx context.Context, id uint, req *models.OrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	DeleteOrder(ctx context.Context, id uint) error
	MarkDelivered(ctx context.Context, req *models.MarkDeliveredRequest) (int64, error)
	PaginatedOrders(ctx context.Context, params OrdersParams) (*OrdersPage, error)

	// Exchange rate
	GetExchangeRate(ctx context.Context) (float64, error)
	SetExchangeRate(ctx context.Context, rate float64) (float64, error)

	// Reports
	TotalProfit(ctx context.Context, startDate, endDate string, addressID uint) (float64, error)
	SalesSummary(ctx context.Context, year int, tva *bool) ([]models.SalesSummaryRow, error)
	SalesSummaryPDF(ctx context.Context, year int, tva *bool) ([]byte, error)

	// Receipts
	GenerateReceipt(ctx context.Context, addressID, driverID uint, date string, agent *models.User) (*models.Receipt, error)
	PurgeReceipts(ctx context.Context) (int64, error)

	// Backups
	RunBackup(ctx context.Context) (string, error)
	LatestBackup(ctx context.Context) (string, error)
}

// ServiceConfig contains dependencies for the service
type ServiceConfig struct {
	Repository repository.Repository
	Cache      cache.RedisClient
	Store      *storage.Store
	Renderer   *pdf.Renderer
	Config     *config.Config
	Logger     *logrus.Logger
}

type service struct {
	repo     repository.Repository
	cache    cache.RedisClient
	store    *storage.Store
	renderer *pdf.Renderer
	cfg      *config.Config
	loc      *time.Location
	log      *logrus.Logger
}

// NewService creates a new service instance
func NewService(cfg ServiceConfig) (Service, error) {
	loc, err := time.LoadLocation(cfg.Config.Server.Timezone)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load business timezone")
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.New()
	}

	return &service{
		repo:     cfg.Repository,
		cache:    cfg.Cache,
		store:    cfg.Store,
		renderer: cfg.Renderer,
		cfg:      cfg.Config,
		loc:      loc,
		log:      log,
	}, nil
}

// deactivate applies the soft-delete capability when the entity carries it.
// Returns false for entities that are hard-deleted instead.
func deactivate(entity interface{}) bool {
	if d, ok := entity.(models.Deactivatable); ok {
		d.Deactivate()
		return true
	}
	return false
}

// Customers

func (s *service) CreateCustomer(ctx context.Context, req *models.CustomerRequest) (*models.Customer, error) {
	taken, err := s.repo.CustomerNameExists(ctx, req.FirstName, req.MiddleName, req.LastName, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, NewValidationError("name", "a customer with this full name already exists")
	}

	customer := &models.Customer{
		FirstName:        req.FirstName,
		MiddleName:       req.MiddleName,
		LastName:         req.LastName,
		NickName:         req.NickName,
		Discount:         req.Discount,
		IsActive:         true,
		ResidenceZgharta: req.ResidenceZgharta,
		ResidenceEhden:   req.ResidenceEhden,
		ResidenceTripoli: req.ResidenceTripoli,
		ResidenceKoura:   req.ResidenceKoura,
	}
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}
	if err := s.repo.CreateCustomer(ctx, customer); err != nil {
		return nil, errors.Wrap(err, "failed to create customer")
	}

	s.log.WithField("customer_id", customer.ID).Info("Customer created")
	return customer, nil
}

func (s *service) UpdateCustomer(ctx context.Context, id uint, req *models.CustomerRequest) (*models.Customer, error) {
	customer, err := s.repo.FindCustomerByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	taken, err := s.repo.CustomerNameExists(ctx, req.FirstName, req.MiddleName, req.LastName, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, NewValidationError("name", "a customer with this full name already exists")
	}

	customer.FirstName = req.FirstName
	customer.MiddleName = req.MiddleName
	customer.LastName = req.LastName
	customer.NickName = req.NickName
	customer.Discount = req.Discount
	customer.ResidenceZgharta = req.ResidenceZgharta
	customer.ResidenceEhden = req.ResidenceEhden
	customer.ResidenceTripoli = req.ResidenceTripoli
	customer.ResidenceKoura = req.ResidenceKoura
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateCustomer(ctx, customer); err != nil {
		return nil, errors.Wrap(err, "failed to update customer")
	}
	return customer, nil
}

func (s *service) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.repo.FindCustomerByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return customer, nil
}

func (s *service) DeleteCustomer(ctx context.Context, id uint) error {
	customer, err := s.repo.FindCustomerByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if deactivate(customer) {
		return s.repo.UpdateCustomer(ctx, customer)
	}
	return nil
}

func (s *service) SearchCustomers(ctx context.Context, params repository.CustomerSearchParams) ([]*models.Customer, int, error) {
	customers, total, err := s.repo.SearchCustomers(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return customers, repository.TotalPages(total, params.PageSize), nil
}

// Addresses

func (s *service) CreateAddress(ctx context.Context, req *models.AddressRequest) (*models.Address, error) {
	if _, err := s.repo.FindCustomerByID(ctx, req.CustomerID); err != nil {
		return nil, notFound(err)
	}

	address := &models.Address{
		CustomerID: req.CustomerID,
		Email:      req.Email,
		Landline:   req.Landline,
		Link:       req.Link,
		Region:     req.Region,
		Street:     req.Street,
		Building:   req.Building,
		Floor:      req.Floor,
	}
	if err := s.repo.CreateAddress(ctx, address); err != nil {
		return nil, errors.Wrap(err, "failed to create address")
	}
	return address, nil
}

func (s *service) UpdateAddress(ctx context.Context, id uint, req *models.AddressRequest) (*models.Address, error) {
	address, err := s.repo.FindAddressByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	address.CustomerID = req.CustomerID
	address.Email = req.Email
	address.Landline = req.Landline
	address.Link = req.Link
	address.Region = req.Region
	address.Street = req.Street
	address.Building = req.Building
	address.Floor = req.Floor

	if err := s.repo.UpdateAddress(ctx, address); err != nil {
		return nil, errors.Wrap(err, "failed to update address")
	}
	return address, nil
}

func (s *service) GetAddress(ctx context.Context, id uint) (*models.Address, error) {
	address, err := s.repo.FindAddressByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return address, nil
}

func (s *service) DeleteAddress(ctx context.Context, id uint) error {
	address, err := s.repo.FindAddressByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if deactivate(address) {
		return s.repo.UpdateAddress(ctx, address)
	}
	if s.store != nil && address.Image != "" {
		if err := s.store.Remove(address.Image); err != nil {
			s.log.WithError(err).Warn("Failed to remove address image")
		}
	}
	return s.repo.DeleteAddress(ctx, id)
}

func (s *service) SaveAddressImage(ctx context.Context, id uint, filename string, r io.Reader) (*models.Address, error) {
	address, err := s.repo.FindAddressByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	rel, err := s.store.Save(storage.DirAddresses, filename, r)
	if err != nil {
		return nil, err
	}
	if address.Image != "" && address.Image != rel {
		if err := s.store.Remove(address.Image); err != nil {
			s.log.WithError(err).Warn("Failed to remove previous address image")
		}
	}

	address.Image = rel
	if err := s.repo.UpdateAddress(ctx, address); err != nil {
		return nil, errors.Wrap(err, "failed to update address image")
	}
	return address, nil
}

// Phone numbers

func (s *service) CreatePhoneNumber(ctx context.Context, req *models.PhoneNumberRequest) (*models.PhoneNumber, error) {
	if _, err := s.repo.FindAddressByID(ctx, req.AddressID); err != nil {
		return nil, notFound(err)
	}

	number := &models.PhoneNumber{
		AddressID: req.AddressID,
		Mobile:    req.Mobile,
		Priority:  req.Priority,
	}
	if err := s.repo.CreatePhoneNumber(ctx, number); err != nil {
		return nil, errors.Wrap(err, "failed to create phone number")
	}
	return number, nil
}

func (s *service) UpdatePhoneNumber(ctx context.Context, id uint, req *models.PhoneNumberRequest) (*models.PhoneNumber, error) {
	number, err := s.repo.FindPhoneNumberByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	number.AddressID = req.AddressID
	number.Mobile = req.Mobile
	number.Priority = req.Priority

	if err := s.repo.UpdatePhoneNumber(ctx, number); err != nil {
		return nil, errors.Wrap(err, "failed to update phone number")
	}
	return number, nil
}

func (s *service) DeletePhoneNumber(ctx context.Context, id uint) error {
	number, err := s.repo.FindPhoneNumberByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if deactivate(number) {
		return s.repo.UpdatePhoneNumber(ctx, number)
	}
	return s.repo.DeletePhoneNumber(ctx, id)
}

// Items

func (s *service) CreateItem(ctx context.Context, req *models.ItemRequest) (*models.Item, error) {
	item := &models.Item{
		Name:          req.Name,
		StockQuantity: req.StockQuantity,
		Price:         *req.Price,
		BuyPrice:      *req.BuyPrice,
		Type:          req.Type,
		Limit:         10,
		Note:          req.Note,
		IsActive:      true,
		Tva:           req.Tva,
	}
	if req.Limit != nil {
		item.Limit = *req.Limit
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, errors.Wrap(err, "failed to create item")
	}

	s.log.WithFields(logrus.Fields{
		"item_id": item.ID,
		"name":    item.Name,
	}).Info("Item created")
	return item, nil
}

// UpdateItem applies an item update. Changing either price requires a
// superuser.
func (s *service) UpdateItem(ctx context.Context, id uint, req *models.ItemRequest, actor *models.User) (*models.Item, error) {
	item, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	priceChanged := *req.Price != item.Price || *req.BuyPrice != item.BuyPrice
	if priceChanged && (actor == nil || !actor.IsSuperuser) {
		return nil, ErrPermissionDenied
	}

	item.Name = req.Name
	item.StockQuantity = req.StockQuantity
	item.Price = *req.Price
	item.BuyPrice = *req.BuyPrice
	item.Type = req.Type
	item.Note = req.Note
	item.Tva = req.Tva
	if req.Limit != nil {
		item.Limit = *req.Limit
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, errors.Wrap(err, "failed to update item")
	}
	return item, nil
}

func (s *service) GetItem(ctx context.Context, id uint) (*models.Item, error) {
	item, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return item, nil
}

func (s *service) DeleteItem(ctx context.Context, id uint) error {
	item, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if deactivate(item) {
		return s.repo.UpdateItem(ctx, item)
	}
	return nil
}

func (s *service) ListItems(ctx context.Context, page, pageSize int, lowStockOnly bool) ([]*models.Item, int, error) {
	items, total, err := s.repo.ListItems(ctx, page, pageSize, lowStockOnly)
	if err != nil {
		return nil, 0, err
	}
	return items, repository.TotalPages(total, pageSize), nil
}

func (s *service) SaveItemImage(ctx context.Context, id uint, filename string, r io.Reader) (*models.Item, error) {
	item, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	rel, err := s.store.Save(storage.DirItems, filename, r)
	if err != nil {
		return nil, err
	}
	if item.Image != "" && item.Image != rel {
		if err := s.store.Remove(item.Image); err != nil {
			s.log.WithError(err).Warn("Failed to remove previous item image")
		}
	}

	item.Image = rel
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, errors.Wrap(err, "failed to update item image")
	}
	return item, nil
}

// Sources

func (s *service) CreateSource(ctx context.Context, req *models.SourceRequest) (*models.Source, error) {
	if _, err := s.repo.FindItemByID(ctx, req.ItemID); err != nil {
		return nil, notFound(err)
	}

	source := &models.Source{
		ItemID:   req.ItemID,
		Name:     req.Name,
		Price:    *req.Price,
		IsActive: true,
	}
	if req.IsActive != nil {
		source.IsActive = *req.IsActive
	}
	if err := s.repo.CreateSource(ctx, source); err != nil {
		return nil, errors.Wrap(err, "failed to create source")
	}
	return source, nil
}

func (s *service) UpdateSource(ctx context.Context, id uint, req *models.SourceRequest) (*models.Source, error) {
	source, err := s.repo.FindSourceByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	source.ItemID = req.ItemID
	source.Name = req.Name
	source.Price = *req.Price
	if req.IsActive != nil {
		source.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateSource(ctx, source); err != nil {
		return nil, errors.Wrap(err, "failed to update source")
	}
	return source, nil
}

func (s *service) GetSource(ctx context.Context, id uint) (*models.Source, error) {
	source, err := s.repo.FindSourceByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return source, nil
}

func (s *service) DeleteSource(ctx context.Context, id uint) error {
	source, err := s.repo.FindSourceByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if deactivate(source) {
		return s.repo.UpdateSource(ctx, source)
	}
	return nil
}
