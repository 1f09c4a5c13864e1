package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Elie-50/allo-gaz-lebanon/internal/models"
	"github.com/Elie-50/allo-gaz-lebanon/internal/repository"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// OrdersParams selects a window of orders for listing
type OrdersParams struct {
	StartDate string
	EndDate   string
	AddressID uint
	Page      int
	PageSize  int
}

// OrdersPage is one page of the order listing. Address is set when the
// listing was scoped to a single address.
type OrdersPage struct {
	Orders     []*models.Order `json:"orders"`
	Address    *models.Address `json:"address,omitempty"`
	TotalPages int             `json:"totalPages"`
}

// parseDate interprets a YYYY-MM-DD value as a calendar date in the
// business-local timezone.
func (s *service) parseDate(value string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", value, s.loc)
	if err != nil {
		return time.Time{}, NewValidationError("date", "invalid date, expected YYYY-MM-DD")
	}
	return day, nil
}

// dayWindow converts a business-local calendar day into the UTC half-open
// interval [start, start+24h).
func (s *service) dayWindow(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc).UTC()
	return start, start.Add(24 * time.Hour)
}

// rangeWindow converts an inclusive business-local date range into a UTC
// half-open interval. An empty end date means the single start day.
func (s *service) rangeWindow(startDate, endDate string) (time.Time, time.Time, error) {
	startDay, err := s.parseDate(startDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDay := startDay
	if endDate != "" {
		endDay, err = s.parseDate(endDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	start, _ := s.dayWindow(startDay)
	_, end := s.dayWindow(endDay)
	return start, end, nil
}

// checkOrderRefs validates the records an order points at
func (s *service) checkOrderRefs(ctx context.Context, repo repository.Repository, req *models.OrderRequest) error {
	if _, err := repo.FindCustomerByID(ctx, req.CustomerID); err != nil {
		return NewValidationError("customer", "customer does not exist")
	}
	if _, err := repo.FindAddressByID(ctx, req.AddressID); err != nil {
		return NewValidationError("address", "address does not exist")
	}
	driver, err := repo.FindUserByID(ctx, req.DriverID)
	if err != nil || !driver.IsDriver {
		return NewValidationError("driver", "driver does not exist")
	}
	return nil
}

// CreateOrder reserves stock and records the order in one transaction. The
// item row is locked for the stock check so concurrent orders cannot
// oversell.
func (s *service) CreateOrder(ctx context.Context, req *models.OrderRequest, actor *models.User) (*models.Order, error) {
	var order *models.Order

	err := s.repo.WithTransaction(ctx, func(ctx context.Context, tx repository.Repository) error {
		if err := s.checkOrderRefs(ctx, tx, req); err != nil {
			return err
		}

		item, err := tx.FindItemForUpdate(ctx, req.ItemID)
		if err != nil {
			return NewValidationError("item", "item does not exist")
		}
		if req.Quantity > item.StockQuantity {
			return NewValidationError("quantity",
				fmt.Sprintf("only %d units available in stock", item.StockQuantity))
		}

		item.StockQuantity -= req.Quantity
		if err := tx.UpdateItem(ctx, item); err != nil {
			return errors.Wrap(err, "failed to adjust stock")
		}

		money := req.Money
		if money == "" {
			money = models.CurrencyUSD
		}
		order = &models.Order{
			CustomerID:    req.CustomerID,
			UserID:        actor.ID,
			DriverID:      req.DriverID,
			ItemID:        req.ItemID,
			AddressID:     req.AddressID,
			Quantity:      req.Quantity,
			Discount:      req.Discount,
			Status:        models.OrderStatusPending,
			Money:         money,
			CustomerNotes: req.CustomerNotes,
			DriverNotes:   req.DriverNotes,
			LiraRate:      req.LiraRate,
			OrderedAt:     time.Now().UTC(),
			IsActive:      true,
		}
		return tx.CreateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"item_id":  order.ItemID,
		"quantity": order.Quantity,
	}).Info("Order created")
	return s.GetOrder(ctx, order.ID)
}

// UpdateOrder rewrites an order and reconciles stock. Staying on the same
// item charges only the quantity difference; switching items returns the
// old reservation in full and charges the new item for the full quantity.
func (s *service) UpdateOrder(ctx context.Context, id uint, req *models.OrderRequest) (*models.Order, error) {
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, tx repository.Repository) error {
		order, err := tx.FindOrderByID(ctx, id)
		if err != nil {
			return notFound(err)
		}
		if err := s.checkOrderRefs(ctx, tx, req); err != nil {
			return err
		}

		if req.ItemID == order.ItemID {
			item, err := tx.FindItemForUpdate(ctx, order.ItemID)
			if err != nil {
				return notFound(err)
			}
			delta := req.Quantity - order.Quantity
			if delta > item.StockQuantity {
				return NewValidationError("quantity",
					fmt.Sprintf("only %d units available in stock", item.StockQuantity))
			}
			item.StockQuantity -= delta
			if err := tx.UpdateItem(ctx, item); err != nil {
				return errors.Wrap(err, "failed to adjust stock")
			}
		} else {
			oldItem, err := tx.FindItemForUpdate(ctx, order.ItemID)
			if err != nil {
				return notFound(err)
			}
			newItem, err := tx.FindItemForUpdate(ctx, req.ItemID)
			if err != nil {
				return NewValidationError("item", "item does not exist")
			}
			if req.Quantity > newItem.StockQuantity {
				return NewValidationError("quantity",
					fmt.Sprintf("only %d units available in stock", newItem.StockQuantity))
			}
			oldItem.StockQuantity += order.Quantity
			newItem.StockQuantity -= req.Quantity
			if err := tx.UpdateItem(ctx, oldItem); err != nil {
				return errors.Wrap(err, "failed to restore stock")
			}
			if err := tx.UpdateItem(ctx, newItem); err != nil {
				return errors.Wrap(err, "failed to adjust stock")
			}
		}

		order.CustomerID = req.CustomerID
		order.DriverID = req.DriverID
		order.ItemID = req.ItemID
		order.AddressID = req.AddressID
		order.Quantity = req.Quantity
		order.Discount = req.Discount
		order.CustomerNotes = req.CustomerNotes
		order.DriverNotes = req.DriverNotes
		order.LiraRate = req.LiraRate
		if req.Money != "" {
			order.Money = req.Money
		}
		order.Item = nil
		return tx.UpdateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, id)
}

func (s *service) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.repo.FindOrderByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return order, nil
}

// DeleteOrder soft-deletes an undelivered order and returns its stock.
// Delivered or already deleted orders read as not found, so the stock can
// never be restored twice.
func (s *service) DeleteOrder(ctx context.Context, id uint) error {
	return s.repo.WithTransaction(ctx, func(ctx context.Context, tx repository.Repository) error {
		order, err := tx.FindDeletableOrder(ctx, id)
		if err != nil {
			return notFound(err)
		}

		item, err := tx.FindItemForUpdate(ctx, order.ItemID)
		if err != nil {
			return notFound(err)
		}
		item.StockQuantity += order.Quantity
		if err := tx.UpdateItem(ctx, item); err != nil {
			return errors.Wrap(err, "failed to restore stock")
		}

		deactivate(order)
		return tx.UpdateOrder(ctx, order)
	})
}

// MarkDelivered transitions the pending orders of an address, placed on the
// given business-local day, to delivered. An empty date means today.
func (s *service) MarkDelivered(ctx context.Context, req *models.MarkDeliveredRequest) (int64, error) {
	if _, err := s.repo.FindAddressByID(ctx, req.AddressID); err != nil {
		return 0, notFound(err)
	}

	day := time.Now().In(s.loc)
	if req.Date != "" {
		parsed, err := s.parseDate(req.Date)
		if err != nil {
			return 0, err
		}
		day = parsed
	}
	start, end := s.dayWindow(day)

	updated, err := s.repo.MarkOrdersDelivered(ctx, req.AddressID, start, end, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if updated == 0 {
		return 0, ErrNotFound
	}

	s.log.WithFields(logrus.Fields{
		"address_id": req.AddressID,
		"orders":     updated,
	}).Info("Orders marked delivered")
	return updated, nil
}

// PaginatedOrders lists delivered orders in a date window, or all active
// orders of one address when an address id is given.
func (s *service) PaginatedOrders(ctx context.Context, params OrdersParams) (*OrdersPage, error) {
	start, end, err := s.rangeWindow(params.StartDate, params.EndDate)
	if err != nil {
		return nil, err
	}

	page := &OrdersPage{}
	if params.AddressID > 0 {
		address, err := s.repo.FindAddressByID(ctx, params.AddressID)
		if err != nil {
			return nil, notFound(err)
		}
		page.Address = address
	}

	orders, total, err := s.repo.PaginatedOrders(ctx, repository.OrderWindowQuery{
		Start:     start,
		End:       end,
		AddressID: params.AddressID,
		Page:      params.Page,
		PageSize:  params.PageSize,
	})
	if err != nil {
		return nil, err
	}

	page.Orders = orders
	page.TotalPages = repository.TotalPages(total, params.PageSize)
	return page, nil
}
