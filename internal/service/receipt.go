package service

import (
	"bytes"
	"context"
	"time"

	"github.com/Elie-50/allo-gaz-lebanon/internal/models"
	"github.com/Elie-50/allo-gaz-lebanon/internal/pdf"
	"github.com/Elie-50/allo-gaz-lebanon/internal/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GenerateReceipt renders a receipt PDF for the active orders placed for an
// address on a business-local day and records it. An empty date means today;
// a day without orders reads as not found.
func (s *service) GenerateReceipt(ctx context.Context, addressID, driverID uint, date string, agent *models.User) (*models.Receipt, error) {
	day := time.Now().In(s.loc)
	if date != "" {
		parsed, err := s.parseDate(date)
		if err != nil {
			return nil, err
		}
		day = parsed
	}
	start, end := s.dayWindow(day)

	address, err := s.repo.FindAddressByID(ctx, addressID)
	if err != nil {
		return nil, notFound(err)
	}
	driver, err := s.repo.FindUserByID(ctx, driverID)
	if err != nil {
		return nil, notFound(err)
	}

	orders, err := s.repo.OrdersForAddressDay(ctx, addressID, start, end)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrNotFound
	}

	data := pdf.ReceiptData{
		Date:       day,
		LiraRate:   orders[0].LiraRate,
		DriverName: driver.FirstName + " " + driver.LastName,
		AgentName:  agent.FirstName + " " + agent.LastName,
	}
	if address.Customer != nil {
		data.CustomerName = address.Customer.FullName()
	}
	for _, order := range orders {
		line := pdf.ReceiptLine{
			Quantity: order.Quantity,
			Discount: order.Discount,
		}
		if order.Item != nil {
			line.ItemName = order.Item.Name
			line.UnitPrice = order.Item.Price
		}
		data.Lines = append(data.Lines, line)
	}

	rendered, err := s.renderer.Receipt(data)
	if err != nil {
		return nil, err
	}

	name := uuid.New().String() + ".pdf"
	rel, err := s.store.Save(storage.DirReceipts, name, bytes.NewReader(rendered))
	if err != nil {
		return nil, err
	}

	receipt := &models.Receipt{File: rel}
	for _, order := range orders {
		receipt.Orders = append(receipt.Orders, *order)
	}
	if err := s.repo.CreateReceipt(ctx, receipt); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"receipt_id": receipt.ID,
		"address_id": addressID,
		"orders":     len(orders),
	}).Info("Receipt generated")
	return receipt, nil
}

// PurgeReceipts removes all stored receipt files and rows. Returns the
// number of deleted rows.
func (s *service) PurgeReceipts(ctx context.Context) (int64, error) {
	if s.store != nil {
		if _, err := s.store.Purge(storage.DirReceipts); err != nil {
			return 0, err
		}
	}
	return s.repo.DeleteAllReceipts(ctx)
}
