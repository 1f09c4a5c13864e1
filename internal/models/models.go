package models

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Order status codes. Delivery is a status transition only; stock is
// committed at creation time.
const (
	OrderStatusPending   = "P"
	OrderStatusDelivered = "D"
)

// Supported currencies for an order.
const (
	CurrencyUSD = "USD"
	CurrencyLBP = "LBP"
)

// DefaultExchangeRate seeds the singleton exchange-rate row on first access.
const DefaultExchangeRate = 89000

// Deactivatable is implemented by entities that are soft-deleted by marking
// them inactive. Entities without it are hard-deleted.
type Deactivatable interface {
	Deactivate()
}

// Customer represents a customer of the business
type Customer struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	FirstName         string    `gorm:"size:50;not null;index;uniqueIndex:idx_customer_full_name" json:"firstName"`
	MiddleName        string    `gorm:"size:50;not null;index;uniqueIndex:idx_customer_full_name" json:"middleName"`
	LastName          string    `gorm:"size:50;not null;index;uniqueIndex:idx_customer_full_name" json:"lastName"`
	NickName          string    `gorm:"size:50;not null;default:''" json:"nickName"`
	Discount          float64   `gorm:"not null;default:0" json:"discount"`
	IsActive          bool      `gorm:"not null;index" json:"isActive"`
	ResidenceZgharta  bool      `gorm:"not null;default:false" json:"residenceZgharta"`
	ResidenceEhden    bool      `gorm:"not null;default:false" json:"residenceEhden"`
	ResidenceTripoli  bool      `gorm:"not null;default:false" json:"residenceTripoli"`
	ResidenceKoura    bool      `gorm:"not null;default:false" json:"residenceKoura"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"createdAt"`
	Addresses         []Address `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	Orders            []Order   `gorm:"foreignKey:CustomerID" json:"-"`
}

// Deactivate marks the customer inactive
func (c *Customer) Deactivate() { c.IsActive = false }

// FullName returns the customer's display name
func (c *Customer) FullName() string {
	return fmt.Sprintf("%s %s %s", c.FirstName, c.MiddleName, c.LastName)
}

// Address represents a delivery address owned by a customer
type Address struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	CustomerID    uint          `gorm:"not null;index" json:"customerId"`
	Email         string        `gorm:"size:70;index" json:"email"`
	Landline      string        `gorm:"size:40;not null;default:'';index" json:"landline"`
	Link          string        `gorm:"size:50;not null" json:"link"`
	Region        string        `gorm:"size:100;not null;default:''" json:"region"`
	Street        string        `gorm:"size:100;not null;default:''" json:"street"`
	Building      string        `gorm:"size:100;not null;default:''" json:"building"`
	Floor         string        `gorm:"size:50;not null;default:''" json:"floor"`
	Image         string        `gorm:"size:255;not null;default:''" json:"image"`
	Customer      *Customer     `gorm:"foreignKey:CustomerID" json:"-"`
	MobileNumbers []PhoneNumber `gorm:"foreignKey:AddressID;constraint:OnDelete:CASCADE" json:"mobileNumbers,omitempty"`
	Orders        []Order       `gorm:"foreignKey:AddressID" json:"-"`
}

// PhoneNumber is a mobile number attached to an address. Lower priority
// means the number is tried first.
type PhoneNumber struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AddressID uint  `gorm:"not null;index" json:"addressId"`
	Mobile   string `gorm:"size:40;not null;index" json:"mobile"`
	Priority int    `gorm:"not null" json:"priority"`
}

// Item is a stocked inventory item. StockQuantity must never go negative;
// it is adjusted only through the order lifecycle inside a transaction.
type Item struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	Name          string   `gorm:"size:255;not null;index" json:"name"`
	StockQuantity int      `gorm:"not null;default:0" json:"stockQuantity"`
	Price         float64  `gorm:"not null;index" json:"price"`
	BuyPrice      float64  `gorm:"not null;index" json:"buyPrice"`
	Type          string   `gorm:"size:50;not null;default:'';index" json:"type"`
	Limit         int      `gorm:"not null" json:"limit"`
	Image         string   `gorm:"size:255;not null;default:''" json:"image"`
	Note          string   `gorm:"size:255;not null;default:''" json:"note"`
	IsActive      bool     `gorm:"not null;index" json:"isActive"`
	Tva           bool     `gorm:"not null;default:false;index" json:"tva"`
	Sources       []Source `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"sources,omitempty"`
	Orders        []Order  `gorm:"foreignKey:ItemID" json:"-"`
}

// Deactivate marks the item inactive. Orders referencing the item are kept.
func (i *Item) Deactivate() { i.IsActive = false }

// Source is a supplier offering for an item
type Source struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	ItemID   uint    `gorm:"not null;index" json:"itemId"`
	Name     string  `gorm:"size:255;not null" json:"name"`
	Price    float64 `gorm:"not null" json:"price"`
	IsActive bool    `gorm:"not null;index" json:"isActive"`
}

// Deactivate marks the source inactive
func (s *Source) Deactivate() { s.IsActive = false }

// Order reserves stock at creation time and releases it again when the
// order is soft-deleted before delivery.
type Order struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	CustomerID    uint       `gorm:"not null;index" json:"customerId"`
	UserID        uint       `gorm:"not null;index" json:"userId"`
	DriverID      uint       `gorm:"not null;index" json:"driverId"`
	ItemID        uint       `gorm:"not null;index" json:"itemId"`
	AddressID     uint       `gorm:"not null;index" json:"addressId"`
	Quantity      int        `gorm:"not null" json:"quantity"`
	Discount      float64    `gorm:"not null;default:0" json:"discount"`
	Status        string     `gorm:"size:1;not null;default:'P'" json:"status"`
	Money         string     `gorm:"size:3;not null;default:'USD'" json:"money"`
	CustomerNotes string     `gorm:"not null;default:''" json:"customerNotes"`
	DriverNotes   string     `gorm:"not null;default:''" json:"driverNotes"`
	LiraRate      int        `gorm:"not null" json:"liraRate"`
	OrderedAt     time.Time  `gorm:"not null;index" json:"orderedAt"`
	DeliveredAt   *time.Time `gorm:"index" json:"deliveredAt"`
	IsActive      bool       `gorm:"not null;index" json:"isActive"`
	Customer      *Customer  `gorm:"foreignKey:CustomerID" json:"-"`
	User          *User      `gorm:"foreignKey:UserID" json:"-"`
	Driver        *User      `gorm:"foreignKey:DriverID" json:"-"`
	Item          *Item      `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Address       *Address   `gorm:"foreignKey:AddressID" json:"-"`
}

// Deactivate marks the order inactive. Stock restoration is handled by the
// service layer, not here.
func (o *Order) Deactivate() { o.IsActive = false }

// Delivered reports whether the order has been delivered
func (o *Order) Delivered() bool { return o.DeliveredAt != nil }

// ExchangeRate is a singleton row holding the current USD to LBP rate
type ExchangeRate struct {
	ID   uint    `gorm:"primaryKey" json:"-"`
	Rate float64 `gorm:"not null" json:"rate"`
}

// Receipt is a generated PDF summarizing a set of orders
type Receipt struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	File      string    `gorm:"size:255;not null" json:"file"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	Orders    []Order   `gorm:"many2many:receipt_orders" json:"-"`
}

// BackupDate records a completed database backup. Append-only; the latest
// row is what the status endpoint reports.
type BackupDate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// User is a staff member, driver, or administrator
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Password    string    `gorm:"size:128;not null" json:"-"`
	FirstName   string    `gorm:"size:150;not null;default:''" json:"firstName"`
	MiddleName  string    `gorm:"size:50;not null;default:''" json:"middleName"`
	LastName    string    `gorm:"size:150;not null;default:''" json:"lastName"`
	Email       string    `gorm:"size:254;not null;default:'';index" json:"email"`
	PhoneNumber string    `gorm:"size:20;not null;default:'';index" json:"phoneNumber"`
	Region      string    `gorm:"size:100;not null;default:''" json:"region"`
	IsDriver    bool      `gorm:"not null;default:false;index" json:"isDriver"`
	IsStaff     bool      `gorm:"not null;default:false" json:"isStaff"`
	IsSuperuser bool      `gorm:"not null;default:false" json:"isSuperuser"`
	IsActive    bool      `gorm:"not null" json:"isActive"`
	DateJoined  time.Time `gorm:"autoCreateTime" json:"dateJoined"`
	Orders      []Order   `gorm:"foreignKey:UserID" json:"-"`
}

// Deactivate marks the user inactive, locking them out
func (u *User) Deactivate() { u.IsActive = false }

// SetupModels runs the schema migrations for all entities
func SetupModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Customer{},
		&Address{},
		&PhoneNumber{},
		&Item{},
		&Source{},
		&Order{},
		&ExchangeRate{},
		&Receipt{},
		&BackupDate{},
	)
	if err != nil {
		return errors.Wrap(err, "failed to run auto migrations")
	}
	return nil
}
