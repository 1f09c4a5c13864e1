package models

// LoginRequest carries the login credentials. The username field accepts a
// username, an email address, or a phone number.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned on successful login
type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// CreateUserRequest is the payload for creating a user
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	FirstName   string `json:"firstName"`
	MiddleName  string `json:"middleName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email" binding:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,e164"`
	Region      string `json:"region"`
	IsDriver    bool   `json:"isDriver"`
	IsStaff     bool   `json:"isStaff"`
	IsSuperuser bool   `json:"isSuperuser"`
}

// UpdateUserRequest is the payload for updating a user. The password is
// optional and re-hashed when present.
type UpdateUserRequest struct {
	Username    *string `json:"username"`
	Password    *string `json:"password"`
	FirstName   *string `json:"firstName"`
	MiddleName  *string `json:"middleName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email" binding:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,e164"`
	Region      *string `json:"region"`
	IsDriver    *bool   `json:"isDriver"`
	IsStaff     *bool   `json:"isStaff"`
	IsSuperuser *bool   `json:"isSuperuser"`
	IsActive    *bool   `json:"isActive"`
}

// CustomerRequest is the payload for creating or updating a customer
type CustomerRequest struct {
	FirstName        string  `json:"firstName" binding:"required,max=50"`
	MiddleName       string  `json:"middleName" binding:"required,max=50"`
	LastName         string  `json:"lastName" binding:"required,max=50"`
	NickName         string  `json:"nickName" binding:"max=50"`
	Discount         float64 `json:"discount"`
	IsActive         *bool   `json:"isActive"`
	ResidenceZgharta bool    `json:"residenceZgharta"`
	ResidenceEhden   bool    `json:"residenceEhden"`
	ResidenceTripoli bool    `json:"residenceTripoli"`
	ResidenceKoura   bool    `json:"residenceKoura"`
}

// AddressRequest is the payload for creating or updating an address
type AddressRequest struct {
	CustomerID uint   `json:"customerId" binding:"required"`
	Email      string `json:"email" binding:"omitempty,max=70"`
	Landline   string `json:"landline" binding:"max=40"`
	Link       string `json:"link" binding:"required,max=50"`
	Region     string `json:"region" binding:"max=100"`
	Street     string `json:"street" binding:"max=100"`
	Building   string `json:"building" binding:"max=100"`
	Floor      string `json:"floor" binding:"max=50"`
}

// PhoneNumberRequest is the payload for creating or updating a phone number
type PhoneNumberRequest struct {
	AddressID uint   `json:"addressId" binding:"required"`
	Mobile    string `json:"mobile" binding:"required,e164"`
	Priority  int    `json:"priority"`
}

// ItemRequest is the payload for creating or updating an item
type ItemRequest struct {
	Name          string   `json:"name" binding:"required,max=255"`
	StockQuantity int      `json:"stockQuantity" binding:"min=0"`
	Price         *float64 `json:"price" binding:"required,gt=0"`
	BuyPrice      *float64 `json:"buyPrice" binding:"required,gt=0"`
	Type          string   `json:"type" binding:"max=50"`
	Limit         *int     `json:"limit"`
	Note          string   `json:"note" binding:"max=255"`
	IsActive      *bool    `json:"isActive"`
	Tva           bool     `json:"tva"`
}

// SourceRequest is the payload for creating or updating a source
type SourceRequest struct {
	ItemID   uint     `json:"itemId" binding:"required"`
	Name     string   `json:"name" binding:"required,max=255"`
	Price    *float64 `json:"price" binding:"required,gt=0"`
	IsActive *bool    `json:"isActive"`
}

// OrderRequest is the payload for creating or updating an order
type OrderRequest struct {
	CustomerID    uint    `json:"customer" binding:"required"`
	ItemID        uint    `json:"item" binding:"required"`
	DriverID      uint    `json:"driver" binding:"required"`
	AddressID     uint    `json:"address" binding:"required"`
	Quantity      int     `json:"quantity" binding:"required,gt=0"`
	Discount      float64 `json:"discount"`
	Money         string  `json:"money" binding:"omitempty,oneof=USD LBP"`
	CustomerNotes string  `json:"customerNotes"`
	DriverNotes   string  `json:"driverNotes"`
	LiraRate      int     `json:"liraRate" binding:"required"`
}

// ExchangeRateRequest is the payload for updating the exchange rate
type ExchangeRateRequest struct {
	Rate *float64 `json:"rate" binding:"required,gt=0"`
}

// MarkDeliveredRequest selects the orders to transition to delivered
type MarkDeliveredRequest struct {
	Date      string `json:"date"`
	AddressID uint   `json:"address_id"`
}

// ReceiptRequest selects the orders a receipt is generated for
type ReceiptRequest struct {
	AddressID uint   `json:"address" binding:"required"`
	DriverID  uint   `json:"driver" binding:"required"`
	Date      string `json:"date"`
}

// SalesSummaryRow is one aggregated line of the yearly sales report
type SalesSummaryRow struct {
	ItemName      string  `json:"itemName" gorm:"column:item_name"`
	TotalQuantity int     `json:"totalQuantity" gorm:"column:total_quantity"`
	TotalSales    float64 `json:"totalSales" gorm:"column:total_sales"`
}
