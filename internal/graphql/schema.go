package graphql

import (
	"context"

	"github.com/Elie-50/allo-gaz-lebanon/internal/models"
	"github.com/Elie-50/allo-gaz-lebanon/internal/repository"
	"github.com/Elie-50/allo-gaz-lebanon/internal/service"

	gql "github.com/graphql-go/graphql"
	"github.com/pkg/errors"
)

type ctxKey string

const userCtxKey ctxKey = "user"

// WithUser stores the authenticated user for the resolvers
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// currentUser rejects unauthenticated queries. Every resolver goes through
// it; the read layer carries no anonymous data.
func currentUser(p gql.ResolveParams) (*models.User, error) {
	user, ok := p.Context.Value(userCtxKey).(*models.User)
	if !ok || user == nil {
		return nil, errors.New("authentication required")
	}
	return user, nil
}

// schemaBuilder wires the object types to the service
type schemaBuilder struct {
	svc service.Service
}

// NewSchema builds the read-only query schema backed by the service
func NewSchema(svc service.Service) (gql.Schema, error) {
	b := &schemaBuilder{svc: svc}
	return gql.NewSchema(gql.SchemaConfig{Query: b.queryType()})
}

func (b *schemaBuilder) phoneType() *gql.Object {
	return gql.NewObject(gql.ObjectConfig{
		Name: "PhoneNumber",
		Fields: gql.Fields{
			"id":       &gql.Field{Type: gql.Int},
			"mobile":   &gql.Field{Type: gql.String},
			"priority": &gql.Field{Type: gql.Int},
		},
	})
}

func (b *schemaBuilder) addressType(phone *gql.Object) *gql.Object {
	return gql.NewObject(gql.ObjectConfig{
		Name: "Address",
		Fields: gql.Fields{
			"id":            &gql.Field{Type: gql.Int},
			"customerId":    &gql.Field{Type: gql.Int},
			"email":         &gql.Field{Type: gql.String},
			"landline":      &gql.Field{Type: gql.String},
			"link":          &gql.Field{Type: gql.String},
			"region":        &gql.Field{Type: gql.String},
			"street":        &gql.Field{Type: gql.String},
			"building":      &gql.Field{Type: gql.String},
			"floor":         &gql.Field{Type: gql.String},
			"image":         &gql.Field{Type: gql.String},
			"mobileNumbers": &gql.Field{Type: gql.NewList(phone)},
		},
	})
}

func (b *schemaBuilder) customerType(address *gql.Object) *gql.Object {
	return gql.NewObject(gql.ObjectConfig{
		Name: "Customer",
		Fields: gql.Fields{
			"id":               &gql.Field{Type: gql.Int},
			"firstName":        &gql.Field{Type: gql.String},
			"middleName":       &gql.Field{Type: gql.String},
			"lastName":         &gql.Field{Type: gql.String},
			"nickName":         &gql.Field{Type: gql.String},
			"discount":         &gql.Field{Type: gql.Float},
			"isActive":         &gql.Field{Type: gql.Boolean},
			"residenceZgharta": &gql.Field{Type: gql.Boolean},
			"residenceEhden":   &gql.Field{Type: gql.Boolean},
			"residenceTripoli": &gql.Field{Type: gql.Boolean},
			"residenceKoura":   &gql.Field{Type: gql.Boolean},
			"createdAt":        &gql.Field{Type: gql.DateTime},
			"addresses":        &gql.Field{Type: gql.NewList(address)},
		},
	})
}

func (b *schemaBuilder) sourceType() *gql.Object {
	return gql.NewObject(gql.ObjectConfig{
		Name: "Source",
		Fields: gql.Fields{
			"id":       &gql.Field{Type: gql.Int},
			"itemId":   &gql.Field{Type: gql.Int},
			"name":     &gql.Field{Type: gql.String},
			"price":    &gql.Field{Type: gql.Float},
			"isActive": &gql.Field{Type: gql.Boolean},
		},
	})
}

func (b *schemaBuilder) itemType(source *gql.Object) *gql.Object {
	return gql.NewObject(gql.ObjectConfig{
		Name: "Item",
		Fields: gql.Fields{
			"id":            &gql.Field{Type: gql.Int},
			"name":          &gql.Field{Type: gql.String},
			"stockQuantity": &gql.Field{Type: gql.Int},
			"price":         &gql.Field{Type: gql.Float},
			"buyPrice":      &gql.Field{Type: gql.Float},
			"type":          &gql.Field{Type: gql.String},
			"limit":         &gql.Field{Type: gql.Int},
			"image":         &gql.Field{Type: gql.String},
			"note":          &gql.Field{Type: gql.String},
			"isActive":      &gql.Field{Type: gql.Boolean},
			"tva":           &gql.Field{Type: gql.Boolean},
			"sources":       &gql.Field{Type: gql.NewList(source)},
		},
	})
}

func (b *schemaBuilder) orderType(item *gql.Object) *gql.Object {
	return gql.NewObject(gql.ObjectConfig{
		Name: "Order",
		Fields: gql.Fields{
			"id":            &gql.Field{Type: gql.Int},
			"customerId":    &gql.Field{Type: gql.Int},
			"userId":        &gql.Field{Type: gql.Int},
			"driverId":      &gql.Field{Type: gql.Int},
			"itemId":        &gql.Field{Type: gql.Int},
			"addressId":     &gql.Field{Type: gql.Int},
			"quantity":      &gql.Field{Type: gql.Int},
			"discount":      &gql.Field{Type: gql.Float},
			"status":        &gql.Field{Type: gql.String},
			"money":         &gql.Field{Type: gql.String},
			"customerNotes": &gql.Field{Type: gql.String},
			"driverNotes":   &gql.Field{Type: gql.String},
			"liraRate":      &gql.Field{Type: gql.Int},
			"orderedAt":     &gql.Field{Type: gql.DateTime},
			"deliveredAt":   &gql.Field{Type: gql.DateTime},
			"isActive":      &gql.Field{Type: gql.Boolean},
			"item":          &gql.Field{Type: item},
		},
	})
}

func (b *schemaBuilder) userType() *gql.Object {
	return gql.NewObject(gql.ObjectConfig{
		Name: "User",
		Fields: gql.Fields{
			"id":          &gql.Field{Type: gql.Int},
			"username":    &gql.Field{Type: gql.String},
			"firstName":   &gql.Field{Type: gql.String},
			"middleName":  &gql.Field{Type: gql.String},
			"lastName":    &gql.Field{Type: gql.String},
			"email":       &gql.Field{Type: gql.String},
			"phoneNumber": &gql.Field{Type: gql.String},
			"region":      &gql.Field{Type: gql.String},
			"isDriver":    &gql.Field{Type: gql.Boolean},
			"isStaff":     &gql.Field{Type: gql.Boolean},
			"isSuperuser": &gql.Field{Type: gql.Boolean},
			"isActive":    &gql.Field{Type: gql.Boolean},
			"dateJoined":  &gql.Field{Type: gql.DateTime},
		},
	})
}

func (b *schemaBuilder) salesRowType() *gql.Object {
	return gql.NewObject(gql.ObjectConfig{
		Name: "SalesSummaryRow",
		Fields: gql.Fields{
			"itemName":      &gql.Field{Type: gql.String},
			"totalQuantity": &gql.Field{Type: gql.Int},
			"totalSales":    &gql.Field{Type: gql.Float},
		},
	})
}

func pageType(name string, listName string, elem *gql.Object) *gql.Object {
	return gql.NewObject(gql.ObjectConfig{
		Name: name,
		Fields: gql.Fields{
			listName:     &gql.Field{Type: gql.NewList(elem)},
			"totalPages": &gql.Field{Type: gql.Int},
		},
	})
}

func argString(p gql.ResolveParams, name string) string {
	if v, ok := p.Args[name].(string); ok {
		return v
	}
	return ""
}

func argInt(p gql.ResolveParams, name string, fallback int) int {
	if v, ok := p.Args[name].(int); ok {
		return v
	}
	return fallback
}

func argBool(p gql.ResolveParams, name string, fallback bool) bool {
	if v, ok := p.Args[name].(bool); ok {
		return v
	}
	return fallback
}

func argBoolPtr(p gql.ResolveParams, name string) *bool {
	if v, ok := p.Args[name].(bool); ok {
		return &v
	}
	return nil
}

func (b *schemaBuilder) queryType() *gql.Object {
	phone := b.phoneType()
	address := b.addressType(phone)
	customer := b.customerType(address)
	source := b.sourceType()
	item := b.itemType(source)
	order := b.orderType(item)
	user := b.userType()
	salesRow := b.salesRowType()

	customersPage := pageType("CustomersPage", "customers", customer)
	itemsPage := pageType("ItemsPage", "items", item)
	usersPage := pageType("UsersPage", "users", user)

	ordersPage := gql.NewObject(gql.ObjectConfig{
		Name: "OrdersPage",
		Fields: gql.Fields{
			"orders":     &gql.Field{Type: gql.NewList(order)},
			"address":    &gql.Field{Type: address},
			"totalPages": &gql.Field{Type: gql.Int},
		},
	})

	searchArgs := gql.FieldConfigArgument{
		"firstName":      &gql.ArgumentConfig{Type: gql.String},
		"middleName":     &gql.ArgumentConfig{Type: gql.String},
		"lastName":       &gql.ArgumentConfig{Type: gql.String},
		"mobile":         &gql.ArgumentConfig{Type: gql.String},
		"email":          &gql.ArgumentConfig{Type: gql.String},
		"isActive":       &gql.ArgumentConfig{Type: gql.Boolean},
		"orderBy":        &gql.ArgumentConfig{Type: gql.String},
		"orderDirection": &gql.ArgumentConfig{Type: gql.Int},
		"page":           &gql.ArgumentConfig{Type: gql.Int},
		"pageSize":       &gql.ArgumentConfig{Type: gql.Int},
	}

	customerSearchArgs := gql.FieldConfigArgument{"id": &gql.ArgumentConfig{Type: gql.String}}
	for name, arg := range searchArgs {
		customerSearchArgs[name] = arg
	}
	employeeSearchArgs := gql.FieldConfigArgument{"username": &gql.ArgumentConfig{Type: gql.String}}
	for name, arg := range searchArgs {
		employeeSearchArgs[name] = arg
	}

	return gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"customer": &gql.Field{
				Type: customer,
				Args: gql.FieldConfigArgument{
					"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if _, err := currentUser(p); err != nil {
						return nil, err
					}
					return b.svc.GetCustomer(p.Context, uint(p.Args["id"].(int)))
				},
			},
			"customersSearch": &gql.Field{
				Type: customersPage,
				Args: customerSearchArgs,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if _, err := currentUser(p); err != nil {
						return nil, err
					}
					params := repository.CustomerSearchParams{
						ID:             argString(p, "id"),
						FirstName:      argString(p, "firstName"),
						MiddleName:     argString(p, "middleName"),
						LastName:       argString(p, "lastName"),
						Mobile:         argString(p, "mobile"),
						Email:          argString(p, "email"),
						IsActive:       argBool(p, "isActive", true),
						OrderBy:        argString(p, "orderBy"),
						OrderDirection: argInt(p, "orderDirection", 1),
						Page:           argInt(p, "page", 1),
						PageSize:       argInt(p, "pageSize", 10),
					}
					customers, totalPages, err := b.svc.SearchCustomers(p.Context, params)
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"customers":  customers,
						"totalPages": totalPages,
					}, nil
				},
			},
			"address": &gql.Field{
				Type: address,
				Args: gql.FieldConfigArgument{
					"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if _, err := currentUser(p); err != nil {
						return nil, err
					}
					return b.svc.GetAddress(p.Context, uint(p.Args["id"].(int)))
				},
			},
			"item": &gql.Field{
				Type: item,
				Args: gql.FieldConfigArgument{
					"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if _, err := currentUser(p); err != nil {
						return nil, err
					}
					return b.svc.GetItem(p.Context, uint(p.Args["id"].(int)))
				},
			},
			"allItems": &gql.Field{
				Type: itemsPage,
				Args: gql.FieldConfigArgument{
					"page":     &gql.ArgumentConfig{Type: gql.Int},
					"pageSize": &gql.ArgumentConfig{Type: gql.Int},
					"lowStock": &gql.ArgumentConfig{Type: gql.Boolean},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if _, err := currentUser(p); err != nil {
						return nil, err
					}
					items, totalPages, err := b.svc.ListItems(p.Context,
						argInt(p, "page", 1), argInt(p, "pageSize", 10), argBool(p, "lowStock", false))
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"items":      items,
						"totalPages": totalPages,
					}, nil
				},
			},
			"order": &gql.Field{
				Type: order,
				Args: gql.FieldConfigArgument{
					"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if _, err := currentUser(p); err != nil {
						return nil, err
					}
					return b.svc.GetOrder(p.Context, uint(p.Args["id"].(int)))
				},
			},
			"paginatedOrders": &gql.Field{
				Type: ordersPage,
				Args: gql.FieldConfigArgument{
					"startDate": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"endDate":   &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"address":   &gql.ArgumentConfig{Type: gql.Int},
					"page":      &gql.ArgumentConfig{Type: gql.Int},
					"pageSize":  &gql.ArgumentConfig{Type: gql.Int},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if _, err := currentUser(p); err != nil {
						return nil, err
					}
					page, err := b.svc.PaginatedOrders(p.Context, service.OrdersParams{
						StartDate: argString(p, "startDate"),
						EndDate:   argString(p, "endDate"),
						AddressID: uint(argInt(p, "address", 0)),
						Page:      argInt(p, "page", 1),
						PageSize:  argInt(p, "pageSize", 10),
					})
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"orders":     page.Orders,
						"address":    page.Address,
						"totalPages": page.TotalPages,
					}, nil
				},
			},
			"totalProfit": &gql.Field{
				Type: gql.Float,
				Args: gql.FieldConfigArgument{
					"startDate": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"endDate":   &gql.ArgumentConfig{Type: gql.String},
					"address":   &gql.ArgumentConfig{Type: gql.Int},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if _, err := currentUser(p); err != nil {
						return nil, err
					}
					return b.svc.TotalProfit(p.Context,
						argString(p, "startDate"), argString(p, "endDate"), uint(argInt(p, "address", 0)))
				},
			},
			"salesSummary": &gql.Field{
				Type: gql.NewList(salesRow),
				Args: gql.FieldConfigArgument{
					"year": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
					"tva":  &gql.ArgumentConfig{Type: gql.Boolean},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if _, err := currentUser(p); err != nil {
						return nil, err
					}
					return b.svc.SalesSummary(p.Context, p.Args["year"].(int), argBoolPtr(p, "tva"))
				},
			},
			"user": &gql.Field{
				Type: user,
				Args: gql.FieldConfigArgument{
					"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if _, err := currentUser(p); err != nil {
						return nil, err
					}
					return b.svc.GetUser(p.Context, uint(p.Args["id"].(int)))
				},
			},
			"employeesSearch": &gql.Field{
				Type: usersPage,
				Args: employeeSearchArgs,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					actor, err := currentUser(p)
					if err != nil {
						return nil, err
					}
					params := repository.EmployeeSearchParams{
						Username:       argString(p, "username"),
						FirstName:      argString(p, "firstName"),
						MiddleName:     argString(p, "middleName"),
						LastName:       argString(p, "lastName"),
						Mobile:         argString(p, "mobile"),
						Email:          argString(p, "email"),
						IsActive:       argBool(p, "isActive", true),
						ExcludeID:      actor.ID,
						OrderBy:        argString(p, "orderBy"),
						OrderDirection: argInt(p, "orderDirection", 1),
						Page:           argInt(p, "page", 1),
						PageSize:       argInt(p, "pageSize", 10),
					}
					users, totalPages, err := b.svc.SearchEmployees(p.Context, params)
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"users":      users,
						"totalPages": totalPages,
					}, nil
				},
			},
			"drivers": &gql.Field{
				Type: gql.NewList(user),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if _, err := currentUser(p); err != nil {
						return nil, err
					}
					return b.svc.ListDrivers(p.Context)
				},
			},
			"exchangeRate": &gql.Field{
				Type: gql.Float,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if _, err := currentUser(p); err != nil {
						return nil, err
					}
					return b.svc.GetExchangeRate(p.Context)
				},
			},
		},
	})
}
