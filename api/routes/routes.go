package routes

import (
	"github.com/Elie-50/allo-gaz-lebanon/api/handlers"
	"github.com/Elie-50/allo-gaz-lebanon/api/middleware"
	"github.com/Elie-50/allo-gaz-lebanon/config"
	"github.com/Elie-50/allo-gaz-lebanon/internal/service"

	"github.com/gin-gonic/gin"
	gql "github.com/graphql-go/graphql"
	"github.com/sirupsen/logrus"
)

// SetupRoutes sets up all the routes for the server
func SetupRoutes(r *gin.Engine, svc service.Service, schema gql.Schema, cfg *config.Config, log *logrus.Logger) {
	// Health check and static media
	r.GET("/health", handlers.HealthCheck)
	r.Static("/media", cfg.Storage.MediaPath)

	auth := middleware.RequireAuth(svc, log, middleware.LevelAuthenticated)
	staff := middleware.RequireAuth(svc, log, middleware.LevelStaff)
	superuser := middleware.RequireAuth(svc, log, middleware.LevelSuperuser)

	api := r.Group("/api")

	// Accounts and tokens
	authHandler := handlers.NewAuthHandler(svc, log)
	userHandler := handlers.NewUserHandler(svc, log)
	user := api.Group("/user")
	{
		user.POST("/login", authHandler.Login)
		user.POST("/token/refresh", authHandler.Refresh)
		user.GET("/me", auth, userHandler.Me)
		user.GET("/drivers", auth, userHandler.ListDrivers)
		user.GET("/search", staff, userHandler.SearchEmployees)
		user.POST("", superuser, userHandler.CreateUser)
		user.GET("/:id", staff, userHandler.GetUser)
		user.PUT("/:id", superuser, userHandler.UpdateUser)
		user.DELETE("/:id", superuser, userHandler.DeleteUser)
	}

	// Customers
	customerHandler := handlers.NewCustomerHandler(svc, log)
	customer := api.Group("/customer", staff)
	{
		customer.POST("", customerHandler.CreateCustomer)
		customer.GET("/search", customerHandler.SearchCustomers)
		customer.GET("/:id", customerHandler.GetCustomer)
		customer.PUT("/:id", customerHandler.UpdateCustomer)
		customer.DELETE("/:id", customerHandler.DeleteCustomer)
	}

	// Addresses
	addressHandler := handlers.NewAddressHandler(svc, log)
	address := api.Group("/address", staff)
	{
		address.POST("", addressHandler.CreateAddress)
		address.GET("/:id", addressHandler.GetAddress)
		address.PUT("/:id", addressHandler.UpdateAddress)
		address.DELETE("/:id", addressHandler.DeleteAddress)
		address.POST("/:id/image", addressHandler.UploadImage)
	}

	// Mobile numbers
	phoneHandler := handlers.NewPhoneHandler(svc, log)
	number := api.Group("/number", staff)
	{
		number.POST("", phoneHandler.CreatePhoneNumber)
		number.PUT("/:id", phoneHandler.UpdatePhoneNumber)
		number.DELETE("/:id", phoneHandler.DeletePhoneNumber)
	}

	// Inventory
	itemHandler := handlers.NewItemHandler(svc, log)
	item := api.Group("/item", staff)
	{
		item.POST("", itemHandler.CreateItem)
		item.GET("", itemHandler.ListItems)
		item.GET("/:id", itemHandler.GetItem)
		item.PUT("/:id", itemHandler.UpdateItem)
		item.DELETE("/:id", itemHandler.DeleteItem)
		item.POST("/:id/image", itemHandler.UploadImage)
	}

	sourceHandler := handlers.NewSourceHandler(svc, log)
	source := api.Group("/source", staff)
	{
		source.POST("", sourceHandler.CreateSource)
		source.GET("/:id", sourceHandler.GetSource)
		source.PUT("/:id", sourceHandler.UpdateSource)
		source.DELETE("/:id", sourceHandler.DeleteSource)
	}

	// Orders
	orderHandler := handlers.NewOrderHandler(svc, log)
	order := api.Group("/order")
	{
		order.POST("", staff, orderHandler.CreateOrder)
		order.GET("", staff, orderHandler.ListOrders)
		order.POST("/mark-delivered", auth, orderHandler.MarkDelivered)
		order.GET("/:id", staff, orderHandler.GetOrder)
		order.PUT("/:id", staff, orderHandler.UpdateOrder)
		order.DELETE("/:id", staff, orderHandler.DeleteOrder)
	}

	// Exchange rate
	api.GET("/exchange-rate", auth, orderHandler.GetExchangeRate)
	api.PUT("/exchange-rate", staff, orderHandler.SetExchangeRate)

	// Receipts
	receiptHandler := handlers.NewReceiptHandler(svc, log, cfg.Server.BaseURL)
	receipt := api.Group("/receipt")
	{
		receipt.POST("", auth, receiptHandler.Generate)
		receipt.DELETE("", superuser, receiptHandler.Purge)
	}

	// Reports
	reportHandler := handlers.NewReportHandler(svc, log)
	api.GET("/profit", staff, reportHandler.TotalProfit)
	api.GET("/sales-summary", staff, reportHandler.SalesSummary)
	api.GET("/sales-summary/pdf", staff, reportHandler.SalesSummaryPDF)

	// Backups
	backupHandler := handlers.NewBackupHandler(svc, log)
	api.POST("/backup", superuser, backupHandler.Run)
	api.GET("/backup", staff, backupHandler.Latest)

	// GraphQL read layer; resolvers enforce auth per field
	gqlHandler := handlers.NewGraphQLHandler(schema, log)
	api.POST("/graphql", middleware.OptionalAuth(svc), gqlHandler.Query)
}
