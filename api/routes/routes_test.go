package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appgraphql "github.com/Elie-50/allo-gaz-lebanon/internal/graphql"

	"github.com/Elie-50/allo-gaz-lebanon/config"
	"github.com/Elie-50/allo-gaz-lebanon/internal/database"
	"github.com/Elie-50/allo-gaz-lebanon/internal/models"
	"github.com/Elie-50/allo-gaz-lebanon/internal/pdf"
	"github.com/Elie-50/allo-gaz-lebanon/internal/repository"
	"github.com/Elie-50/allo-gaz-lebanon/internal/service"
	"github.com/Elie-50/allo-gaz-lebanon/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBCounter int

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDBCounter++
	dsn := fmt.Sprintf("file:routes_test_%d?mode=memory&cache=shared", testDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.SetupModels(db))

	mediaPath := t.TempDir()
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
			MediaPath:  mediaPath,
			BackupPath: t.TempDir(),
		},
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	store, err := storage.NewStore(mediaPath)
	require.NoError(t, err)

	svc, err := service.NewService(service.ServiceConfig{
		Repository: repository.NewRepository(database.Wrap(db)),
		Store:      store,
		Renderer:   pdf.NewRenderer(""),
		Config:     cfg,
		Logger:     log,
	})
	require.NoError(t, err)

	schema, err := appgraphql.NewSchema(svc)
	require.NoError(t, err)

	r := gin.New()
	SetupRoutes(r, svc, schema, cfg, log)
	return r, db
}

func seedUser(t *testing.T, db *gorm.DB, username string, staff, superuser bool) *models.User {
	t.Helper()

	hash, err := service.HashPassword("secret123")
	require.NoError(t, err)
	user := &models.User{
		Username:    username,
		Password:    hash,
		IsStaff:     staff,
		IsSuperuser: superuser,
		IsActive:    true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, username string) models.TokenResponse {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/user/login", "", gin.H{
		"username": username,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tokens models.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))
	require.NotEmpty(t, tokens.Access)
	require.NotEmpty(t, tokens.Refresh)
	return tokens
}

func TestHealthCheck(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Allo Gaz")
}

func TestLoginAndMe(t *testing.T) {
	r, db := newTestRouter(t)
	seedUser(t, db, "admin", true, true)

	tokens := login(t, r, "admin")

	w := doJSON(t, r, http.MethodGet, "/api/user/me", tokens.Access, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin")

	// Wrong password keeps the usual uniform message
	w = doJSON(t, r, http.MethodPost, "/api/user/login", "", gin.H{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no active account found with the given credentials")
}

func TestTokenRefresh(t *testing.T) {
	r, db := newTestRouter(t)
	seedUser(t, db, "admin", true, true)
	tokens := login(t, r, "admin")

	w := doJSON(t, r, http.MethodPost, "/api/user/token/refresh", "", gin.H{
		"refresh": tokens.Refresh,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var fresh models.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fresh))
	assert.NotEmpty(t, fresh.Access)

	// An access token is not accepted in place of a refresh token
	w = doJSON(t, r, http.MethodPost, "/api/user/token/refresh", "", gin.H{
		"refresh": tokens.Access,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthLevels(t *testing.T) {
	r, db := newTestRouter(t)
	seedUser(t, db, "admin", true, true)
	driver := seedUser(t, db, "driver", false, false)
	driver.IsDriver = true
	require.NoError(t, db.Save(driver).Error)

	// No token at all
	w := doJSON(t, r, http.MethodGet, "/api/customer/search", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage token
	w = doJSON(t, r, http.MethodGet, "/api/customer/search", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Authenticated but not staff
	driverTokens := login(t, r, "driver")
	w = doJSON(t, r, http.MethodGet, "/api/customer/search", driverTokens.Access, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Staff but not superuser
	w = doJSON(t, r, http.MethodPost, "/api/receipt", driverTokens.Access, gin.H{})
	assert.NotEqual(t, http.StatusForbidden, w.Code)
	w = doJSON(t, r, http.MethodDelete, "/api/receipt", driverTokens.Access, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminTokens := login(t, r, "admin")
	w = doJSON(t, r, http.MethodGet, "/api/customer/search", adminTokens.Access, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCustomerLifecycle(t *testing.T) {
	r, db := newTestRouter(t)
	seedUser(t, db, "admin", true, true)
	tokens := login(t, r, "admin")

	payload := gin.H{
		"firstName": "Elie", "middleName": "G", "lastName": "Khoury",
	}
	w := doJSON(t, r, http.MethodPost, "/api/customer", tokens.Access, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Customer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)

	// Same full name again is rejected
	w = doJSON(t, r, http.MethodPost, "/api/customer", tokens.Access, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")

	w = doJSON(t, r, http.MethodGet, "/api/customer/search?lastName=khoury", tokens.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Customers  []models.Customer `json:"customers"`
		TotalPages int               `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Customers, 1)
	assert.Equal(t, 1, page.TotalPages)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/customer/%d", created.ID), tokens.Access, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Deactivated customers stay readable by id
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/customer/%d", created.ID), tokens.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deactivated models.Customer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deactivated))
	assert.False(t, deactivated.IsActive)
}

func TestMarkDeliveredRequiresDateAndAddress(t *testing.T) {
	r, db := newTestRouter(t)
	seedUser(t, db, "admin", true, true)
	tokens := login(t, r, "admin")

	w := doJSON(t, r, http.MethodPost, "/api/order/mark-delivered", tokens.Access, gin.H{
		"date": "2026-09-01",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "address_id")

	w = doJSON(t, r, http.MethodPost, "/api/order/mark-delivered", tokens.Access, gin.H{
		"address_id": 1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "date")
}

func TestExchangeRateEndpoints(t *testing.T) {
	r, db := newTestRouter(t)
	seedUser(t, db, "admin", true, true)
	seedUser(t, db, "plain", false, false)
	adminTokens := login(t, r, "admin")
	plainTokens := login(t, r, "plain")

	// Any authenticated user may read the rate
	w := doJSON(t, r, http.MethodGet, "/api/exchange-rate", plainTokens.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Rate float64 `json:"rate"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(models.DefaultExchangeRate), body.Rate)

	// Only staff may change it
	w = doJSON(t, r, http.MethodPut, "/api/exchange-rate", plainTokens.Access, gin.H{"rate": 95000})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/exchange-rate", adminTokens.Access, gin.H{"rate": 95000})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/exchange-rate", plainTokens.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 95000.0, body.Rate)
}

func TestTotalProfitSingleDayWindow(t *testing.T) {
	r, db := newTestRouter(t)
	seedUser(t, db, "admin", true, true)
	tokens := login(t, r, "admin")

	// startDate alone queries that one day
	w := doJSON(t, r, http.MethodGet, "/api/profit?startDate=2026-09-01", tokens.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		TotalProfit float64 `json:"totalProfit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0.0, body.TotalProfit)

	w = doJSON(t, r, http.MethodGet, "/api/profit", tokens.Access, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGraphQLRequiresAuth(t *testing.T) {
	r, db := newTestRouter(t)
	seedUser(t, db, "admin", true, true)

	query := gin.H{"query": "{ exchangeRate }"}

	w := doJSON(t, r, http.MethodPost, "/api/graphql", "", query)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "authentication required")

	tokens := login(t, r, "admin")
	w = doJSON(t, r, http.MethodPost, "/api/graphql", tokens.Access, query)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			ExchangeRate float64 `json:"exchangeRate"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(models.DefaultExchangeRate), resp.Data.ExchangeRate)
}
