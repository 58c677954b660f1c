package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pizzeria/internal/errors"
	"pizzeria/internal/middleware"
	"pizzeria/internal/model"
	"pizzeria/internal/repository"
	"pizzeria/internal/service"
)

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
	return e
}

// withAccount stands in for the bearer-token middleware.
func withAccount(account *model.Account) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.AccountContextKey, account)
			return next(c)
		}
	}
}

func doRequest(e *echo.Echo, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errors.ErrorResponse {
	t.Helper()
	var resp errors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockAuthService)
		wantStatus int
		wantCode   string
	}{
		{
			name: "created",
			body: `{"email":"new@example.com","password":"Secret123","full_name":"New Customer","phone":"555-0100"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, service.RegisterInput{
					Email:    "new@example.com",
					Password: "Secret123",
					FullName: "New Customer",
					Phone:    "555-0100",
				}).Return(&model.Account{ID: uuid.New(), Email: "new@example.com"}, "signed-token", nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid email never reaches the service",
			body:       `{"email":"not-an-email","password":"Secret123","full_name":"New Customer"}`,
			setupMock:  func(*MockAuthService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "malformed body",
			body:       `{"email":`,
			setupMock:  func(*MockAuthService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name: "duplicate email",
			body: `{"email":"taken@example.com","password":"Secret123","full_name":"Taken"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, mock.Anything).Return(nil, "", errors.ErrDuplicateAccount)
			},
			wantStatus: http.StatusConflict,
			wantCode:   "DUPLICATE_ACCOUNT",
		},
		{
			name: "weak password",
			body: `{"email":"new@example.com","password":"password","full_name":"New Customer"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, mock.Anything).Return(nil, "", errors.ErrWeakPassword)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "WEAK_PASSWORD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authService := new(MockAuthService)
			tt.setupMock(authService)

			e := newTestEcho()
			h := NewAuthHandler(authService, nil)
			e.POST("/api/auth/register", h.Register)

			rec := doRequest(e, http.MethodPost, "/api/auth/register", strings.NewReader(tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			} else {
				var resp AuthResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "signed-token", resp.Token)
				assert.Equal(t, "new@example.com", resp.User.Email)
				assert.NotContains(t, rec.Body.String(), "password")
			}
			authService.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "success", wantStatus: http.StatusOK},
		{name: "wrong password", err: errors.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantCode: "INVALID_CREDENTIALS"},
		{name: "locked", err: errors.ErrAccountLocked, wantStatus: http.StatusLocked, wantCode: "ACCOUNT_LOCKED"},
		{name: "store failure is opaque", err: fmt.Errorf("find account: connection refused"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authService := new(MockAuthService)
			if tt.err != nil {
				authService.On("Login", mock.Anything, "user@example.com", "Secret123").Return(nil, "", tt.err)
			} else {
				authService.On("Login", mock.Anything, "user@example.com", "Secret123").
					Return(&model.Account{ID: uuid.New(), Email: "user@example.com"}, "signed-token", nil)
			}

			e := newTestEcho()
			h := NewAuthHandler(authService, nil)
			e.POST("/api/auth/login", h.Login)

			rec := doRequest(e, http.MethodPost, "/api/auth/login",
				strings.NewReader(`{"email":"user@example.com","password":"Secret123"}`))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				resp := decodeError(t, rec)
				assert.Equal(t, tt.wantCode, resp.Code)
				assert.NotContains(t, resp.Error, "connection refused")
			}
			authService.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_LogoutAndMe(t *testing.T) {
	account := &model.Account{ID: uuid.New(), Email: "user@example.com"}
	authService := new(MockAuthService)
	authService.On("Logout", mock.Anything, "signed-token").Return(nil)

	e := newTestEcho()
	h := NewAuthHandler(authService, nil)
	e.POST("/api/auth/logout", h.Logout, withAccount(account))
	e.GET("/api/auth/me", h.Me, withAccount(account))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer signed-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "logged out successfully")

	rec = doRequest(e, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), account.ID.String())

	authService.AssertExpectations(t)
}

func TestAuthHandler_LogoutWithoutRevocationStore(t *testing.T) {
	account := &model.Account{ID: uuid.New()}
	authService := new(MockAuthService)
	authService.On("Logout", mock.Anything, "signed-token").
		Return(errors.ErrRevocationUnavailable)

	e := newTestEcho()
	h := NewAuthHandler(authService, nil)
	e.POST("/api/auth/logout", h.Logout, withAccount(account))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer signed-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "REVOCATION_UNAVAILABLE", decodeError(t, rec).Code)
	assert.NotContains(t, rec.Body.String(), "logged out successfully")
}

func TestCatalogHandler_ListProductsFilters(t *testing.T) {
	categoryID := uuid.New()

	tests := []struct {
		name       string
		query      string
		wantFilter func(repository.ProductFilter) bool
		wantStatus int
	}{
		{
			name:       "no filter",
			query:      "",
			wantFilter: func(f repository.ProductFilter) bool { return f.CategoryID == nil && f.Featured == nil },
			wantStatus: http.StatusOK,
		},
		{
			name:  "category and featured",
			query: "?category_id=" + categoryID.String() + "&featured=true",
			wantFilter: func(f repository.ProductFilter) bool {
				return f.CategoryID != nil && *f.CategoryID == categoryID && f.Featured != nil && *f.Featured
			},
			wantStatus: http.StatusOK,
		},
		{name: "bad category id", query: "?category_id=pizza", wantStatus: http.StatusBadRequest},
		{name: "bad featured flag", query: "?featured=maybe", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalogService := new(MockCatalogService)
			if tt.wantFilter != nil {
				catalogService.On("ListProducts", mock.Anything, mock.MatchedBy(tt.wantFilter)).
					Return([]model.Product{{ID: uuid.New(), Name: "Margherita", Price: decimal.RequireFromString("10.95")}}, nil)
			}

			e := newTestEcho()
			h := NewCatalogHandler(catalogService, nil)
			e.GET("/api/products", h.ListProducts)

			rec := doRequest(e, http.MethodGet, "/api/products"+tt.query, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"price":10.95`)
			}
			catalogService.AssertExpectations(t)
		})
	}
}

func TestCatalogHandler_CreateProduct(t *testing.T) {
	categoryID := uuid.New()

	t.Run("maps request to input", func(t *testing.T) {
		catalogService := new(MockCatalogService)
		catalogService.On("CreateProduct", mock.Anything, mock.MatchedBy(func(in service.ProductInput) bool {
			return in.Name == "Pepperoni" &&
				in.CategoryID == categoryID &&
				in.Price.Equal(decimal.RequireFromString("12.95")) &&
				len(in.Sizes) == 1 && in.Sizes[0].Name == "Large 14\"" &&
				in.IsAvailable == nil
		})).Return(&model.Product{ID: uuid.New(), Name: "Pepperoni"}, nil)

		e := newTestEcho()
		h := NewCatalogHandler(catalogService, nil)
		e.POST("/api/products", h.CreateProduct)

		body := `{"name":"Pepperoni","category_id":"` + categoryID.String() +
			`","price":12.95,"sizes":[{"name":"Large 14\"","price":15.95}]}`
		rec := doRequest(e, http.MethodPost, "/api/products", strings.NewReader(body))

		assert.Equal(t, http.StatusCreated, rec.Code)
		catalogService.AssertExpectations(t)
	})

	t.Run("invalid price", func(t *testing.T) {
		catalogService := new(MockCatalogService)
		catalogService.On("CreateProduct", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: price must be greater than 0", errors.ErrInvalidProduct))

		e := newTestEcho()
		h := NewCatalogHandler(catalogService, nil)
		e.POST("/api/products", h.CreateProduct)

		body := `{"name":"Free Pizza","category_id":"` + categoryID.String() + `","price":0}`
		rec := doRequest(e, http.MethodPost, "/api/products", strings.NewReader(body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "INVALID_PRODUCT", resp.Code)
		assert.Contains(t, resp.Error, "greater than 0")
	})
}

func TestCatalogHandler_SetProductAvailability(t *testing.T) {
	productID := uuid.New()

	catalogService := new(MockCatalogService)
	catalogService.On("SetProductAvailability", mock.Anything, productID, false).
		Return(&model.Product{ID: productID, IsAvailable: false}, nil)

	e := newTestEcho()
	h := NewCatalogHandler(catalogService, nil)
	e.PUT("/api/products/:id/availability", h.SetProductAvailability)

	rec := doRequest(e, http.MethodPut, "/api/products/"+productID.String()+"/availability?is_available=false", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_available":false`)

	rec = doRequest(e, http.MethodPut, "/api/products/"+productID.String()+"/availability", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(e, http.MethodPut, "/api/products/not-a-uuid/availability?is_available=true", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_UUID", decodeError(t, rec).Code)

	catalogService.AssertExpectations(t)
}

func TestCatalogHandler_DeleteCategoryNotFound(t *testing.T) {
	id := uuid.New()
	catalogService := new(MockCatalogService)
	catalogService.On("DeleteCategory", mock.Anything, id).Return(errors.ErrCategoryNotFound)

	e := newTestEcho()
	h := NewCatalogHandler(catalogService, nil)
	e.DELETE("/api/categories/:id", h.DeleteCategory)

	rec := doRequest(e, http.MethodDelete, "/api/categories/"+id.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "CATEGORY_NOT_FOUND", decodeError(t, rec).Code)
}

func TestCatalogHandler_DeleteCategoryInUse(t *testing.T) {
	id := uuid.New()
	catalogService := new(MockCatalogService)
	catalogService.On("DeleteCategory", mock.Anything, id).
		Return(fmt.Errorf("%w: 2 product(s) reference it", errors.ErrCategoryInUse))

	e := newTestEcho()
	h := NewCatalogHandler(catalogService, nil)
	e.DELETE("/api/categories/:id", h.DeleteCategory)

	rec := doRequest(e, http.MethodDelete, "/api/categories/"+id.String(), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CATEGORY_IN_USE", decodeError(t, rec).Code)
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	account := &model.Account{ID: uuid.New(), Email: "user@example.com"}
	productID := uuid.New()
	body := `{"items":[{"product_id":"` + productID.String() + `","quantity":2,"size":"Large 14\"","price":12.95}],"phone":"555-0100","delivery_address":"1 Main St"}`

	t.Run("created", func(t *testing.T) {
		orderService := new(MockOrderService)
		orderService.On("CreateOrder", mock.Anything, account.ID,
			mock.MatchedBy(func(lines []service.CartLine) bool {
				return len(lines) == 1 &&
					lines[0].ProductID == productID &&
					lines[0].Quantity == 2 &&
					lines[0].Size == "Large 14\"" &&
					lines[0].Price.Equal(decimal.RequireFromString("12.95"))
			}),
			service.DeliveryInput{DeliveryAddress: "1 Main St", Phone: "555-0100"},
		).Return(&model.Order{
			ID:          uuid.New(),
			UserID:      account.ID,
			TotalAmount: decimal.RequireFromString("25.90"),
			Status:      model.OrderStatusPending,
		}, nil)

		e := newTestEcho()
		h := NewOrderHandler(orderService, nil)
		e.POST("/api/orders", h.CreateOrder, withAccount(account))

		rec := doRequest(e, http.MethodPost, "/api/orders", strings.NewReader(body))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"pending"`)
		assert.Contains(t, rec.Body.String(), `"total_amount":25.9`)
		orderService.AssertExpectations(t)
	})

	t.Run("price mismatch", func(t *testing.T) {
		orderService := new(MockOrderService)
		orderService.On("CreateOrder", mock.Anything, account.ID, mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("item 1 (Pepperoni): %w: expected 12.95, got 9.95", errors.ErrPriceMismatch))

		e := newTestEcho()
		h := NewOrderHandler(orderService, nil)
		e.POST("/api/orders", h.CreateOrder, withAccount(account))

		rec := doRequest(e, http.MethodPost, "/api/orders", strings.NewReader(body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "PRICE_MISMATCH", resp.Code)
		assert.Contains(t, resp.Error, "item 1 (Pepperoni)")
	})

	t.Run("missing phone", func(t *testing.T) {
		orderService := new(MockOrderService)

		e := newTestEcho()
		h := NewOrderHandler(orderService, nil)
		e.POST("/api/orders", h.CreateOrder, withAccount(account))

		rec := doRequest(e, http.MethodPost, "/api/orders",
			strings.NewReader(`{"items":[{"product_id":"`+productID.String()+`","quantity":1,"price":10.95}]}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
		orderService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrderHandler_GetOrderNotFound(t *testing.T) {
	account := &model.Account{ID: uuid.New()}
	orderID := uuid.New()

	orderService := new(MockOrderService)
	orderService.On("GetOrder", mock.Anything, account, orderID).Return(nil, errors.ErrOrderNotFound)

	e := newTestEcho()
	h := NewOrderHandler(orderService, nil)
	e.GET("/api/orders/:id", h.GetOrder, withAccount(account))

	rec := doRequest(e, http.MethodGet, "/api/orders/"+orderID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", decodeError(t, rec).Code)
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	orderID := uuid.New()

	tests := []struct {
		name       string
		target     string
		body       string
		status     model.OrderStatus
		err        error
		wantStatus int
	}{
		{
			name:       "status from query",
			target:     "/api/orders/" + orderID.String() + "/status?status=ready",
			status:     model.OrderStatusReady,
			wantStatus: http.StatusOK,
		},
		{
			name:       "status from body",
			target:     "/api/orders/" + orderID.String() + "/status",
			body:       `{"status":"delivered"}`,
			status:     model.OrderStatusDelivered,
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown status",
			target:     "/api/orders/" + orderID.String() + "/status?status=eaten",
			status:     model.OrderStatus("eaten"),
			err:        fmt.Errorf("%w: eaten", errors.ErrUnknownStatus),
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderService := new(MockOrderService)
			if tt.err != nil {
				orderService.On("UpdateStatus", mock.Anything, orderID, tt.status).Return(nil, tt.err)
			} else {
				orderService.On("UpdateStatus", mock.Anything, orderID, tt.status).
					Return(&model.Order{ID: orderID, Status: tt.status}, nil)
			}

			e := newTestEcho()
			h := NewOrderHandler(orderService, nil)
			e.PUT("/api/orders/:id/status", h.UpdateStatus)

			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			rec := doRequest(e, http.MethodPut, tt.target, body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.err == nil {
				assert.Contains(t, rec.Body.String(), `"status":"`+string(tt.status)+`"`)
			} else {
				assert.Equal(t, "UNKNOWN_STATUS", decodeError(t, rec).Code)
			}
			orderService.AssertExpectations(t)
		})
	}
}

func TestSeedHandler_InitData(t *testing.T) {
	tests := []struct {
		name        string
		seeded      bool
		err         error
		wantStatus  int
		wantMessage string
	}{
		{name: "empty catalog", seeded: true, wantStatus: http.StatusOK, wantMessage: "sample data initialized successfully"},
		{name: "already seeded", seeded: false, wantStatus: http.StatusOK, wantMessage: "sample data already exists"},
		{name: "store failure", err: fmt.Errorf("count categories: deadlock"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalogService := new(MockCatalogService)
			catalogService.On("SeedSampleMenu", mock.Anything).Return(tt.seeded, tt.err)

			e := newTestEcho()
			h := NewSeedHandler(catalogService, nil)
			e.POST("/api/init-data", h.InitData)

			rec := doRequest(e, http.MethodPost, "/api/init-data", nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMessage != "" {
				var resp MessageResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantMessage, resp.Message)
			}
			catalogService.AssertExpectations(t)
		})
	}
}
