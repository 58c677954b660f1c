package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrDuplicateAccount is returned when the email is already registered.
	ErrDuplicateAccount = errors.New("email already registered")
	// ErrWeakPassword is returned when a password fails the strength policy.
	ErrWeakPassword = errors.New("password must be at least 8 characters and contain upper-case, lower-case and a digit")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountLocked is returned while a failed-login lockout is in force.
	ErrAccountLocked = errors.New("account temporarily locked due to too many failed login attempts")
	// ErrInvalidToken is returned for malformed, forged or revoked tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when the token lifetime has elapsed.
	ErrTokenExpired = errors.New("token expired")
	// ErrAccountNotFound is returned when a token references a deleted account.
	ErrAccountNotFound = errors.New("account not found")
	// ErrForbidden is returned when a non-admin calls an admin operation.
	ErrForbidden = errors.New("admin access required")

	// ErrEmptyOrder is returned when an order has no lines.
	ErrEmptyOrder = errors.New("order must contain at least one item")
	// ErrTooManyLines is returned when an order exceeds the line limit.
	ErrTooManyLines = errors.New("order contains too many items")
	// ErrInvalidQuantity is returned when a line quantity is out of range.
	ErrInvalidQuantity = errors.New("item quantity must be between 1 and 50")
	// ErrProductUnavailable is returned when a line references a missing or unavailable product.
	ErrProductUnavailable = errors.New("product not available")
	// ErrInvalidSize is returned when a line names a size the product does not offer.
	ErrInvalidSize = errors.New("invalid size for product")
	// ErrPriceMismatch is returned when the claimed price differs from the catalog price.
	ErrPriceMismatch = errors.New("price mismatch")
	// ErrUnknownStatus is returned for an order status outside the known set.
	ErrUnknownStatus = errors.New("invalid status")
	// ErrOrderNotFound is returned when an order id does not resolve.
	ErrOrderNotFound = errors.New("order not found")

	// ErrCategoryNotFound is returned when a category id does not resolve.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrProductNotFound is returned when a product id does not resolve.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidProduct is returned when product data violates catalog rules.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrCategoryInUse is returned when deleting a category that still holds products.
	ErrCategoryInUse = errors.New("category still has products")

	// ErrRevocationUnavailable is returned when a token cannot be revoked because the revocation store is down.
	ErrRevocationUnavailable = errors.New("logout unavailable, token was not revoked")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

var mappings = []struct {
	err    error
	status int
	code   string
}{
	{ErrDuplicateAccount, http.StatusConflict, "DUPLICATE_ACCOUNT"},
	{ErrWeakPassword, http.StatusBadRequest, "WEAK_PASSWORD"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrAccountLocked, http.StatusLocked, "ACCOUNT_LOCKED"},
	{ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN"},
	{ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
	// 401 rather than 404: a token for a vanished account is an auth failure.
	{ErrAccountNotFound, http.StatusUnauthorized, "ACCOUNT_NOT_FOUND"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrEmptyOrder, http.StatusBadRequest, "EMPTY_ORDER"},
	{ErrTooManyLines, http.StatusBadRequest, "TOO_MANY_LINES"},
	{ErrInvalidQuantity, http.StatusBadRequest, "INVALID_QUANTITY"},
	{ErrProductUnavailable, http.StatusBadRequest, "PRODUCT_UNAVAILABLE"},
	{ErrInvalidSize, http.StatusBadRequest, "INVALID_SIZE"},
	{ErrPriceMismatch, http.StatusBadRequest, "PRICE_MISMATCH"},
	{ErrUnknownStatus, http.StatusBadRequest, "UNKNOWN_STATUS"},
	{ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND"},
	{ErrCategoryNotFound, http.StatusNotFound, "CATEGORY_NOT_FOUND"},
	{ErrProductNotFound, http.StatusNotFound, "PRODUCT_NOT_FOUND"},
	{ErrInvalidProduct, http.StatusBadRequest, "INVALID_PRODUCT"},
	{ErrCategoryInUse, http.StatusConflict, "CATEGORY_IN_USE"},
	{ErrRevocationUnavailable, http.StatusServiceUnavailable, "REVOCATION_UNAVAILABLE"},
}

// MapErrorToHTTP maps domain errors to HTTP errors. The message is the wrapped
// error text so that line-level detail ("item 2: price mismatch") reaches the
// client; anything unrecognised becomes an opaque 500.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return NewHTTPError(m.status, err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}

// IsDomain reports whether err maps to a known domain failure.
func IsDomain(err error) bool {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return true
		}
	}
	return false
}
