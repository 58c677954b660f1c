package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/model"
	"pizzeria/internal/service"
)

// AccountContextKey is where the authenticated account is stored on the echo context.
const AccountContextKey = "account"

// lookupError marks a failure to resolve a token that is not the caller's fault.
type lookupError struct {
	err error
}

func (e *lookupError) Error() string { return e.err.Error() }
func (e *lookupError) Unwrap() error { return e.err }

// AuthMiddleware authenticates bearer tokens and gates admin routes.
type AuthMiddleware struct {
	authService service.AuthService
	logger      *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(authService service.AuthService, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{authService: authService, logger: logger}
}

// Authenticate resolves "Authorization: Bearer <token>" to a live account and
// stores it under AccountContextKey.
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  AccountContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			account, err := m.authService.Authenticate(c.Request().Context(), token)
			if err != nil {
				if apperrors.IsDomain(err) {
					return nil, err
				}
				return nil, &lookupError{err: err}
			}
			return account, nil
		},
		ErrorHandler: m.handleError,
	})
}

func (m *AuthMiddleware) handleError(c echo.Context, err error) error {
	var lookupErr *lookupError
	switch {
	case errors.As(err, &lookupErr):
		m.logger.ErrorContext(c.Request().Context(), "authenticate request",
			slog.String("error", lookupErr.err.Error()),
			slog.String("uri", c.Request().RequestURI),
		)
		return echo.NewHTTPError(http.StatusInternalServerError, apperrors.MapErrorToHTTP(lookupErr.err).ToErrorResponse())
	case apperrors.IsDomain(err):
		return toEchoError(err)
	default:
		return toEchoError(fmt.Errorf("%w: missing or malformed bearer token", apperrors.ErrInvalidToken))
	}
}

// RequireAdmin rejects callers whose account is not an admin. It must run after Authenticate.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		account, _ := AccountFrom(c)
		if _, err := m.authService.RequireAdmin(account); err != nil {
			return toEchoError(err)
		}
		return next(c)
	}
}

// AccountFrom returns the account stored by Authenticate.
func AccountFrom(c echo.Context) (*model.Account, bool) {
	account, ok := c.Get(AccountContextKey).(*model.Account)
	return account, ok && account != nil
}

func toEchoError(err error) *echo.HTTPError {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
