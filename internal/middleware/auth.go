package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/raniadwi/recycle-market/internal/repository"
	"github.com/raniadwi/recycle-market/internal/utils"
)

// accountKey is the context key under which Authenticate stores the caller's
// account for downstream handlers.
const accountKey = "account"

// AccountLoader is the slice of the account repository the auth middleware
// needs: a post-verification lookup that must return
// repository.ErrAccountNotFound for missing rows.
type AccountLoader interface {
	GetByID(ctx context.Context, id uint64) (repository.Account, error)
}

// Authenticate returns an Echo middleware that resolves a Bearer token to an
// account and attaches it to the request context. The request walks through
// token extraction, signature/expiry verification and an account-existence
// lookup; a failure at any step terminates with 401. The existence lookup is
// what invalidates tokens of accounts deleted after issuance — there is no
// other revocation. The attached account never carries the password hash.
func Authenticate(secret string, accounts AccountLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized, no token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			id, err := utils.VerifyToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized, token failed"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			acc, err := accounts.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrAccountNotFound) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized, admin not found"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
			}

			acc.PasswordHash = ""
			SetAccount(c, acc)
			return next(c)
		}
	}
}

// RequireSuperAdmin gates a route to super-admin accounts. It must run after
// Authenticate; a missing or non-super-admin account yields 403.
func RequireSuperAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acc, ok := CurrentAccount(c)
			if !ok || !acc.IsSuperAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "Access denied: super admin only"})
			}
			return next(c)
		}
	}
}

// SetAccount attaches an account to the request context. Called by
// Authenticate; exported so handler tests can inject a caller directly.
func SetAccount(c echo.Context, acc repository.Account) {
	c.Set(accountKey, acc)
}

// CurrentAccount returns the account attached by Authenticate, if any.
func CurrentAccount(c echo.Context) (repository.Account, bool) {
	acc, ok := c.Get(accountKey).(repository.Account)
	return acc, ok
}
