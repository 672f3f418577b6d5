package handler

import (
	"context"  // provides context with cancellation for DB calls
	"errors"   // sentinel error matching
	"net/http" // HTTP status codes and primitives
	"strconv"  // string-to-int conversion
	"strings"  // string manipulation utilities
	"time"     // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/raniadwi/recycle-market/internal/config"     // app configuration
	"github.com/raniadwi/recycle-market/internal/middleware" // account context access
	"github.com/raniadwi/recycle-market/internal/queue"      // marketplace events
	"github.com/raniadwi/recycle-market/internal/repository" // DB repositories
	"github.com/raniadwi/recycle-market/internal/utils"      // token issuing and hashing
)

// AccountStore is the slice of the account repository the auth handlers use.
// *repository.AccountRepo satisfies it; tests substitute an in-memory fake.
type AccountStore interface {
	Create(ctx context.Context, name, email, phone, location, password string, cost int) (repository.Account, error)
	GetByEmail(ctx context.Context, email string) (repository.Account, error)
	ListAll(ctx context.Context) ([]repository.Account, error)
	Delete(ctx context.Context, id uint64) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Accounts AccountStore
	Events   *queue.Publisher
}

func NewAuthHandler(cfg config.Config, accounts AccountStore, events *queue.Publisher) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Accounts: accounts, Events: events}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// accountResp is the account view returned to clients. It never carries the
// password hash; Token is present only on register/login responses.
type accountResp struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Location     string `json:"location"`
	IsSuperAdmin bool   `json:"isSuperAdmin"`
	Token        string `json:"token,omitempty"`
}

func accountView(a repository.Account, token string) accountResp {
	return accountResp{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		Phone:        a.Phone,
		Location:     a.Location,
		IsSuperAdmin: a.IsSuperAdmin,
		Token:        token,
	}
}

// Register handles POST /api/auth/register: create the account and return its
// view with a fresh session token. The super-admin flag can never be supplied
// by the client.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	acc, err := h.Accounts.Create(ctx, strings.TrimSpace(req.Name), req.Email, req.Phone, req.Location, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	token, err := utils.NewToken(h.Cfg.JWTSecret, acc.ID, h.Cfg.TokenTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	// Best effort; registration succeeds even when the broker is down.
	_ = h.Events.AccountRegistered(ctx, queue.AccountRegisteredEvent{
		AccountID:    acc.ID,
		Name:         acc.Name,
		Email:        acc.Email,
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, accountView(acc, token))
}

// Login handles POST /api/auth/login. Unknown email and wrong password are
// deliberately the same 401.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	acc, err := h.Accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid email or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if !utils.VerifyPassword(acc.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid email or password"})
	}

	token, err := utils.NewToken(h.Cfg.JWTSecret, acc.ID, h.Cfg.TokenTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, accountView(acc, token))
}

// ListAdmins handles GET /api/auth/admins (super-admin only): every account
// ascending by id, without tokens or hashes.
func (h *AuthHandler) ListAdmins(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	accounts, err := h.Accounts.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	out := make([]accountResp, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountView(a, ""))
	}
	return c.JSON(http.StatusOK, out)
}

// DeleteAdmin handles DELETE /api/auth/admins/:id (super-admin only). A
// super-admin cannot delete their own account; the caller's id is taken from
// the authenticated context, never the request.
func (h *AuthHandler) DeleteAdmin(c echo.Context) error {
	caller, ok := middleware.CurrentAccount(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	if caller.ID == id {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Cannot delete your own account"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Admin not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.NoContent(http.StatusNoContent)
}
