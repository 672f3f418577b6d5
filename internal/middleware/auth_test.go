package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raniadwi/recycle-market/internal/repository"
	"github.com/raniadwi/recycle-market/internal/utils"
)

const testSecret = "unit-test-secret"

type fakeLoader struct {
	accounts map[uint64]repository.Account
}

func (f *fakeLoader) GetByID(_ context.Context, id uint64) (repository.Account, error) {
	acc, ok := f.accounts[id]
	if !ok {
		return repository.Account{}, repository.ErrAccountNotFound
	}
	return acc, nil
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, *repository.Account) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/products/mine", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *repository.Account
	h := mw(func(c echo.Context) error {
		if acc, ok := CurrentAccount(c); ok {
			seen = &acc
		}
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, seen
}

func TestAuthenticateMissingToken(t *testing.T) {
	mw := Authenticate(testSecret, &fakeLoader{})
	rec, seen := invoke(t, mw, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)

	rec, _ = invoke(t, mw, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	mw := Authenticate(testSecret, &fakeLoader{})
	rec, _ := invoke(t, mw, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Signed with a different secret.
	tok, err := utils.NewToken("other-secret", 1, 30)
	require.NoError(t, err)
	rec, _ = invoke(t, mw, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateDeletedAccount(t *testing.T) {
	// A valid token whose account no longer exists must fail closed.
	mw := Authenticate(testSecret, &fakeLoader{accounts: map[uint64]repository.Account{}})
	tok, err := utils.NewToken(testSecret, 99, 30)
	require.NoError(t, err)

	rec, seen := invoke(t, mw, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestAuthenticateAttachesAccountWithoutHash(t *testing.T) {
	loader := &fakeLoader{accounts: map[uint64]repository.Account{
		5: {ID: 5, Name: "Sari", Email: "sari@x.com", PasswordHash: "should-be-stripped"},
	}}
	mw := Authenticate(testSecret, loader)
	tok, err := utils.NewToken(testSecret, 5, 30)
	require.NoError(t, err)

	rec, seen := invoke(t, mw, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, uint64(5), seen.ID)
	assert.Empty(t, seen.PasswordHash)
}

func TestRequireSuperAdmin(t *testing.T) {
	e := echo.New()
	run := func(acc *repository.Account) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/admins", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if acc != nil {
			SetAccount(c, *acc)
		}
		h := RequireSuperAdmin()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
		require.NoError(t, h(c))
		return rec
	}

	assert.Equal(t, http.StatusForbidden, run(nil).Code)
	assert.Equal(t, http.StatusForbidden, run(&repository.Account{ID: 2}).Code)
	assert.Equal(t, http.StatusOK, run(&repository.Account{ID: 1, IsSuperAdmin: true}).Code)
}
