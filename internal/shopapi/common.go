package shopapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/d085/storefront/internal/cart"
)

var (
	cartStorage cart.Storage
	storeName   string
)

// Register wires the public storefront routes. storage backs the
// session-scoped cart slots; name is the banner used on checkout messages.
func Register(storage cart.Storage, name string) {
	cartStorage = storage
	storeName = name

	registerCatalogRoutes()
	registerCartRoutes()
	registerCheckoutRoutes()
}

// GetDB returns the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	db, _ := c.Get("db").(*gorm.DB)
	return db
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": "OK",
		"data": data,
	})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"code":    code,
		"message": message,
		"detail":  detail,
	})
}

const sessionCookieName = "storefront_session"

// sessionID returns the browsing session identifier, minting a new cookie
// when the visitor arrives without one.
func sessionID(c echo.Context) string {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	sid := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}

// sessionCart loads the rehydrated cart store for this browsing session.
func sessionCart(c echo.Context) *cart.Store {
	store := cart.NewStore(cartStorage, sessionID(c))
	store.Load()
	return store
}
