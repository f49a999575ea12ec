package shopapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/d085/storefront/internal/domain"
	"github.com/d085/storefront/internal/webserver"
)

type cartItemPayload struct {
	ProductID int64  `json:"product_id,string"`
	Variation string `json:"variation"`
	Quantity  int    `json:"quantity"`
}

type paymentIntentPayload struct {
	Token string `json:"token"`
}

// registerCartRoutes registers the session cart endpoints
func registerCartRoutes() {
	webserver.PubGET("/cart", getCart)
	webserver.PubPOST("/cart/items", addCartItem)
	webserver.PubPUT("/cart/items", setCartItemQuantity)
	webserver.PubDELETE("/cart/items", removeCartItem)
	webserver.PubDELETE("/cart", clearCart)
	webserver.PubPOST("/cart/payment-intent", setPaymentIntent)
}

func cartPayload(c echo.Context) error {
	store := sessionCart(c)
	return ok(c, map[string]interface{}{
		"items":          store.Items(),
		"total_quantity": store.TotalQuantity(),
		"subtotal":       store.Subtotal(),
	})
}

func getCart(c echo.Context) error {
	return cartPayload(c)
}

// addCartItem snapshots the product into a line item and merges it into
// the session cart. Quantity defaults to 1 for quick adds.
func addCartItem(c echo.Context) error {
	var payload cartItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart item", err.Error())
	}
	if payload.ProductID == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "product_id is required", nil)
	}
	if payload.Quantity < 1 {
		payload.Quantity = 1
	}

	var p domain.Product
	if err := GetDB(c).Preload("Images").Where("id = ?", payload.ProductID).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	store := sessionCart(c)
	if err := store.AddProduct(toCatalogProduct(p), payload.Variation, payload.Quantity); err != nil {
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to update cart", err.Error())
	}
	return cartPayload(c)
}

func setCartItemQuantity(c echo.Context) error {
	var payload cartItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart item", err.Error())
	}
	if payload.ProductID == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "product_id is required", nil)
	}

	store := sessionCart(c)
	if err := store.SetQuantity(payload.ProductID, payload.Variation, payload.Quantity); err != nil {
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to update cart", err.Error())
	}
	return cartPayload(c)
}

func removeCartItem(c echo.Context) error {
	var payload cartItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart item", err.Error())
	}
	if payload.ProductID == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "product_id is required", nil)
	}

	store := sessionCart(c)
	if err := store.Remove(payload.ProductID, payload.Variation); err != nil {
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to update cart", err.Error())
	}
	return cartPayload(c)
}

func clearCart(c echo.Context) error {
	store := sessionCart(c)
	if err := store.Clear(); err != nil {
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to clear cart", err.Error())
	}
	return cartPayload(c)
}

func setPaymentIntent(c echo.Context) error {
	var payload paymentIntentPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse payment intent", err.Error())
	}

	store := sessionCart(c)
	if err := store.SetPaymentIntent(payload.Token); err != nil {
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to store payment intent", err.Error())
	}
	return ok(c, map[string]interface{}{"token": store.PaymentIntent()})
}
