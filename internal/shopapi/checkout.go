package shopapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/d085/storefront/internal/cart"
	"github.com/d085/storefront/internal/domain"
	"github.com/d085/storefront/internal/webserver"
)

type checkoutPayload struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Deliver       string `json:"deliver"`
	PaymentMethod string `json:"payment_method"`
	Neighborhood  string `json:"neighborhood"`
	Address       string `json:"address"`
	Coupon        string `json:"coupon"`
	// Mobile is the device-class capability flag the client computed at
	// its boundary; it selects the WhatsApp link scheme.
	Mobile bool `json:"mobile"`
}

// registerCheckoutRoutes registers the checkout hand-off endpoints
func registerCheckoutRoutes() {
	webserver.PubPOST("/checkout", checkout)
	webserver.PubGET("/coupons/:name/discount", getCouponDiscount)
}

// getCouponDiscount validates a coupon and returns its multiplier.
// Lookup is exact: codes are stored uppercase and normalized here.
func getCouponDiscount(c echo.Context) error {
	name := strings.ToUpper(strings.TrimSpace(c.Param("name")))
	if name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Coupon name is required", nil)
	}

	var coupon domain.Coupon
	if err := GetDB(c).Where("name = ?", name).First(&coupon).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "COUPON_NOT_FOUND", "Invalid coupon", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query coupon", err.Error())
	}

	return ok(c, map[string]interface{}{"name": coupon.Name, "discount": coupon.Discount})
}

func validateCheckoutPayload(payload *checkoutPayload) string {
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Phone = strings.TrimSpace(payload.Phone)
	switch {
	case payload.Name == "":
		return "Name is required"
	case payload.Phone == "":
		return "Phone is required"
	case payload.Deliver != cart.DeliverPickup && payload.Deliver != cart.DeliverDelivery:
		return "Deliver must be pickup or delivery"
	case payload.PaymentMethod == "":
		return "Payment method is required"
	}
	if payload.Deliver == cart.DeliverDelivery {
		if strings.TrimSpace(payload.Neighborhood) == "" {
			return "Neighborhood is required for delivery"
		}
		if strings.TrimSpace(payload.Address) == "" {
			return "Address is required for delivery"
		}
	}
	return ""
}

// checkout composes the order message from the session cart and returns
// it with the WhatsApp hand-off link. Validation fails fast on the first
// violated field.
func checkout(c echo.Context) error {
	var payload checkoutPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse checkout form", err.Error())
	}
	if msg := validateCheckoutPayload(&payload); msg != "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}

	store := sessionCart(c)
	items := store.Items()
	if len(items) == 0 {
		return fail(c, http.StatusBadRequest, "CART_EMPTY", "The cart has no items", nil)
	}

	discount := cart.NoDiscount
	if coupon := strings.ToUpper(strings.TrimSpace(payload.Coupon)); coupon != "" {
		var row domain.Coupon
		if err := GetDB(c).Where("name = ?", coupon).First(&row).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "COUPON_NOT_FOUND", "Invalid coupon", nil)
		} else if err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query coupon", err.Error())
		}
		discount = row.Discount
		payload.Coupon = coupon
	}

	var deliveryFee int64
	if payload.Deliver == cart.DeliverDelivery {
		var neighborhood domain.Neighborhood
		if err := GetDB(c).Where("name = ?", strings.TrimSpace(payload.Neighborhood)).First(&neighborhood).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "NEIGHBORHOOD_NOT_FOUND", "Unknown delivery neighborhood", nil)
		} else if err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query neighborhood", err.Error())
		}
		deliveryFee = neighborhood.Price
	}

	var phone domain.Phone
	if err := GetDB(c).Order("id").First(&phone).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusConflict, "PHONE_NOT_CONFIGURED", "The store has no WhatsApp number configured", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query store phone", err.Error())
	}

	order := cart.CheckoutOrder{
		Name:          payload.Name,
		Phone:         payload.Phone,
		Deliver:       payload.Deliver,
		PaymentMethod: payload.PaymentMethod,
		Neighborhood:  strings.TrimSpace(payload.Neighborhood),
		Address:       strings.TrimSpace(payload.Address),
		Coupon:        payload.Coupon,
	}

	message := cart.ComposeMessage(storeName, order, items, deliveryFee, discount)
	link := cart.WhatsAppLink(phone.Number, message, payload.Mobile)
	total := cart.Total(store.Subtotal(), deliveryFee, discount)

	return ok(c, map[string]interface{}{
		"message": message,
		"link":    link,
		"total":   cart.FormatBRL(total),
	})
}
