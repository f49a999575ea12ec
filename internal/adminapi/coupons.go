package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/d085/storefront/internal/domain"
	"github.com/d085/storefront/internal/webserver"
	"github.com/d085/storefront/pkg/common"
)

type couponPayload struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
	// Discount is the percentage off, e.g. 10 for 10%.
	Discount float64 `json:"discount" validate:"required,gt=0,lte=100"`
}

// registerCouponRoutes registers coupon endpoints
func registerCouponRoutes() {
	webserver.ApiGET("/shop/coupons", listCoupons)
	webserver.ApiPOST("/shop/coupons", createCoupon)
	webserver.ApiDELETE("/shop/coupons/:id", deleteCoupon)
}

func listCoupons(c echo.Context) error {
	var rows []domain.Coupon
	if err := GetDB(c).Order("created_at DESC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query coupons", err.Error())
	}
	return ok(c, rows)
}

func createCoupon(c echo.Context) error {
	var payload couponPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse coupon", err.Error())
	}
	name := strings.ToUpper(strings.TrimSpace(payload.Name))
	if name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}
	if payload.Discount <= 0 || payload.Discount > 100 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Discount must be a percentage in (0,100]", nil)
	}

	var count int64
	GetDB(c).Model(&domain.Coupon{}).Where("name = ?", name).Count(&count)
	if count > 0 {
		return fail(c, http.StatusConflict, "COUPON_EXISTS", "A coupon with this name already exists", nil)
	}

	// 10% off is stored as the multiplier 0.9
	multiplier := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(payload.Discount).Div(decimal.NewFromInt(100)))

	coupon := domain.Coupon{
		ID:        common.UUIDint64(),
		Name:      name,
		Discount:  multiplier,
		CreatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&coupon).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create coupon", err.Error())
	}
	return ok(c, coupon)
}

func deleteCoupon(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid coupon ID", nil)
	}

	var coupon domain.Coupon
	if err := GetDB(c).Where("id = ?", id).First(&coupon).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "COUPON_NOT_FOUND", "Coupon not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query coupon", err.Error())
	}

	if err := GetDB(c).Delete(&coupon).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete coupon", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
