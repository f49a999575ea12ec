package adminapi

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/d085/storefront/internal/domain"
	"github.com/d085/storefront/internal/webserver"
	"github.com/d085/storefront/pkg/common"
)

type phonePayload struct {
	Number string `json:"number" validate:"required,min=8,max=30"`
}

var phoneFormatting = regexp.MustCompile(`[()\s-]`)

// registerPhoneRoutes registers the WhatsApp destination number endpoints
func registerPhoneRoutes() {
	webserver.ApiGET("/shop/phone", getPhone)
	webserver.ApiPOST("/shop/phone", createPhone)
	webserver.ApiDELETE("/shop/phone/:id", deletePhone)
}

func getPhone(c echo.Context) error {
	var phone domain.Phone
	err := GetDB(c).Order("id").First(&phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ok(c, nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query phone", err.Error())
	}
	return ok(c, phone)
}

func createPhone(c echo.Context) error {
	var payload phonePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse phone", err.Error())
	}
	number := phoneFormatting.ReplaceAllString(strings.TrimSpace(payload.Number), "")
	if number == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Number is required", nil)
	}

	// only one destination number may exist
	var count int64
	GetDB(c).Model(&domain.Phone{}).Count(&count)
	if count > 0 {
		return fail(c, http.StatusConflict, "PHONE_EXISTS", "Only one saved phone is allowed", nil)
	}

	phone := domain.Phone{
		ID:        common.UUIDint64(),
		Number:    number,
		CreatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&phone).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create phone", err.Error())
	}
	return ok(c, phone)
}

func deletePhone(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid phone ID", nil)
	}

	var phone domain.Phone
	if err := GetDB(c).Where("id = ?", id).First(&phone).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PHONE_NOT_FOUND", "Phone not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query phone", err.Error())
	}

	if err := GetDB(c).Delete(&phone).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete phone", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
