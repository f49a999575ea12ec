package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/d085/storefront/internal/domain"
	"github.com/d085/storefront/internal/webserver"
	"github.com/d085/storefront/pkg/common"
)

type neighborhoodPayload struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
	// Price is the delivery fee in major units, converted to cents on save.
	Price float64 `json:"price" validate:"required,gte=0"`
}

// registerNeighborhoodRoutes registers delivery area endpoints
func registerNeighborhoodRoutes() {
	webserver.ApiGET("/shop/neighborhoods", listNeighborhoods)
	webserver.ApiPOST("/shop/neighborhoods", createNeighborhood)
	webserver.ApiDELETE("/shop/neighborhoods/:id", deleteNeighborhood)
}

func listNeighborhoods(c echo.Context) error {
	var rows []domain.Neighborhood
	if err := GetDB(c).Order("name").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query neighborhoods", err.Error())
	}
	return ok(c, rows)
}

func createNeighborhood(c echo.Context) error {
	var payload neighborhoodPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse neighborhood", err.Error())
	}
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}
	if payload.Price < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Price must not be negative", nil)
	}

	var count int64
	GetDB(c).Model(&domain.Neighborhood{}).Where("name = ?", name).Count(&count)
	if count > 0 {
		return fail(c, http.StatusConflict, "NEIGHBORHOOD_EXISTS", "This neighborhood is already saved", nil)
	}

	neighborhood := domain.Neighborhood{
		ID:        common.UUIDint64(),
		Name:      name,
		Price:     priceToCents(payload.Price),
		CreatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&neighborhood).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create neighborhood", err.Error())
	}
	return ok(c, neighborhood)
}

func deleteNeighborhood(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid neighborhood ID", nil)
	}

	var neighborhood domain.Neighborhood
	if err := GetDB(c).Where("id = ?", id).First(&neighborhood).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NEIGHBORHOOD_NOT_FOUND", "Neighborhood not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query neighborhood", err.Error())
	}

	if err := GetDB(c).Delete(&neighborhood).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete neighborhood", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
