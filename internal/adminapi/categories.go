package adminapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/d085/storefront/internal/domain"
	"github.com/d085/storefront/internal/webserver"
	"github.com/d085/storefront/pkg/common"
)

type categoryPayload struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// registerCategoryRoutes registers category endpoints
func registerCategoryRoutes() {
	webserver.ApiGET("/shop/categories", listCategories)
	webserver.ApiPOST("/shop/categories", createCategory)
	webserver.ApiDELETE("/shop/categories/:id", deleteCategory)
}

func listCategories(c echo.Context) error {
	var rows []domain.Category
	if err := GetDB(c).Order("name").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return ok(c, rows)
}

func createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	name := common.TitleWords(payload.Name)
	if name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}

	var count int64
	GetDB(c).Model(&domain.Category{}).Where("name = ?", name).Count(&count)
	if count > 0 {
		return fail(c, http.StatusConflict, "CATEGORY_EXISTS", "A category with this name already exists", nil)
	}

	category := domain.Category{
		ID:        common.UUIDint64(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&category).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create category", err.Error())
	}
	return ok(c, category)
}

// deleteCategory cascades: every product in the category is deleted, each
// with a best-effort image store cleanup, before the category row goes.
func deleteCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}

	var category domain.Category
	if err := GetDB(c).Where("id = ?", id).First(&category).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category", err.Error())
	}

	var products []domain.Product
	if err := GetDB(c).Preload("Images").Where("category = ?", category.Name).Find(&products).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category products", err.Error())
	}
	for _, p := range products {
		destroyProductImages(c, p)
	}

	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		for _, p := range products {
			if err := tx.Select("Images").Delete(&p).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete category", err.Error())
	}

	return ok(c, map[string]interface{}{"id": id, "deleted_products": len(products)})
}
