package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d085/storefront/internal/domain"
	"github.com/d085/storefront/internal/webserver"
	"github.com/d085/storefront/pkg/common"
)

type productImagePayload struct {
	ID  string `json:"id" validate:"required"`
	URL string `json:"url" validate:"required,url"`
}

type productPayload struct {
	Name        string                `json:"name" validate:"required,min=1,max=200"`
	Description string                `json:"description" validate:"max=2000"`
	Category    string                `json:"category" validate:"required"`
	Price       float64               `json:"price" validate:"required,gt=0"`
	Variations  []string              `json:"variations"`
	Images      []productImagePayload `json:"images" validate:"min=1"`
}

// registerProductRoutes registers product CRUD endpoints
func registerProductRoutes() {
	webserver.ApiGET("/shop/products", listProducts)
	webserver.ApiGET("/shop/products/:id", getProduct)
	webserver.ApiPOST("/shop/products", createProduct)
	webserver.ApiPUT("/shop/products/:id", updateProduct)
	webserver.ApiDELETE("/shop/products/:id", deleteProduct)
}

// priceToCents converts a form price in major units to minor units.
func priceToCents(price float64) int64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Product{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?", like, like, like)
	}
	if category := strings.TrimSpace(c.QueryParam("category")); category != "" {
		db = db.Where("category = ?", category)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.Product
	if err := db.Preload("Images").Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	return paged(c, rows, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	var p domain.Product
	if err := GetDB(c).Preload("Images").Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	return ok(c, p)
}

func validateProductPayload(payload *productPayload) string {
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Category = strings.TrimSpace(payload.Category)
	switch {
	case payload.Name == "":
		return "Name is required"
	case payload.Category == "":
		return "Category is required"
	case payload.Price <= 0:
		return "Price must be greater than zero"
	case len(payload.Images) == 0:
		return "At least one image is required"
	}
	return ""
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if msg := validateProductPayload(&payload); msg != "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}

	var count int64
	GetDB(c).Model(&domain.Product{}).Where("name = ?", payload.Name).Count(&count)
	if count > 0 {
		return fail(c, http.StatusConflict, "PRODUCT_EXISTS", "A product with this name already exists", nil)
	}

	now := time.Now()
	p := domain.Product{
		ID:          common.UUIDint64(),
		Name:        payload.Name,
		Description: strings.TrimSpace(payload.Description),
		Category:    payload.Category,
		Price:       priceToCents(payload.Price),
		Variations:  payload.Variations,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, img := range payload.Images {
		p.Images = append(p.Images, domain.ProductImage{
			ID:         common.UUIDint64(),
			ExternalID: img.ID,
			URL:        img.URL,
		})
	}

	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	var p domain.Product
	if err := GetDB(c).Preload("Images").Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if msg := validateProductPayload(&payload); msg != "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}

	// renames must not collide with another product
	if payload.Name != p.Name {
		var count int64
		GetDB(c).Model(&domain.Product{}).Where("name = ?", payload.Name).Count(&count)
		if count > 0 {
			return fail(c, http.StatusConflict, "PRODUCT_EXISTS", "A product with this name already exists", nil)
		}
	}

	p.Name = payload.Name
	p.Description = strings.TrimSpace(payload.Description)
	p.Category = payload.Category
	p.Price = priceToCents(payload.Price)
	p.Variations = payload.Variations
	p.UpdatedAt = time.Now()

	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", p.ID).Delete(&domain.ProductImage{}).Error; err != nil {
			return err
		}
		p.Images = nil
		for _, img := range payload.Images {
			p.Images = append(p.Images, domain.ProductImage{
				ID:         common.UUIDint64(),
				ProductID:  p.ID,
				ExternalID: img.ID,
				URL:        img.URL,
			})
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&p).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	var p domain.Product
	if err := GetDB(c).Preload("Images").Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	destroyProductImages(c, p)

	if err := GetDB(c).Select("Images").Delete(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}

// destroyProductImages asks the external image store to drop each stored
// image. Best-effort: one attempt per image, failures are logged and the
// database delete proceeds regardless.
func destroyProductImages(c echo.Context, p domain.Product) {
	ctx := c.Request().Context()
	for _, img := range p.Images {
		if err := imageStore.Destroy(ctx, img.ExternalID); err != nil {
			zap.L().Warn("image store cleanup failed",
				zap.Int64("product_id", p.ID),
				zap.String("image_id", img.ExternalID),
				zap.Error(err))
		}
	}
}
