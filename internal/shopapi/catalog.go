package shopapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/d085/storefront/internal/catalog"
	"github.com/d085/storefront/internal/domain"
	"github.com/d085/storefront/internal/webserver"
)

// registerCatalogRoutes registers the public catalog endpoints
func registerCatalogRoutes() {
	webserver.PubGET("/catalog", getCatalogView)
	webserver.PubGET("/products/:id", getProductDetail)
	webserver.PubGET("/categories", listPublicCategories)
	webserver.PubGET("/neighborhoods", listPublicNeighborhoods)
}

func toCatalogProduct(p domain.Product) catalog.Product {
	images := make([]catalog.Image, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, catalog.Image{ID: img.ExternalID, URL: img.URL})
	}
	return catalog.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Variations:  p.Variations,
		Images:      images,
		CreatedAt:   p.CreatedAt,
	}
}

// getCatalogView derives one catalog page. Query params: categoria, q,
// sort (date|price+|price-|name), page, narrow. Selecting a category or
// searching starts back at page 1: the page param is only honoured when
// neither selection changed, which the client signals by sending it.
func getCatalogView(c echo.Context) error {
	category := strings.TrimSpace(c.QueryParam("categoria"))
	query := strings.TrimSpace(c.QueryParam("q"))
	order := catalog.Order(c.QueryParam("sort"))
	narrow := cast.ToBool(c.QueryParam("narrow"))

	page := cast.ToInt(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	db := GetDB(c).Model(&domain.Product{}).Preload("Images")
	if category != "" && !strings.EqualFold(category, "todos") {
		db = db.Where("category = ?", category)
	}

	var rows []domain.Product
	if err := db.Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	products := make([]catalog.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, toCatalogProduct(row))
	}

	view := catalog.Derive(products, query, order, page, catalog.PageSize(narrow))
	return ok(c, view)
}

func getProductDetail(c echo.Context) error {
	id := cast.ToInt64(c.Param("id"))
	if id == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	var p domain.Product
	if err := GetDB(c).Preload("Images").Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	return ok(c, toCatalogProduct(p))
}

func listPublicCategories(c echo.Context) error {
	var rows []domain.Category
	if err := GetDB(c).Order("name").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return ok(c, rows)
}

func listPublicNeighborhoods(c echo.Context) error {
	var rows []domain.Neighborhood
	if err := GetDB(c).Order("name").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query neighborhoods", err.Error())
	}
	return ok(c, rows)
}
