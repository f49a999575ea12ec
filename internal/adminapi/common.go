package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/d085/storefront/internal/imagestore"
	"github.com/d085/storefront/internal/otp"
)

var (
	imageStore imagestore.Destroyer = imagestore.Noop{}
	otpService *otp.Service
)

// Register wires the admin API routes and their collaborators.
func Register(images imagestore.Destroyer, codes *otp.Service) {
	if images != nil {
		imageStore = images
	}
	otpService = codes

	registerAuthRoutes()
	registerAccountRoutes()
	registerProductRoutes()
	registerCategoryRoutes()
	registerCouponRoutes()
	registerNeighborhoodRoutes()
	registerPhoneRoutes()
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

func paged(c echo.Context, items interface{}, total int64, page, pageSize int) error {
	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": "OK",
		"data": map[string]interface{}{
			"items":       items,
			"total":       total,
			"page":        page,
			"per_page":    pageSize,
			"total_pages": totalPages,
		},
	})
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page = cast.ToInt(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize = cast.ToInt(c.QueryParam("perPage"))
	if pageSize < 1 || pageSize > 500 {
		pageSize = 20
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", name)
	}
	return id, nil
}
