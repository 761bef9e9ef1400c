package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vxsahu/crm-system/internal/dashboard"
	"github.com/vxsahu/crm-system/internal/domain"
	"github.com/vxsahu/crm-system/internal/webserver"
)

// registerDashboardRoutes registers the dashboard reporting endpoint
func registerDashboardRoutes() {
	webserver.ApiGET("/dashboard", getDashboard)
}

// getDashboard loads the whole collection in insertion order and derives
// every reporting view from it on each call.
func getDashboard(c echo.Context) error {
	var products []domain.Product
	// id breaks ties inside one bulk insert where every row shares a
	// creation timestamp; ids are monotonic
	if err := GetDB(c).Order("created_at ASC, id ASC").Find(&products).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return ok(c, dashboard.BuildOverview(products, time.Now()))
}
