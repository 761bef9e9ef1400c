package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vxsahu/crm-system/internal/domain"
	"github.com/vxsahu/crm-system/internal/oplog"
	"github.com/vxsahu/crm-system/internal/webserver"
)

// ids arrive as strings because product ids serialize as strings.
type bulkDeletePayload struct {
	Ids []string `json:"ids"`
}

type bulkStatusPayload struct {
	Ids    []string `json:"ids"`
	Status string   `json:"status"`
}

func parseIds(raw []string) []int64 {
	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// registerBulkRoutes registers bulk delete / bulk status-update endpoints
func registerBulkRoutes() {
	webserver.ApiDELETE("/products/bulk", bulkDeleteProducts)
	webserver.ApiPATCH("/products/bulk", bulkUpdateStatus)
}

// bulkDeleteProducts deletes the supplied id set and reports the count of
// rows actually removed; stale ids simply do not contribute to the count.
func bulkDeleteProducts(c echo.Context) error {
	var payload bulkDeletePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	ids := parseIds(payload.Ids)
	if len(ids) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "ids must be a non-empty array", nil)
	}

	result := GetDB(c).Where("id IN ?", ids).Delete(&domain.Product{})
	if result.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete products", result.Error.Error())
	}

	GetApp(c).OpLog().Publish(oplog.Entry{
		OprName: operatorName(c),
		OprIp:   c.RealIP(),
		Action:  "bulk_delete_products",
		Desc:    "deleted " + strconv.FormatInt(result.RowsAffected, 10) + " products",
	})
	return ok(c, map[string]interface{}{
		"success":      true,
		"deletedCount": result.RowsAffected,
	})
}

// bulkUpdateStatus sets the lifecycle status for the supplied id set and
// reports the count of rows actually modified.
func bulkUpdateStatus(c echo.Context) error {
	var payload bulkStatusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	ids := parseIds(payload.Ids)
	if len(ids) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "ids must be a non-empty array", nil)
	}
	if payload.Status == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "status is required", nil)
	}
	if !domain.ValidStatus(payload.Status) {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "status must be one of In Stock, Sold, Returned", nil)
	}

	result := GetDB(c).Model(&domain.Product{}).
		Where("id IN ?", ids).
		Update("status", payload.Status)
	if result.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update products", result.Error.Error())
	}

	GetApp(c).OpLog().Publish(oplog.Entry{
		OprName: operatorName(c),
		OprIp:   c.RealIP(),
		Action:  "bulk_update_status",
		Desc:    "set status " + payload.Status + " on " + strconv.FormatInt(result.RowsAffected, 10) + " products",
	})
	return ok(c, map[string]interface{}{
		"success":       true,
		"modifiedCount": result.RowsAffected,
	})
}
