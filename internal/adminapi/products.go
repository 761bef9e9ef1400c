package adminapi

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vxsahu/crm-system/internal/domain"
	"github.com/vxsahu/crm-system/internal/importer"
	"github.com/vxsahu/crm-system/internal/oplog"
	"github.com/vxsahu/crm-system/internal/webserver"
	"github.com/vxsahu/crm-system/pkg/common"
)

// registerProductRoutes registers product CRUD endpoints
func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProducts)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

// applyProductFilters adds the shared status/billing/search conditions used
// by both the list and the export paths.
func applyProductFilters(c echo.Context, db *gorm.DB) *gorm.DB {
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" && status != "ALL" {
		db = db.Where("status = ?", status)
	}
	if billing := strings.TrimSpace(c.QueryParam("billing")); billing != "" && billing != "ALL" {
		db = db.Where("billing_status = ?", billing)
	}
	if search := strings.TrimSpace(c.QueryParam("search")); search != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			like := "%" + search + "%"
			db = db.Where("tag_number ILIKE ? OR product_name ILIKE ? OR serial_number ILIKE ? OR category ILIKE ?",
				like, like, like, like)
		} else {
			like := "%" + strings.ToLower(search) + "%"
			db = db.Where("LOWER(tag_number) LIKE ? OR LOWER(product_name) LIKE ? OR LOWER(serial_number) LIKE ? OR LOWER(category) LIKE ?",
				like, like, like, like)
		}
	}
	return db
}

// listProducts returns the product collection with optional status,
// billing and search filters; without explicit pagination the whole
// collection is returned, newest first.
func listProducts(c echo.Context) error {
	db := applyProductFilters(c, GetDB(c).Model(&domain.Product{}))

	page, perPage := parsePagination(c)

	if perPage == 0 {
		var rows []domain.Product
		if err := db.Order("created_at DESC").Find(&rows).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
		}
		return ok(c, rows)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	var rows []domain.Product
	if err := db.Order("created_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return paged(c, rows, total, page, perPage)
}

func getProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

// createProducts accepts either a single product object or an array; an
// array goes through the full bulk import pipeline (duplicate detection,
// chunked insert).
func createProducts(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read request", err.Error())
	}

	if isJSONArray(body) {
		var records []domain.Product
		if err := jsonUnmarshal(body, &records); err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product list", err.Error())
		}
		svc := importer.NewService(GetDB(c))
		result, err := svc.Import(c.Request().Context(), records)
		if err != nil {
			return failImportError(c, err)
		}
		GetApp(c).OpLog().Publish(oplog.Entry{
			OprName: operatorName(c),
			OprIp:   c.RealIP(),
			Action:  "bulk_create_products",
			Desc:    "imported " + strconv.Itoa(len(result.Inserted)) + " products",
		})
		return created(c, result)
	}

	var p domain.Product
	if err := jsonUnmarshal(body, &p); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := validateProduct(&p); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	p.ID = common.UUIDint64()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	if err := GetDB(c).Create(&p).Error; err != nil {
		if isDuplicateErr(err) {
			return fail(c, http.StatusConflict, "DUPLICATE_KEY", "Tag or serial number already exists", err.Error())
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}

	GetApp(c).OpLog().Publish(oplog.Entry{
		OprName: operatorName(c),
		OprIp:   c.RealIP(),
		Action:  "create_product",
		Desc:    "created product " + p.TagNumber,
	})
	return created(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	var payload domain.Product
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := validateProduct(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	// full-record update; id and creation time are immutable
	payload.ID = p.ID
	payload.CreatedAt = p.CreatedAt
	payload.UpdatedAt = time.Now()
	if err := GetDB(c).Save(&payload).Error; err != nil {
		if isDuplicateErr(err) {
			return fail(c, http.StatusConflict, "DUPLICATE_KEY", "Tag or serial number already exists", err.Error())
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}

	GetApp(c).OpLog().Publish(oplog.Entry{
		OprName: operatorName(c),
		OprIp:   c.RealIP(),
		Action:  "update_product",
		Desc:    "updated product " + payload.TagNumber,
	})
	return ok(c, payload)
}

func deleteProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	result := GetDB(c).Where("id = ?", id).Delete(&domain.Product{})
	if result.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	GetApp(c).OpLog().Publish(oplog.Entry{
		OprName: operatorName(c),
		OprIp:   c.RealIP(),
		Action:  "delete_product",
		Desc:    "deleted product id " + strconv.FormatInt(id, 10),
	})
	return ok(c, map[string]interface{}{"id": id})
}

func validateProduct(p *domain.Product) error {
	p.TagNumber = strings.TrimSpace(p.TagNumber)
	p.ProductName = strings.TrimSpace(p.ProductName)
	if p.TagNumber == "" {
		return &importer.ValidationError{Field: "tagNumber", Reason: "required"}
	}
	if p.ProductName == "" {
		return &importer.ValidationError{Field: "productName", Reason: "required"}
	}
	if p.PurchasePrice < 0 {
		return &importer.ValidationError{Field: "purchasePrice", Reason: "must be non-negative"}
	}
	if p.SerialNumber == "" {
		p.SerialNumber = domain.SerialNA
	}
	if p.Status == "" {
		p.Status = domain.StatusInStock
	}
	if !domain.ValidStatus(p.Status) {
		return &importer.ValidationError{Field: "status", Reason: "must be one of In Stock, Sold, Returned"}
	}
	if p.BillingStatus == "" {
		p.BillingStatus = domain.BillingUnbilled
	}
	if !domain.ValidBillingStatus(p.BillingStatus) {
		return &importer.ValidationError{Field: "billingStatus", Reason: "must be Billed or Unbilled"}
	}
	return nil
}

func isJSONArray(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

func jsonUnmarshal(data []byte, v interface{}) error {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, v)
}
