package adminapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vxsahu/crm-system/internal/domain"
	"github.com/vxsahu/crm-system/internal/webserver"
)

// exportHeader is a compatibility contract: existing tooling re-imports
// these files, so order and names must not change.
var exportHeader = []string{
	"Tag Number", "Product Name", "Category", "Specs", "Gate Number",
	"Purchase Date", "Serial No", "Status", "Billing", "Invoice",
	"Price", "Sold Date", "Sold Price", "Sell Invoice", "Remark",
}

// registerExportRoutes registers the CSV export endpoint
func registerExportRoutes() {
	webserver.ApiGET("/products/export", exportProducts)
}

// exportProducts streams the filtered collection as CSV, newest first.
// Rows are written as they are read from a database cursor so memory use
// stays bounded regardless of collection size.
func exportProducts(c echo.Context) error {
	db := applyProductFilters(c, GetDB(c).Model(&domain.Product{}))

	rows, err := db.Order("created_at DESC").Rows()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Export failed", err.Error())
	}
	defer rows.Close()

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	resp.Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="inventory_export_`+time.Now().Format("2006-01-02")+`.csv"`)
	resp.WriteHeader(http.StatusOK)

	// UTF-8 BOM so spreadsheet apps pick the right encoding
	if _, err := resp.Write([]byte("\uFEFF")); err != nil {
		return nil
	}
	if _, err := resp.Write([]byte(strings.Join(exportHeader, ",") + "\n")); err != nil {
		return nil
	}

	gormDB := GetDB(c)
	for rows.Next() {
		var p domain.Product
		if err := gormDB.ScanRows(rows, &p); err != nil {
			// headers are already sent; all we can do is stop the stream
			zap.L().Error("export scan failed", zap.Error(err))
			return nil
		}
		if _, err := resp.Write([]byte(exportRow(p) + "\n")); err != nil {
			return nil
		}
		resp.Flush()
	}
	return nil
}

func exportRow(p domain.Product) string {
	nameWithSpecs := p.ProductName
	if p.Specifications != "" {
		nameWithSpecs += " - " + p.Specifications
	}
	invoice := p.InvoiceNumber
	if invoice == "" {
		invoice = domain.SerialNA
	}
	soldPrice := ""
	if p.SoldPrice != 0 {
		soldPrice = strconv.FormatFloat(p.SoldPrice, 'f', -1, 64)
	}

	fields := []string{
		p.TagNumber,
		quoteCSV(nameWithSpecs),
		quoteCSV(p.Category),
		quoteCSV(p.Specifications),
		p.GateNumber,
		p.PurchaseDate,
		p.SerialNumber,
		p.Status,
		p.BillingStatus,
		invoice,
		strconv.FormatFloat(p.PurchasePrice, 'f', -1, 64),
		p.SoldDate,
		soldPrice,
		p.SellInvoiceNumber,
		quoteCSV(p.Remark),
	}
	return strings.Join(fields, ",")
}

// quoteCSV wraps a free-text field in quotes, doubling embedded quotes.
func quoteCSV(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
