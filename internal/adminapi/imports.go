package adminapi

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vxsahu/crm-system/internal/importer"
	"github.com/vxsahu/crm-system/internal/oplog"
	"github.com/vxsahu/crm-system/internal/webserver"
)

// registerImportRoutes registers the spreadsheet import endpoint
func registerImportRoutes() {
	webserver.ApiPOST("/products/import", importProducts)
}

// importProducts imports products from an uploaded .xlsx/.xls/.csv file.
// The file goes through format detection and normalization before the
// bulk pipeline runs.
func importProducts(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "FILE_REQUIRED", "Please upload a spreadsheet file", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "PARSE_ERROR", "Unable to open uploaded file", err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fail(c, http.StatusBadRequest, "PARSE_ERROR", "Unable to read uploaded file", err.Error())
	}

	svc := importer.NewService(GetDB(c))
	result, err := svc.ImportFile(c.Request().Context(), fileHeader.Filename, data, time.Now())
	if err != nil {
		return failImportError(c, err)
	}

	GetApp(c).OpLog().Publish(oplog.Entry{
		OprName: operatorName(c),
		OprIp:   c.RealIP(),
		Action:  "import_products",
		Desc: "imported " + strconv.Itoa(len(result.Inserted)) + " products from " +
			fileHeader.Filename + " (" + strconv.Itoa(len(result.Failures)) + " failed)",
	})
	return created(c, result)
}
