package adminapi

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vxsahu/crm-system/internal/domain"
	"github.com/vxsahu/crm-system/internal/importer"
)

func TestValidateProductDefaults(t *testing.T) {
	p := domain.Product{TagNumber: " IT-1 ", ProductName: " Mouse "}
	require.NoError(t, validateProduct(&p))

	assert.Equal(t, "IT-1", p.TagNumber)
	assert.Equal(t, "Mouse", p.ProductName)
	assert.Equal(t, domain.SerialNA, p.SerialNumber)
	assert.Equal(t, domain.StatusInStock, p.Status)
	assert.Equal(t, domain.BillingUnbilled, p.BillingStatus)
}

func TestValidateProductRejects(t *testing.T) {
	cases := []struct {
		name    string
		product domain.Product
		field   string
	}{
		{"missing tag", domain.Product{ProductName: "X"}, "tagNumber"},
		{"missing name", domain.Product{TagNumber: "T1"}, "productName"},
		{"negative price", domain.Product{TagNumber: "T1", ProductName: "X", PurchasePrice: -5}, "purchasePrice"},
		{"bad status", domain.Product{TagNumber: "T1", ProductName: "X", Status: "Lost"}, "status"},
		{"bad billing", domain.Product{TagNumber: "T1", ProductName: "X", BillingStatus: "Pending"}, "billingStatus"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateProduct(&tc.product)
			var verr *importer.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestParseIds(t *testing.T) {
	assert.Equal(t, []int64{7340032917098496, 12}, parseIds([]string{"7340032917098496", "12"}))
	// non-numeric entries are dropped, not fatal
	assert.Equal(t, []int64{1}, parseIds([]string{"1", "abc", ""}))
	assert.Empty(t, parseIds(nil))
}

func TestIsJSONArray(t *testing.T) {
	assert.True(t, isJSONArray([]byte(`[{"tagNumber":"T1"}]`)))
	assert.True(t, isJSONArray([]byte("  \n\t[1]")))
	assert.False(t, isJSONArray([]byte(`{"tagNumber":"T1"}`)))
	assert.False(t, isJSONArray(nil))
}

func TestParsePagination(t *testing.T) {
	ctx := func(query string) echo.Context {
		req := httptest.NewRequest("GET", "/api/v1/crm/products?"+query, nil)
		return echo.New().NewContext(req, httptest.NewRecorder())
	}

	page, perPage := parsePagination(ctx(""))
	assert.Equal(t, 1, page)
	assert.Equal(t, 0, perPage) // default: full collection

	page, perPage = parsePagination(ctx("page=3&perPage=25"))
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, perPage)

	_, perPage = parsePagination(ctx("perPage=9999"))
	assert.Equal(t, 0, perPage) // out of range falls back to everything

	page, _ = parsePagination(ctx("page=-2"))
	assert.Equal(t, 1, page)
}

func TestIsDuplicateErr(t *testing.T) {
	assert.False(t, isDuplicateErr(nil))
	assert.True(t, isDuplicateErr(errUnique{"UNIQUE constraint failed: crm_product.tag_number"}))
	assert.True(t, isDuplicateErr(errUnique{`duplicate key value violates unique constraint "idx_crm_product_serial"`}))
	assert.False(t, isDuplicateErr(errUnique{"connection refused"}))
}

type errUnique struct{ msg string }

func (e errUnique) Error() string { return e.msg }
