package adminapi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vxsahu/crm-system/internal/domain"
)

func TestExportHeaderContract(t *testing.T) {
	assert.Equal(t, "Tag Number,Product Name,Category,Specs,Gate Number,"+
		"Purchase Date,Serial No,Status,Billing,Invoice,"+
		"Price,Sold Date,Sold Price,Sell Invoice,Remark",
		strings.Join(exportHeader, ","))
}

func TestExportRow(t *testing.T) {
	p := domain.Product{
		TagNumber:         "IT-001",
		ProductName:       "Dell Latitude",
		Category:          "Laptop",
		Specifications:    "CPU: i5 | RAM: 16GB",
		GateNumber:        "G-1",
		PurchaseDate:      "2024-03-05",
		SerialNumber:      "SN-1",
		Status:            domain.StatusSold,
		BillingStatus:     domain.BillingBilled,
		InvoiceNumber:     "INV-9",
		PurchasePrice:     45000,
		SoldDate:          "2024-06-01",
		SoldPrice:         47500.5,
		SellInvoiceNumber: "SI-2",
		Remark:            "ok",
	}

	line := exportRow(p)
	fields := strings.Split(line, ",")
	// the specs field itself contains no commas here, so a naive split
	// yields exactly the 15 header columns
	assert.Len(t, fields, len(exportHeader))

	assert.Equal(t, "IT-001", fields[0])
	assert.Equal(t, `"Dell Latitude - CPU: i5 | RAM: 16GB"`, fields[1])
	assert.Equal(t, `"Laptop"`, fields[2])
	assert.Equal(t, "45000", fields[10])
	assert.Equal(t, "47500.5", fields[12])
}

func TestExportRowPlaceholders(t *testing.T) {
	p := domain.Product{
		TagNumber:    "IT-002",
		ProductName:  "Mouse",
		SerialNumber: domain.SerialNA,
	}
	line := exportRow(p)
	fields := strings.Split(line, ",")

	assert.Equal(t, `"Mouse"`, fields[1]) // no specs, no suffix
	assert.Equal(t, "N/A", fields[9])     // empty invoice exports as N/A
	assert.Equal(t, "0", fields[10])
	assert.Equal(t, "", fields[12]) // zero sold price stays blank
}

func TestQuoteCSV(t *testing.T) {
	assert.Equal(t, `"plain"`, quoteCSV("plain"))
	assert.Equal(t, `"say ""hi"""`, quoteCSV(`say "hi"`))
	assert.Equal(t, `"a, b"`, quoteCSV("a, b"))
}
