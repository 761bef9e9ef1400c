package importer

import (
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"

	"github.com/vxsahu/crm-system/internal/domain"
)

// Format identifies which column layout an uploaded batch uses. It is
// resolved once per batch, not per row.
type Format int

const (
	// FormatLegacy is the historical purchase-sheet layout
	// (Tag No. / Brand / Model -No. / Cpu / Ram / HDD ...).
	FormatLegacy Format = iota
	// FormatExport is the layout produced by the CSV export path.
	FormatExport
)

func (f Format) String() string {
	if f == FormatExport {
		return "export"
	}
	return "legacy"
}

// Days between the spreadsheet epoch (1899-12-30) and the Unix epoch.
const serialDateEpochOffset = 25569

// categoryAliases maps legacy sheet category names onto current ones.
var categoryAliases = map[string]string{
	"TFT":   "Monitor",
	"Phone": "Mobile",
}

// DetectFormat classifies a batch: the presence of a "Tag Number" column
// marks the export layout, anything else is treated as legacy.
func DetectFormat(rows []Row) Format {
	if len(rows) > 0 {
		if _, ok := rows[0]["Tag Number"]; ok {
			return FormatExport
		}
	}
	return FormatLegacy
}

// exportRow binds the export-format columns 1:1. Category and Specs are
// deliberately absent: the export path writes them, but re-import leaves
// them at defaults (a known lossy gap kept for compatibility).
type exportRow struct {
	TagNumber    string `mapstructure:"Tag Number"`
	ProductName  string `mapstructure:"Product Name"`
	GateNumber   string `mapstructure:"Gate Number"`
	PurchaseDate string `mapstructure:"Purchase Date"`
	SerialNo     string `mapstructure:"Serial No"`
	Status       string `mapstructure:"Status"`
	Billing      string `mapstructure:"Billing"`
	Invoice      string `mapstructure:"Invoice"`
	Price        string `mapstructure:"Price"`
	SoldDate     string `mapstructure:"Sold Date"`
	SoldPrice    string `mapstructure:"Sold Price"`
	SellInvoice  string `mapstructure:"Sell Invoice"`
	Remark       string `mapstructure:"Remark"`
}

// Normalize converts raw rows into pre-insert product records, preserving
// input order. It never fails: a malformed row normalizes to best-effort
// defaults instead of aborting the batch.
func Normalize(rows []Row, now time.Time) []domain.Product {
	format := DetectFormat(rows)
	records := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		if format == FormatExport {
			records = append(records, normalizeExportRow(row, now))
		} else {
			records = append(records, normalizeLegacyRow(row, now))
		}
	}
	return records
}

func normalizeExportRow(row Row, now time.Time) domain.Product {
	var r exportRow
	_ = mapstructure.WeakDecode(map[string]string(row), &r)

	serial := r.SerialNo
	if serial == "" {
		serial = domain.SerialNA
	}
	invoice := r.Invoice
	if invoice == domain.SerialNA {
		invoice = ""
	}

	return domain.Product{
		TagNumber:         r.TagNumber,
		ProductName:       r.ProductName,
		PurchaseDate:      normalizeDate(r.PurchaseDate, now),
		SerialNumber:      serial,
		Category:          "Other", // not round-tripped by the export format
		Specifications:    "",
		Status:            r.Status,
		BillingStatus:     r.Billing,
		InvoiceNumber:     invoice,
		PurchasePrice:     cast.ToFloat64(r.Price),
		GateNumber:        r.GateNumber,
		SoldDate:          r.SoldDate,
		SoldPrice:         cast.ToFloat64(r.SoldPrice),
		SellInvoiceNumber: r.SellInvoice,
		Remark:            r.Remark,
	}
}

func normalizeLegacyRow(row Row, now time.Time) domain.Product {
	tag := cast.ToString(row["Tag No."])
	name := strings.TrimSpace(cast.ToString(row["Brand"]) + " " + cast.ToString(row["Model -No."]))

	serial := cast.ToString(row["Serial-No."])
	if serial == "" {
		serial = domain.SerialNA
	}

	status := domain.StatusInStock
	if row["Status"] == "Sale" {
		status = domain.StatusSold
	}

	// The legacy sheet overloads the invoice column: the literal value
	// "Billing Pending" means no invoice has been issued yet.
	billingRaw := cast.ToString(row["Invoice No."])
	billingStatus := domain.BillingBilled
	invoice := billingRaw
	if billingRaw == "Billing Pending" {
		billingStatus = domain.BillingUnbilled
		invoice = ""
	}

	var specsParts []string
	if v := row["Cpu"]; v != "" {
		specsParts = append(specsParts, "CPU: "+v)
	}
	if v := row["Ram"]; v != "" {
		specsParts = append(specsParts, "RAM: "+v)
	}
	if v := row["HDD"]; v != "" {
		specsParts = append(specsParts, "Storage: "+v)
	}
	specs := strings.Join(specsParts, " | ")
	if specs == "" {
		specs = cast.ToString(row["Model -No."])
	}

	category := cast.ToString(row["Product"])
	if category == "" {
		category = "Other"
	}
	if alias, ok := categoryAliases[category]; ok {
		category = alias
	}

	gatePass := cast.ToString(row["Gate Pass No"])
	if gatePass == "" {
		gatePass = domain.SerialNA
	}

	return domain.Product{
		TagNumber:      tag,
		ProductName:    name,
		PurchaseDate:   normalizeDate(row["Date"], now),
		SerialNumber:   serial,
		Category:       category,
		Specifications: specs,
		Status:         status,
		BillingStatus:  billingStatus,
		InvoiceNumber:  invoice,
		PurchasePrice:  cast.ToFloat64(row["Tax Inculding Amount"]),
		Remark:         "Imported from sheet. Gate Pass: " + gatePass,
	}
}

// normalizeDate accepts either a numeric spreadsheet serial date or a
// literal date string. Serial dates convert through the fixed epoch offset;
// strings pass through unchanged; a missing value defaults to today.
func normalizeDate(raw string, now time.Time) string {
	if raw == "" {
		return now.Format("2006-01-02")
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		secs := int64((serial - serialDateEpochOffset) * 86400)
		return time.Unix(secs, 0).UTC().Format("2006-01-02")
	}
	return raw
}
