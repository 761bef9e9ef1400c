package domain

import "time"

// Product status values as stored and exported. The string forms are a
// compatibility contract with existing spreadsheets and CSV exports.
const (
	StatusInStock  = "In Stock"
	StatusSold     = "Sold"
	StatusReturned = "Returned"

	BillingBilled   = "Billed"
	BillingUnbilled = "Unbilled"
)

// SerialNA marks an untracked serial number; the partial unique index on
// serial_number excludes it so it may repeat.
const SerialNA = "N/A"

// Product is a single physical unit of inventory identified by its tag number.
type Product struct {
	ID                int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	TagNumber         string    `gorm:"uniqueIndex;size:64" json:"tagNumber" form:"tagNumber"`
	SerialNumber      string    `gorm:"size:128;index:idx_crm_product_serial,unique,where:serial_number <> 'N/A'" json:"serialNumber" form:"serialNumber"`
	PurchaseDate      string    `gorm:"size:32" json:"purchaseDate" form:"purchaseDate"` // YYYY-MM-DD
	ProductName       string    `gorm:"index" json:"productName" form:"productName"`
	Category          string    `gorm:"index;size:64" json:"category" form:"category"`
	Specifications    string    `json:"specifications" form:"specifications"`
	Status            string    `gorm:"index;size:32" json:"status" form:"status"`
	BillingStatus     string    `gorm:"index;size:32" json:"billingStatus" form:"billingStatus"`
	InvoiceNumber     string    `gorm:"size:64" json:"invoiceNumber" form:"invoiceNumber"`
	PurchasePrice     float64   `json:"purchasePrice" form:"purchasePrice"`
	GateNumber        string    `gorm:"size:64" json:"gateNumber" form:"gateNumber"`
	SoldDate          string    `gorm:"size:32" json:"soldDate" form:"soldDate"`
	SoldPrice         float64   `json:"soldPrice" form:"soldPrice"`
	SellInvoiceNumber string    `gorm:"size:64" json:"sellInvoiceNumber" form:"sellInvoiceNumber"`
	Remark            string    `json:"remark" form:"remark"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "crm_product"
}

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s string) bool {
	switch s {
	case StatusInStock, StatusSold, StatusReturned:
		return true
	}
	return false
}

// ValidBillingStatus reports whether s is a known billing state.
func ValidBillingStatus(s string) bool {
	return s == BillingBilled || s == BillingUnbilled
}
