package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vxsahu/crm-system/internal/domain"
)

func TestImportEmptyBatch(t *testing.T) {
	svc := NewService(openTestDB(t))
	_, err := svc.Import(context.Background(), nil)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestImportRequiresTagNumber(t *testing.T) {
	svc := NewService(openTestDB(t))
	_, err := svc.Import(context.Background(), []domain.Product{
		{TagNumber: "T1", SerialNumber: "S1"},
		{TagNumber: "", SerialNumber: "S2"},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "tagNumber", verr.Field)
	assert.Contains(t, verr.Reason, "row 2")
}

func TestImportRejectsNegativePrice(t *testing.T) {
	svc := NewService(openTestDB(t))
	_, err := svc.Import(context.Background(), []domain.Product{
		{TagNumber: "T1", SerialNumber: "S1", PurchasePrice: -1},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "purchasePrice", verr.Field)
}

func TestImportRejectsUnknownStatus(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	_, err := svc.Import(context.Background(), []domain.Product{
		{TagNumber: "T1", SerialNumber: "S1", Status: "Lost", BillingStatus: "Maybe"},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)
	assert.Contains(t, verr.Reason, "row 1")

	var count int64
	require.NoError(t, db.Model(&domain.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestImportRejectsUnknownBilling(t *testing.T) {
	svc := NewService(openTestDB(t))
	_, err := svc.Import(context.Background(), []domain.Product{
		{TagNumber: "T1", SerialNumber: "S1", Status: domain.StatusSold, BillingStatus: "Pending"},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "billingStatus", verr.Field)
}

func TestImportDefaultsStatusAndBilling(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	// empty status, billing and serial take the same defaults as the
	// single-record create path
	result, err := svc.Import(context.Background(), []domain.Product{
		{TagNumber: "T1", ProductName: "A"},
		{TagNumber: "T2", ProductName: "B"},
	})
	require.NoError(t, err)
	require.Len(t, result.Inserted, 2)

	var persisted domain.Product
	require.NoError(t, db.Where("tag_number = ?", "T1").First(&persisted).Error)
	assert.Equal(t, domain.StatusInStock, persisted.Status)
	assert.Equal(t, domain.BillingUnbilled, persisted.BillingStatus)
	assert.Equal(t, domain.SerialNA, persisted.SerialNumber)
}

func TestImportSuccess(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	result, err := svc.Import(context.Background(), []domain.Product{
		{TagNumber: "T1", SerialNumber: "S1", ProductName: "A", Status: domain.StatusInStock},
		{TagNumber: "T2", SerialNumber: domain.SerialNA, ProductName: "B", Status: domain.StatusSold},
	})
	require.NoError(t, err)
	require.Len(t, result.Inserted, 2)
	assert.Empty(t, result.Failures)

	for _, p := range result.Inserted {
		assert.NotZero(t, p.ID)
	}

	var count int64
	require.NoError(t, db.Model(&domain.Product{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestImportRejectsDatabaseDuplicates(t *testing.T) {
	db := openTestDB(t)
	seedProduct(t, db, "TAKEN", "SER-X")
	svc := NewService(db)

	_, err := svc.Import(context.Background(), []domain.Product{
		{TagNumber: "TAKEN", SerialNumber: "S1"},
	})

	var dup *DuplicateInDatabaseError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, []string{"TAKEN"}, dup.Tags)

	// nothing was written
	var count int64
	require.NoError(t, db.Model(&domain.Product{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestImportRejectsBatchDuplicates(t *testing.T) {
	svc := NewService(openTestDB(t))
	_, err := svc.Import(context.Background(), []domain.Product{
		{TagNumber: "T1", SerialNumber: "S1"},
		{TagNumber: "T1", SerialNumber: "S2"},
	})

	var dup *DuplicateInBatchError
	require.ErrorAs(t, err, &dup)
}

func TestImportManyNASerials(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	batch := []domain.Product{
		{TagNumber: "T1", SerialNumber: domain.SerialNA},
		{TagNumber: "T2", SerialNumber: domain.SerialNA},
		{TagNumber: "T3", SerialNumber: domain.SerialNA},
	}
	result, err := svc.Import(context.Background(), batch)
	require.NoError(t, err)
	assert.Len(t, result.Inserted, 3)

	// a later batch may repeat N/A serials freely
	result, err = svc.Import(context.Background(), []domain.Product{
		{TagNumber: "T4", SerialNumber: domain.SerialNA},
	})
	require.NoError(t, err)
	assert.Len(t, result.Inserted, 1)
}

func TestImportFileCSV(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	csv := strings.Join([]string{
		"Tag Number,Product Name,Serial No,Status,Billing,Price",
		"IT-1,Dell Monitor,SN-1,In Stock,Unbilled,7000",
		"IT-2,HP Keyboard,,In Stock,Billed,900",
	}, "\n")

	result, err := svc.ImportFile(context.Background(), "upload.csv", []byte(csv), testNow)
	require.NoError(t, err)
	require.Len(t, result.Inserted, 2)

	assert.Equal(t, "IT-1", result.Inserted[0].TagNumber)
	assert.Equal(t, 7000.0, result.Inserted[0].PurchasePrice)
	assert.Equal(t, domain.SerialNA, result.Inserted[1].SerialNumber)
}

func TestImportFileBadPayload(t *testing.T) {
	svc := NewService(openTestDB(t))
	_, err := svc.ImportFile(context.Background(), "upload.xlsx", []byte("not a workbook"), testNow)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}
