package importer

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vxsahu/crm-system/internal/domain"
	"github.com/vxsahu/crm-system/pkg/common"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.Product{}))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, tag, serial string) {
	t.Helper()
	p := domain.Product{
		ID:           common.UUIDint64(),
		TagNumber:    tag,
		SerialNumber: serial,
		ProductName:  "seed",
		Status:       domain.StatusInStock,
	}
	require.NoError(t, db.Create(&p).Error)
}

func TestCheckBatchTagCollision(t *testing.T) {
	err := CheckBatch([]domain.Product{
		{TagNumber: "T1", SerialNumber: "S1"},
		{TagNumber: "T2", SerialNumber: "S2"},
		{TagNumber: "T1", SerialNumber: "S3"},
	})
	require.Error(t, err)

	var dup *DuplicateInBatchError
	require.ErrorAs(t, err, &dup)
	require.Len(t, dup.Conflicts, 1)
	assert.Equal(t, "tagNumber", dup.Conflicts[0].Field)
	assert.Equal(t, "T1", dup.Conflicts[0].Value)
	assert.Equal(t, []int{1, 3}, dup.Conflicts[0].Rows)
}

func TestCheckBatchSerialCollision(t *testing.T) {
	err := CheckBatch([]domain.Product{
		{TagNumber: "T1", SerialNumber: "DUP"},
		{TagNumber: "T2", SerialNumber: "DUP"},
	})
	var dup *DuplicateInBatchError
	require.ErrorAs(t, err, &dup)
	require.Len(t, dup.Conflicts, 1)
	assert.Equal(t, "serialNumber", dup.Conflicts[0].Field)
}

func TestCheckBatchNASerialsExempt(t *testing.T) {
	err := CheckBatch([]domain.Product{
		{TagNumber: "T1", SerialNumber: domain.SerialNA},
		{TagNumber: "T2", SerialNumber: domain.SerialNA},
		{TagNumber: "T3", SerialNumber: domain.SerialNA},
	})
	assert.NoError(t, err)
}

func TestCheckBatchConflictOrder(t *testing.T) {
	err := CheckBatch([]domain.Product{
		{TagNumber: "T1", SerialNumber: "B"},
		{TagNumber: "T1", SerialNumber: "A"},
		{TagNumber: "T2", SerialNumber: "A"},
		{TagNumber: "T3", SerialNumber: "B"},
	})
	var dup *DuplicateInBatchError
	require.ErrorAs(t, err, &dup)
	require.Len(t, dup.Conflicts, 3)
	// report order follows the first offending row
	for i := 1; i < len(dup.Conflicts); i++ {
		assert.LessOrEqual(t, dup.Conflicts[i-1].Rows[0], dup.Conflicts[i].Rows[0])
	}
}

func TestCheckDatabaseDuplicates(t *testing.T) {
	db := openTestDB(t)
	seedProduct(t, db, "EXIST-1", "SER-1")
	seedProduct(t, db, "EXIST-2", domain.SerialNA)

	err := NewDetector(db).Check(context.Background(), []domain.Product{
		{TagNumber: "EXIST-1", SerialNumber: "NEW-1"},
		{TagNumber: "NEW-2", SerialNumber: "SER-1"},
	})
	require.Error(t, err)

	var dup *DuplicateInDatabaseError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, []string{"EXIST-1"}, dup.Tags)
	assert.Equal(t, []string{"SER-1"}, dup.Serials)
}

func TestCheckDatabaseIgnoresNASerials(t *testing.T) {
	db := openTestDB(t)
	seedProduct(t, db, "EXIST-1", domain.SerialNA)

	err := NewDetector(db).Check(context.Background(), []domain.Product{
		{TagNumber: "NEW-1", SerialNumber: domain.SerialNA},
	})
	assert.NoError(t, err)
}

func TestCheckBatchBeforeDatabase(t *testing.T) {
	db := openTestDB(t)
	seedProduct(t, db, "EXIST-1", "SER-1")

	// batch collides both internally and with the database; the
	// intra-batch error must win
	err := NewDetector(db).Check(context.Background(), []domain.Product{
		{TagNumber: "EXIST-1", SerialNumber: "X"},
		{TagNumber: "EXIST-1", SerialNumber: "Y"},
	})
	var dup *DuplicateInBatchError
	require.ErrorAs(t, err, &dup)
}
