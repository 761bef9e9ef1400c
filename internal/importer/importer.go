package importer

import (
	"bytes"
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vxsahu/crm-system/internal/domain"
	"github.com/vxsahu/crm-system/pkg/common"
)

// ChunkSize bounds per-statement payload for bulk inserts. Chunks are
// persisted sequentially; there is no atomicity across them.
const ChunkSize = 500

// Result reports what a bulk import actually did: every record that was
// inserted (with its assigned id) plus per-row storage rejections.
type Result struct {
	Inserted []domain.Product `json:"inserted"`
	Failures []RowFailure     `json:"failures,omitempty"`
}

// Service coordinates normalization output, duplicate detection and
// chunked persistence for batches of arbitrary size.
type Service struct {
	db       *gorm.DB
	detector *Detector
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, detector: NewDetector(db)}
}

// ImportFile decodes an uploaded spreadsheet, normalizes its rows and
// imports the resulting batch.
func (s *Service) ImportFile(ctx context.Context, filename string, data []byte, now time.Time) (*Result, error) {
	rows, err := Decode(filename, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return s.Import(ctx, Normalize(rows, now))
}

// Import validates, deduplicates and persists a batch of normalized
// records. The duplicate pre-check and the inserts are not one atomic
// transaction: concurrent imports can both pass the check and race at
// insert time, where the storage constraints are the final authority.
func (s *Service) Import(ctx context.Context, records []domain.Product) (*Result, error) {
	if len(records) == 0 {
		return nil, &ValidationError{Reason: "cannot import an empty product list"}
	}
	for i := range records {
		rec := &records[i]
		if rec.TagNumber == "" {
			return nil, &ValidationError{Field: "tagNumber", Reason: "required on row " + strconv.Itoa(i+1)}
		}
		if rec.PurchasePrice < 0 {
			return nil, &ValidationError{Field: "purchasePrice", Reason: "must be non-negative on row " + strconv.Itoa(i+1)}
		}
		if rec.SerialNumber == "" {
			rec.SerialNumber = domain.SerialNA
		}
		if rec.Status == "" {
			rec.Status = domain.StatusInStock
		}
		if !domain.ValidStatus(rec.Status) {
			return nil, &ValidationError{Field: "status", Reason: "must be one of In Stock, Sold, Returned on row " + strconv.Itoa(i+1)}
		}
		if rec.BillingStatus == "" {
			rec.BillingStatus = domain.BillingUnbilled
		}
		if !domain.ValidBillingStatus(rec.BillingStatus) {
			return nil, &ValidationError{Field: "billingStatus", Reason: "must be Billed or Unbilled on row " + strconv.Itoa(i+1)}
		}
	}

	if err := s.detector.Check(ctx, records); err != nil {
		return nil, err
	}

	result := &Result{Inserted: make([]domain.Product, 0, len(records))}
	for start := 0; start < len(records); start += ChunkSize {
		end := start + ChunkSize
		if end > len(records) {
			end = len(records)
		}
		if err := s.insertChunk(ctx, records[start:end], start, result); err != nil {
			return nil, err
		}
	}

	zap.L().Info("bulk import finished",
		zap.Int("batch", len(records)),
		zap.Int("inserted", len(result.Inserted)),
		zap.Int("failed", len(result.Failures)))
	return result, nil
}

// insertChunk persists one chunk best-effort: the fast path is a single
// multi-row insert; if the storage layer rejects it (typically a uniqueness
// race against a concurrent writer) the chunk is retried row by row so the
// remaining rows still land, and each rejection is recorded.
func (s *Service) insertChunk(ctx context.Context, chunk []domain.Product, offset int, result *Result) error {
	for i := range chunk {
		chunk[i].ID = common.UUIDint64()
	}

	err := s.db.WithContext(ctx).Create(&chunk).Error
	if err == nil {
		result.Inserted = append(result.Inserted, chunk...)
		return nil
	}

	zap.L().Warn("chunk insert failed, retrying row by row",
		zap.Int("offset", offset), zap.Int("size", len(chunk)), zap.Error(err))

	var failures []RowFailure
	inserted := 0
	for i := range chunk {
		rec := chunk[i]
		if rowErr := s.db.WithContext(ctx).Create(&rec).Error; rowErr != nil {
			failures = append(failures, RowFailure{
				Row:       offset + i + 1,
				TagNumber: rec.TagNumber,
				Reason:    rowErr.Error(),
			})
			continue
		}
		result.Inserted = append(result.Inserted, rec)
		inserted++
	}

	if inserted == 0 {
		return &PersistenceError{
			Reason:   "every row in chunk failed to insert",
			Failures: failures,
			Err:      err,
		}
	}
	result.Failures = append(result.Failures, failures...)
	return nil
}
