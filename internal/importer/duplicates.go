package importer

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/vxsahu/crm-system/internal/domain"
)

// Detector finds tag/serial collisions inside a batch and against records
// already persisted, before any write occurs.
type Detector struct {
	db *gorm.DB
}

func NewDetector(db *gorm.DB) *Detector {
	return &Detector{db: db}
}

// Check runs both duplicate checks. Intra-batch collisions are always
// reported first; the database is only consulted for a clean batch, so a
// batch with both kinds of problems never costs a query.
func (d *Detector) Check(ctx context.Context, records []domain.Product) error {
	if err := CheckBatch(records); err != nil {
		return err
	}
	return d.checkDatabase(ctx, records)
}

// CheckBatch detects keys repeated within the batch itself. Serial numbers
// equal to "N/A" are exempt and may repeat arbitrarily.
func CheckBatch(records []domain.Product) error {
	tagRows := make(map[string][]int)
	serialRows := make(map[string][]int)
	for i, rec := range records {
		row := i + 1
		tagRows[rec.TagNumber] = append(tagRows[rec.TagNumber], row)
		if rec.SerialNumber != domain.SerialNA {
			serialRows[rec.SerialNumber] = append(serialRows[rec.SerialNumber], row)
		}
	}

	var conflicts []KeyConflict
	for value, rows := range tagRows {
		if len(rows) > 1 {
			conflicts = append(conflicts, KeyConflict{Field: "tagNumber", Value: value, Rows: rows})
		}
	}
	for value, rows := range serialRows {
		if len(rows) > 1 {
			conflicts = append(conflicts, KeyConflict{Field: "serialNumber", Value: value, Rows: rows})
		}
	}
	if len(conflicts) == 0 {
		return nil
	}

	// stable report order: by first offending row
	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].Rows[0] < conflicts[j].Rows[0]
	})
	return &DuplicateInBatchError{Conflicts: conflicts}
}

func (d *Detector) checkDatabase(ctx context.Context, records []domain.Product) error {
	tags := make([]string, 0, len(records))
	serials := make([]string, 0, len(records))
	for _, rec := range records {
		tags = append(tags, rec.TagNumber)
		if rec.SerialNumber != domain.SerialNA {
			serials = append(serials, rec.SerialNumber)
		}
	}

	var existingTags []string
	err := d.db.WithContext(ctx).Model(&domain.Product{}).
		Where("tag_number IN ?", tags).
		Pluck("tag_number", &existingTags).Error
	if err != nil {
		return errors.Wrap(err, "duplicate check: query tags")
	}

	var existingSerials []string
	if len(serials) > 0 {
		err = d.db.WithContext(ctx).Model(&domain.Product{}).
			Where("serial_number IN ?", serials).
			Pluck("serial_number", &existingSerials).Error
		if err != nil {
			return errors.Wrap(err, "duplicate check: query serials")
		}
	}

	if len(existingTags) == 0 && len(existingSerials) == 0 {
		return nil
	}
	sort.Strings(existingTags)
	sort.Strings(existingSerials)
	return &DuplicateInDatabaseError{Tags: existingTags, Serials: existingSerials}
}
