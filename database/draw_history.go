package database

import (
	"gift-gap/database/model"

	"gorm.io/gorm"
)

// AddDrawRecords appends the audit rows of one draw inside the caller's
// transaction, so the history commits or rolls back with the assignments.
func AddDrawRecords(tx *gorm.DB, records []*model.DrawRecord) error {
	if len(records) == 0 {
		return nil
	}
	return tx.Create(&records).Error
}

// GetDrawHistory retrieves draw records, newest first. A non-positive
// limit returns the whole history.
func GetDrawHistory(limit int) ([]*model.DrawRecord, error) {
	var records []*model.DrawRecord
	query := db.Order("draw_date desc, id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CountDraws returns the number of distinct completed draws.
func CountDraws() (int64, error) {
	var count int64
	err := db.Model(&model.DrawRecord{}).Distinct("draw_id").Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
