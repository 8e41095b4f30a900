package reporting

import (
	"context"

	"gorm.io/gorm"

	"contactcalls/internal/models"
)

// GormRepo reads report data straight from the call table.
type GormRepo struct {
	db *gorm.DB
}

func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{db: db}
}

func (r *GormRepo) ListCalls(ctx context.Context, f Filter) ([]models.Call, error) {
	q := r.db.WithContext(ctx).
		Preload("FromPhone").
		Preload("ToPhone").
		Where("start_time >= ? AND start_time <= ?", f.From, f.To)

	switch {
	case f.PhoneID != nil:
		q = q.Where("from_phone_id = ? OR to_phone_id = ?", *f.PhoneID, *f.PhoneID)
	case f.ContactID != nil:
		sub := r.db.Model(&models.Phone{}).Select("id").Where("contact_id = ?", *f.ContactID)
		q = q.Where("from_phone_id IN (?) OR to_phone_id IN (?)", sub, sub)
	}

	var calls []models.Call
	if err := q.Order("start_time DESC").Find(&calls).Error; err != nil {
		return nil, err
	}
	return calls, nil
}
