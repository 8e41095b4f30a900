package calls

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"contactcalls/internal/models"
)

var (
	ErrNotFound        = errors.New("call not found")
	ErrPhoneNotFound   = errors.New("one or both phones not found")
	ErrSamePhone       = errors.New("from and to phone must differ")
	ErrInvalidDuration = errors.New("duration cannot be negative")
	ErrInvalidStatus   = errors.New("unknown call status")
)

// Service records calls between phones. Duration is derived from the
// timestamps whenever EndTime is present and after StartTime; the
// caller-supplied value only survives when no end time can settle it.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type CallInput struct {
	FromPhoneID     uint              `json:"from_phone_id"`
	ToPhoneID       uint              `json:"to_phone_id"`
	StartTime       time.Time         `json:"start_time"`
	EndTime         *time.Time        `json:"end_time,omitempty"`
	DurationSeconds int               `json:"duration_seconds"`
	Status          models.CallStatus `json:"status"`
	Cost            *float64          `json:"cost,omitempty"`
}

func (in CallInput) validate() error {
	if in.FromPhoneID == in.ToPhoneID {
		return ErrSamePhone
	}
	if in.DurationSeconds < 0 {
		return ErrInvalidDuration
	}
	if !models.ValidCallStatus(in.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// durationFor settles the stored duration: timestamps win over the supplied value.
func (in CallInput) durationFor() int {
	if in.EndTime != nil && in.EndTime.After(in.StartTime) {
		return int(in.EndTime.Sub(in.StartTime).Seconds())
	}
	return in.DurationSeconds
}

func (s *Service) preloadAll(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("FromPhone.Contact").
		Preload("ToPhone.Contact")
}

func (s *Service) List(ctx context.Context) ([]models.Call, error) {
	var out []models.Call
	err := s.preloadAll(ctx).Order("start_time DESC").Find(&out).Error
	return out, err
}

func (s *Service) Get(ctx context.Context, id uint) (models.Call, error) {
	var c models.Call
	err := s.preloadAll(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Call{}, ErrNotFound
	}
	return c, err
}

func (s *Service) ListByPhone(ctx context.Context, phoneID uint) ([]models.Call, error) {
	var out []models.Call
	err := s.preloadAll(ctx).
		Where("from_phone_id = ? OR to_phone_id = ?", phoneID, phoneID).
		Order("start_time DESC").
		Find(&out).Error
	return out, err
}

func (s *Service) ListByContact(ctx context.Context, contactID uint) ([]models.Call, error) {
	var out []models.Call
	err := s.preloadAll(ctx).
		Joins("JOIN phones fp ON fp.id = calls.from_phone_id").
		Joins("JOIN phones tp ON tp.id = calls.to_phone_id").
		Where("fp.contact_id = ? OR tp.contact_id = ?", contactID, contactID).
		Order("calls.start_time DESC").
		Find(&out).Error
	return out, err
}

func (s *Service) ListByDateRange(ctx context.Context, from, to time.Time) ([]models.Call, error) {
	var out []models.Call
	err := s.preloadAll(ctx).
		Where("start_time >= ? AND start_time <= ?", from, to).
		Order("start_time DESC").
		Find(&out).Error
	return out, err
}

func (s *Service) Create(ctx context.Context, in CallInput) (models.Call, error) {
	if err := in.validate(); err != nil {
		return models.Call{}, err
	}

	var created models.Call
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := phonesExist(tx, in.FromPhoneID, in.ToPhoneID); err != nil {
			return err
		}
		created = models.Call{
			FromPhoneID:     in.FromPhoneID,
			ToPhoneID:       in.ToPhoneID,
			StartTime:       in.StartTime,
			EndTime:         in.EndTime,
			DurationSeconds: in.durationFor(),
			Status:          in.Status,
			Cost:            in.Cost,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return models.Call{}, err
	}
	return s.Get(ctx, created.ID)
}

func (s *Service) Update(ctx context.Context, id uint, in CallInput) (models.Call, error) {
	if err := in.validate(); err != nil {
		return models.Call{}, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Call
		if err := tx.First(&c, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := phonesExist(tx, in.FromPhoneID, in.ToPhoneID); err != nil {
			return err
		}

		c.FromPhoneID = in.FromPhoneID
		c.ToPhoneID = in.ToPhoneID
		c.StartTime = in.StartTime
		c.EndTime = in.EndTime
		c.DurationSeconds = in.durationFor()
		c.Status = in.Status
		c.Cost = in.Cost
		return tx.Save(&c).Error
	})
	if err != nil {
		return models.Call{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Call{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func phonesExist(tx *gorm.DB, fromID, toID uint) error {
	var n int64
	if err := tx.Model(&models.Phone{}).Where("id IN ?", []uint{fromID, toID}).Count(&n).Error; err != nil {
		return fmt.Errorf("check phones: %w", err)
	}
	if n != 2 {
		return ErrPhoneNotFound
	}
	return nil
}
