package phones

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"gorm.io/gorm"

	"contactcalls/internal/models"
)

var (
	ErrNotFound        = errors.New("phone not found")
	ErrContactNotFound = errors.New("contact not found")
	ErrNumberTaken     = errors.New("phone number already exists")
	ErrInvalidNumber   = errors.New("invalid phone number format")
	ErrHasCalls        = errors.New("phone has related calls")
)

// numberPattern matches the normalized +D-DDD-DDD-DD-DD form.
var numberPattern = regexp.MustCompile(`^\+\d-\d{3}-\d{3}-\d{2}-\d{2}$`)

// Service maintains the primary-phone invariant: a contact with at least one
// phone has exactly one primary phone. Every mutation runs its clear-then-set
// sequence inside a single transaction so the invariant never becomes
// durable in a broken state.
type Service struct {
	db *gorm.DB
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, clock: time.Now}
}

type PhoneInput struct {
	ContactID   uint    `json:"contact_id"`
	Number      string  `json:"number"`
	Description *string `json:"description,omitempty"`
	IsPrimary   bool    `json:"is_primary"`
}

func (s *Service) List(ctx context.Context) ([]models.Phone, error) {
	var out []models.Phone
	err := s.db.WithContext(ctx).
		Preload("Contact").
		Joins("JOIN contacts ON contacts.id = phones.contact_id").
		Order("contacts.last_name, contacts.first_name, phones.number").
		Find(&out).Error
	return out, err
}

func (s *Service) Get(ctx context.Context, id uint) (models.Phone, error) {
	var p models.Phone
	err := s.db.WithContext(ctx).Preload("Contact").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Phone{}, ErrNotFound
	}
	return p, err
}

func (s *Service) GetByNumber(ctx context.Context, number string) (models.Phone, error) {
	var p models.Phone
	err := s.db.WithContext(ctx).Preload("Contact").Where("number = ?", number).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Phone{}, ErrNotFound
	}
	return p, err
}

func (s *Service) ListByContact(ctx context.Context, contactID uint) ([]models.Phone, error) {
	var out []models.Phone
	err := s.db.WithContext(ctx).
		Preload("Contact").
		Where("contact_id = ?", contactID).
		Order("is_primary DESC, number").
		Find(&out).Error
	return out, err
}

// Create adds a phone to a contact. The contact's first phone becomes primary
// regardless of the requested flag; an explicitly requested primary demotes
// the current one.
func (s *Service) Create(ctx context.Context, in PhoneInput) (models.Phone, error) {
	if !numberPattern.MatchString(in.Number) {
		return models.Phone{}, ErrInvalidNumber
	}

	var created models.Phone
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var contact models.Contact
		if err := tx.First(&contact, in.ContactID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContactNotFound
			}
			return err
		}

		var taken int64
		if err := tx.Model(&models.Phone{}).Where("number = ?", in.Number).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrNumberTaken
		}

		var existing int64
		if err := tx.Model(&models.Phone{}).Where("contact_id = ?", in.ContactID).Count(&existing).Error; err != nil {
			return err
		}

		created = models.Phone{
			ContactID:   in.ContactID,
			Number:      in.Number,
			Description: in.Description,
			CreatedAt:   s.clock().UTC(),
		}
		if existing == 0 || in.IsPrimary {
			if in.IsPrimary {
				if err := clearPrimary(tx, in.ContactID, 0); err != nil {
					return err
				}
			}
			created.IsPrimary = true
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return models.Phone{}, err
	}
	return s.Get(ctx, created.ID)
}

func (s *Service) Update(ctx context.Context, id uint, in PhoneInput) (models.Phone, error) {
	if !numberPattern.MatchString(in.Number) {
		return models.Phone{}, ErrInvalidNumber
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Phone
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if p.Number != in.Number {
			var taken int64
			if err := tx.Model(&models.Phone{}).Where("number = ? AND id <> ?", in.Number, id).Count(&taken).Error; err != nil {
				return err
			}
			if taken > 0 {
				return ErrNumberTaken
			}
		}

		makePrimary := in.IsPrimary
		if p.IsPrimary && !in.IsPrimary {
			// Demoting the current primary without a replacement would leave
			// the contact with none; the flag stays until another phone
			// takes it over.
			makePrimary = true
		}
		if makePrimary && !p.IsPrimary {
			if err := clearPrimary(tx, p.ContactID, p.ID); err != nil {
				return err
			}
		}

		p.Number = in.Number
		p.Description = in.Description
		p.IsPrimary = makePrimary
		return tx.Save(&p).Error
	})
	if err != nil {
		return models.Phone{}, err
	}
	return s.Get(ctx, id)
}

// Delete removes a phone unless a call references it. When the deleted phone
// was primary, the contact's remaining phone with the lowest id is promoted.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Phone
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var related int64
		if err := tx.Model(&models.Call{}).
			Where("from_phone_id = ? OR to_phone_id = ?", id, id).
			Count(&related).Error; err != nil {
			return err
		}
		if related > 0 {
			return ErrHasCalls
		}

		if p.IsPrimary {
			var next models.Phone
			err := tx.Where("contact_id = ? AND id <> ?", p.ContactID, id).
				Order("id").
				First(&next).Error
			switch {
			case err == nil:
				if err := tx.Model(&next).Update("is_primary", true).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				// Last phone of the contact; nothing to promote.
			default:
				return err
			}
		}
		return tx.Delete(&models.Phone{}, id).Error
	})
}

// SetPrimary makes the phone its contact's only primary.
func (s *Service) SetPrimary(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Phone
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := clearPrimary(tx, p.ContactID, p.ID); err != nil {
			return err
		}
		if p.IsPrimary {
			return nil
		}
		return tx.Model(&p).Update("is_primary", true).Error
	})
}

func clearPrimary(tx *gorm.DB, contactID, keepID uint) error {
	q := tx.Model(&models.Phone{}).Where("contact_id = ? AND is_primary = ?", contactID, true)
	if keepID != 0 {
		q = q.Where("id <> ?", keepID)
	}
	if err := q.Update("is_primary", false).Error; err != nil {
		return fmt.Errorf("clear primary flags: %w", err)
	}
	return nil
}
