package contacts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"contactcalls/internal/models"
)

var (
	ErrNotFound        = errors.New("contact not found")
	ErrProfileNotFound = errors.New("contact profile not found")
	ErrProfileExists   = errors.New("contact profile already exists")
	ErrHasCallHistory  = errors.New("contact has phones with call history")
	ErrNameRequired    = errors.New("first and last name are required")
)

// Service provides contact and profile operations.
//
// Deleting a contact cascades to its profile and phones in application code,
// children first. The delete is refused while any of the contact's phones
// appears in a call record, because the call rows must stay intact.
type Service struct {
	db *gorm.DB
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, clock: time.Now}
}

type ContactInput struct {
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	MiddleName *string `json:"middle_name,omitempty"`
}

type ProfileInput struct {
	Email       *string    `json:"email,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Address     *string    `json:"address,omitempty"`
	Company     *string    `json:"company,omitempty"`
	Position    *string    `json:"position,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

func (in ContactInput) validate() error {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return ErrNameRequired
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]models.Contact, error) {
	var out []models.Contact
	err := s.db.WithContext(ctx).
		Preload("Profile").
		Preload("Phones").
		Order("last_name, first_name").
		Find(&out).Error
	return out, err
}

func (s *Service) Get(ctx context.Context, id uint) (models.Contact, error) {
	var c models.Contact
	err := s.db.WithContext(ctx).
		Preload("Profile").
		Preload("Phones").
		First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Contact{}, ErrNotFound
	}
	return c, err
}

func (s *Service) Create(ctx context.Context, in ContactInput) (models.Contact, error) {
	if err := in.validate(); err != nil {
		return models.Contact{}, err
	}
	c := models.Contact{
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		MiddleName: in.MiddleName,
		CreatedAt:  s.clock().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return models.Contact{}, fmt.Errorf("create contact: %w", err)
	}
	return s.Get(ctx, c.ID)
}

func (s *Service) Update(ctx context.Context, id uint, in ContactInput) (models.Contact, error) {
	if err := in.validate(); err != nil {
		return models.Contact{}, err
	}
	var c models.Contact
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Contact{}, ErrNotFound
		}
		return models.Contact{}, err
	}

	now := s.clock().UTC()
	c.FirstName = strings.TrimSpace(in.FirstName)
	c.LastName = strings.TrimSpace(in.LastName)
	c.MiddleName = in.MiddleName
	c.UpdatedAt = &now
	if err := s.db.WithContext(ctx).Save(&c).Error; err != nil {
		return models.Contact{}, fmt.Errorf("update contact: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes the contact, its profile and its phones. It fails with
// ErrHasCallHistory while any phone of the contact is referenced by a call.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Contact
		if err := tx.First(&c, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		phoneIDs := tx.Model(&models.Phone{}).Select("id").Where("contact_id = ?", id)
		var related int64
		if err := tx.Model(&models.Call{}).
			Where("from_phone_id IN (?) OR to_phone_id IN (?)", phoneIDs, phoneIDs).
			Count(&related).Error; err != nil {
			return err
		}
		if related > 0 {
			return ErrHasCallHistory
		}

		// Children first; the storage cascade is a backstop, not the mechanism.
		if err := tx.Where("contact_id = ?", id).Delete(&models.ContactProfile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contact_id = ?", id).Delete(&models.Phone{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Contact{}, id).Error
	})
}

// Search matches the term against contact names, profile email and phone numbers.
func (s *Service) Search(ctx context.Context, term string) ([]models.Contact, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(ctx)
	}
	pattern := "%" + term + "%"

	var out []models.Contact
	err := s.db.WithContext(ctx).
		Preload("Profile").
		Preload("Phones").
		Where(`first_name LIKE ? OR last_name LIKE ? OR middle_name LIKE ?
			OR EXISTS (SELECT 1 FROM contact_profiles cp WHERE cp.contact_id = contacts.id AND cp.email LIKE ?)
			OR EXISTS (SELECT 1 FROM phones p WHERE p.contact_id = contacts.id AND p.number LIKE ?)`,
			pattern, pattern, pattern, pattern, pattern).
		Order("last_name, first_name").
		Find(&out).Error
	return out, err
}

func (s *Service) GetProfile(ctx context.Context, contactID uint) (models.ContactProfile, error) {
	var p models.ContactProfile
	err := s.db.WithContext(ctx).Where("contact_id = ?", contactID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ContactProfile{}, ErrProfileNotFound
	}
	return p, err
}

func (s *Service) CreateProfile(ctx context.Context, contactID uint, in ProfileInput) (models.ContactProfile, error) {
	var out models.ContactProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Contact
		if err := tx.First(&c, contactID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		var existing int64
		if err := tx.Model(&models.ContactProfile{}).Where("contact_id = ?", contactID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrProfileExists
		}
		out = models.ContactProfile{
			ContactID:   contactID,
			Email:       in.Email,
			DateOfBirth: in.DateOfBirth,
			Address:     in.Address,
			Company:     in.Company,
			Position:    in.Position,
			Notes:       in.Notes,
		}
		return tx.Create(&out).Error
	})
	if err != nil {
		return models.ContactProfile{}, err
	}
	return out, nil
}

func (s *Service) UpdateProfile(ctx context.Context, contactID uint, in ProfileInput) (models.ContactProfile, error) {
	var p models.ContactProfile
	if err := s.db.WithContext(ctx).Where("contact_id = ?", contactID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ContactProfile{}, ErrProfileNotFound
		}
		return models.ContactProfile{}, err
	}
	p.Email = in.Email
	p.DateOfBirth = in.DateOfBirth
	p.Address = in.Address
	p.Company = in.Company
	p.Position = in.Position
	p.Notes = in.Notes
	if err := s.db.WithContext(ctx).Save(&p).Error; err != nil {
		return models.ContactProfile{}, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

func (s *Service) DeleteProfile(ctx context.Context, contactID uint) error {
	res := s.db.WithContext(ctx).Where("contact_id = ?", contactID).Delete(&models.ContactProfile{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
