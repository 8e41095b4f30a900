package conferences

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"contactcalls/internal/models"
)

var (
	ErrNotFound      = errors.New("conference not found")
	ErrNotScheduled  = errors.New("conference is not in scheduled status")
	ErrNotInProgress = errors.New("conference is not in progress")
	ErrNameRequired  = errors.New("conference name is required")
)

// Service drives the conference state machine:
// Scheduled -> InProgress -> Completed, no way back.
//
// AddParticipant and RemoveParticipant report refusals through their boolean
// result rather than an error; only store failures surface as errors.
type Service struct {
	db *gorm.DB
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, clock: time.Now}
}

func (s *Service) preloadAll(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Participants.Phone.Contact")
}

func (s *Service) List(ctx context.Context) ([]models.Conference, error) {
	var out []models.Conference
	err := s.preloadAll(ctx).Order("start_time DESC").Find(&out).Error
	return out, err
}

func (s *Service) Get(ctx context.Context, id uint) (models.Conference, error) {
	var c models.Conference
	err := s.preloadAll(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Conference{}, ErrNotFound
	}
	return c, err
}

func (s *Service) Create(ctx context.Context, name string, startTime time.Time) (models.Conference, error) {
	if strings.TrimSpace(name) == "" {
		return models.Conference{}, ErrNameRequired
	}
	c := models.Conference{
		Name:      strings.TrimSpace(name),
		StartTime: startTime.UTC(),
		Status:    models.ConferenceStatusScheduled,
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return models.Conference{}, err
	}
	return s.Get(ctx, c.ID)
}

// Start moves a scheduled conference to in-progress. The scheduled StartTime
// is overwritten with the current moment; downstream duration math relies
// on the actual start.
func (s *Service) Start(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Conference
		if err := tx.First(&c, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if c.Status != models.ConferenceStatusScheduled {
			return ErrNotScheduled
		}
		c.Status = models.ConferenceStatusInProgress
		c.StartTime = s.clock().UTC()
		return tx.Save(&c).Error
	})
}

// End completes an in-progress conference, fixes its duration and closes
// every participant that has not left yet at the conference end time.
func (s *Service) End(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Conference
		if err := tx.Preload("Participants").First(&c, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if c.Status != models.ConferenceStatusInProgress {
			return ErrNotInProgress
		}

		end := s.clock().UTC()
		c.Status = models.ConferenceStatusCompleted
		c.EndTime = &end
		c.DurationSeconds = int(end.Sub(c.StartTime).Seconds())

		for i := range c.Participants {
			p := &c.Participants[i]
			if p.LeaveTime != nil {
				continue
			}
			p.LeaveTime = &end
			p.DurationSeconds = int(end.Sub(p.JoinTime).Seconds())
			if err := tx.Model(&models.ConferenceParticipant{}).
				Where("id = ?", p.ID).
				Updates(map[string]any{
					"leave_time":       p.LeaveTime,
					"duration_seconds": p.DurationSeconds,
				}).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Conference{}).
			Where("id = ?", c.ID).
			Updates(map[string]any{
				"status":           c.Status,
				"end_time":         c.EndTime,
				"duration_seconds": c.DurationSeconds,
			}).Error
	})
}

// AddParticipant joins a phone to a conference. It returns false, without an
// error, when the conference or phone is missing or when the phone is
// already an active participant.
func (s *Service) AddParticipant(ctx context.Context, conferenceID, phoneID uint) (bool, error) {
	added := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Conference{}).Where("id = ?", conferenceID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if err := tx.Model(&models.Phone{}).Where("id = ?", phoneID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if err := tx.Model(&models.ConferenceParticipant{}).
			Where("conference_id = ? AND phone_id = ? AND leave_time IS NULL", conferenceID, phoneID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		p := models.ConferenceParticipant{
			ConferenceID: conferenceID,
			PhoneID:      phoneID,
			JoinTime:     s.clock().UTC(),
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		added = true
		return nil
	})
	return added, err
}

// RemoveParticipant closes the most recent matching participant row. An
// active row is soft-removed and kept as history; a row that already left is
// hard-deleted. Returns false when no matching row exists.
func (s *Service) RemoveParticipant(ctx context.Context, conferenceID, phoneID uint) (bool, error) {
	removed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.ConferenceParticipant
		err := tx.Where("conference_id = ? AND phone_id = ?", conferenceID, phoneID).
			Order("join_time DESC, id DESC").
			First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if p.LeaveTime == nil {
			now := s.clock().UTC()
			p.LeaveTime = &now
			p.DurationSeconds = int(now.Sub(p.JoinTime).Seconds())
			if err := tx.Model(&models.ConferenceParticipant{}).
				Where("id = ?", p.ID).
				Updates(map[string]any{
					"leave_time":       p.LeaveTime,
					"duration_seconds": p.DurationSeconds,
				}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Delete(&models.ConferenceParticipant{}, p.ID).Error; err != nil {
				return err
			}
		}
		removed = true
		return nil
	})
	return removed, err
}

// Delete removes the conference and all of its participants, whatever state
// it is in.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Conference
		if err := tx.First(&c, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("conference_id = ?", id).Delete(&models.ConferenceParticipant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Conference{}, id).Error
	})
}
