package store

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"contactcalls/internal/models"
)

// Seed inserts a demo dataset when the contacts table is empty.
// Idempotent: a populated database is left untouched.
func Seed(db *gorm.DB, log *slog.Logger) error {
	var count int64
	if err := db.Model(&models.Contact{}).Count(&count).Error; err != nil {
		return fmt.Errorf("seed precheck: %w", err)
	}
	if count > 0 {
		log.Info("database already contains data, skipping seed")
		return nil
	}

	now := time.Now().UTC()

	return db.Transaction(func(tx *gorm.DB) error {
		contacts := []models.Contact{
			{FirstName: "Ivan", LastName: "Petrov", MiddleName: ptr("Sergeevich"), CreatedAt: now.AddDate(0, 0, -30)},
			{FirstName: "Maria", LastName: "Sidorova", MiddleName: ptr("Alexandrovna"), CreatedAt: now.AddDate(0, 0, -25)},
			{FirstName: "Alexey", LastName: "Kozlov", CreatedAt: now.AddDate(0, 0, -20)},
			{FirstName: "Elena", LastName: "Morozova", MiddleName: ptr("Viktorovna"), CreatedAt: now.AddDate(0, 0, -15)},
			{FirstName: "Dmitry", LastName: "Volkov", MiddleName: ptr("Mikhailovich"), CreatedAt: now.AddDate(0, 0, -10)},
		}
		if err := tx.Create(&contacts).Error; err != nil {
			return fmt.Errorf("seed contacts: %w", err)
		}

		profiles := []models.ContactProfile{
			{ContactID: contacts[0].ID, Email: ptr("ivan.petrov@example.com"), Company: ptr("TechCorp"), Position: ptr("Engineer")},
			{ContactID: contacts[1].ID, Email: ptr("maria.sidorova@example.com"), Company: ptr("MediaLab"), Position: ptr("Editor")},
		}
		if err := tx.Create(&profiles).Error; err != nil {
			return fmt.Errorf("seed profiles: %w", err)
		}

		phones := []models.Phone{
			{ContactID: contacts[0].ID, Number: "+7-912-345-67-89", Description: ptr("mobile"), IsPrimary: true, CreatedAt: now.AddDate(0, 0, -30)},
			{ContactID: contacts[0].ID, Number: "+7-495-123-45-67", Description: ptr("work"), CreatedAt: now.AddDate(0, 0, -29)},
			{ContactID: contacts[1].ID, Number: "+7-903-222-33-44", Description: ptr("mobile"), IsPrimary: true, CreatedAt: now.AddDate(0, 0, -25)},
			{ContactID: contacts[2].ID, Number: "+7-916-555-66-77", Description: ptr("mobile"), IsPrimary: true, CreatedAt: now.AddDate(0, 0, -20)},
			{ContactID: contacts[3].ID, Number: "+7-926-888-99-00", Description: ptr("mobile"), IsPrimary: true, CreatedAt: now.AddDate(0, 0, -15)},
			{ContactID: contacts[4].ID, Number: "+7-909-111-22-33", Description: ptr("mobile"), IsPrimary: true, CreatedAt: now.AddDate(0, 0, -10)},
		}
		if err := tx.Create(&phones).Error; err != nil {
			return fmt.Errorf("seed phones: %w", err)
		}

		calls := make([]models.Call, 0, 8)
		addCall := func(from, to int, daysAgo int, dur int, status models.CallStatus, cost *float64) {
			start := now.AddDate(0, 0, -daysAgo)
			c := models.Call{
				FromPhoneID:     phones[from].ID,
				ToPhoneID:       phones[to].ID,
				StartTime:       start,
				DurationSeconds: dur,
				Status:          status,
				Cost:            cost,
			}
			if dur > 0 {
				end := start.Add(time.Duration(dur) * time.Second)
				c.EndTime = &end
			}
			calls = append(calls, c)
		}
		addCall(0, 2, 9, 245, models.CallStatusCompleted, ptr(4.90))
		addCall(2, 0, 8, 610, models.CallStatusCompleted, ptr(12.20))
		addCall(0, 3, 7, 0, models.CallStatusMissed, nil)
		addCall(3, 4, 6, 95, models.CallStatusCompleted, ptr(1.90))
		addCall(4, 0, 5, 0, models.CallStatusDeclined, nil)
		addCall(1, 5, 4, 1320, models.CallStatusCompleted, ptr(26.40))
		addCall(5, 2, 2, 0, models.CallStatusFailed, nil)
		addCall(2, 3, 1, 180, models.CallStatusCompleted, ptr(3.60))
		if err := tx.Create(&calls).Error; err != nil {
			return fmt.Errorf("seed calls: %w", err)
		}

		confStart := now.AddDate(0, 0, -3)
		confEnd := confStart.Add(45 * time.Minute)
		conf := models.Conference{
			Name:            "Weekly sync",
			StartTime:       confStart,
			EndTime:         &confEnd,
			DurationSeconds: int(confEnd.Sub(confStart).Seconds()),
			Status:          models.ConferenceStatusCompleted,
		}
		if err := tx.Create(&conf).Error; err != nil {
			return fmt.Errorf("seed conference: %w", err)
		}
		participants := []models.ConferenceParticipant{
			{ConferenceID: conf.ID, PhoneID: phones[0].ID, JoinTime: confStart, LeaveTime: &confEnd, DurationSeconds: conf.DurationSeconds},
			{ConferenceID: conf.ID, PhoneID: phones[2].ID, JoinTime: confStart.Add(5 * time.Minute), LeaveTime: &confEnd, DurationSeconds: conf.DurationSeconds - 300},
			{ConferenceID: conf.ID, PhoneID: phones[3].ID, JoinTime: confStart.Add(10 * time.Minute), LeaveTime: &confEnd, DurationSeconds: conf.DurationSeconds - 600},
		}
		if err := tx.Create(&participants).Error; err != nil {
			return fmt.Errorf("seed participants: %w", err)
		}

		upcoming := models.Conference{
			Name:      "Quarterly planning",
			StartTime: now.AddDate(0, 0, 7),
			Status:    models.ConferenceStatusScheduled,
		}
		if err := tx.Create(&upcoming).Error; err != nil {
			return fmt.Errorf("seed upcoming conference: %w", err)
		}

		log.Info("demo data seeded",
			"contacts", len(contacts),
			"phones", len(phones),
			"calls", len(calls),
			"conferences", 2,
		)
		return nil
	})
}

func ptr[T any](v T) *T { return &v }
