package phones

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"contactcalls/internal/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(models.NewTestDB(t))
	svc.clock = func() time.Time { return time.Unix(1700000000, 0).UTC() }
	return svc
}

func seedContact(t *testing.T, db *gorm.DB, first, last string) models.Contact {
	t.Helper()
	c := models.Contact{FirstName: first, LastName: last}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed contact: %v", err)
	}
	return c
}

func primaryCount(t *testing.T, db *gorm.DB, contactID uint) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Phone{}).Where("contact_id = ? AND is_primary = ?", contactID, true).Count(&n).Error; err != nil {
		t.Fatalf("count primaries: %v", err)
	}
	return n
}

func TestPhones_FirstPhoneBecomesPrimary(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	c := seedContact(t, svc.db, "Ivan", "Petrov")

	p, err := svc.Create(ctx, PhoneInput{ContactID: c.ID, Number: "+7-912-345-67-89", IsPrimary: false})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !p.IsPrimary {
		t.Fatalf("first phone must become primary")
	}
}

func TestPhones_NewPrimaryDemotesOld(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	c := seedContact(t, svc.db, "Ivan", "Petrov")

	p1, err := svc.Create(ctx, PhoneInput{ContactID: c.ID, Number: "+7-912-000-00-01"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	p2, err := svc.Create(ctx, PhoneInput{ContactID: c.ID, Number: "+7-912-000-00-02", IsPrimary: true})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !p2.IsPrimary {
		t.Fatalf("requested primary must be primary")
	}
	got1, _ := svc.Get(ctx, p1.ID)
	if got1.IsPrimary {
		t.Fatalf("old primary must be demoted")
	}
	if n := primaryCount(t, svc.db, c.ID); n != 1 {
		t.Fatalf("expected exactly one primary, got %d", n)
	}
}

func TestPhones_CreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	c := seedContact(t, svc.db, "Ivan", "Petrov")

	if _, err := svc.Create(ctx, PhoneInput{ContactID: c.ID, Number: "89123456789"}); !errors.Is(err, ErrInvalidNumber) {
		t.Fatalf("expected ErrInvalidNumber, got %v", err)
	}
	if _, err := svc.Create(ctx, PhoneInput{ContactID: 999, Number: "+7-912-345-67-89"}); !errors.Is(err, ErrContactNotFound) {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}
	if _, err := svc.Create(ctx, PhoneInput{ContactID: c.ID, Number: "+7-912-345-67-89"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.Create(ctx, PhoneInput{ContactID: c.ID, Number: "+7-912-345-67-89"}); !errors.Is(err, ErrNumberTaken) {
		t.Fatalf("expected ErrNumberTaken, got %v", err)
	}
}

func TestPhones_UpdateNumberCollision(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	c := seedContact(t, svc.db, "Ivan", "Petrov")

	p1, _ := svc.Create(ctx, PhoneInput{ContactID: c.ID, Number: "+7-912-000-00-01"})
	p2, _ := svc.Create(ctx, PhoneInput{ContactID: c.ID, Number: "+7-912-000-00-02"})

	if _, err := svc.Update(ctx, p2.ID, PhoneInput{ContactID: c.ID, Number: p1.Number}); !errors.Is(err, ErrNumberTaken) {
		t.Fatalf("expected ErrNumberTaken, got %v", err)
	}
	// Re-submitting its own number is not a collision.
	if _, err := svc.Update(ctx, p2.ID, PhoneInput{ContactID: c.ID, Number: p2.Number}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestPhones_UpdatePromotionClearsOthers(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	c := seedContact(t, svc.db, "Ivan", "Petrov")

	p1, _ := svc.Create(ctx, PhoneInput{ContactID: c.ID, Number: "+7-912-000-00-01"})
	p2, _ := svc.Create(ctx, PhoneInput{ContactID: c.ID, Number: "+7-912-000-00-02"})

	upd, err := svc.Update(ctx, p2.ID, PhoneInput{ContactID: c.ID, Number: p2.Number, IsPrimary: true})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !upd.IsPrimary {
		t.Fatalf("expected phone to be primary after update")
	}
	got1, _ := svc.Get(ctx, p1.ID)
	if got1.IsPrimary {
		t.Fatalf("previous primary must be demoted")
	}
	if n := primaryCount(t, svc.db, c.ID); n != 1 {
		t.Fatalf("expected exactly one primary, got %d", n)
	}
}

func TestPhones_UpdateCannotDemoteOnlyPrimary(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	c := seedContact(t, svc.db, "Ivan", "Petrov")

	p, _ := svc.Create(ctx, PhoneInput{ContactID: c.ID, Number: "+7-912-000-00-01"})
	upd, err := svc.Update(ctx, p.ID, PhoneInput{ContactID: c.ID, Number: p.Number, IsPrimary: false})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !upd.IsPrimary {
		t.Fatalf("only primary must keep its flag")
	}
}

func TestPhones_DeletePromotesRemaining(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	c := seedContact(t, svc.db, "Ivan", "Petrov")

	p1, _ := svc.Create(ctx, PhoneInput{ContactID: c.ID, Number: "+7-912-000-00-01"})
	p2, _ := svc.Create(ctx, PhoneInput{ContactID: c.ID, Number: "+7-912-000-00-02", IsPrimary: true})

	if err := svc.Delete(ctx, p2.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got1, err := svc.Get(ctx, p1.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !got1.IsPrimary {
		t.Fatalf("remaining phone must be promoted to primary")
	}
	if n := primaryCount(t, svc.db, c.ID); n != 1 {
		t.Fatalf("expected exactly one primary, got %d", n)
	}
}

func TestPhones_DeleteRefusedWithCalls(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	c := seedContact(t, svc.db, "Ivan", "Petrov")

	p1, _ := svc.Create(ctx, PhoneInput{ContactID: c.ID, Number: "+7-912-000-00-01"})
	p2, _ := svc.Create(ctx, PhoneInput{ContactID: c.ID, Number: "+7-912-000-00-02"})
	call := models.Call{FromPhoneID: p1.ID, ToPhoneID: p2.ID, StartTime: time.Unix(1700000000, 0).UTC(), Status: models.CallStatusCompleted}
	if err := svc.db.Create(&call).Error; err != nil {
		t.Fatalf("seed call: %v", err)
	}

	if err := svc.Delete(ctx, p1.ID); !errors.Is(err, ErrHasCalls) {
		t.Fatalf("expected ErrHasCalls for caller side, got %v", err)
	}
	if err := svc.Delete(ctx, p2.ID); !errors.Is(err, ErrHasCalls) {
		t.Fatalf("expected ErrHasCalls for callee side, got %v", err)
	}
}

func TestPhones_SetPrimary(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	c := seedContact(t, svc.db, "Ivan", "Petrov")

	p1, _ := svc.Create(ctx, PhoneInput{ContactID: c.ID, Number: "+7-912-000-00-01"})
	p2, _ := svc.Create(ctx, PhoneInput{ContactID: c.ID, Number: "+7-912-000-00-02"})

	if err := svc.SetPrimary(ctx, p2.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got1, _ := svc.Get(ctx, p1.ID)
	got2, _ := svc.Get(ctx, p2.ID)
	if got1.IsPrimary || !got2.IsPrimary {
		t.Fatalf("expected p2 primary and p1 not, got p1=%v p2=%v", got1.IsPrimary, got2.IsPrimary)
	}

	if err := svc.SetPrimary(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// Full lifecycle from the product scenario: P1 inherits primary, P2 takes it
// over on request, deleting P2 hands it back to P1.
func TestPhones_PrimaryLifecycleScenario(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	c := seedContact(t, svc.db, "Elena", "Morozova")

	p1, err := svc.Create(ctx, PhoneInput{ContactID: c.ID, Number: "+7-926-000-00-01", IsPrimary: false})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !p1.IsPrimary {
		t.Fatalf("P1 must become primary automatically")
	}

	p2, err := svc.Create(ctx, PhoneInput{ContactID: c.ID, Number: "+7-926-000-00-02", IsPrimary: true})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !p2.IsPrimary {
		t.Fatalf("P2 must be primary")
	}
	got1, _ := svc.Get(ctx, p1.ID)
	if got1.IsPrimary {
		t.Fatalf("P1 must have lost primary")
	}

	if err := svc.Delete(ctx, p2.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got1, _ = svc.Get(ctx, p1.ID)
	if !got1.IsPrimary {
		t.Fatalf("P1 must be primary again after P2 is deleted")
	}
	if n := primaryCount(t, svc.db, c.ID); n != 1 {
		t.Fatalf("expected exactly one primary, got %d", n)
	}
}
