package conferences

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"contactcalls/internal/models"
)

// fakeClock lets tests advance time between lifecycle steps.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestService(t *testing.T) (*Service, *fakeClock) {
	t.Helper()
	clk := &fakeClock{now: time.Unix(1700000000, 0).UTC()}
	svc := NewService(models.NewTestDB(t))
	svc.clock = clk.Now
	return svc, clk
}

func seedPhone(t *testing.T, db *gorm.DB, number string) models.Phone {
	t.Helper()
	c := models.Contact{FirstName: "Ivan", LastName: "Petrov"}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed contact: %v", err)
	}
	p := models.Phone{ContactID: c.ID, Number: number, IsPrimary: true}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed phone: %v", err)
	}
	return p
}

func TestConferences_CreateStartsScheduled(t *testing.T) {
	svc, clk := newTestService(t)

	c, err := svc.Create(context.Background(), "Weekly sync", clk.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Status != models.ConferenceStatusScheduled {
		t.Fatalf("expected scheduled status, got %q", c.Status)
	}

	if _, err := svc.Create(context.Background(), "  ", clk.Now()); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
}

func TestConferences_StartOnlyFromScheduled(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	c, _ := svc.Create(ctx, "Weekly sync", clk.Now().Add(time.Hour))

	if err := svc.Start(ctx, c.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got, _ := svc.Get(ctx, c.ID)
	if got.Status != models.ConferenceStatusInProgress {
		t.Fatalf("expected in_progress, got %q", got.Status)
	}
	// Start overwrites the scheduled time with "now".
	if !got.StartTime.Equal(clk.Now()) {
		t.Fatalf("expected start time %v, got %v", clk.Now(), got.StartTime)
	}

	if err := svc.Start(ctx, c.ID); !errors.Is(err, ErrNotScheduled) {
		t.Fatalf("expected ErrNotScheduled on second start, got %v", err)
	}
	if err := svc.Start(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConferences_EndOnlyFromInProgress(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	c, _ := svc.Create(ctx, "Weekly sync", clk.Now())

	if err := svc.End(ctx, c.ID); !errors.Is(err, ErrNotInProgress) {
		t.Fatalf("expected ErrNotInProgress before start, got %v", err)
	}
	got, _ := svc.Get(ctx, c.ID)
	if got.Status != models.ConferenceStatusScheduled {
		t.Fatalf("refused end must not mutate state, got %q", got.Status)
	}

	if err := svc.Start(ctx, c.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	clk.Advance(45 * time.Minute)
	if err := svc.End(ctx, c.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	got, _ = svc.Get(ctx, c.ID)
	if got.Status != models.ConferenceStatusCompleted {
		t.Fatalf("expected completed, got %q", got.Status)
	}
	if got.EndTime == nil || !got.EndTime.Equal(clk.Now()) {
		t.Fatalf("expected end time %v, got %v", clk.Now(), got.EndTime)
	}
	if got.DurationSeconds != int((45 * time.Minute).Seconds()) {
		t.Fatalf("expected duration 2700, got %d", got.DurationSeconds)
	}

	if err := svc.End(ctx, c.ID); !errors.Is(err, ErrNotInProgress) {
		t.Fatalf("expected ErrNotInProgress on second end, got %v", err)
	}
	if err := svc.End(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConferences_AddParticipant(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	phone := seedPhone(t, svc.db, "+7-912-000-00-01")

	c, _ := svc.Create(ctx, "Weekly sync", time.Unix(1700000000, 0).UTC())

	ok, err := svc.AddParticipant(ctx, c.ID, phone.ID)
	if err != nil || !ok {
		t.Fatalf("expected participant added, got ok=%v err=%v", ok, err)
	}

	// Active duplicate is silently refused.
	ok, err = svc.AddParticipant(ctx, c.ID, phone.ID)
	if err != nil || ok {
		t.Fatalf("expected duplicate refusal, got ok=%v err=%v", ok, err)
	}

	// Missing conference or phone refuse the same way.
	if ok, err := svc.AddParticipant(ctx, 999, phone.ID); err != nil || ok {
		t.Fatalf("expected refusal for missing conference, got ok=%v err=%v", ok, err)
	}
	if ok, err := svc.AddParticipant(ctx, c.ID, 999); err != nil || ok {
		t.Fatalf("expected refusal for missing phone, got ok=%v err=%v", ok, err)
	}
}

func TestConferences_RejoinAfterLeaveIsAllowed(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	phone := seedPhone(t, svc.db, "+7-912-000-00-01")

	c, _ := svc.Create(ctx, "Weekly sync", clk.Now())
	if ok, _ := svc.AddParticipant(ctx, c.ID, phone.ID); !ok {
		t.Fatalf("expected join to succeed")
	}
	clk.Advance(10 * time.Minute)
	if ok, _ := svc.RemoveParticipant(ctx, c.ID, phone.ID); !ok {
		t.Fatalf("expected leave to succeed")
	}
	if ok, _ := svc.AddParticipant(ctx, c.ID, phone.ID); !ok {
		t.Fatalf("expected rejoin after leave to succeed")
	}

	got, _ := svc.Get(ctx, c.ID)
	if len(got.Participants) != 2 {
		t.Fatalf("expected historical and active rows, got %d", len(got.Participants))
	}
}

func TestConferences_RemoveParticipant(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	phone := seedPhone(t, svc.db, "+7-912-000-00-01")

	c, _ := svc.Create(ctx, "Weekly sync", clk.Now())

	if ok, err := svc.RemoveParticipant(ctx, c.ID, phone.ID); err != nil || ok {
		t.Fatalf("expected false for absent participant, got ok=%v err=%v", ok, err)
	}

	joined := clk.Now()
	if ok, _ := svc.AddParticipant(ctx, c.ID, phone.ID); !ok {
		t.Fatalf("expected join to succeed")
	}
	clk.Advance(15 * time.Minute)

	// First removal soft-closes the row.
	if ok, err := svc.RemoveParticipant(ctx, c.ID, phone.ID); err != nil || !ok {
		t.Fatalf("expected soft remove, got ok=%v err=%v", ok, err)
	}
	got, _ := svc.Get(ctx, c.ID)
	if len(got.Participants) != 1 {
		t.Fatalf("soft remove must keep the row, got %d rows", len(got.Participants))
	}
	p := got.Participants[0]
	if p.LeaveTime == nil || !p.LeaveTime.Equal(clk.Now()) {
		t.Fatalf("expected leave time %v, got %v", clk.Now(), p.LeaveTime)
	}
	if p.DurationSeconds != int(clk.Now().Sub(joined).Seconds()) {
		t.Fatalf("unexpected participant duration %d", p.DurationSeconds)
	}

	// Second removal hard-deletes the closed row.
	if ok, err := svc.RemoveParticipant(ctx, c.ID, phone.ID); err != nil || !ok {
		t.Fatalf("expected hard delete, got ok=%v err=%v", ok, err)
	}
	got, _ = svc.Get(ctx, c.ID)
	if len(got.Participants) != 0 {
		t.Fatalf("expected no rows after hard delete, got %d", len(got.Participants))
	}
}

func TestConferences_EndClosesOpenParticipants(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	p1 := seedPhone(t, svc.db, "+7-912-000-00-01")
	p2 := seedPhone(t, svc.db, "+7-912-000-00-02")

	c, _ := svc.Create(ctx, "Weekly sync", clk.Now())
	if err := svc.Start(ctx, c.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	joinedAt := clk.Now()
	if ok, _ := svc.AddParticipant(ctx, c.ID, p1.ID); !ok {
		t.Fatalf("expected join to succeed")
	}
	if ok, _ := svc.AddParticipant(ctx, c.ID, p2.ID); !ok {
		t.Fatalf("expected join to succeed")
	}

	// One participant leaves early.
	clk.Advance(10 * time.Minute)
	earlyLeave := clk.Now()
	if ok, _ := svc.RemoveParticipant(ctx, c.ID, p1.ID); !ok {
		t.Fatalf("expected leave to succeed")
	}

	clk.Advance(35 * time.Minute)
	if err := svc.End(ctx, c.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	got, _ := svc.Get(ctx, c.ID)
	if len(got.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(got.Participants))
	}
	for _, p := range got.Participants {
		if p.LeaveTime == nil {
			t.Fatalf("every participant must be closed after end")
		}
		switch p.PhoneID {
		case p1.ID:
			if !p.LeaveTime.Equal(earlyLeave) {
				t.Fatalf("early leaver must keep its own leave time")
			}
		case p2.ID:
			if !p.LeaveTime.Equal(*got.EndTime) {
				t.Fatalf("open participant must be closed at conference end, got %v want %v", p.LeaveTime, got.EndTime)
			}
			if p.DurationSeconds != int(got.EndTime.Sub(joinedAt).Seconds()) {
				t.Fatalf("unexpected closed participant duration %d", p.DurationSeconds)
			}
		}
	}
}

func TestConferences_DeleteCascadesParticipants(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	phone := seedPhone(t, svc.db, "+7-912-000-00-01")

	c, _ := svc.Create(ctx, "Weekly sync", clk.Now())
	if ok, _ := svc.AddParticipant(ctx, c.ID, phone.ID); !ok {
		t.Fatalf("expected join to succeed")
	}

	if err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	var rows int64
	svc.db.Model(&models.ConferenceParticipant{}).Where("conference_id = ?", c.ID).Count(&rows)
	if rows != 0 {
		t.Fatalf("expected participants removed with conference, got %d", rows)
	}
	if err := svc.Delete(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
