package reporting

import (
	"context"
	"time"

	"contactcalls/internal/models"
)

// Repository supplies the calls a report is built from, filtered by date
// range and subject, ordered by start time descending, with both phones
// loaded.
type Repository interface {
	ListCalls(ctx context.Context, f Filter) ([]models.Call, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Statistics aggregates calls matched by the filter. Missing costs count
// as zero and the averages are zero when nothing matched.
func (s *Service) Statistics(ctx context.Context, f Filter) (*Statistics, error) {
	calls, err := s.repo.ListCalls(ctx, f)
	if err != nil {
		return nil, err
	}

	st := &Statistics{StartDate: f.From, EndDate: f.To}
	for _, c := range calls {
		st.TotalCalls++
		out, in := direction(c, f)
		if out {
			st.OutgoingCalls++
		}
		if in {
			st.IncomingCalls++
		}
		if c.Status == models.CallStatusMissed {
			st.MissedCalls++
		}
		st.TotalDurationSeconds += c.DurationSeconds
		if c.Cost != nil {
			st.TotalCost += *c.Cost
		}
	}
	if st.TotalCalls > 0 {
		st.AverageDurationSeconds = float64(st.TotalDurationSeconds) / float64(st.TotalCalls)
	}
	st.TotalDurationFormatted = formatDuration(st.TotalDurationSeconds)
	st.AverageDurationFormatted = formatDuration(int(st.AverageDurationSeconds))
	return st, nil
}

// Billing lists each matched call as a line item, most recent first.
func (s *Service) Billing(ctx context.Context, f Filter) (*Billing, error) {
	calls, err := s.repo.ListCalls(ctx, f)
	if err != nil {
		return nil, err
	}

	b := &Billing{StartDate: f.From, EndDate: f.To, Items: make([]BillingItem, 0, len(calls))}
	for _, c := range calls {
		item := BillingItem{
			CallID:            c.ID,
			CallDate:          c.StartTime,
			DurationSeconds:   c.DurationSeconds,
			DurationFormatted: formatDuration(c.DurationSeconds),
			Cost:              c.Cost,
		}
		if c.FromPhone != nil {
			item.FromPhoneNumber = c.FromPhone.Number
		}
		if c.ToPhone != nil {
			item.ToPhoneNumber = c.ToPhone.Number
		}
		b.Items = append(b.Items, item)
	}
	return b, nil
}

// direction reports whether the call originates from and terminates at the
// filter subject. The two are independent: a call between two phones of the
// same contact counts on both sides under that contact's filter. Without a
// subject every call counts as outgoing only.
func direction(c models.Call, f Filter) (outgoing, incoming bool) {
	switch {
	case f.PhoneID != nil:
		return c.FromPhoneID == *f.PhoneID, c.ToPhoneID == *f.PhoneID
	case f.ContactID != nil:
		outgoing = c.FromPhone != nil && c.FromPhone.ContactID == *f.ContactID
		incoming = c.ToPhone != nil && c.ToPhone.ContactID == *f.ContactID
		return outgoing, incoming
	default:
		return true, false
	}
}

// Period is a convenience for handlers defaulting an open-ended range.
// A missing end bound extends to the coming midnight so the rest of the
// current day is still covered; a missing start bound reaches one month back.
func Period(from, to time.Time, now func() time.Time) (time.Time, time.Time) {
	if to.IsZero() {
		n := now()
		to = time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location()).AddDate(0, 0, 1)
	}
	if from.IsZero() {
		from = to.AddDate(0, -1, 0)
	}
	return from, to
}
