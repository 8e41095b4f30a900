package reporting

import (
	"context"
	"sort"

	"contactcalls/internal/models"
)

// MemoryRepo serves a fixed slice of calls. Useful in tests and for
// exercising the aggregation without a database.
type MemoryRepo struct {
	Calls []models.Call
}

func (r *MemoryRepo) ListCalls(_ context.Context, f Filter) ([]models.Call, error) {
	var out []models.Call
	for _, c := range r.Calls {
		if c.StartTime.Before(f.From) || c.StartTime.After(f.To) {
			continue
		}
		if f.PhoneID != nil && c.FromPhoneID != *f.PhoneID && c.ToPhoneID != *f.PhoneID {
			continue
		}
		if f.PhoneID == nil && f.ContactID != nil && !touchesContact(c, *f.ContactID) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

func touchesContact(c models.Call, contactID uint) bool {
	if c.FromPhone != nil && c.FromPhone.ContactID == contactID {
		return true
	}
	return c.ToPhone != nil && c.ToPhone.ContactID == contactID
}
