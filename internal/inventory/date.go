package inventory

import (
	"fmt"
	"sync"
	"time"
)

// DateLayout is the calendar-day key used by the ledger, snapshots and reports.
const DateLayout = "2006-01-02"

// DateResolver yields the active date. A simulation override, when set,
// replaces the real calendar date everywhere the resolver is consulted.
type DateResolver struct {
	Now      func() time.Time
	Location *time.Location

	mu       sync.Mutex
	override string
}

func NewDateResolver(loc *time.Location) *DateResolver {
	if loc == nil {
		loc = time.Local
	}
	return &DateResolver{Now: time.Now, Location: loc}
}

// Resolve returns the override if present, else today's date in Location.
func (r *DateResolver) Resolve() string {
	r.mu.Lock()
	ov := r.override
	r.mu.Unlock()
	if ov != "" {
		return ov
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc).Format(DateLayout)
}

// SetOverride pins the active date. Callers must ClearOverride when done.
func (r *DateResolver) SetOverride(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("invalid override date %q: %w", date, err)
	}
	r.mu.Lock()
	r.override = date
	r.mu.Unlock()
	return nil
}

func (r *DateResolver) ClearOverride() {
	r.mu.Lock()
	r.override = ""
	r.mu.Unlock()
}

// Override reports the current override, if any.
func (r *DateResolver) Override() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.override, r.override != ""
}
