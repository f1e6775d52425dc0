package service

import (
	"time"

	"bites4life/internal/model"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// StampFormatter renders wall-clock stamps for r_time and a_time.
type StampFormatter struct {
	loc    *time.Location
	layout string
}

// NewStampFormatter creates a formatter for loc and layout. A nil loc means
// server local time; an empty layout means "03:04 PM".
func NewStampFormatter(loc *time.Location, layout string) StampFormatter {
	if loc == nil {
		loc = time.Local
	}
	if layout == "" {
		layout = "03:04 PM"
	}
	return StampFormatter{loc: loc, layout: layout}
}

// Format renders t in the configured zone.
func (f StampFormatter) Format(t time.Time) string {
	return t.In(f.loc).Format(f.layout)
}

// Transition is the set of column writes one state-machine trigger applies to
// a single rider row. Nil fields are left untouched.
type Transition struct {
	Status      *model.Status
	RTime       *string
	ATime       *string
	LastClickAt *time.Time
	RingStatus  model.RingStatus
}

// ReportStatusTransition is a rider self-report. Coming and Here stamp r_time;
// every report clears the ring flag.
func ReportStatusTransition(status model.Status, now time.Time, f StampFormatter) Transition {
	t := Transition{
		Status:      &status,
		LastClickAt: utc(now),
		RingStatus:  model.RingIdle,
	}
	if status.StampsReportTime() {
		stamp := f.Format(now)
		t.RTime = &stamp
	}
	return t
}

// MarkOnRouteTransition is the admin dispatching a rider.
func MarkOnRouteTransition(now time.Time, f StampFormatter) Transition {
	status := model.StatusOnRoute
	stamp := f.Format(now)
	return Transition{
		Status:      &status,
		ATime:       &stamp,
		LastClickAt: utc(now),
		RingStatus:  model.RingIdle,
	}
}

// RingTransition raises the notification flag.
func RingTransition() Transition {
	return Transition{RingStatus: model.RingRinging}
}

// StopRingTransition lowers the notification flag.
func StopRingTransition() Transition {
	return Transition{RingStatus: model.RingIdle}
}

// Columns returns the UPDATE column set. ring_status is always written.
func (t Transition) Columns() map[string]interface{} {
	cols := map[string]interface{}{"ring_status": t.RingStatus}
	if t.Status != nil {
		cols["status"] = *t.Status
	}
	if t.RTime != nil {
		cols["r_time"] = *t.RTime
	}
	if t.ATime != nil {
		cols["a_time"] = *t.ATime
	}
	if t.LastClickAt != nil {
		cols["last_click_dt"] = *t.LastClickAt
	}
	return cols
}

// Apply mutates r in memory exactly as Columns would in the store.
func (t Transition) Apply(r *model.Rider) {
	if t.Status != nil {
		r.Status = *t.Status
	}
	if t.RTime != nil {
		r.RTime = *t.RTime
	}
	if t.ATime != nil {
		r.ATime = *t.ATime
	}
	if t.LastClickAt != nil {
		r.LastClickAt = *t.LastClickAt
	}
	r.RingStatus = t.RingStatus
}

func utc(t time.Time) *time.Time {
	u := t.UTC()
	return &u
}
