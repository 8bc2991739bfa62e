package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// ScheduleEvent is one weekly-recurring calendar entry.
type ScheduleEvent struct {
	UID       string
	Summary   string
	Location  string
	DayOfWeek int    // 1=Monday ... 7=Sunday
	StartTime string // "15:04"
	EndTime   string // "15:04"
}

// ICSExporter renders weekly schedule slots as an iCalendar feed.
type ICSExporter struct{}

// NewICSExporter constructs an ICS exporter.
func NewICSExporter() *ICSExporter {
	return &ICSExporter{}
}

var rruleDays = map[int]string{1: "MO", 2: "TU", 3: "WE", 4: "TH", 5: "FR", 6: "SA", 7: "SU"}

// Render serialises events anchored to the week containing anchor, each
// repeating weekly until the until date.
func (e *ICSExporter) Render(calName string, events []ScheduleEvent, anchor, until time.Time) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetName(calName)

	monday := anchor.AddDate(0, 0, -(int(anchor.Weekday())+6)%7)
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, anchor.Location())

	for _, ev := range events {
		if ev.DayOfWeek < 1 || ev.DayOfWeek > 7 {
			return "", fmt.Errorf("invalid day of week %d", ev.DayOfWeek)
		}
		start, err := combine(monday.AddDate(0, 0, ev.DayOfWeek-1), ev.StartTime)
		if err != nil {
			return "", fmt.Errorf("parse start time %q: %w", ev.StartTime, err)
		}
		end, err := combine(monday.AddDate(0, 0, ev.DayOfWeek-1), ev.EndTime)
		if err != nil {
			return "", fmt.Errorf("parse end time %q: %w", ev.EndTime, err)
		}

		event := cal.AddEvent(ev.UID)
		event.SetCreatedTime(time.Now().UTC())
		event.SetDtStampTime(time.Now().UTC())
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(ev.Summary)
		if ev.Location != "" {
			event.SetLocation(ev.Location)
		}
		event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s;UNTIL=%s", rruleDays[ev.DayOfWeek], until.UTC().Format("20060102T150405Z")))
	}

	return cal.Serialize(), nil
}

func combine(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
