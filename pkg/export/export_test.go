package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Course Code", "Average Score"},
		Rows: []map[string]string{
			{"Course Code": "MATH101", "Average Score": "7.4"},
			{"Course Code": "PHYS201", "Average Score": "6.1"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	text := strings.TrimPrefix(string(out), "\uFEFF")
	require.NotEqual(t, text, string(out), "expected a UTF-8 BOM")

	lines := strings.Split(strings.TrimSpace(text), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Course Code,Average Score", lines[0])
	assert.Equal(t, "MATH101,7.4", lines[1])
	assert.Equal(t, "PHYS201,6.1", lines[2])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestCSVExporterMissingCellIsEmpty(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"a", "b"},
		Rows:    []map[string]string{{"a": "1"}},
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), "1,\n")
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset(), "Grades")
	require.NoError(t, err)
	require.NotEmpty(t, out)
	// xlsx workbooks are zip archives
	assert.Equal(t, "PK", string(out[:2]))
}

func TestXLSXExporterRequiresHeaders(t *testing.T) {
	_, err := NewXLSXExporter().Render(Dataset{}, "Grades")
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Grade Report")
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestICSExporterRender(t *testing.T) {
	anchor := time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC) // a Wednesday
	until := anchor.AddDate(0, 4, 0)

	out, err := NewICSExporter().Render("CS101 A1", []ScheduleEvent{
		{
			UID:       "slot-1",
			Summary:   "CS101 A1 (Room B204)",
			Location:  "Room B204",
			DayOfWeek: 1,
			StartTime: "08:00",
			EndTime:   "09:30",
		},
		{
			UID:       "slot-2",
			Summary:   "CS101 A1 (Room B204)",
			DayOfWeek: 5,
			StartTime: "13:00",
			EndTime:   "14:30",
		},
	}, anchor, until)
	require.NoError(t, err)

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "END:VCALENDAR")
	assert.Contains(t, out, "UID:slot-1")
	assert.Contains(t, out, "RRULE:FREQ=WEEKLY;BYDAY=MO")
	assert.Contains(t, out, "RRULE:FREQ=WEEKLY;BYDAY=FR")
	assert.Contains(t, out, "SUMMARY:CS101 A1 (Room B204)")
	// the monday of the anchor week is March 2nd
	assert.Contains(t, out, "DTSTART:20260302T080000Z")
}

func TestICSExporterRejectsBadDay(t *testing.T) {
	_, err := NewICSExporter().Render("x", []ScheduleEvent{{UID: "s", DayOfWeek: 0, StartTime: "08:00", EndTime: "09:00"}}, time.Now(), time.Now())
	assert.Error(t, err)
}

func TestICSExporterRejectsBadClock(t *testing.T) {
	_, err := NewICSExporter().Render("x", []ScheduleEvent{{UID: "s", DayOfWeek: 2, StartTime: "8am", EndTime: "09:00"}}, time.Now(), time.Now())
	assert.Error(t, err)
}
