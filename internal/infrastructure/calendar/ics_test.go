package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/communication"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(t *testing.T, title string) communication.CalendarEvent {
	t.Helper()
	start := time.Date(2024, 7, 1, 15, 0, 0, 0, time.UTC)
	e, err := communication.NewCalendarEvent(uuid.New(), title, start, start.Add(3*24*time.Hour))
	require.NoError(t, err)
	return *e
}

func unfold(s string) string {
	return strings.ReplaceAll(s, "\r\n ", "")
}

func lineWith(t *testing.T, doc, prefix string) string {
	t.Helper()
	for _, line := range strings.Split(unfold(doc), "\r\n") {
		if strings.HasPrefix(line, prefix) {
			return line
		}
	}
	t.Fatalf("no line starting with %q", prefix)
	return ""
}

func TestFeedWrite(t *testing.T) {
	e := event(t, "Arrival: Clara Mendes, room 201")
	e.SetDetails("Late arrival; wants sea view\nbring flowers", "Seaside Boutique Hotel")
	require.NoError(t, e.SetAttendees([]string{"clara@events.example"}))

	cancelled := event(t, "Terrace dinner")
	require.NoError(t, cancelled.Cancel())

	var buf bytes.Buffer
	now := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	require.NoError(t, Feed{Name: "Reservations", Domain: "seaside.example"}.Write(&buf, []communication.CalendarEvent{e, cancelled}, now))

	out := unfold(buf.String())
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "UID:"+e.ID.String()+"@seaside.example")
	assert.Contains(t, out, "DTSTAMP:20240601T083000Z")
	assert.Contains(t, out, "DTSTART:20240701T150000Z")
	assert.Contains(t, out, "DTEND:20240704T150000Z")
	assert.Contains(t, out, `SUMMARY:Arrival: Clara Mendes\, room 201`)
	assert.Contains(t, out, `DESCRIPTION:Late arrival\; wants sea view\nbring flowers`)
	assert.Contains(t, out, "STATUS:CONFIRMED")
	assert.Contains(t, out, "STATUS:CANCELLED")
	assert.Contains(t, out, "SEQUENCE:2")
	assert.Contains(t, out, "X-WR-CALNAME:Reservations")

	attendee := lineWith(t, buf.String(), "ATTENDEE")
	assert.Contains(t, attendee, "ROLE=REQ-PARTICIPANT")
	assert.True(t, strings.HasSuffix(attendee, ":mailto:clara@events.example"), attendee)
}

func TestFeedWrite_ParsesBack(t *testing.T) {
	e := event(t, "Check-out, Suite 4; late")
	require.NoError(t, e.SetAttendees([]string{"ana@example.com", "rui@example.com"}))

	var buf bytes.Buffer
	require.NoError(t, Feed{Domain: "seaside.example"}.Write(&buf, []communication.CalendarEvent{e}, time.Now()))

	cal, err := ics.ParseCalendar(strings.NewReader(buf.String()))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 1)
	assert.Equal(t, e.ID.String()+"@seaside.example", events[0].Id())
	assert.Len(t, events[0].Attendees(), 2)
}

func TestFeedWrite_FoldsLongLines(t *testing.T) {
	e := event(t, "Suite")
	e.SetDetails(strings.Repeat("é", 100), "")

	var buf bytes.Buffer
	require.NoError(t, Feed{}.Write(&buf, []communication.CalendarEvent{e}, time.Now()))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), 75, line)
	}
	assert.Contains(t, unfold(buf.String()), "DESCRIPTION:"+strings.Repeat("é", 100))
	assert.Contains(t, buf.String(), "@hospitality.local")
}

func TestFeedWrite_AttendeesAreValidatedAddresses(t *testing.T) {
	e := event(t, "Suite")
	assert.Error(t, e.SetAttendees([]string{"ana@example.com\r\nX-INJECTED:1"}))
	assert.Error(t, e.SetAttendees([]string{`ana"@example.com`}))
}
