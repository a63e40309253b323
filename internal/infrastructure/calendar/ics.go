// Package calendar serializes calendar events as an iCalendar (RFC 5545) feed.
package calendar

import (
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/hospitality/backend/internal/domain/communication"
)

const prodID = "-//Hospitality Backend//Calendar//EN"

// Feed describes the calendar being written
type Feed struct {
	Name   string
	Domain string // used to build globally unique UIDs
}

// Write renders the events as a VCALENDAR document
func (f Feed) Write(w io.Writer, events []communication.CalendarEvent, now time.Time) error {
	cal := ics.NewCalendar()
	cal.SetProductId(prodID)
	cal.SetMethod(ics.MethodPublish)
	if f.Name != "" {
		cal.SetXWRCalName(f.Name)
	}

	domain := f.Domain
	if domain == "" {
		domain = "hospitality.local"
	}

	for _, e := range events {
		ev := cal.AddEvent(e.ID.String() + "@" + domain)
		ev.SetDtStampTime(now)
		ev.SetStartAt(e.StartsAt)
		ev.SetEndAt(e.EndsAt)
		ev.SetModifiedAt(e.UpdatedAt)
		ev.SetSummary(e.Title)
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
		if e.Location != "" {
			ev.SetLocation(e.Location)
		}
		for _, a := range e.Attendees {
			ev.AddAttendee(a,
				ics.CalendarUserTypeIndividual,
				ics.ParticipationRoleReqParticipant,
				ics.ParticipationStatusNeedsAction)
		}
		if e.Status == communication.EventStatusCancelled {
			ev.SetStatus(ics.ObjectStatusCancelled)
		} else {
			ev.SetStatus(ics.ObjectStatusConfirmed)
		}
		ev.SetSequence(e.Version)
	}

	return cal.SerializeTo(w, ics.WithNewLineWindows)
}
