package bookings

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

const (
	calendarSummary   = "Haircut"
	calendarProductID = "-//SMC-BarberShop//Bookings//EN"
	calendarStampForm = "20060102T150405Z"
	googleCalendarURL = "https://calendar.google.com/calendar/render"
)

// calendarEvent событие календаря для одного бронирования
type calendarEvent struct {
	uid         string
	start       time.Time
	end         time.Time
	summary     string
	location    string
	description string
}

func newCalendarEvent(b *domain.Booking, duration time.Duration, loc *time.Location, business BusinessInfo) calendarEvent {
	start := b.StartsAt(loc)
	return calendarEvent{
		uid:         fmt.Sprintf("booking-%d@%s", b.ID, uidHost(business.Name)),
		start:       start,
		end:         start.Add(duration),
		summary:     calendarSummary,
		location:    business.Location,
		description: fmt.Sprintf("%s appointment for %s", business.Name, b.CustomerName),
	}
}

// ICS возвращает документ iCalendar с одним VEVENT
// Экранирование и перенос строк длиннее 75 октетов выполняет golang-ical
func (e calendarEvent) ICS(now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetProductId(calendarProductID)
	cal.SetMethod(ics.MethodPublish)

	event := cal.AddEvent(e.uid)
	event.SetDtStampTime(now)
	event.SetStartAt(e.start)
	event.SetEndAt(e.end)
	event.SetSummary(e.summary)
	event.SetDescription(e.description)
	if e.location != "" {
		event.SetLocation(e.location)
	}

	return cal.Serialize()
}

// GoogleURL возвращает ссылку на создание события в Google Calendar
func (e calendarEvent) GoogleURL() string {
	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", e.summary)
	params.Set("dates", e.start.UTC().Format(calendarStampForm)+"/"+e.end.UTC().Format(calendarStampForm))
	params.Set("details", e.description)
	if e.location != "" {
		params.Set("location", e.location)
	}
	return googleCalendarURL + "?" + params.Encode()
}

func uidHost(name string) string {
	host := strings.ToLower(strings.Join(strings.Fields(name), "-"))
	if host == "" {
		return "barbershop"
	}
	return host
}
