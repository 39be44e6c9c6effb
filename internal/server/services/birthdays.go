package services

import (
	"sort"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/timex"
)

const (
	DefaultBirthdayWindow = 7
	MaxBirthdayWindow     = 366
)

// UpcomingBirthday is a contact together with the date its next birthday is
// observed.
type UpcomingBirthday struct {
	Contact models.Contact
	Date    time.Time
}

// observedOn returns the date in year on which a birthday of month/day is
// observed. Feb 29 falls back to Feb 28 in non-leap years.
func observedOn(year int, month time.Month, day int) time.Time {
	if month == time.February && day == 29 && !timex.IsLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NextBirthday returns the first observed birthday on or after today. today
// must be a calendar date at midnight UTC.
func NextBirthday(birthday, today time.Time) time.Time {
	next := observedOn(today.Year(), birthday.Month(), birthday.Day())
	if next.Before(today) {
		next = observedOn(today.Year()+1, birthday.Month(), birthday.Day())
	}
	return next
}

// UpcomingBirthdays selects the contacts whose next birthday falls within
// [today, today+windowDays], ordered by that date and then by id. Contacts
// without a birthday are skipped.
func UpcomingBirthdays(contacts []models.Contact, today time.Time, windowDays int) []UpcomingBirthday {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, windowDays)

	out := []UpcomingBirthday{}
	for _, c := range contacts {
		if c.Birthday == nil {
			continue
		}
		next := NextBirthday(*c.Birthday, today)
		if next.After(end) {
			continue
		}
		out = append(out, UpcomingBirthday{Contact: c, Date: next})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Contact.ID < out[j].Contact.ID
	})
	return out
}
