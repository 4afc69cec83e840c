package service

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ion-assistant/internal/models"
)

// ErrUnparseableDate means no usable date could be extracted. Callers must
// surface this instead of scheduling at a guessed time.
var ErrUnparseableDate = errors.New("não consegui entender a data informada")

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

var (
	clockRe    = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	hourRe     = regexp.MustCompile(`\b(\d{1,2})\s*h(?:oras?)?\b`)
	// \b is ASCII-only and never fires next to "à", so anchor on
	// start-of-string or whitespace instead.
	bareHourRe = regexp.MustCompile(`(?:^|\s)[aà]s?\s+(\d{1,2})\b`)
)

// ResolveReminderTime turns a natural-language or ISO-ish expression into a
// concrete timestamp at least MinReminderLead in the future, rolling forward
// by the recurrence period when the extracted time has already passed.
func ResolveReminderTime(raw string, recurrence models.Recurrence, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrUnparseableDate
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, now.Location()); err == nil {
			return rollForward(t, recurrence, now), nil
		}
	}

	t, ok := parseRelative(raw, now)
	if !ok {
		return time.Time{}, ErrUnparseableDate
	}

	return rollForward(t, recurrence, now), nil
}

// parseRelative scans for Portuguese relative-day keywords and time-of-day
// phrases against the base "now".
func parseRelative(raw string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(raw)

	day := now
	dayFound := false
	switch {
	case strings.Contains(lower, "amanhã") || strings.Contains(lower, "amanha"):
		day = now.AddDate(0, 0, 1)
		dayFound = true
	case strings.Contains(lower, "hoje"):
		dayFound = true
	case strings.Contains(lower, "ontem"):
		day = now.AddDate(0, 0, -1)
		dayFound = true
	}

	hour, minute, timeFound := parseTimeOfDay(lower)
	if !dayFound && !timeFound {
		return time.Time{}, false
	}
	if !timeFound {
		// Day keyword without a time keeps the current clock time.
		hour, minute = now.Hour(), now.Minute()
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location()), true
}

func parseTimeOfDay(lower string) (hour, minute int, ok bool) {
	switch {
	case strings.Contains(lower, "meio dia") || strings.Contains(lower, "meio-dia"):
		return 12, 0, true
	case strings.Contains(lower, "meia noite") || strings.Contains(lower, "meia-noite"):
		return 0, 0, true
	}

	if m := clockRe.FindStringSubmatch(lower); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		if h < 24 && min < 60 {
			return h, min, true
		}
	}

	if m := hourRe.FindStringSubmatch(lower); m != nil {
		h, _ := strconv.Atoi(m[1])
		if h < 24 {
			return h, 0, true
		}
	}

	if m := bareHourRe.FindStringSubmatch(lower); m != nil {
		h, _ := strconv.Atoi(m[1])
		if h < 24 {
			return h, 0, true
		}
	}

	return 0, 0, false
}

// rollForward advances t to the first occurrence of the recurrence that
// honors the minimum lead. The bulk of the distance is jumped in one
// arithmetic step so an arbitrarily old t still terminates; a short
// residual loop absorbs month-length and clock-of-day remainders.
func rollForward(t time.Time, recurrence models.Recurrence, now time.Time) time.Time {
	earliest := now.Add(models.MinReminderLead)
	if !t.Before(earliest) {
		return t
	}

	switch recurrence {
	case models.RecorrenciaMensal:
		months := (earliest.Year()-t.Year())*12 + int(earliest.Month()) - int(t.Month())
		if months > 0 {
			t = t.AddDate(0, months, 0)
		}
	case models.RecorrenciaSemanal:
		weeks := int(earliest.Sub(t).Hours()) / (24 * 7)
		if weeks > 0 {
			t = t.AddDate(0, 0, weeks*7)
		}
	default:
		// Diario, Unico and anything unknown advance by whole days.
		days := int(earliest.Sub(t).Hours()) / 24
		if days > 0 {
			t = t.AddDate(0, 0, days)
		}
	}

	for i := 0; i < 4 && t.Before(earliest); i++ {
		switch recurrence {
		case models.RecorrenciaSemanal:
			t = t.AddDate(0, 0, 7)
		case models.RecorrenciaMensal:
			t = t.AddDate(0, 1, 0)
		default:
			t = t.AddDate(0, 0, 1)
		}
	}

	return t
}
