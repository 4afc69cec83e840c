package service

import (
	"testing"
	"time"

	"ion-assistant/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveReminderTime_TomorrowWithHour(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.Local)

	resolved, err := ResolveReminderTime("amanhã às 15h", models.RecorrenciaUnico, now)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 11, 15, 0, 0, 0, time.Local), resolved)
}

func TestResolveReminderTime_ClockTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)

	resolved, err := ResolveReminderTime("hoje 14:30", models.RecorrenciaUnico, now)
	require.NoError(t, err)

	assert.Equal(t, 14, resolved.Hour())
	assert.Equal(t, 30, resolved.Minute())
	assert.Equal(t, now.Day(), resolved.Day())
}

func TestResolveReminderTime_ISODate(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)

	resolved, err := ResolveReminderTime("2026-04-01 09:00", models.RecorrenciaUnico, now)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 4, 1, 9, 0, 0, 0, time.Local), resolved)
}

func TestResolveReminderTime_MinimumLead(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 55, 0, 0, time.Local)

	// 15h today is inside the lead window, so it rolls to the next day.
	resolved, err := ResolveReminderTime("hoje às 15h", models.RecorrenciaUnico, now)
	require.NoError(t, err)

	assert.True(t, resolved.Sub(now) >= models.MinReminderLead,
		"resolved time %v must honor the minimum lead", resolved)
	assert.Equal(t, 11, resolved.Day())
}

func TestResolveReminderTime_RollForwardByRecurrence(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

	cases := []struct {
		recurrence models.Recurrence
		wantDay    int
		wantMonth  time.Month
	}{
		{models.RecorrenciaDiario, 11, time.March},
		{models.RecorrenciaSemanal, 17, time.March},
		{models.RecorrenciaMensal, 10, time.April},
	}

	for _, tc := range cases {
		resolved, err := ResolveReminderTime("hoje às 9h", tc.recurrence, now)
		require.NoError(t, err)
		assert.Equal(t, tc.wantDay, resolved.Day(), "recurrence %s", tc.recurrence)
		assert.Equal(t, tc.wantMonth, resolved.Month(), "recurrence %s", tc.recurrence)
		assert.Equal(t, 9, resolved.Hour())
	}
}

func TestResolveReminderTime_PastDateTerminates(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

	resolved, err := ResolveReminderTime("2020-01-01", models.RecorrenciaDiario, now)
	require.NoError(t, err)

	assert.True(t, resolved.After(now))
}

func TestResolveReminderTime_FarPastRollsForward(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	earliest := now.Add(models.MinReminderLead)

	cases := []struct {
		recurrence models.Recurrence
		raw        string
	}{
		{models.RecorrenciaDiario, "1990-06-15 09:00"},
		{models.RecorrenciaSemanal, "1990-06-15 09:00"},
		{models.RecorrenciaMensal, "1990-06-15 09:00"},
		{models.RecorrenciaUnico, "1990-06-15 09:00"},
	}

	for _, tc := range cases {
		resolved, err := ResolveReminderTime(tc.raw, tc.recurrence, now)
		require.NoError(t, err, "recurrence %s", tc.recurrence)

		assert.False(t, resolved.Before(earliest),
			"recurrence %s resolved to %v, before %v", tc.recurrence, resolved, earliest)
		// The jump must land on the first valid occurrence, not overshoot.
		switch tc.recurrence {
		case models.RecorrenciaDiario, models.RecorrenciaUnico:
			assert.True(t, resolved.Sub(earliest) < 24*time.Hour,
				"recurrence %s overshot: %v", tc.recurrence, resolved)
		case models.RecorrenciaSemanal:
			assert.True(t, resolved.Sub(earliest) < 7*24*time.Hour,
				"semanal overshot: %v", resolved)
		case models.RecorrenciaMensal:
			assert.Equal(t, time.March, resolved.Month())
			assert.Equal(t, 2026, resolved.Year())
		}
	}
}

func TestResolveReminderTime_DayOnlyKeepsClock(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 42, 0, 0, time.Local)

	resolved, err := ResolveReminderTime("amanhã", models.RecorrenciaUnico, now)
	require.NoError(t, err)

	assert.Equal(t, 11, resolved.Day())
	assert.Equal(t, 9, resolved.Hour())
	assert.Equal(t, 42, resolved.Minute())
}

func TestResolveReminderTime_Unparseable(t *testing.T) {
	now := time.Now()

	_, err := ResolveReminderTime("qualquer coisa sem data", models.RecorrenciaUnico, now)
	assert.ErrorIs(t, err, ErrUnparseableDate)

	_, err = ResolveReminderTime("", models.RecorrenciaUnico, now)
	assert.ErrorIs(t, err, ErrUnparseableDate)
}

func TestResolveReminderTime_BareHourAfterAs(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.Local)

	// Accented "às" without the "h" suffix must still pick up the hour.
	resolved, err := ResolveReminderTime("amanhã às 15", models.RecorrenciaUnico, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 11, 15, 0, 0, 0, time.Local), resolved)

	resolved, err = ResolveReminderTime("amanha as 15", models.RecorrenciaUnico, now)
	require.NoError(t, err)
	assert.Equal(t, 15, resolved.Hour())
}

func TestResolveReminderTime_MeioDia(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)

	resolved, err := ResolveReminderTime("amanhã meio dia", models.RecorrenciaUnico, now)
	require.NoError(t, err)

	assert.Equal(t, 12, resolved.Hour())
	assert.Equal(t, 11, resolved.Day())
}
