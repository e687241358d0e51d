package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizer_Parse(t *testing.T) {
	n := NewNormalizer(9 * 60)

	got, err := n.Parse("2025-03-11T10:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC), got.UTC())
	assert.Equal(t, "UTC+09:00", n.Location().String())
	assert.Equal(t, "2025-03-11T10:00", n.Format(got))

	midnight, err := n.Parse("2025-03-11T00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC), midnight.UTC())
}

func TestNormalizer_ParseRejectsMalformed(t *testing.T) {
	n := NewNormalizer(9 * 60)

	for _, input := range []string{
		"",
		"2025-03-11",
		"2025-03-11 10:00",
		"2025-3-11T10:00",
		"2025-03-11T10:00:00",
		"2025-03-11T10:00+09:00",
		"2025-02-30T10:00",
		"2025-03-11T24:00",
		"2025-03-11T10:60",
	} {
		_, err := n.Parse(input)
		assert.Truef(t, errors.Is(err, ErrInvalidDatetime), "input %q", input)
	}
}

func TestNormalizer_IgnoresProcessTimezone(t *testing.T) {
	n := NewNormalizer(9 * 60)
	want, err := n.Parse("2025-03-11T10:00")
	require.NoError(t, err)

	saved := time.Local
	t.Cleanup(func() { time.Local = saved })

	for _, zone := range []*time.Location{time.UTC, time.FixedZone("PST", -8*3600), time.FixedZone("NPT", 5*3600+45*60)} {
		time.Local = zone
		got, err := n.Parse("2025-03-11T10:00")
		require.NoError(t, err)
		assert.True(t, want.Equal(got), zone.String())
	}
}

func TestNormalizer_NegativeOffset(t *testing.T) {
	n := NewNormalizer(-(3*60 + 30))
	assert.Equal(t, "UTC-03:30", n.Location().String())

	got, err := n.Parse("2025-03-11T10:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 11, 13, 30, 0, 0, time.UTC), got.UTC())
}

func TestNormalizer_FormatRange(t *testing.T) {
	n := NewNormalizer(9 * 60)
	start, _ := n.Parse("2025-03-11T22:00")
	sameDay, _ := n.Parse("2025-03-11T23:30")
	nextDay, _ := n.Parse("2025-03-12T01:00")

	assert.Equal(t, "2025-03-11 22:00 – 23:30", n.FormatRange(intervalOf(start, sameDay)))
	assert.Equal(t, "2025-03-11 22:00 – 2025-03-12 01:00", n.FormatRange(intervalOf(start, nextDay)))
}

func TestNormalizer_WeekAndMonthRange(t *testing.T) {
	n := NewNormalizer(9 * 60)

	// воскресенье 23:30 по KST, в UTC это ещё воскресенье 14:30
	sunday, _ := n.Parse("2025-03-16T23:30")
	week := n.WeekRange(sunday)
	assert.Equal(t, "2025-03-10T00:00", n.Format(week.Start))
	assert.Equal(t, "2025-03-17T00:00", n.Format(week.End))

	// понедельник 00:30 по KST, в UTC это воскресенье
	monday, _ := n.Parse("2025-03-17T00:30")
	week = n.WeekRange(monday)
	assert.Equal(t, "2025-03-17T00:00", n.Format(week.Start))

	month := n.MonthRange(monday)
	assert.Equal(t, "2025-03-01T00:00", n.Format(month.Start))
	assert.Equal(t, "2025-04-01T00:00", n.Format(month.End))

	december, _ := n.Parse("2025-12-31T23:50")
	month = n.MonthRange(december)
	assert.Equal(t, "2026-01-01T00:00", n.Format(month.End))
}

func TestAlignedToSlot(t *testing.T) {
	n := NewNormalizer(9 * 60)
	slot := 10 * time.Minute

	aligned, _ := n.Parse("2025-03-11T10:20")
	misaligned, _ := n.Parse("2025-03-11T10:25")

	assert.True(t, AlignedToSlot(aligned, slot))
	assert.False(t, AlignedToSlot(misaligned, slot))
	assert.False(t, AlignedToSlot(aligned.Add(time.Second), slot))
	assert.True(t, AlignedToSlot(misaligned, 0))

	// сетка привязана к эпохе, а не к местному времени
	odd := NewNormalizer(5*60 + 45)
	quarter, _ := odd.Parse("2025-03-11T10:00")
	assert.False(t, AlignedToSlot(quarter, slot))
	shifted, _ := odd.Parse("2025-03-11T10:05")
	assert.True(t, AlignedToSlot(shifted, slot))
}
