package gofat

import (
	"testing"
	"time"
)

func TestFormatDateTime_RoundTripsThroughParse(t *testing.T) {
	when := time.Date(2024, time.March, 15, 13, 45, 30, 0, time.UTC)

	packed := FormatDateTime(when)

	gotDate := ParseDate(packed.date)
	if gotDate.Year() != 2024 || gotDate.Month() != time.March || gotDate.Day() != 15 {
		t.Errorf("ParseDate(FormatDateTime(...).date) = %v, want 2024-03-15", gotDate)
	}

	gotTime := ParseTime(packed.time)
	// Seconds are truncated to 2-second resolution.
	if gotTime.Hour() != 13 || gotTime.Minute() != 45 || gotTime.Second() != 30 {
		t.Errorf("ParseTime(FormatDateTime(...).time) = %v, want 13:45:30", gotTime)
	}
}

func TestFormatDateTime_OddSecondGoesToTenth(t *testing.T) {
	when := time.Date(2024, time.March, 15, 13, 45, 31, 0, time.UTC)
	packed := FormatDateTime(when)

	if packed.tenth != 100 {
		t.Errorf("packed.tenth = %v, want 100 for an odd second", packed.tenth)
	}

	gotTime := ParseTime(packed.time)
	if gotTime.Second() != 30 {
		t.Errorf("ParseTime(packed.time).Second() = %v, want 30 (truncated down from 31)", gotTime.Second())
	}
}

func TestFormatDateTime_YearClampedToFATRange(t *testing.T) {
	tooEarly := FormatDateTime(time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC))
	if got := ParseDate(tooEarly.date).Year(); got != 1980 {
		t.Errorf("year before 1980 clamped to %v, want 1980", got)
	}

	tooLate := FormatDateTime(time.Date(2200, time.January, 1, 0, 0, 0, 0, time.UTC))
	if got := ParseDate(tooLate.date).Year(); got != 2107 {
		t.Errorf("year after 2107 clamped to %v, want 2107", got)
	}
}

func TestApplyDateTime_StampsAllThreeFields(t *testing.T) {
	when := FormatDateTime(time.Date(2024, time.March, 15, 13, 45, 30, 0, time.UTC))

	var entry EntryHeader
	applyDateTime(&entry, when)

	if entry.CreateDate != when.date || entry.WriteDate != when.date || entry.LastAccessDate != when.date {
		t.Errorf("applyDateTime() did not stamp every date field consistently: %+v", entry)
	}
	if entry.CreateTime != when.time || entry.WriteTime != when.time {
		t.Errorf("applyDateTime() did not stamp every time field consistently: %+v", entry)
	}
	if entry.CreateTimeTenth != when.tenth {
		t.Errorf("applyDateTime() CreateTimeTenth = %v, want %v", entry.CreateTimeTenth, when.tenth)
	}
}
