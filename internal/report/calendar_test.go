package report

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/api/calendar/v3"
)

func TestCalendarFetcher_MergesAndSortsAcrossCalendars(t *testing.T) {
	byCalendar := map[string][]*calendar.Event{
		"a": {
			{Start: &calendar.EventDateTime{DateTime: "2025-03-14T09:00:00+09:00"}, Summary: "standup"},
		},
		"b": {
			{Start: &calendar.EventDateTime{DateTime: "2025-03-14T10:30:00+09:00"}, Summary: "design"},
			{Start: &calendar.EventDateTime{DateTime: "2025-03-14T09:30:00+09:00"}, Summary: "review"},
		},
	}
	f := &CalendarFetcher{
		CalendarIDs: "a, b",
		list: func(_ context.Context, id string, _ Window) ([]*calendar.Event, error) {
			return byCalendar[id], nil
		},
	}

	frag := f.Fetch(context.Background(), testWindow())

	want := "- 09:00 standup\n- 09:30 review\n- 10:30 design"
	if frag.Text != want {
		t.Errorf("Text = %q, want %q", frag.Text, want)
	}
	if frag.Counters[counterEntries] != 3 {
		t.Errorf("entries = %d, want 3", frag.Counters[counterEntries])
	}
}

func TestCalendarFetcher_DropsAllDayEvents(t *testing.T) {
	f := &CalendarFetcher{
		CalendarIDs: "a",
		list: func(_ context.Context, _ string, _ Window) ([]*calendar.Event, error) {
			return []*calendar.Event{
				{Start: &calendar.EventDateTime{Date: "2025-03-14"}, Summary: "holiday"},
				{Start: &calendar.EventDateTime{DateTime: "2025-03-14T09:00:00+09:00"}, Summary: "standup"},
				{Summary: "no start at all"},
			}, nil
		},
	}

	frag := f.Fetch(context.Background(), testWindow())

	if frag.Text != "- 09:00 standup" {
		t.Errorf("Text = %q, want %q", frag.Text, "- 09:00 standup")
	}
	if frag.Counters[counterEntries] != 1 {
		t.Errorf("entries = %d, want 1", frag.Counters[counterEntries])
	}
}

func TestCalendarFetcher_PerCalendarFailureIsIsolated(t *testing.T) {
	f := &CalendarFetcher{
		CalendarIDs: "broken,ok",
		list: func(_ context.Context, id string, _ Window) ([]*calendar.Event, error) {
			if id == "broken" {
				return nil, errors.New("403")
			}
			return []*calendar.Event{
				{Start: &calendar.EventDateTime{DateTime: "2025-03-14T11:00:00+09:00"}, Summary: "lunch"},
			}, nil
		},
	}

	frag := f.Fetch(context.Background(), testWindow())

	if frag.Text != "- 11:00 lunch" {
		t.Errorf("Text = %q, want %q (broken calendar must be skipped)", frag.Text, "- 11:00 lunch")
	}
}

func TestCalendarFetcher_NoEntriesIsEmptyMarker(t *testing.T) {
	f := &CalendarFetcher{
		CalendarIDs: "a",
		list: func(_ context.Context, _ string, _ Window) ([]*calendar.Event, error) {
			return nil, nil
		},
	}

	frag := f.Fetch(context.Background(), testWindow())

	if frag.Text != EmptyText {
		t.Errorf("Text = %q, want %q", frag.Text, EmptyText)
	}
}

func TestCalendarFetcher_BadCredentialsCollapseToFailure(t *testing.T) {
	f := NewCalendarFetcher("a", "not a json document")

	frag := f.Fetch(context.Background(), testWindow())

	if frag.Text != FailureText {
		t.Errorf("Text = %q, want failure marker", frag.Text)
	}
}

func TestFormatCalendarEntries_StableOnEqualStart(t *testing.T) {
	entries := []calendarEntry{
		{dateTime: "2025-03-14T09:00:00+09:00", summary: "first"},
		{dateTime: "2025-03-14T09:00:00+09:00", summary: "second"},
	}
	got := formatCalendarEntries(entries)
	want := "- 09:00 first\n- 09:00 second"
	if got != want {
		t.Errorf("formatCalendarEntries = %q, want %q", got, want)
	}
}
