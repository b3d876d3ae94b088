package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/caseline/pkg/domain/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func TestCalendar_BusinessDaysBetween(t *testing.T) {
	cal := model.NewCalendar(nil)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"same day", date(2026, 10, 14), date(2026, 10, 14), 0},
		{"monday to following monday", date(2026, 10, 12), date(2026, 10, 19), 5},
		{"saturday to monday of the same weekend", date(2026, 10, 10), date(2026, 10, 12), 0},
		{"sunday to monday", date(2026, 10, 11), date(2026, 10, 12), 0},
		{"friday to monday", date(2026, 10, 9), date(2026, 10, 12), 1},
		{"monday to wednesday", date(2026, 10, 12), date(2026, 10, 14), 2},
		{"friday to saturday", date(2026, 10, 9), date(2026, 10, 10), 1},
		{"three weeks", date(2026, 9, 23), date(2026, 10, 14), 15},
		{"backward monday to previous monday", date(2026, 10, 12), date(2026, 10, 5), -5},
		{"backward monday to saturday", date(2026, 10, 12), date(2026, 10, 10), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Number(t, cal.BusinessDaysBetween(tt.start, tt.end)).Equal(tt.want)
		})
	}
}

func TestCalendar_BusinessDaysBetween_TimeOfDayIgnored(t *testing.T) {
	cal := model.NewCalendar(nil)
	start := time.Date(2026, 10, 12, 23, 59, 0, 0, time.UTC)
	end := time.Date(2026, 10, 13, 0, 1, 0, 0, time.UTC)
	gt.Number(t, cal.BusinessDaysBetween(start, end)).Equal(1)
}

func TestCalendar_BusinessDaysBetween_Symmetry(t *testing.T) {
	cal := model.NewCalendar(nil)
	monday := date(2026, 10, 12)

	for i := 0; i < 5; i++ {
		for j := i; j < 5; j++ {
			a := monday.AddDate(0, 0, i)
			b := monday.AddDate(0, 0, j)
			gt.B(t, cal.BusinessDaysBetween(a, b) == -cal.BusinessDaysBetween(b, a)).
				Describef("%s and %s", a.Weekday(), b.Weekday()).
				True()
		}
	}

	// Weekend endpoints stay symmetric too
	sat := date(2026, 10, 10)
	gt.Number(t, cal.BusinessDaysBetween(sat, monday.AddDate(0, 0, 7))).
		Equal(-cal.BusinessDaysBetween(monday.AddDate(0, 0, 7), sat))
}

func TestCalendar_BusinessDaysBetween_Location(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// Friday 20:00 UTC is already Saturday in Tokyo
	fri := time.Date(2026, 10, 9, 20, 0, 0, 0, time.UTC)
	mon := time.Date(2026, 10, 12, 1, 0, 0, 0, time.UTC)

	gt.Number(t, model.NewCalendar(nil).BusinessDaysBetween(fri, mon)).Equal(1)
	gt.Number(t, model.NewCalendar(tokyo).BusinessDaysBetween(fri, mon)).Equal(0)
}

func TestCalendar_AddBusinessDays(t *testing.T) {
	cal := model.NewCalendar(nil)

	tests := []struct {
		name string
		from time.Time
		n    int
		want time.Time
	}{
		{"friday plus one is monday", date(2026, 10, 9), 1, date(2026, 10, 12)},
		{"monday minus one is friday", date(2026, 10, 12), -1, date(2026, 10, 9)},
		{"wednesday plus five", date(2026, 10, 14), 5, date(2026, 10, 21)},
		{"wednesday minus fifteen", date(2026, 10, 14), -15, date(2026, 9, 23)},
		{"saturday plus one is monday", date(2026, 10, 10), 1, date(2026, 10, 12)},
		{"zero keeps weekend date", date(2026, 10, 10), 0, date(2026, 10, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cal.AddBusinessDays(tt.from, tt.n)
			gt.Bool(t, got.Equal(tt.want)).
				Describef("got %s, want %s", got, tt.want).
				True()
		})
	}
}

func TestCalendar_AddBusinessDays_RoundTrip(t *testing.T) {
	cal := model.NewCalendar(nil)
	monday := date(2026, 10, 12)

	for i := 0; i < 5; i++ {
		from := monday.AddDate(0, 0, i)
		for _, n := range []int{-20, -3, -1, 1, 4, 14, 15} {
			to := cal.AddBusinessDays(from, n)
			gt.Bool(t, cal.IsBusinessDay(to)).True()
			gt.B(t, cal.BusinessDaysBetween(from, to) == n).
				Describef("from %s by %d", from.Weekday(), n).
				True()
		}
	}
}

func TestCalendar_IsBusinessDay(t *testing.T) {
	cal := model.NewCalendar(nil)
	gt.Bool(t, cal.IsBusinessDay(date(2026, 10, 9))).True()
	gt.Bool(t, cal.IsBusinessDay(date(2026, 10, 10))).False()
	gt.Bool(t, cal.IsBusinessDay(date(2026, 10, 11))).False()
}
