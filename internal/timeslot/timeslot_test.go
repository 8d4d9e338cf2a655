package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(hour, minute int) time.Time {
	return time.Date(2026, 5, 1, hour, minute, 0, 0, time.UTC)
}

func TestFixedWindow(t *testing.T) {
	w := FixedWindow(date(6, 0))
	assert.Equal(t, date(6, 0), w.Start)
	assert.Equal(t, date(8, 0), w.End)
	assert.Equal(t, "06:00 - 08:00", w.Label())
}

func TestNewWindow(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{"exactly one hour", date(9, 0), date(10, 0), false},
		{"ninety minutes", date(9, 0), date(10, 30), false},
		{"exactly two hours", date(9, 0), date(11, 0), false},
		{"too short", date(9, 0), date(9, 30), true},
		{"too long", date(9, 0), date(11, 30), true},
		{"end before start", date(11, 0), date(9, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWindow(tt.start, tt.end)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.start, w.Start)
			assert.Equal(t, tt.end, w.End)
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Window
		want bool
	}{
		{
			name: "identical windows",
			a:    Window{Start: date(6, 0), End: date(8, 0)},
			b:    Window{Start: date(6, 0), End: date(8, 0)},
			want: true,
		},
		{
			name: "partial overlap",
			a:    Window{Start: date(6, 0), End: date(8, 0)},
			b:    Window{Start: date(7, 0), End: date(9, 0)},
			want: true,
		},
		{
			name: "a contains b",
			a:    Window{Start: date(6, 0), End: date(10, 0)},
			b:    Window{Start: date(7, 0), End: date(8, 0)},
			want: true,
		},
		{
			name: "b contains a",
			a:    Window{Start: date(7, 0), End: date(8, 0)},
			b:    Window{Start: date(6, 0), End: date(10, 0)},
			want: true,
		},
		{
			name: "adjacent windows do not overlap",
			a:    Window{Start: date(6, 0), End: date(8, 0)},
			b:    Window{Start: date(8, 0), End: date(10, 0)},
			want: false,
		},
		{
			name: "disjoint windows",
			a:    Window{Start: date(6, 0), End: date(8, 0)},
			b:    Window{Start: date(13, 0), End: date(15, 0)},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestSameDay(t *testing.T) {
	assert.True(t, SameDay(date(0, 0), date(23, 59)))
	assert.False(t, SameDay(date(23, 59), date(23, 59).Add(time.Minute)))
}

func TestStartOfDay(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	assert.NoError(t, err)

	at := time.Date(2026, 5, 1, 17, 42, 13, 0, loc)
	got := StartOfDay(at)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestWindowPhases(t *testing.T) {
	w := Window{Start: date(13, 0), End: date(15, 0)}

	tests := []struct {
		name     string
		now      time.Time
		past     bool
		current  bool
		upcoming bool
	}{
		{"well before", date(9, 0), false, false, false},
		{"within one slot of start", date(11, 30), false, false, true},
		{"at start", date(13, 0), false, true, false},
		{"inside", date(14, 0), false, true, false},
		{"at end", date(15, 0), false, false, false},
		{"after end", date(16, 0), true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.past, IsPast(w, tt.now))
			assert.Equal(t, tt.current, IsCurrent(w, tt.now))
			assert.Equal(t, tt.upcoming, IsUpcomingSoon(w, tt.now))
		})
	}
}

func TestUntil(t *testing.T) {
	now := date(12, 0)

	tests := []struct {
		name  string
		start time.Time
		want  string
	}{
		{"already started", date(11, 0), "now"},
		{"under a minute", now.Add(30 * time.Second), "in under a minute"},
		{"one minute", now.Add(time.Minute), "in 1 minute"},
		{"many minutes", now.Add(45 * time.Minute), "in 45 minutes"},
		{"one hour", now.Add(time.Hour), "in 1 hour"},
		{"many hours", now.Add(5 * time.Hour), "in 5 hours"},
		{"one day", now.Add(26 * time.Hour), "in 1 day"},
		{"many days", now.Add(96 * time.Hour), "in 4 days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Until(tt.start, now))
		})
	}
}
